package queue

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/muthomi/sendhub-backend/internal/service"
)

// Queue interface
type Queue interface {
	Publish(topic string, payload any) error
	Subscribe(topic string, handler func(payload any) error) error
}

// InMemoryQueue is an in-process queue with retry, used for single-binary
// deployments and tests. Production runs consume the same events from
// RabbitMQ via cmd/worker.
type InMemoryQueue struct {
	mu       sync.Mutex
	handlers map[string][]func(payload any) error
}

// NewInMemoryQueue creates a new queue
func NewInMemoryQueue() *InMemoryQueue {
	return &InMemoryQueue{
		handlers: make(map[string][]func(payload any) error),
	}
}

// JobPayload wraps a message payload with retry info
type JobPayload struct {
	Payload    any
	RetryCount int
	MaxRetries int
}

// Publish sends a message to all subscribers
func (q *InMemoryQueue) Publish(topic string, payload any) error {
	q.mu.Lock()
	handlers := q.handlers[topic]
	q.mu.Unlock()

	if len(handlers) == 0 {
		return fmt.Errorf("no subscribers for topic %s", topic)
	}

	job := JobPayload{
		Payload:    payload,
		RetryCount: 0,
		MaxRetries: 3,
	}

	for _, handler := range handlers {
		go q.processJob(handler, job)
	}

	return nil
}

// processJob handles retries and errors
func (q *InMemoryQueue) processJob(handler func(payload any) error, job JobPayload) {
	for job.RetryCount <= job.MaxRetries {
		err := handler(job.Payload)
		if err == nil {
			return // ACK
		}

		job.RetryCount++
		log.Printf("Job failed (attempt %d/%d): %+v, error: %v\n", job.RetryCount, job.MaxRetries, job.Payload, err)

		if job.RetryCount > job.MaxRetries {
			log.Printf("Job permanently failed after %d attempts: %+v\n", job.MaxRetries, job.Payload)
			return // No requeue
		}

		// Exponential backoff before retry
		time.Sleep(time.Duration(job.RetryCount*500) * time.Millisecond)
	}
}

// Subscribe adds a handler for a topic
func (q *InMemoryQueue) Subscribe(topic string, handler func(payload any) error) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.handlers[topic] = append(q.handlers[topic], handler)
	return nil
}

// MessageEventsTopic carries delivery/tracking notifications
const MessageEventsTopic = "message_events"

// StartMessageEventSubscriber applies tracking events published in-process
// (e.g. by the webhook endpoint) onto message rows.
func StartMessageEventSubscriber(q Queue, messageRepo service.TrackingRepository) {
	err := q.Subscribe(MessageEventsTopic, func(payload any) error {
		ev, ok := payload.(service.MessageEvent)
		if !ok {
			log.Println("⚠️ Invalid payload type, expected service.MessageEvent")
			return nil // no retry for garbage
		}

		if err := service.ApplyMessageEvent(messageRepo, ev); err != nil {
			log.Println("⚠️ Failed to apply message event:", err)
			return err // triggers retry in queue
		}
		return nil
	})

	if err != nil {
		log.Println("⚠️ Failed to start subscriber for message_events:", err)
	}
}
