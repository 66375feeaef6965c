package service

import (
	"fmt"
	"log"
	"time"
)

// Tracking event types emitted by the delivery pipeline
const (
	EventSent      = "sent"
	EventDelivered = "delivered"
	EventOpened    = "opened"
	EventClicked   = "clicked"
	EventBounced   = "bounced"
)

// MessageEvent is one delivery/tracking notification for a message.
type MessageEvent struct {
	WorkspaceID int       `json:"workspace_id"`
	MessageID   int       `json:"message_id"`
	Type        string    `json:"type"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// TrackingRepository defines the methods the worker needs
type TrackingRepository interface {
	MarkSent(workspaceID, id int, at time.Time) error
	MarkDelivered(workspaceID, id int, at time.Time) error
	MarkOpened(workspaceID, id int, at time.Time) error
	MarkClicked(workspaceID, id int, at time.Time) error
	MarkBounced(workspaceID, id int, at time.Time) error
}

// ApplyMessageEvent writes one tracking event onto its message row.
func ApplyMessageEvent(repo TrackingRepository, ev MessageEvent) error {
	at := ev.OccurredAt
	if at.IsZero() {
		at = time.Now()
	}

	switch ev.Type {
	case EventSent:
		return repo.MarkSent(ev.WorkspaceID, ev.MessageID, at)
	case EventDelivered:
		return repo.MarkDelivered(ev.WorkspaceID, ev.MessageID, at)
	case EventOpened:
		return repo.MarkOpened(ev.WorkspaceID, ev.MessageID, at)
	case EventClicked:
		return repo.MarkClicked(ev.WorkspaceID, ev.MessageID, at)
	case EventBounced:
		return repo.MarkBounced(ev.WorkspaceID, ev.MessageID, at)
	}
	return fmt.Errorf("unknown message event type: %s", ev.Type)
}

// Worker drains tracking events from a channel
type Worker struct {
	MessageRepo TrackingRepository
	Events      <-chan MessageEvent
}

// Constructor
func NewWorker(repo TrackingRepository, events <-chan MessageEvent) *Worker {
	return &Worker{
		MessageRepo: repo,
		Events:      events,
	}
}

// Start begins applying events
func (w *Worker) Start() {
	for ev := range w.Events {
		if err := ApplyMessageEvent(w.MessageRepo, ev); err != nil {
			log.Println("Failed to apply message event:", err)
		}
	}
}
