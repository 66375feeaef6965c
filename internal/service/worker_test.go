package service_test

import (
	"testing"
	"time"

	"github.com/muthomi/sendhub-backend/internal/service"
)

func TestApplyMessageEventOpened(t *testing.T) {
	repo := &fakeMessageRepo{}
	at := fixtureBase
	createUnopenedMessages(repo, 1, 1, 1)

	ev := service.MessageEvent{WorkspaceID: 1, MessageID: 1, Type: service.EventOpened, OccurredAt: at.Add(30 * time.Second)}
	if err := service.ApplyMessageEvent(repo, ev); err != nil {
		t.Fatal(err)
	}

	msg, _ := repo.GetByID(1, 1)
	if msg.OpenedAt == nil {
		t.Fatal("expected opened_at to be set")
	}
	if msg.OpenCount != 1 {
		t.Errorf("expected open_count 1, got %d", msg.OpenCount)
	}

	// a second open keeps the first timestamp and bumps the counter
	if err := service.ApplyMessageEvent(repo, service.MessageEvent{
		WorkspaceID: 1, MessageID: 1, Type: service.EventOpened, OccurredAt: at.Add(90 * time.Second),
	}); err != nil {
		t.Fatal(err)
	}

	msg, _ = repo.GetByID(1, 1)
	if !msg.OpenedAt.Equal(at.Add(30 * time.Second)) {
		t.Errorf("opened_at must keep the first open, got %v", msg.OpenedAt)
	}
	if msg.OpenCount != 2 {
		t.Errorf("expected open_count 2, got %d", msg.OpenCount)
	}
}

func TestApplyMessageEventUnknownType(t *testing.T) {
	repo := &fakeMessageRepo{}
	err := service.ApplyMessageEvent(repo, service.MessageEvent{WorkspaceID: 1, MessageID: 1, Type: "spam-report"})
	if err == nil {
		t.Fatal("expected error for unknown event type")
	}
}

func TestWorkerDrainsEvents(t *testing.T) {
	repo := &fakeMessageRepo{}
	createPendingMessages(repo, 1, 1, 1)

	events := make(chan service.MessageEvent, 2)
	events <- service.MessageEvent{WorkspaceID: 1, MessageID: 1, Type: service.EventSent, OccurredAt: fixtureBase}
	events <- service.MessageEvent{WorkspaceID: 1, MessageID: 1, Type: service.EventBounced, OccurredAt: fixtureBase.Add(time.Second)}
	close(events)

	worker := service.NewWorker(repo, events)
	worker.Start() // returns once the channel is drained

	msg, _ := repo.GetByID(1, 1)
	if msg.SentAt == nil {
		t.Error("expected sent_at to be set")
	}
	if msg.BouncedAt == nil {
		t.Error("expected bounced_at to be set")
	}
	if msg.IsPending() {
		t.Error("message should no longer be pending")
	}
}
