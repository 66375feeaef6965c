package controller_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/muthomi/sendhub-backend/internal/controller"
	appErrors "github.com/muthomi/sendhub-backend/internal/errors"
	"github.com/muthomi/sendhub-backend/internal/model"
	"github.com/muthomi/sendhub-backend/internal/queue"
	"github.com/muthomi/sendhub-backend/internal/service"
)

// --- Mock repositories ---

type MockMessageRepo struct{}

func (m *MockMessageRepo) Create(msg *model.Message) error { return nil }
func (m *MockMessageRepo) GetByID(workspaceID, id int) (*model.Message, error) {
	return nil, nil
}
func (m *MockMessageRepo) AvgSecondsToOpen(workspaceID, campaignID int) (float64, bool, error) {
	return 45, true, nil
}
func (m *MockMessageRepo) AvgSecondsToClick(workspaceID, campaignID int) (float64, bool, error) {
	return 0, false, nil
}
func (m *MockMessageRepo) CountsBySource(workspaceID int, campaignIDs []int) (map[int]model.MessageCounts, error) {
	counts := map[int]model.MessageCounts{}
	for _, id := range campaignIDs {
		counts[id] = model.MessageCounts{CampaignID: id, Opened: 1, Clicked: 3, Sent: 10, Bounced: 4, Pending: 5}
	}
	return counts, nil
}
func (m *MockMessageRepo) MarkSent(workspaceID, id int, at time.Time) error      { return nil }
func (m *MockMessageRepo) MarkDelivered(workspaceID, id int, at time.Time) error { return nil }
func (m *MockMessageRepo) MarkOpened(workspaceID, id int, at time.Time) error    { return nil }
func (m *MockMessageRepo) MarkClicked(workspaceID, id int, at time.Time) error   { return nil }
func (m *MockMessageRepo) MarkBounced(workspaceID, id int, at time.Time) error   { return nil }

type MockCampaignRepo struct{}

func (m *MockCampaignRepo) Create(c *model.Campaign) error { return nil }
func (m *MockCampaignRepo) GetByID(workspaceID, id int) (*model.Campaign, error) {
	if workspaceID != 1 {
		return nil, appErrors.NewCampaignNotFound(workspaceID, id)
	}
	return &model.Campaign{ID: id, WorkspaceID: workspaceID, Name: "Mock", Status: model.StatusQueued}, nil
}
func (m *MockCampaignRepo) ListCampaigns(workspaceID, offset, limit int, status model.CampaignStatus) ([]*model.Campaign, int, error) {
	return []*model.Campaign{}, 0, nil
}
func (m *MockCampaignRepo) UpdateStatus(workspaceID, campaignID int, status model.CampaignStatus) error {
	return nil
}
func (m *MockCampaignRepo) Cancel(workspaceID, campaignID int) (bool, error) { return true, nil }

func newTestRouter(q queue.Queue) *chi.Mux {
	campaignService := &service.CampaignService{
		CampaignRepo: &MockCampaignRepo{},
		MessageRepo:  &MockMessageRepo{},
	}
	statsService := &service.StatsService{MessageRepo: &MockMessageRepo{}}

	ctrl := &controller.CampaignController{
		CampaignService: campaignService,
		StatsService:    statsService,
		Queue:           q,
	}

	r := chi.NewRouter()
	r.Route("/workspaces/{workspaceID}", func(r chi.Router) {
		r.Get("/campaigns/counts", ctrl.GetCounts)
		r.Get("/campaigns/{id}/stats", ctrl.GetCampaignStats)
		r.Post("/campaigns/{id}/cancel", ctrl.CancelCampaign)
		r.Post("/message-events", ctrl.IngestMessageEvent)
	})
	return r
}

// --- Tests ---

func TestGetCampaignStatsEndpoint(t *testing.T) {
	r := newTestRouter(queue.NewInMemoryQueue())

	req := httptest.NewRequest("GET", "/workspaces/1/campaigns/10/stats", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var res struct {
		CampaignID         int                 `json:"campaign_id"`
		AverageTimeToOpen  string              `json:"average_time_to_open"`
		AverageTimeToClick string              `json:"average_time_to_click"`
		Counts             model.MessageCounts `json:"counts"`
	}
	if err := json.NewDecoder(w.Body).Decode(&res); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if res.AverageTimeToOpen != "00:00:45" {
		t.Errorf("expected 00:00:45, got %q", res.AverageTimeToOpen)
	}
	if res.AverageTimeToClick != "N/A" {
		t.Errorf("expected N/A, got %q", res.AverageTimeToClick)
	}
	if res.Counts.Sent != 10 {
		t.Errorf("expected sent 10, got %d", res.Counts.Sent)
	}
}

func TestCancelCampaignEndpoint(t *testing.T) {
	r := newTestRouter(queue.NewInMemoryQueue())

	req := httptest.NewRequest("POST", "/workspaces/1/campaigns/10/cancel", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var res map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&res); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if res["cancelled"] != true {
		t.Errorf("expected cancelled true, got %v", res["cancelled"])
	}
}

func TestCancelCampaignWrongWorkspace(t *testing.T) {
	r := newTestRouter(queue.NewInMemoryQueue())

	req := httptest.NewRequest("POST", "/workspaces/2/campaigns/10/cancel", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

// recordingTrackingRepo signals when an event lands
type recordingTrackingRepo struct {
	opened chan int
}

func (r *recordingTrackingRepo) MarkSent(workspaceID, id int, at time.Time) error      { return nil }
func (r *recordingTrackingRepo) MarkDelivered(workspaceID, id int, at time.Time) error { return nil }
func (r *recordingTrackingRepo) MarkOpened(workspaceID, id int, at time.Time) error {
	r.opened <- id
	return nil
}
func (r *recordingTrackingRepo) MarkClicked(workspaceID, id int, at time.Time) error { return nil }
func (r *recordingTrackingRepo) MarkBounced(workspaceID, id int, at time.Time) error { return nil }

func TestIngestMessageEventReachesSubscriber(t *testing.T) {
	q := queue.NewInMemoryQueue()
	tracking := &recordingTrackingRepo{opened: make(chan int, 1)}
	queue.StartMessageEventSubscriber(q, tracking)

	r := newTestRouter(q)

	body, _ := json.Marshal(service.MessageEvent{MessageID: 7, Type: service.EventOpened, OccurredAt: time.Now()})
	req := httptest.NewRequest("POST", "/workspaces/1/message-events", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", w.Code)
	}

	select {
	case id := <-tracking.opened:
		if id != 7 {
			t.Errorf("expected message 7, got %d", id)
		}
	case <-time.After(time.Second):
		t.Fatal("event never reached the subscriber")
	}
}
