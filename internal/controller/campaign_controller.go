// internal/controller/campaign_controller.go
package controller

import (
    "encoding/json"
    "errors"
    "net/http"
    "strconv"
    "strings"

    appErrors "github.com/muthomi/sendhub-backend/internal/errors"
    "github.com/muthomi/sendhub-backend/internal/model"
    "github.com/muthomi/sendhub-backend/internal/queue"
    "github.com/muthomi/sendhub-backend/internal/service"

    "github.com/go-chi/chi/v5"
)

type CampaignController struct {
    CampaignService *service.CampaignService
    StatsService    *service.StatsService
    Queue           queue.Queue
}

func writeServiceError(w http.ResponseWriter, err error) {
    var notFound *appErrors.ErrCampaignNotFound
    if errors.As(err, &notFound) {
        http.Error(w, err.Error(), http.StatusNotFound)
        return
    }
    var invalid *appErrors.ErrInvalidTransition
    if errors.As(err, &invalid) {
        http.Error(w, err.Error(), http.StatusConflict)
        return
    }
    http.Error(w, err.Error(), http.StatusInternalServerError)
}

func urlInt(r *http.Request, key string) int {
    v, _ := strconv.Atoi(chi.URLParam(r, key))
    return v
}

func (c *CampaignController) CreateCampaign(w http.ResponseWriter, r *http.Request) {
    workspaceID := urlInt(r, "workspaceID")

    var body struct {
        Name           string  `json:"name"`
        Content        string  `json:"content"`
        EmailServiceID int     `json:"email_service_id"`
        SaveAsDraft    bool    `json:"save_as_draft"`
        ScheduledAt    *string `json:"scheduled_at"`
    }
    if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
        http.Error(w, "invalid body", http.StatusBadRequest)
        return
    }

    campaign, err := c.CampaignService.CreateCampaign(workspaceID, body.Name, body.Content, body.EmailServiceID, body.SaveAsDraft, body.ScheduledAt)
    if err != nil {
        writeServiceError(w, err)
        return
    }

    json.NewEncoder(w).Encode(campaign)
}

func (c *CampaignController) ListCampaigns(w http.ResponseWriter, r *http.Request) {
    workspaceID := urlInt(r, "workspaceID")
    page, _ := strconv.Atoi(r.URL.Query().Get("page"))
    pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
    status := model.CampaignStatus(r.URL.Query().Get("status"))

    campaigns, pagination, err := c.CampaignService.ListCampaigns(workspaceID, page, pageSize, status)
    if err != nil {
        writeServiceError(w, err)
        return
    }

    json.NewEncoder(w).Encode(map[string]interface{}{
        "data":       campaigns,
        "pagination": pagination,
    })
}

func (c *CampaignController) GetCampaign(w http.ResponseWriter, r *http.Request) {
    workspaceID := urlInt(r, "workspaceID")
    id := urlInt(r, "id")

    campaign, err := c.CampaignService.GetCampaign(workspaceID, id)
    if err != nil {
        writeServiceError(w, err)
        return
    }

    json.NewEncoder(w).Encode(campaign)
}

// GetCampaignStats returns the reporting block for one campaign: message
// counts plus the two average latencies.
func (c *CampaignController) GetCampaignStats(w http.ResponseWriter, r *http.Request) {
    workspaceID := urlInt(r, "workspaceID")
    id := urlInt(r, "id")

    if _, err := c.CampaignService.GetCampaign(workspaceID, id); err != nil {
        writeServiceError(w, err)
        return
    }

    avgOpen, err := c.StatsService.GetAverageTimeToOpen(workspaceID, id)
    if err != nil {
        writeServiceError(w, err)
        return
    }
    avgClick, err := c.StatsService.GetAverageTimeToClick(workspaceID, id)
    if err != nil {
        writeServiceError(w, err)
        return
    }
    counts, err := c.StatsService.GetCounts(workspaceID, []int{id})
    if err != nil {
        writeServiceError(w, err)
        return
    }

    json.NewEncoder(w).Encode(map[string]interface{}{
        "campaign_id":           id,
        "average_time_to_open":  avgOpen,
        "average_time_to_click": avgClick,
        "counts":                counts[id],
    })
}

// GetCounts returns message counts for several campaigns in one call,
// e.g. GET /workspaces/1/campaigns/counts?ids=1,2,3
func (c *CampaignController) GetCounts(w http.ResponseWriter, r *http.Request) {
    workspaceID := urlInt(r, "workspaceID")

    ids := []int{}
    for _, raw := range strings.Split(r.URL.Query().Get("ids"), ",") {
        raw = strings.TrimSpace(raw)
        if raw == "" {
            continue
        }
        id, err := strconv.Atoi(raw)
        if err != nil {
            http.Error(w, "invalid campaign id: "+raw, http.StatusBadRequest)
            return
        }
        ids = append(ids, id)
    }

    counts, err := c.StatsService.GetCounts(workspaceID, ids)
    if err != nil {
        writeServiceError(w, err)
        return
    }

    json.NewEncoder(w).Encode(counts)
}

func (c *CampaignController) QueueCampaign(w http.ResponseWriter, r *http.Request) {
    workspaceID := urlInt(r, "workspaceID")
    id := urlInt(r, "id")

    result, err := c.CampaignService.QueueCampaign(workspaceID, id)
    if err != nil {
        writeServiceError(w, err)
        return
    }

    json.NewEncoder(w).Encode(map[string]interface{}{
        "campaign_id":      result.CampaignID,
        "messages_created": result.MessagesCreated,
        "status":           result.Status,
    })
}

func (c *CampaignController) CancelCampaign(w http.ResponseWriter, r *http.Request) {
    workspaceID := urlInt(r, "workspaceID")
    id := urlInt(r, "id")

    cancelled, err := c.CampaignService.CancelCampaign(workspaceID, id)
    if err != nil {
        writeServiceError(w, err)
        return
    }

    json.NewEncoder(w).Encode(map[string]interface{}{
        "campaign_id": id,
        "cancelled":   cancelled,
    })
}

// IngestMessageEvent accepts a tracking webhook and hands it to the
// in-process queue; the subscriber applies it to the message row.
func (c *CampaignController) IngestMessageEvent(w http.ResponseWriter, r *http.Request) {
    workspaceID := urlInt(r, "workspaceID")

    var ev service.MessageEvent
    if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
        http.Error(w, "invalid body", http.StatusBadRequest)
        return
    }
    ev.WorkspaceID = workspaceID

    if err := c.Queue.Publish(queue.MessageEventsTopic, ev); err != nil {
        http.Error(w, "failed to enqueue event", http.StatusInternalServerError)
        return
    }

    w.WriteHeader(http.StatusAccepted)
    json.NewEncoder(w).Encode(map[string]string{"status": "queued"})
}
