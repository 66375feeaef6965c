// internal/service/campaign_service.go
package service

import (
    "log"
    "time"

    appErrors "github.com/muthomi/sendhub-backend/internal/errors"
    "github.com/muthomi/sendhub-backend/internal/model"
    "github.com/muthomi/sendhub-backend/internal/repository"
)

// CampaignService owns the campaign lifecycle: creation, listing, dispatch
// and cancellation.
type CampaignService struct {
    CampaignRepo   repository.CampaignRepositoryInterface
    MessageRepo    repository.MessageRepositoryInterface
    SubscriberRepo repository.SubscriberRepositoryInterface
}

// Result struct for QueueCampaign
type QueueCampaignResult struct {
    CampaignID      int
    MessagesCreated int
    Status          model.CampaignStatus
    MessageIDs      []int
}

func (s *CampaignService) CreateCampaign(workspaceID int, name, content string, emailServiceID int, saveAsDraft bool, scheduledAt *string) (*model.Campaign, error) {
    c := &model.Campaign{
        WorkspaceID:    workspaceID,
        EmailServiceID: emailServiceID,
        Name:           name,
        Content:        content,
        SaveAsDraft:    saveAsDraft,
        Status:         model.StatusDraft,
    }

    if scheduledAt != nil {
        t, err := time.Parse(time.RFC3339, *scheduledAt)
        if err != nil {
            return nil, err
        }
        c.ScheduledAt = &t
    }

    if err := s.CampaignRepo.Create(c); err != nil {
        return nil, err
    }

    return c, nil
}

// ListCampaigns fetches a workspace's campaigns with pagination
func (s *CampaignService) ListCampaigns(workspaceID, page, pageSize int, status model.CampaignStatus) ([]model.Campaign, map[string]int, error) {
    if page < 1 {
        page = 1
    }
    if pageSize < 1 {
        pageSize = 20
    }
    if pageSize > 100 {
        pageSize = 100
    }
    offset := (page - 1) * pageSize

    ptrs, total, err := s.CampaignRepo.ListCampaigns(workspaceID, offset, pageSize, status)
    if err != nil {
        return nil, nil, err
    }

    campaigns := make([]model.Campaign, len(ptrs))
    for i, c := range ptrs {
        campaigns[i] = *c
    }

    totalPages := (total + pageSize - 1) / pageSize
    pagination := map[string]int{
        "page":        page,
        "page_size":   pageSize,
        "total_count": total,
        "total_pages": totalPages,
    }

    return campaigns, pagination, nil
}

// GetCampaign fetches a campaign by ID within the workspace
func (s *CampaignService) GetCampaign(workspaceID, id int) (*model.Campaign, error) {
    return s.CampaignRepo.GetByID(workspaceID, id)
}

// QueueCampaign creates one pending message per subscriber and moves the
// campaign into sending. Actual delivery belongs to the external pipeline;
// the rows stay pending (sent_at NULL) until tracking events arrive.
func (s *CampaignService) QueueCampaign(workspaceID, campaignID int) (*QueueCampaignResult, error) {
    campaign, err := s.CampaignRepo.GetByID(workspaceID, campaignID)
    if err != nil {
        return nil, err
    }

    if !campaign.CanBeQueued() {
        return nil, appErrors.NewInvalidTransition(campaignID, string(campaign.Status), string(model.StatusSending))
    }

    subscribers, err := s.SubscriberRepo.ListByWorkspace(workspaceID)
    if err != nil {
        return nil, err
    }

    result := &QueueCampaignResult{
        CampaignID: campaignID,
        Status:     model.StatusSending,
        MessageIDs: []int{},
    }

    for _, sub := range subscribers {
        msg := &model.Message{
            WorkspaceID:  workspaceID,
            SourceKind:   model.SourceCampaign,
            SourceID:     campaignID,
            SubscriberID: sub.ID,
        }
        if err := s.MessageRepo.Create(msg); err != nil {
            log.Println("⚠️ failed to create message for subscriber", sub.ID, ":", err)
            continue
        }
        result.MessageIDs = append(result.MessageIDs, msg.ID)
        result.MessagesCreated++
    }

    if err := s.CampaignRepo.UpdateStatus(workspaceID, campaignID, model.StatusSending); err != nil {
        return result, err
    }

    return result, nil
}

// CancelCampaign moves the campaign to cancelled and purges its unsent
// messages. Cancelling an already-cancelled campaign is an idempotent no-op
// success: the first cancellation already removed everything pending. Sent
// messages are always left alone, whatever save_as_draft says.
func (s *CampaignService) CancelCampaign(workspaceID, campaignID int) (bool, error) {
    campaign, err := s.CampaignRepo.GetByID(workspaceID, campaignID)
    if err != nil {
        return false, err
    }

    if !campaign.CanBeCancelled() {
        return true, nil
    }

    ok, err := s.CampaignRepo.Cancel(workspaceID, campaignID)
    if err != nil {
        return false, err
    }
    if !ok {
        // another caller cancelled between the status check and the update;
        // re-fetch so the race still reports idempotent success
        fresh, err := s.CampaignRepo.GetByID(workspaceID, campaignID)
        if err != nil {
            return false, err
        }
        return fresh.Status == model.StatusCancelled, nil
    }

    return true, nil
}
