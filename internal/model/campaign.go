// internal/model/campaign.go
package model

import "time"

type CampaignStatus string

const (
    StatusDraft     CampaignStatus = "draft"
    StatusQueued    CampaignStatus = "queued"
    StatusSending   CampaignStatus = "sending"
    StatusSent      CampaignStatus = "sent"
    StatusCancelled CampaignStatus = "cancelled"
)

type Campaign struct {
    ID             int            `db:"id" json:"id"`
    WorkspaceID    int            `db:"workspace_id" json:"workspace_id"`
    EmailServiceID int            `db:"email_service_id" json:"email_service_id"`
    Name           string         `db:"name" json:"name"`
    Status         CampaignStatus `db:"status" json:"status"`
    Content        string         `db:"content" json:"content"`
    SaveAsDraft    bool           `db:"save_as_draft" json:"save_as_draft"`
    ScheduledAt    *time.Time     `db:"scheduled_at" json:"scheduled_at,omitempty"`
    CreatedAt      time.Time      `db:"created_at" json:"created_at"`
    UpdatedAt      *time.Time     `db:"updated_at" json:"updated_at,omitempty"`
}

// CanBeCancelled reports whether cancellation is still meaningful.
// Cancelled is the only status we refuse to transition out of.
func (c *Campaign) CanBeCancelled() bool {
    return c.Status != StatusCancelled
}

// CanBeQueued reports whether the campaign can still be dispatched.
func (c *Campaign) CanBeQueued() bool {
    return c.Status == StatusDraft || c.Status == StatusQueued
}
