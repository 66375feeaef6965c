// internal/model/message.go
package model

import "time"

// SourceKind tags the polymorphic origin of a message. Campaigns are the only
// source today; automations would add a second kind without touching callers.
type SourceKind string

const (
    SourceCampaign SourceKind = "campaign"
)

type Message struct {
    ID           int        `db:"id" json:"id"`
    WorkspaceID  int        `db:"workspace_id" json:"workspace_id"`
    SourceKind   SourceKind `db:"source_kind" json:"source_kind"`
    SourceID     int        `db:"source_id" json:"source_id"`
    SubscriberID int        `db:"subscriber_id" json:"subscriber_id"`
    SentAt       *time.Time `db:"sent_at" json:"sent_at,omitempty"`
    DeliveredAt  *time.Time `db:"delivered_at" json:"delivered_at,omitempty"`
    OpenedAt     *time.Time `db:"opened_at" json:"opened_at,omitempty"`
    ClickedAt    *time.Time `db:"clicked_at" json:"clicked_at,omitempty"`
    BouncedAt    *time.Time `db:"bounced_at" json:"bounced_at,omitempty"`
    OpenCount    int        `db:"open_count" json:"open_count"`
    ClickCount   int        `db:"click_count" json:"click_count"`
    CreatedAt    time.Time  `db:"created_at" json:"created_at"`
    UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// IsPending reports whether the message has not left the queue yet.
func (m *Message) IsPending() bool {
    return m.SentAt == nil
}

// MessageCounts is the per-campaign breakdown returned by the stats service.
// Sent counts every message that left the pending state, bounces included;
// pending is reported separately and never counted as sent.
type MessageCounts struct {
    CampaignID int `json:"campaign_id"`
    Opened     int `json:"opened"`
    Clicked    int `json:"clicked"`
    Sent       int `json:"sent"`
    Bounced    int `json:"bounced"`
    Pending    int `json:"pending"`
}
