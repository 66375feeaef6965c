// internal/errors/errors.go
package appErrors

import "fmt"

// ErrCampaignNotFound is a sentinel error. It also covers campaigns that
// exist but belong to a different workspace than the caller's.
type ErrCampaignNotFound struct {
    WorkspaceID int
    CampaignID  int
}

func (e *ErrCampaignNotFound) Error() string {
    return fmt.Sprintf("campaign with ID %d not found in workspace %d", e.CampaignID, e.WorkspaceID)
}

// Helper constructor
func NewCampaignNotFound(workspaceID, campaignID int) error {
    return &ErrCampaignNotFound{WorkspaceID: workspaceID, CampaignID: campaignID}
}

// ErrInvalidTransition signals a status change the campaign lifecycle does
// not permit, e.g. queueing a campaign that is already sending.
type ErrInvalidTransition struct {
    CampaignID int
    From       string
    To         string
}

func (e *ErrInvalidTransition) Error() string {
    return fmt.Sprintf("campaign %d cannot move from %s to %s", e.CampaignID, e.From, e.To)
}

func NewInvalidTransition(campaignID int, from, to string) error {
    return &ErrInvalidTransition{CampaignID: campaignID, From: from, To: to}
}
