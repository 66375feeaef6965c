// internal/service/stats_service.go
package service

import (
    "fmt"
    "math"

    "github.com/muthomi/sendhub-backend/internal/model"
    "github.com/muthomi/sendhub-backend/internal/repository"
)

// NotAvailable is returned when a campaign has no opens or clicks yet.
const NotAvailable = "N/A"

// StatsService computes read-only campaign metrics from the message log.
// Results are eventually consistent snapshots: the delivery pipeline keeps
// writing opens and clicks while we read, and that is fine.
type StatsService struct {
    MessageRepo repository.MessageRepositoryInterface
}

// GetAverageTimeToOpen returns the mean delivered->first-open latency of the
// campaign's messages as HH:MM:SS, or "N/A" when nothing was opened yet.
func (s *StatsService) GetAverageTimeToOpen(workspaceID, campaignID int) (string, error) {
    avg, ok, err := s.MessageRepo.AvgSecondsToOpen(workspaceID, campaignID)
    if err != nil {
        return "", err
    }
    if !ok {
        return NotAvailable, nil
    }
    return formatClock(int64(math.Round(avg))), nil
}

// GetAverageTimeToClick is the same metric over delivered->first-click.
func (s *StatsService) GetAverageTimeToClick(workspaceID, campaignID int) (string, error) {
    avg, ok, err := s.MessageRepo.AvgSecondsToClick(workspaceID, campaignID)
    if err != nil {
        return "", err
    }
    if !ok {
        return NotAvailable, nil
    }
    return formatClock(int64(math.Round(avg))), nil
}

// GetCounts returns one entry per requested campaign id, zero-filled when a
// campaign has no messages. Messages from other workspaces never contribute,
// even if campaign ids collide across tenants.
func (s *StatsService) GetCounts(workspaceID int, campaignIDs []int) (map[int]model.MessageCounts, error) {
    counts := make(map[int]model.MessageCounts, len(campaignIDs))
    if len(campaignIDs) == 0 {
        return counts, nil
    }

    found, err := s.MessageRepo.CountsBySource(workspaceID, campaignIDs)
    if err != nil {
        return nil, err
    }

    for _, id := range campaignIDs {
        if c, ok := found[id]; ok {
            counts[id] = c
        } else {
            counts[id] = model.MessageCounts{CampaignID: id}
        }
    }
    return counts, nil
}

// formatClock renders a second count as HH:MM:SS. The hour field keeps
// growing past 24 instead of wrapping into days.
func formatClock(totalSeconds int64) string {
    if totalSeconds < 0 {
        totalSeconds = 0
    }
    hours := totalSeconds / 3600
    minutes := (totalSeconds % 3600) / 60
    seconds := totalSeconds % 60
    return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}
