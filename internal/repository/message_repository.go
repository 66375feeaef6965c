package repository

import (
    "database/sql"
    "time"

    "github.com/lib/pq"

    "github.com/muthomi/sendhub-backend/internal/model"
)

type MessageRepositoryInterface interface {
    Create(msg *model.Message) error
    GetByID(workspaceID, id int) (*model.Message, error)

    // Aggregations for the stats service. The ok return is false when no
    // message qualifies (no opens / no clicks yet).
    AvgSecondsToOpen(workspaceID, campaignID int) (float64, bool, error)
    AvgSecondsToClick(workspaceID, campaignID int) (float64, bool, error)
    CountsBySource(workspaceID int, campaignIDs []int) (map[int]model.MessageCounts, error)

    // Tracking updates applied by the event worker
    MarkSent(workspaceID, id int, at time.Time) error
    MarkDelivered(workspaceID, id int, at time.Time) error
    MarkOpened(workspaceID, id int, at time.Time) error
    MarkClicked(workspaceID, id int, at time.Time) error
    MarkBounced(workspaceID, id int, at time.Time) error
}

type MessageRepository struct {
    DB *sql.DB
}

func (r *MessageRepository) Create(msg *model.Message) error {
    now := time.Now()
    msg.CreatedAt = now
    msg.UpdatedAt = now
    if msg.SourceKind == "" {
        msg.SourceKind = model.SourceCampaign
    }

    query := `
        INSERT INTO messages
        (workspace_id, source_kind, source_id, subscriber_id, sent_at, delivered_at, opened_at, clicked_at, bounced_at, open_count, click_count, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
        RETURNING id
    `
    return r.DB.QueryRow(
        query,
        msg.WorkspaceID,
        msg.SourceKind,
        msg.SourceID,
        msg.SubscriberID,
        msg.SentAt,
        msg.DeliveredAt,
        msg.OpenedAt,
        msg.ClickedAt,
        msg.BouncedAt,
        msg.OpenCount,
        msg.ClickCount,
        msg.CreatedAt,
        msg.UpdatedAt,
    ).Scan(&msg.ID)
}

func (r *MessageRepository) GetByID(workspaceID, id int) (*model.Message, error) {
    query := `
        SELECT id, workspace_id, source_kind, source_id, subscriber_id, sent_at, delivered_at, opened_at, clicked_at, bounced_at, open_count, click_count, created_at, updated_at
        FROM messages
        WHERE id=$1 AND workspace_id=$2
    `
    var msg model.Message
    err := r.DB.QueryRow(query, id, workspaceID).Scan(
        &msg.ID, &msg.WorkspaceID, &msg.SourceKind, &msg.SourceID, &msg.SubscriberID,
        &msg.SentAt, &msg.DeliveredAt, &msg.OpenedAt, &msg.ClickedAt, &msg.BouncedAt,
        &msg.OpenCount, &msg.ClickCount, &msg.CreatedAt, &msg.UpdatedAt,
    )
    if err != nil {
        if err == sql.ErrNoRows {
            return nil, nil
        }
        return nil, err
    }
    return &msg, nil
}

// ====================== Aggregations ======================

// AvgSecondsToOpen averages opened_at - delivered_at over the campaign's
// opened messages. One grouped scan in the database, nothing iterated here.
func (r *MessageRepository) AvgSecondsToOpen(workspaceID, campaignID int) (float64, bool, error) {
    return r.avgSeconds(workspaceID, campaignID, `
        SELECT AVG(EXTRACT(EPOCH FROM (opened_at - delivered_at)))
        FROM messages
        WHERE workspace_id=$1 AND source_kind=$2 AND source_id=$3
          AND opened_at IS NOT NULL AND delivered_at IS NOT NULL
    `)
}

func (r *MessageRepository) AvgSecondsToClick(workspaceID, campaignID int) (float64, bool, error) {
    return r.avgSeconds(workspaceID, campaignID, `
        SELECT AVG(EXTRACT(EPOCH FROM (clicked_at - delivered_at)))
        FROM messages
        WHERE workspace_id=$1 AND source_kind=$2 AND source_id=$3
          AND clicked_at IS NOT NULL AND delivered_at IS NOT NULL
    `)
}

func (r *MessageRepository) avgSeconds(workspaceID, campaignID int, query string) (float64, bool, error) {
    var avg sql.NullFloat64
    err := r.DB.QueryRow(query, workspaceID, model.SourceCampaign, campaignID).Scan(&avg)
    if err != nil {
        return 0, false, err
    }
    if !avg.Valid {
        return 0, false, nil
    }
    return avg.Float64, true, nil
}

// CountsBySource returns one row per campaign that has messages; campaigns
// with no messages are simply absent and the caller zero-fills them.
func (r *MessageRepository) CountsBySource(workspaceID int, campaignIDs []int) (map[int]model.MessageCounts, error) {
    query := `
        SELECT source_id,
               COUNT(*) FILTER (WHERE open_count > 0),
               COUNT(*) FILTER (WHERE click_count > 0),
               COUNT(*) FILTER (WHERE sent_at IS NOT NULL),
               COUNT(*) FILTER (WHERE bounced_at IS NOT NULL),
               COUNT(*) FILTER (WHERE sent_at IS NULL)
        FROM messages
        WHERE workspace_id=$1 AND source_kind=$2 AND source_id = ANY($3)
        GROUP BY source_id
    `
    rows, err := r.DB.Query(query, workspaceID, model.SourceCampaign, pq.Array(campaignIDs))
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    counts := map[int]model.MessageCounts{}
    for rows.Next() {
        var c model.MessageCounts
        if err := rows.Scan(&c.CampaignID, &c.Opened, &c.Clicked, &c.Sent, &c.Bounced, &c.Pending); err != nil {
            return nil, err
        }
        counts[c.CampaignID] = c
    }
    return counts, rows.Err()
}

// ====================== Tracking updates ======================

// Timestamps are written once (first event wins) while the counters keep
// accumulating, so open_count > 0 always implies opened_at is set.

func (r *MessageRepository) MarkSent(workspaceID, id int, at time.Time) error {
    return r.mark(workspaceID, id,
        `UPDATE messages SET sent_at=COALESCE(sent_at, $1), updated_at=NOW() WHERE id=$2 AND workspace_id=$3`, at)
}

func (r *MessageRepository) MarkDelivered(workspaceID, id int, at time.Time) error {
    return r.mark(workspaceID, id,
        `UPDATE messages SET delivered_at=COALESCE(delivered_at, $1), updated_at=NOW() WHERE id=$2 AND workspace_id=$3`, at)
}

func (r *MessageRepository) MarkOpened(workspaceID, id int, at time.Time) error {
    return r.mark(workspaceID, id,
        `UPDATE messages SET opened_at=COALESCE(opened_at, $1), open_count=open_count+1, updated_at=NOW() WHERE id=$2 AND workspace_id=$3`, at)
}

func (r *MessageRepository) MarkClicked(workspaceID, id int, at time.Time) error {
    return r.mark(workspaceID, id,
        `UPDATE messages SET clicked_at=COALESCE(clicked_at, $1), click_count=click_count+1, updated_at=NOW() WHERE id=$2 AND workspace_id=$3`, at)
}

func (r *MessageRepository) MarkBounced(workspaceID, id int, at time.Time) error {
    return r.mark(workspaceID, id,
        `UPDATE messages SET bounced_at=COALESCE(bounced_at, $1), updated_at=NOW() WHERE id=$2 AND workspace_id=$3`, at)
}

func (r *MessageRepository) mark(workspaceID, id int, query string, at time.Time) error {
    _, err := r.DB.Exec(query, at, id, workspaceID)
    return err
}

var _ MessageRepositoryInterface = (*MessageRepository)(nil)
