package repository

import (
    "database/sql"
    "fmt"
    "time"

    appErrors "github.com/muthomi/sendhub-backend/internal/errors"
    "github.com/muthomi/sendhub-backend/internal/model"
)

type CampaignRepositoryInterface interface {
    // Campaign CRUD, always workspace scoped
    Create(c *model.Campaign) error
    GetByID(workspaceID, id int) (*model.Campaign, error)
    ListCampaigns(workspaceID, offset, limit int, status model.CampaignStatus) ([]*model.Campaign, int, error)
    UpdateStatus(workspaceID, campaignID int, status model.CampaignStatus) error

    // Cancel flips the status to cancelled and purges unsent messages in a
    // single transaction. Returns false when the campaign was not in a
    // cancellable state (or does not exist in this workspace).
    Cancel(workspaceID, campaignID int) (bool, error)
}

type CampaignRepository struct {
    DB *sql.DB
}

// ====================== Campaign CRUD ======================

func (r *CampaignRepository) Create(c *model.Campaign) error {
    c.CreatedAt = time.Now()
    if c.Status == "" {
        c.Status = model.StatusDraft
    }
    query := `
        INSERT INTO campaigns (workspace_id, email_service_id, name, status, content, save_as_draft, scheduled_at, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id
    `
    return r.DB.QueryRow(query, c.WorkspaceID, c.EmailServiceID, c.Name, c.Status, c.Content, c.SaveAsDraft, c.ScheduledAt, c.CreatedAt).Scan(&c.ID)
}

func (r *CampaignRepository) GetByID(workspaceID, id int) (*model.Campaign, error) {
    query := `
        SELECT id, workspace_id, email_service_id, name, status, content, save_as_draft, scheduled_at, created_at, updated_at
        FROM campaigns WHERE id=$1 AND workspace_id=$2
    `
    var c model.Campaign
    err := r.DB.QueryRow(query, id, workspaceID).Scan(
        &c.ID, &c.WorkspaceID, &c.EmailServiceID, &c.Name, &c.Status,
        &c.Content, &c.SaveAsDraft, &c.ScheduledAt, &c.CreatedAt, &c.UpdatedAt,
    )
    if err != nil {
        if err == sql.ErrNoRows {
            return nil, appErrors.NewCampaignNotFound(workspaceID, id)
        }
        return nil, err
    }
    return &c, nil
}

func (r *CampaignRepository) UpdateStatus(workspaceID, campaignID int, status model.CampaignStatus) error {
    query := `UPDATE campaigns SET status=$1, updated_at=$2 WHERE id=$3 AND workspace_id=$4`
    res, err := r.DB.Exec(query, status, time.Now(), campaignID, workspaceID)
    if err != nil {
        return err
    }
    affected, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if affected == 0 {
        return appErrors.NewCampaignNotFound(workspaceID, campaignID)
    }
    return nil
}

func (r *CampaignRepository) ListCampaigns(workspaceID, offset, limit int, status model.CampaignStatus) ([]*model.Campaign, int, error) {
    campaigns := []*model.Campaign{}
    query := `
        SELECT id, workspace_id, email_service_id, name, status, content, save_as_draft, scheduled_at, created_at, updated_at
        FROM campaigns WHERE workspace_id=$1`
    args := []interface{}{workspaceID}
    argPos := 2

    if status != "" {
        query += fmt.Sprintf(" AND status=$%d", argPos)
        args = append(args, status)
        argPos++
    }

    query += fmt.Sprintf(" ORDER BY id DESC LIMIT $%d OFFSET $%d", argPos, argPos+1)
    args = append(args, limit, offset)

    rows, err := r.DB.Query(query, args...)
    if err != nil {
        return nil, 0, err
    }
    defer rows.Close()

    for rows.Next() {
        c := &model.Campaign{}
        if err := rows.Scan(
            &c.ID, &c.WorkspaceID, &c.EmailServiceID, &c.Name, &c.Status,
            &c.Content, &c.SaveAsDraft, &c.ScheduledAt, &c.CreatedAt, &c.UpdatedAt,
        ); err != nil {
            return nil, 0, err
        }
        campaigns = append(campaigns, c)
    }

    // Count total
    countQuery := `SELECT COUNT(*) FROM campaigns WHERE workspace_id=$1`
    argsCount := []interface{}{workspaceID}
    if status != "" {
        countQuery += " AND status=$2"
        argsCount = append(argsCount, status)
    }

    var total int
    if err := r.DB.QueryRow(countQuery, argsCount...).Scan(&total); err != nil {
        return nil, 0, err
    }

    return campaigns, total, nil
}

// ====================== Cancellation ======================

// Cancel runs the status update and the pending-message delete inside one
// transaction. The delete predicate (sent_at IS NULL) is evaluated by the
// database under the transaction's isolation, so a message the delivery
// pipeline marks sent concurrently is not destroyed. Delivery history is
// never touched: only unsent rows are removed, whatever save_as_draft says.
func (r *CampaignRepository) Cancel(workspaceID, campaignID int) (bool, error) {
    tx, err := r.DB.Begin()
    if err != nil {
        return false, err
    }

    res, err := tx.Exec(
        `UPDATE campaigns SET status=$1, updated_at=NOW() WHERE id=$2 AND workspace_id=$3 AND status <> $1`,
        model.StatusCancelled, campaignID, workspaceID,
    )
    if err != nil {
        tx.Rollback()
        return false, err
    }
    affected, err := res.RowsAffected()
    if err != nil {
        tx.Rollback()
        return false, err
    }
    if affected == 0 {
        // nothing to cancel: missing, cross-tenant or already cancelled
        tx.Rollback()
        return false, nil
    }

    _, err = tx.Exec(
        `DELETE FROM messages WHERE workspace_id=$1 AND source_kind=$2 AND source_id=$3 AND sent_at IS NULL`,
        workspaceID, model.SourceCampaign, campaignID,
    )
    if err != nil {
        tx.Rollback()
        return false, err
    }

    if err := tx.Commit(); err != nil {
        return false, err
    }
    return true, nil
}

var _ CampaignRepositoryInterface = (*CampaignRepository)(nil)
