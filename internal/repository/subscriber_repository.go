package repository

import (
	"database/sql"

	"github.com/muthomi/sendhub-backend/internal/model"
)

// SubscriberRepositoryInterface defines methods used by service
type SubscriberRepositoryInterface interface {
	GetByID(workspaceID, id int) (*model.Subscriber, error)
	ListByWorkspace(workspaceID int) ([]model.Subscriber, error)
}

// SubscriberRepository is the concrete implementation
type SubscriberRepository struct {
	DB *sql.DB
}

// GetByID fetches a subscriber by ID within the workspace
func (r *SubscriberRepository) GetByID(workspaceID, id int) (*model.Subscriber, error) {
	query := `
        SELECT id, workspace_id, email, first_name, last_name
        FROM subscribers
        WHERE id = $1 AND workspace_id = $2
    `
	row := r.DB.QueryRow(query, id, workspaceID)

	var s model.Subscriber
	if err := row.Scan(&s.ID, &s.WorkspaceID, &s.Email, &s.FirstName, &s.LastName); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // not found
		}
		return nil, err
	}
	return &s, nil
}

// ListByWorkspace fetches all subscribers of a workspace (used when dispatching campaigns)
func (r *SubscriberRepository) ListByWorkspace(workspaceID int) ([]model.Subscriber, error) {
	query := `
        SELECT id, workspace_id, email, first_name, last_name
        FROM subscribers
        WHERE workspace_id = $1
    `
	rows, err := r.DB.Query(query, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subscribers := []model.Subscriber{}
	for rows.Next() {
		var s model.Subscriber
		if err := rows.Scan(&s.ID, &s.WorkspaceID, &s.Email, &s.FirstName, &s.LastName); err != nil {
			return nil, err
		}
		subscribers = append(subscribers, s)
	}
	return subscribers, nil
}

var _ SubscriberRepositoryInterface = (*SubscriberRepository)(nil)
