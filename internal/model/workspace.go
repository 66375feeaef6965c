// internal/model/workspace.go
package model

import "time"

// Workspace is the tenant boundary. Every campaign, message and subscriber
// belongs to exactly one workspace.
type Workspace struct {
    ID        int       `db:"id" json:"id"`
    Name      string    `db:"name" json:"name"`
    CreatedAt time.Time `db:"created_at" json:"created_at"`
}
