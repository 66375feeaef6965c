// internal/model/subscriber.go
package model

type Subscriber struct {
    ID          int    `db:"id" json:"id"`
    WorkspaceID int    `db:"workspace_id" json:"workspace_id"`
    Email       string `db:"email" json:"email"`
    FirstName   string `db:"first_name" json:"first_name"`
    LastName    string `db:"last_name" json:"last_name"`
}
