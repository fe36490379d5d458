package entity

import "time"

// Task represents a row in the `tasks` table. JSON field names follow the
// document-store convention the API clients expect (`_id`, `user`).
type Task struct {
	ID          string    `db:"id" json:"_id"`
	UserID      string    `db:"user_id" json:"user"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}
