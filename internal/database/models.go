package database

import "time"

// Deletion records a message removed by the link filter.
type Deletion struct {
	ID        int64     `db:"id"`
	ChatID    int64     `db:"chat_id"`
	MessageID int       `db:"message_id"`
	UserID    int64     `db:"user_id"`
	Username  string    `db:"username"`
	URL       string    `db:"url"`
	DeletedAt time.Time `db:"deleted_at"`
}
