package database

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// Store defines the audit store operations.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// SaveDeletion inserts a deletion record and sets its ID.
	SaveDeletion(ctx context.Context, d *Deletion) error

	// RecentDeletions returns up to limit most recent deletions in a chat.
	RecentDeletions(ctx context.Context, chatID int64, limit int) ([]Deletion, error)

	// CountDeletionsSince counts deletions in a chat at or after since.
	CountDeletionsSince(ctx context.Context, chatID int64, since time.Time) (int, error)

	// PruneDeletionsBefore removes deletions older than cutoff and returns
	// the number of removed rows.
	PruneDeletionsBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// RunSQLMaintenance performs database maintenance tasks like VACUUM.
	RunSQLMaintenance(ctx context.Context) error
}

// sqlxStore implements Store using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a Store backed by a connected sqlx.DB.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlxStore) SaveDeletion(ctx context.Context, d *Deletion) error {
	if d == nil {
		return fmt.Errorf("cannot save nil deletion")
	}
	if d.ChatID == 0 {
		return fmt.Errorf("deletion must have a non-zero chat_id")
	}
	if d.MessageID == 0 {
		return fmt.Errorf("deletion must have a non-zero message_id")
	}
	if d.DeletedAt.IsZero() {
		d.DeletedAt = time.Now()
	}
	d.DeletedAt = d.DeletedAt.UTC()

	query := `
        INSERT INTO deletions (chat_id, message_id, user_id, username, url, deleted_at)
        VALUES (:chat_id, :message_id, :user_id, :username, :url, :deleted_at);
    `

	result, err := s.db.NamedExecContext(ctx, query, d)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error saving deletion", "chat_id", d.ChatID, "message_id", d.MessageID, "error", err)
		return fmt.Errorf("failed to save deletion (chat %d, message %d): %w", d.ChatID, d.MessageID, err)
	}

	if id, err := result.LastInsertId(); err == nil {
		d.ID = id
	} else {
		s.logger.WarnContext(ctx, "Could not retrieve last insert ID after saving deletion",
			"chat_id", d.ChatID, "message_id", d.MessageID, "error", err)
	}

	s.logger.DebugContext(ctx, "Deletion saved", "chat_id", d.ChatID, "message_id", d.MessageID, "id", d.ID)
	return nil
}

func (s *sqlxStore) RecentDeletions(ctx context.Context, chatID int64, limit int) ([]Deletion, error) {
	if chatID == 0 {
		return nil, fmt.Errorf("chat_id cannot be zero")
	}
	if limit <= 0 {
		limit = 20
	} else if limit > 100 {
		limit = 100
	}

	query := `
        SELECT id, chat_id, message_id, user_id, username, url, deleted_at
        FROM deletions
        WHERE chat_id = ?
        ORDER BY deleted_at DESC, id DESC
        LIMIT ?;
    `

	var deletions []Deletion
	if err := s.db.SelectContext(ctx, &deletions, query, chatID, limit); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			s.logger.WarnContext(ctx, "Context timeout or cancellation while fetching deletions", "chat_id", chatID, "error", err)
			return nil, err
		}
		s.logger.ErrorContext(ctx, "Error getting recent deletions", "chat_id", chatID, "error", err)
		return nil, fmt.Errorf("failed to get recent deletions for chat %d: %w", chatID, err)
	}
	return deletions, nil
}

func (s *sqlxStore) CountDeletionsSince(ctx context.Context, chatID int64, since time.Time) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM deletions WHERE chat_id = ? AND deleted_at >= ?;`,
		chatID, since.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to count deletions for chat %d: %w", chatID, err)
	}
	return count, nil
}

func (s *sqlxStore) PruneDeletionsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM deletions WHERE deleted_at < ?;`, cutoff.UTC())
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to prune deletions", "cutoff", cutoff, "error", err)
		return 0, fmt.Errorf("failed to prune deletions: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		s.logger.WarnContext(ctx, "Could not get affected row count after pruning", "error", err)
		return 0, nil
	}
	s.logger.InfoContext(ctx, "Pruned old deletions", "cutoff", cutoff, "count", affected)
	return affected, nil
}

// RunSQLMaintenance executes a VACUUM command on the SQLite database.
func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		s.logger.WarnContext(ctx, "Context cancelled or timed out before starting VACUUM", "error", ctx.Err())
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)")

	if _, err := s.db.ExecContext(ctx, "VACUUM;"); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			s.logger.WarnContext(ctx, "VACUUM operation timed out or was cancelled", "error", err)
			return err
		}
		s.logger.ErrorContext(ctx, "Database maintenance (VACUUM) failed", "error", err)
		return fmt.Errorf("failed to run VACUUM: %w", err)
	}

	s.logger.InfoContext(ctx, "Database maintenance (VACUUM) completed")
	return nil
}
