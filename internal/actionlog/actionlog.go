// Package actionlog records moderation actions: one line per deleted message
// appended to a local log file, mirrored into the audit store.
package actionlog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/edgard/linkguard/internal/database"
)

// Entry describes a deleted message.
type Entry struct {
	Time      time.Time
	ChatID    int64
	MessageID int
	UserID    int64
	Username  string
	URL       string
}

// Recorder is implemented by Log.
type Recorder interface {
	Record(ctx context.Context, e Entry) error
}

// Log writes entries to a file and, when a store is set, to the database.
type Log struct {
	mu     sync.Mutex
	out    io.WriteCloser
	lines  slog.Handler
	store  database.Store
	logger *slog.Logger
}

// Open opens (or creates) the action log file at path in append mode.
// store may be nil.
func Open(path string, store database.Store, logger *slog.Logger) (*Log, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create action log directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open action log %s: %w", path, err)
	}
	return New(f, store, logger), nil
}

// New creates a Log writing to out.
func New(out io.WriteCloser, store database.Store, logger *slog.Logger) *Log {
	if logger == nil {
		logger = slog.Default()
	}
	return &Log{
		out:    out,
		lines:  slog.NewTextHandler(out, &slog.HandlerOptions{ReplaceAttr: lineAttrs}),
		store:  store,
		logger: logger.With("component", "action_log"),
	}
}

// lineAttrs drops the level from file lines; every line is an action.
func lineAttrs(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 && a.Key == slog.LevelKey {
		return slog.Attr{}
	}
	return a
}

// Record appends e to the log file and the audit store. A store failure is
// logged and does not fail the call.
func (l *Log) Record(ctx context.Context, e Entry) error {
	if e.Time.IsZero() {
		e.Time = time.Now()
	}

	r := slog.NewRecord(e.Time.UTC(), slog.LevelInfo, "message deleted", 0)
	r.AddAttrs(
		slog.Int64("chat_id", e.ChatID),
		slog.String("url", e.URL),
		slog.Int64("user_id", e.UserID),
		slog.String("username", e.Username),
		slog.Int("message_id", e.MessageID),
	)

	l.mu.Lock()
	err := l.lines.Handle(ctx, r)
	l.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to write action log: %w", err)
	}

	if l.store == nil {
		return nil
	}
	err = l.store.SaveDeletion(ctx, &database.Deletion{
		ChatID:    e.ChatID,
		MessageID: e.MessageID,
		UserID:    e.UserID,
		Username:  e.Username,
		URL:       e.URL,
		DeletedAt: e.Time,
	})
	if err != nil {
		l.logger.WarnContext(ctx, "Failed to store deletion record", "chat_id", e.ChatID, "message_id", e.MessageID, "error", err)
	}
	return nil
}

// Close closes the underlying file.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.out.Close()
}
