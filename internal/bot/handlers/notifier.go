package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tgbot "github.com/go-telegram/bot"
)

// OnceScheduler runs a task once at a given time.
type OnceScheduler interface {
	ScheduleOnce(name string, at time.Time, task func(ctx context.Context)) error
}

// Notifier sends chat notifications that delete themselves after a TTL.
type Notifier struct {
	scheduler OnceScheduler
	ttl       time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

// NewNotifier creates a Notifier. With a nil scheduler or a zero ttl
// notifications are never removed.
func NewNotifier(scheduler OnceScheduler, ttl time.Duration, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		scheduler: scheduler,
		ttl:       ttl,
		logger:    logger.With("component", "notifier"),
		now:       time.Now,
	}
}

// Notify sends text to chatID and schedules its deletion.
func (n *Notifier) Notify(ctx context.Context, api MessageSender, chatID int64, text string) error {
	sent, err := api.SendMessage(ctx, &tgbot.SendMessageParams{ChatID: chatID, Text: text})
	if err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	if sent == nil || n.scheduler == nil || n.ttl <= 0 {
		return nil
	}

	messageID := sent.ID
	name := fmt.Sprintf("expire_notification_%d_%d", chatID, messageID)
	err = n.scheduler.ScheduleOnce(name, n.now().Add(n.ttl), func(ctx context.Context) {
		deleteCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if _, err := api.DeleteMessage(deleteCtx, &tgbot.DeleteMessageParams{ChatID: chatID, MessageID: messageID}); err != nil {
			n.logger.WarnContext(deleteCtx, "Failed to delete expired notification", "chat_id", chatID, "message_id", messageID, "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule notification expiry: %w", err)
	}
	return nil
}
