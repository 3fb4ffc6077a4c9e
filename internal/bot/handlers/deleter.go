package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tgbot "github.com/go-telegram/bot"
	"golang.org/x/time/rate"
)

// ErrCannotDelete is returned when the Bot API refuses to delete a message,
// usually because the bot is not an administrator of the chat.
var ErrCannotDelete = errors.New("message cannot be deleted")

// ErrMessageNotFound is returned when the message is already gone.
var ErrMessageNotFound = errors.New("message to delete not found")

// Deleter deletes messages through a shared rate limiter.
type Deleter struct {
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewDeleter creates a Deleter allowing perMinute deletions per minute with
// the given burst.
func NewDeleter(perMinute, burst int, logger *slog.Logger) *Deleter {
	if logger == nil {
		logger = slog.Default()
	}
	if perMinute <= 0 {
		perMinute = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &Deleter{
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), burst),
		logger:  logger.With("component", "deleter"),
	}
}

// Delete waits for the rate limiter and deletes the message. Permission
// failures are wrapped in ErrCannotDelete and already-deleted messages in
// ErrMessageNotFound.
func (d *Deleter) Delete(ctx context.Context, api MessageDeleter, chatID int64, messageID int) error {
	if err := d.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("delete rate limit wait: %w", err)
	}

	ok, err := api.DeleteMessage(ctx, &tgbot.DeleteMessageParams{ChatID: chatID, MessageID: messageID})
	switch {
	case err != nil && isPermissionError(err):
		d.logger.WarnContext(ctx, "Bot is not allowed to delete message", "chat_id", chatID, "message_id", messageID, "error", err)
		return fmt.Errorf("%w: %v", ErrCannotDelete, err)
	case err != nil && errors.Is(err, tgbot.ErrorBadRequest) && strings.Contains(strings.ToLower(err.Error()), "message to delete not found"):
		d.logger.InfoContext(ctx, "Message already deleted", "chat_id", chatID, "message_id", messageID)
		return fmt.Errorf("%w: %v", ErrMessageNotFound, err)
	case err != nil && errors.Is(err, tgbot.ErrorBadRequest):
		d.logger.WarnContext(ctx, "Delete request rejected", "chat_id", chatID, "message_id", messageID, "error", err)
		return fmt.Errorf("failed to delete message %d in chat %d: %w", messageID, chatID, err)
	case err != nil:
		d.logger.ErrorContext(ctx, "Error deleting message", "chat_id", chatID, "message_id", messageID, "error", err)
		return fmt.Errorf("failed to delete message %d in chat %d: %w", messageID, chatID, err)
	case !ok:
		return fmt.Errorf("%w: api returned false", ErrCannotDelete)
	}
	return nil
}

// isPermissionError reports whether err means the bot lacks the right to
// delete the message.
func isPermissionError(err error) bool {
	if errors.Is(err, tgbot.ErrorForbidden) {
		return true
	}
	return errors.Is(err, tgbot.ErrorBadRequest) &&
		strings.Contains(strings.ToLower(err.Error()), "message can't be deleted")
}
