package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/linkguard/internal/database"
	"github.com/edgard/linkguard/internal/moderation"
)

// NewStatusHandler returns a handler for the /status command.
// It is registered behind AdminOnly.
func NewStatusHandler(deps HandlerDeps) bot.HandlerFunc {
	return statusHandler{deps}.Handle
}

type statusHandler struct {
	deps HandlerDeps
}

func (h statusHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.handle(ctx, b, update)
}

func (h statusHandler) handle(ctx context.Context, api BotAPI, update *models.Update) {
	log := h.deps.Logger.With("handler", "status")
	if update.Message == nil {
		log.ErrorContext(ctx, "Status handler called with nil Message", "update_id", update.ID)
		return
	}
	chatID := update.Message.Chat.ID

	deleted := -1
	var recent []database.Deletion
	if h.deps.Store != nil {
		timeoutCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		n, err := h.deps.Store.CountDeletionsSince(timeoutCtx, chatID, time.Now().Add(-24*time.Hour))
		if err != nil {
			log.WarnContext(ctx, "Failed to count recent deletions", "chat_id", chatID, "error", err)
		} else {
			deleted = n
		}
		if deleted > 0 {
			recent, err = h.deps.Store.RecentDeletions(timeoutCtx, chatID, recentDeletionsShown)
			if err != nil {
				log.WarnContext(ctx, "Failed to load recent deletions", "chat_id", chatID, "error", err)
			}
		}
		cancel()
	}

	if err := reply(ctx, api, update.Message, formatStatus(h.deps.State.Status(), deleted, recent)); err != nil {
		log.ErrorContext(ctx, "Failed to send status message", "error", err, "chat_id", chatID)
	}
}

// recentDeletionsShown is how many of the latest deletions /status lists.
const recentDeletionsShown = 3

// formatStatus renders the /status reply. A negative deleted count is omitted.
func formatStatus(s moderation.Snapshot, deleted int, recent []database.Deletion) string {
	state := "inactive"
	if s.Enabled {
		state = "active"
	}
	domains := "none"
	if len(s.Domains) > 0 {
		domains = strings.Join(s.Domains, ", ")
	}

	var sb strings.Builder
	sb.WriteString("🤖 Bot Status:\n")
	fmt.Fprintf(&sb, "- Link deletion: %s\n", state)
	fmt.Fprintf(&sb, "- Whitelisted domains: %s", domains)
	if deleted >= 0 {
		fmt.Fprintf(&sb, "\n- Messages deleted in the last 24h: %d", deleted)
	}
	if len(recent) > 0 {
		sb.WriteString("\n- Last deleted links:")
		for _, d := range recent {
			fmt.Fprintf(&sb, "\n  • %s %s", d.DeletedAt.UTC().Format("2006-01-02 15:04 UTC"), d.URL)
		}
	}
	return sb.String()
}
