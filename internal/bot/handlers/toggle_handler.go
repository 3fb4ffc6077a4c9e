package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewToggleHandler returns a handler for the /toggle command.
// It is registered behind AdminOnly.
func NewToggleHandler(deps HandlerDeps) bot.HandlerFunc {
	return toggleHandler{deps}.Handle
}

type toggleHandler struct {
	deps HandlerDeps
}

func (h toggleHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.handle(ctx, b, update)
}

func (h toggleHandler) handle(ctx context.Context, api BotAPI, update *models.Update) {
	log := h.deps.Logger.With("handler", "toggle")
	if update.Message == nil {
		log.ErrorContext(ctx, "Toggle handler called with nil Message", "update_id", update.ID)
		return
	}

	enabled := h.deps.State.Toggle()
	h.deps.Metrics.Toggled(enabled)

	var userID int64
	if update.Message.From != nil {
		userID = update.Message.From.ID
	}
	log.InfoContext(ctx, "Link deletion toggled", "enabled", enabled, "chat_id", update.Message.Chat.ID, "user_id", userID)

	text := h.deps.Config.Messages.Deactivated
	if enabled {
		text = h.deps.Config.Messages.Activated
	}
	if err := reply(ctx, api, update.Message, text); err != nil {
		log.ErrorContext(ctx, "Failed to send toggle confirmation", "error", err, "chat_id", update.Message.Chat.ID)
	}
}
