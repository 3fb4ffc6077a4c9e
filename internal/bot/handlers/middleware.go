// Package handlers contains Telegram bot command and message handlers,
// along with their registration logic and middleware.
package handlers

import (
	"context"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// AdminOnly creates a middleware that lets only chat administrators through.
// Other senders get the "not authorized" reply and processing stops.
func AdminOnly(deps HandlerDeps) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
			if update.Message == nil {
				return
			}
			if !adminGate(ctx, deps, b, update.Message) {
				return
			}
			next(ctx, b, update)
		}
	}
}

// ModerateFirst creates a middleware that applies the link filter to a
// command message before the command runs. A deleted message does not
// reach the command.
func ModerateFirst(deps HandlerDeps) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
			if update.Message != nil && moderationGate(ctx, deps, b, update.Message) {
				return
			}
			next(ctx, b, update)
		}
	}
}

// moderationGate reports whether msg was deleted by the link filter.
func moderationGate(ctx context.Context, deps HandlerDeps, api BotAPI, msg *models.Message) bool {
	return messageHandler{deps}.moderate(ctx, api, msg)
}

// adminGate reports whether msg comes from an admin, replying with the
// "not authorized" message when it does not.
func adminGate(ctx context.Context, deps HandlerDeps, api BotAPI, msg *models.Message) bool {
	if deps.Admins.IsMessageFromAdmin(ctx, api, msg) {
		return true
	}

	log := deps.Logger.With("middleware", "AdminOnly")
	var userID int64
	if msg.From != nil {
		userID = msg.From.ID
	}
	log.WarnContext(ctx, "Unauthorized command attempt", "user_id", userID, "chat_id", msg.Chat.ID)

	if err := reply(ctx, api, msg, deps.Config.Messages.NotAuthorized); err != nil {
		log.ErrorContext(ctx, "Failed to send unauthorized message", "error", err, "chat_id", msg.Chat.ID)
	}
	return false
}

// reply answers msg in its chat.
func reply(ctx context.Context, api MessageSender, msg *models.Message, text string) error {
	_, err := api.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID: msg.Chat.ID,
		Text:   text,
		ReplyParameters: &models.ReplyParameters{
			MessageID:                msg.ID,
			AllowSendingWithoutReply: true,
		},
	})
	return err
}
