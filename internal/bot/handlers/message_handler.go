package handlers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/linkguard/internal/actionlog"
	"github.com/edgard/linkguard/internal/filter"
	"github.com/edgard/linkguard/internal/metrics"
)

// NewMessageHandler returns the default handler, which deletes group
// messages carrying non-whitelisted links.
func NewMessageHandler(deps HandlerDeps) bot.HandlerFunc {
	return messageHandler{deps}.Handle
}

type messageHandler struct {
	deps HandlerDeps
}

func (h messageHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.handle(ctx, b, update)
}

func (h messageHandler) handle(ctx context.Context, api BotAPI, update *models.Update) {
	if update.ChatMember != nil {
		// Promotions and demotions invalidate cached admin lookups.
		h.deps.Admins.ForgetChat(update.ChatMember.Chat.ID)
		return
	}

	msg := update.Message
	if msg == nil && h.deps.Config.Moderation.CheckEdits {
		msg = update.EditedMessage
	}
	if msg == nil {
		return
	}
	h.moderate(ctx, api, msg)
}

// moderate deletes msg when it carries a non-whitelisted link from a
// non-admin, and reports whether it was deleted.
func (h messageHandler) moderate(ctx context.Context, api BotAPI, msg *models.Message) bool {
	if msg.Chat.Type == models.ChatTypePrivate {
		return false
	}

	// One snapshot per message: the decision and the deletion agree on it.
	cfg := h.deps.State.Config()
	if !cfg.Enabled {
		return false
	}

	fm := toFilterMessage(msg)
	decision := filter.Decide(fm, cfg)
	if !decision.ShouldDelete {
		if len(fm.URLs()) > 0 {
			h.deps.Metrics.Checked(metrics.OutcomeKept)
		}
		return false
	}

	// Membership is only looked up for messages that would be deleted.
	fm.SenderIsAdmin = h.deps.Admins.IsMessageFromAdmin(ctx, api, msg)
	if decision = filter.Decide(fm, cfg); !decision.ShouldDelete {
		h.deps.Metrics.Checked(metrics.OutcomeAdmin)
		return false
	}

	log := h.deps.Logger.With("handler", "message", "chat_id", msg.Chat.ID, "message_id", msg.ID, "user_id", fm.SenderID)

	if err := h.deps.Deleter.Delete(ctx, api, msg.Chat.ID, msg.ID); err != nil {
		h.deps.Metrics.DeleteFailed(deleteFailureReason(err))
		log.WarnContext(ctx, "Could not delete message with link", "url", decision.MatchedURL, "error", err)
		return false
	}

	h.deps.Metrics.Checked(metrics.OutcomeDeleted)
	log.InfoContext(ctx, "Deleted message with non-whitelisted link", "url", decision.MatchedURL, "chat_title", msg.Chat.Title)

	if h.deps.ActionLog != nil {
		entry := actionlog.Entry{
			Time:      time.Now(),
			ChatID:    msg.Chat.ID,
			MessageID: msg.ID,
			UserID:    fm.SenderID,
			URL:       decision.MatchedURL,
		}
		if msg.From != nil {
			entry.Username = msg.From.Username
		}
		if err := h.deps.ActionLog.Record(ctx, entry); err != nil {
			log.ErrorContext(ctx, "Failed to write action log", "error", err)
		}
	}

	if h.deps.Notifier != nil && h.deps.Config.Moderation.Notify {
		text := strings.ReplaceAll(h.deps.Config.Messages.Notification, "{user}", senderName(msg))
		if err := h.deps.Notifier.Notify(ctx, api, msg.Chat.ID, text); err != nil {
			log.WarnContext(ctx, "Failed to send deletion notification", "error", err)
		}
	}
	return true
}

// deleteFailureReason maps a Deleter error to its metric label.
func deleteFailureReason(err error) string {
	switch {
	case errors.Is(err, ErrCannotDelete):
		return "forbidden"
	case errors.Is(err, ErrMessageNotFound):
		return "not_found"
	case errors.Is(err, bot.ErrorBadRequest):
		return "bad_request"
	default:
		return "error"
	}
}

// toFilterMessage extracts the text (or caption) and hidden text links of msg.
func toFilterMessage(msg *models.Message) filter.Message {
	text, entities := msg.Text, msg.Entities
	if text == "" {
		text, entities = msg.Caption, msg.CaptionEntities
	}

	fm := filter.Message{
		ChatID:    msg.Chat.ID,
		MessageID: msg.ID,
		Text:      text,
	}
	if msg.From != nil {
		fm.SenderID = msg.From.ID
	}
	for _, e := range entities {
		if e.Type == models.MessageEntityTypeTextLink && e.URL != "" {
			fm.EntityURLs = append(fm.EntityURLs, e.URL)
		}
	}
	return fm
}

func senderName(msg *models.Message) string {
	switch {
	case msg.From == nil:
		return "a user"
	case msg.From.Username != "":
		return "@" + msg.From.Username
	case msg.From.FirstName != "":
		return msg.From.FirstName
	default:
		return "a user"
	}
}
