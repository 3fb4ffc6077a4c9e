package handlers

import (
	"context"
	"log/slog"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/linkguard/internal/actionlog"
	"github.com/edgard/linkguard/internal/config"
	"github.com/edgard/linkguard/internal/database"
	"github.com/edgard/linkguard/internal/metrics"
	"github.com/edgard/linkguard/internal/moderation"
)

// HandlerDeps provides dependencies for Telegram handlers.
// Store, Metrics and Notifier may be nil.
type HandlerDeps struct {
	Logger    *slog.Logger
	Config    *config.Config
	State     *moderation.State
	Admins    *AdminResolver
	Deleter   *Deleter
	Notifier  *Notifier
	ActionLog actionlog.Recorder
	Store     database.Store
	Metrics   *metrics.Metrics
}

// ChatMemberGetter resolves a user's membership in a chat.
type ChatMemberGetter interface {
	GetChatMember(ctx context.Context, params *tgbot.GetChatMemberParams) (*models.ChatMember, error)
}

// MessageDeleter deletes chat messages.
type MessageDeleter interface {
	DeleteMessage(ctx context.Context, params *tgbot.DeleteMessageParams) (bool, error)
}

// MessageSender sends and deletes chat messages.
type MessageSender interface {
	SendMessage(ctx context.Context, params *tgbot.SendMessageParams) (*models.Message, error)
	MessageDeleter
}

// BotAPI is the subset of the Bot API used by the handlers.
// *tgbot.Bot implements it.
type BotAPI interface {
	ChatMemberGetter
	MessageSender
}

var _ BotAPI = (*tgbot.Bot)(nil)
