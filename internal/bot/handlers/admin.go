package handlers

import (
	"context"
	"log/slog"
	"sync"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

type adminKey struct {
	chatID int64
	userID int64
}

type adminEntry struct {
	isAdmin bool
	expires time.Time
}

// AdminResolver decides whether a message sender is a chat administrator.
// Membership lookups are cached per chat and user.
type AdminResolver struct {
	superAdmins map[int64]struct{}
	ttl         time.Duration
	logger      *slog.Logger
	now         func() time.Time

	mu    sync.Mutex
	cache map[adminKey]adminEntry
}

// NewAdminResolver creates an AdminResolver. superAdmins are admins in every
// chat. A zero ttl disables caching.
func NewAdminResolver(superAdmins []int64, ttl time.Duration, logger *slog.Logger) *AdminResolver {
	if logger == nil {
		logger = slog.Default()
	}
	r := &AdminResolver{
		superAdmins: make(map[int64]struct{}, len(superAdmins)),
		ttl:         ttl,
		logger:      logger.With("component", "admin_resolver"),
		now:         time.Now,
		cache:       make(map[adminKey]adminEntry),
	}
	for _, id := range superAdmins {
		r.superAdmins[id] = struct{}{}
	}
	return r
}

// IsMessageFromAdmin reports whether msg was sent by an administrator of its
// chat. Messages posted anonymously on behalf of the chat and automatic
// forwards from the linked channel count as admin messages.
func (r *AdminResolver) IsMessageFromAdmin(ctx context.Context, api ChatMemberGetter, msg *models.Message) bool {
	if msg == nil {
		return false
	}
	if msg.SenderChat != nil && msg.SenderChat.ID == msg.Chat.ID {
		return true
	}
	if msg.IsAutomaticForward {
		return true
	}
	if msg.From == nil {
		return false
	}
	return r.IsAdmin(ctx, api, msg.Chat.ID, msg.From.ID)
}

// IsAdmin reports whether userID is creator or administrator of chatID.
// Lookup errors are logged and reported as non-admin.
func (r *AdminResolver) IsAdmin(ctx context.Context, api ChatMemberGetter, chatID, userID int64) bool {
	if _, ok := r.superAdmins[userID]; ok {
		return true
	}

	key := adminKey{chatID: chatID, userID: userID}
	if r.ttl > 0 {
		r.mu.Lock()
		entry, ok := r.cache[key]
		r.mu.Unlock()
		if ok && r.now().Before(entry.expires) {
			return entry.isAdmin
		}
	}

	member, err := api.GetChatMember(ctx, &tgbot.GetChatMemberParams{ChatID: chatID, UserID: userID})
	if err != nil {
		r.logger.ErrorContext(ctx, "Error checking admin status", "chat_id", chatID, "user_id", userID, "error", err)
		return false
	}

	isAdmin := member != nil &&
		(member.Type == models.ChatMemberTypeOwner || member.Type == models.ChatMemberTypeAdministrator)

	if r.ttl > 0 {
		r.mu.Lock()
		r.cache[key] = adminEntry{isAdmin: isAdmin, expires: r.now().Add(r.ttl)}
		r.mu.Unlock()
	}
	return isAdmin
}

// ForgetChat drops every cached membership of chatID, so the next checks
// query the API again.
func (r *AdminResolver) ForgetChat(chatID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key := range r.cache {
		if key.chatID == chatID {
			delete(r.cache, key)
		}
	}
}
