package config

import "time"

// Environment variables and prefixes read by Load.
const (
	EnvPrefix   = "LINKGUARD"
	EnvBotToken = "TELEGRAM_BOT_TOKEN"
)

// Default values for configuration.
const (
	DefaultLogLevel = "info"

	DefaultAdminCacheTTL = 5 * time.Minute

	DefaultNotifyTTL     = 10 * time.Second
	DefaultDeletesPerMin = 15
	DefaultDeleteBurst   = 15

	DefaultActionLogPath = "bot.log"

	DefaultDBPath      = "linkguard.db"
	DefaultDBRetention = 30 * 24 * time.Hour
)

// DefaultWhitelist is used when no domains are configured.
var DefaultWhitelist = []string{"telegram.org", "t.me", "telegram.me"}

// DefaultTasks enables the built-in scheduled tasks.
var DefaultTasks = map[string]any{
	"audit_retention": map[string]any{"enabled": true, "schedule": "0 0 4 * * *"},
	"sql_maintenance": map[string]any{"enabled": true, "schedule": "0 30 4 * * 0"},
}

// DefaultMessages are the user-facing texts.
var DefaultMessages = MessagesConfig{
	Welcome: "👋 Hello! I'm a link deletion bot. I will automatically delete messages " +
		"containing links in this group.\n\n" +
		"Admin commands:\n" +
		"/toggle - Toggle link deletion on/off\n" +
		"/status - Check bot status",
	NotAuthorized: "⚠️ This command is for administrators only.",
	Activated:     "✅ Link deletion has been activated.",
	Deactivated:   "✅ Link deletion has been deactivated.",
	Notification:  "🔗 A message from {user} was removed: links are not allowed here.",

	CmdStart:  "Show what this bot does",
	CmdToggle: "Toggle link deletion on/off (admin only)",
	CmdStatus: "Check bot status (admin only)",
}

func defaults() map[string]any {
	return map[string]any{
		"log.level": DefaultLogLevel,
		"log.json":  true,

		"telegram.admin_user_ids":  []int64{},
		"telegram.admin_cache_ttl": DefaultAdminCacheTTL,

		"moderation.enabled_on_start":   true,
		"moderation.check_edits":        true,
		"moderation.notify":             true,
		"moderation.notify_ttl":         DefaultNotifyTTL,
		"moderation.deletes_per_minute": DefaultDeletesPerMin,
		"moderation.delete_burst":       DefaultDeleteBurst,

		"whitelist.domains":                  DefaultWhitelist,
		"whitelist.include_subdomains":       true,
		"whitelist.match_registrable_domain": false,

		"actionlog.path": DefaultActionLogPath,

		"database.path":      DefaultDBPath,
		"database.retention": DefaultDBRetention,

		"scheduler.tasks": DefaultTasks,

		"metrics.addr": "",

		"messages.welcome":        DefaultMessages.Welcome,
		"messages.not_authorized": DefaultMessages.NotAuthorized,
		"messages.activated":      DefaultMessages.Activated,
		"messages.deactivated":    DefaultMessages.Deactivated,
		"messages.notification":   DefaultMessages.Notification,
		"messages.cmd_start":      DefaultMessages.CmdStart,
		"messages.cmd_toggle":     DefaultMessages.CmdToggle,
		"messages.cmd_status":     DefaultMessages.CmdStatus,
	}
}
