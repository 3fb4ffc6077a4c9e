// Package config provides configuration loading, validation, and defaults
// for the LinkGuard bot. Values come from built-in defaults, an optional
// YAML file, LINKGUARD_* environment variables and command-line flags.
package config

import "time"

// Config defines the application configuration for all components.
type Config struct {
	Log        LogConfig        `mapstructure:"log"`
	Telegram   TelegramConfig   `mapstructure:"telegram"`
	Moderation ModerationConfig `mapstructure:"moderation"`
	Whitelist  WhitelistConfig  `mapstructure:"whitelist"`
	ActionLog  ActionLogConfig  `mapstructure:"actionlog"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Scheduler  SchedulerConfig  `mapstructure:"scheduler"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Messages   MessagesConfig   `mapstructure:"messages"`
}

// LogConfig controls the application logger.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// TelegramConfig holds the Bot API credentials and admin settings.
type TelegramConfig struct {
	Token string `mapstructure:"token" validate:"required"`

	// AdminUserIDs are treated as administrators in every chat,
	// regardless of their chat membership status.
	AdminUserIDs  []int64       `mapstructure:"admin_user_ids" validate:"dive,gt=0"`
	AdminCacheTTL time.Duration `mapstructure:"admin_cache_ttl" validate:"min=0"`

	// BotUsername is filled at startup from getMe, not from configuration.
	BotUsername string `mapstructure:"-"`
}

// ModerationConfig controls the link filter behaviour.
type ModerationConfig struct {
	EnabledOnStart bool          `mapstructure:"enabled_on_start"`
	CheckEdits     bool          `mapstructure:"check_edits"`
	Notify         bool          `mapstructure:"notify"`
	NotifyTTL      time.Duration `mapstructure:"notify_ttl"        validate:"min=0,max=48h"`
	DeletesPerMin  int           `mapstructure:"deletes_per_minute" validate:"gt=0,lte=1200"`
	DeleteBurst    int           `mapstructure:"delete_burst"       validate:"gt=0"`
}

// WhitelistConfig lists the domains exempted from deletion and the
// matching policy applied to them.
type WhitelistConfig struct {
	Domains                []string `mapstructure:"domains"                  validate:"dive,required,hostname_rfc1123"`
	IncludeSubdomains      bool     `mapstructure:"include_subdomains"`
	MatchRegistrableDomain bool     `mapstructure:"match_registrable_domain"`
}

// ActionLogConfig sets where deletion records are appended.
type ActionLogConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// DatabaseConfig configures the SQLite audit store.
type DatabaseConfig struct {
	Path      string        `mapstructure:"path"      validate:"required"`
	Retention time.Duration `mapstructure:"retention" validate:"min=1h"`
}

// SchedulerConfig maps task names to their schedule.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks" validate:"dive"`
}

// TaskConfig defines a single scheduled task.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule" validate:"required_if=Enabled true"`
}

// MetricsConfig configures the Prometheus listener. An empty Addr disables it.
type MetricsConfig struct {
	Addr string `mapstructure:"addr" validate:"omitempty,hostname_port"`
}

// MessagesConfig holds user-facing texts. Notification accepts the
// {user} placeholder.
type MessagesConfig struct {
	Welcome       string `mapstructure:"welcome"        validate:"required"`
	NotAuthorized string `mapstructure:"not_authorized" validate:"required"`
	Activated     string `mapstructure:"activated"      validate:"required"`
	Deactivated   string `mapstructure:"deactivated"    validate:"required"`
	Notification  string `mapstructure:"notification"   validate:"required"`

	CmdStart  string `mapstructure:"cmd_start"`
	CmdToggle string `mapstructure:"cmd_toggle"`
	CmdStatus string `mapstructure:"cmd_status"`
}
