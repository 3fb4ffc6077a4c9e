package handlers

import (
	"strings"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/linkguard/internal/config"
)

// Command is one of the bot's chat commands.
type Command int

// The closed set of supported commands.
const (
	CommandStart Command = iota + 1
	CommandToggle
	CommandStatus
)

// AllCommands lists every command in menu order.
var AllCommands = []Command{CommandStart, CommandToggle, CommandStatus}

func (c Command) String() string {
	switch c {
	case CommandStart:
		return "start"
	case CommandToggle:
		return "toggle"
	case CommandStatus:
		return "status"
	default:
		return "unknown"
	}
}

// AdminOnly reports whether the command is restricted to chat admins.
func (c Command) AdminOnly() bool {
	return c == CommandToggle || c == CommandStatus
}

// Description returns the command's menu description.
func (c Command) Description(msgs config.MessagesConfig) string {
	switch c {
	case CommandStart:
		return msgs.CmdStart
	case CommandToggle:
		return msgs.CmdToggle
	case CommandStatus:
		return msgs.CmdStatus
	default:
		return ""
	}
}

// ParseCommand extracts the command from message text such as
// "/toggle@LinkGuardBot now". Commands addressed to another bot are ignored.
func ParseCommand(text, botUsername string) (Command, bool) {
	if !strings.HasPrefix(text, "/") {
		return 0, false
	}
	token := strings.Fields(text)[0][1:]

	name, target, addressed := strings.Cut(token, "@")
	if addressed && botUsername != "" && !strings.EqualFold(target, botUsername) {
		return 0, false
	}

	name = strings.ToLower(name)
	for _, c := range AllCommands {
		if c.String() == name {
			return c, true
		}
	}
	return 0, false
}

// RegisteredHandler represents a command handler with its matcher and middleware.
type RegisteredHandler struct {
	Command    Command
	Match      tgbot.MatchFunc
	Handler    tgbot.HandlerFunc
	Middleware []tgbot.Middleware
}

// RegisterAllCommands returns a handler for every command in AllCommands,
// keyed by "/name". Command messages go through the link filter first.
func RegisterAllCommands(deps HandlerDeps) map[string]RegisteredHandler {
	handlers := make(map[string]RegisteredHandler, len(AllCommands))

	for _, c := range AllCommands {
		reg := RegisteredHandler{
			Command:    c,
			Match:      commandMatcher(c, deps.Config.Telegram.BotUsername),
			Handler:    newCommandHandler(c, deps),
			Middleware: []tgbot.Middleware{ModerateFirst(deps)},
		}
		if c.AdminOnly() {
			reg.Middleware = append(reg.Middleware, AdminOnly(deps))
		}
		handlers["/"+c.String()] = reg
	}
	return handlers
}

// BotCommands returns the command menu published to Telegram.
func BotCommands(msgs config.MessagesConfig) []models.BotCommand {
	cmds := make([]models.BotCommand, 0, len(AllCommands))
	for _, c := range AllCommands {
		cmds = append(cmds, models.BotCommand{Command: c.String(), Description: c.Description(msgs)})
	}
	return cmds
}

func newCommandHandler(c Command, deps HandlerDeps) tgbot.HandlerFunc {
	switch c {
	case CommandStart:
		return NewStartHandler(deps)
	case CommandToggle:
		return NewToggleHandler(deps)
	case CommandStatus:
		return NewStatusHandler(deps)
	default:
		return nil
	}
}

func commandMatcher(c Command, botUsername string) tgbot.MatchFunc {
	return func(update *models.Update) bool {
		if update.Message == nil {
			return false
		}
		cmd, ok := ParseCommand(update.Message.Text, botUsername)
		return ok && cmd == c
	}
}
