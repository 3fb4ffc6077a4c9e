package handlers

import (
	"testing"

	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/linkguard/internal/config"
)

func TestParseCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text   string
		want   Command
		wantOK bool
	}{
		{text: "/start", want: CommandStart, wantOK: true},
		{text: "/toggle", want: CommandToggle, wantOK: true},
		{text: "/status", want: CommandStatus, wantOK: true},
		{text: "/STATUS", want: CommandStatus, wantOK: true},
		{text: "/toggle now please", want: CommandToggle, wantOK: true},
		{text: "/toggle@LinkGuardBot", want: CommandToggle, wantOK: true},
		{text: "/toggle@linkguardbot", want: CommandToggle, wantOK: true},
		{text: "/toggle@OtherBot", wantOK: false},
		{text: "/help", wantOK: false},
		{text: "toggle", wantOK: false},
		{text: "", wantOK: false},
		{text: "/", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()
			got, ok := ParseCommand(tt.text, "LinkGuardBot")
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestCommand_Properties(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "start", CommandStart.String())
	assert.Equal(t, "unknown", Command(0).String())
	assert.False(t, CommandStart.AdminOnly())
	assert.True(t, CommandToggle.AdminOnly())
	assert.True(t, CommandStatus.AdminOnly())
	assert.Equal(t, config.DefaultMessages.CmdToggle, CommandToggle.Description(config.DefaultMessages))
}

func TestRegisterAllCommands(t *testing.T) {
	t.Parallel()
	env := newTestEnv(true)

	regs := RegisterAllCommands(env.deps)
	require.Len(t, regs, len(AllCommands))

	for name, reg := range regs {
		assert.Equal(t, "/"+reg.Command.String(), name)
		assert.NotNil(t, reg.Handler, name)
		require.NotNil(t, reg.Match, name)
		if reg.Command.AdminOnly() {
			assert.Len(t, reg.Middleware, 2, name)
		} else {
			assert.Len(t, reg.Middleware, 1, name)
		}
	}

	toggle := regs["/toggle"].Match
	assert.True(t, toggle(&models.Update{Message: &models.Message{Text: "/toggle"}}))
	assert.True(t, toggle(&models.Update{Message: &models.Message{Text: "/toggle@LinkGuardBot"}}))
	assert.False(t, toggle(&models.Update{Message: &models.Message{Text: "/status"}}))
	assert.False(t, toggle(&models.Update{EditedMessage: &models.Message{Text: "/toggle"}}))
}

func TestBotCommands(t *testing.T) {
	t.Parallel()
	cmds := BotCommands(config.DefaultMessages)

	require.Len(t, cmds, 3)
	assert.Equal(t, "start", cmds[0].Command)
	assert.Equal(t, "toggle", cmds[1].Command)
	assert.Equal(t, "status", cmds[2].Command)
	for _, c := range cmds {
		assert.NotEmpty(t, c.Description, c.Command)
	}
}
