package filter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/edgard/linkguard/internal/filter"
)

func TestDecide_Scenarios(t *testing.T) {
	t.Parallel()

	wl := filter.NewWhitelist([]string{"example.com"})
	enabled := filter.Config{Enabled: true, Whitelist: wl}
	disabled := filter.Config{Enabled: false, Whitelist: wl}

	tests := []struct {
		name string
		msg  filter.Message
		cfg  filter.Config
		want filter.Decision
	}{
		{
			name: "non-whitelisted url is deleted",
			msg:  filter.Message{Text: "check http://evil.com/x"},
			cfg:  enabled,
			want: filter.Decision{ShouldDelete: true, MatchedURL: "http://evil.com/x"},
		},
		{
			name: "whitelisted url is kept",
			msg:  filter.Message{Text: "see http://example.com/page"},
			cfg:  enabled,
			want: filter.Decision{},
		},
		{
			name: "disabled keeps everything",
			msg:  filter.Message{Text: "http://evil.com"},
			cfg:  disabled,
			want: filter.Decision{},
		},
		{
			name: "admin keeps everything",
			msg:  filter.Message{Text: "http://evil.com", SenderIsAdmin: true},
			cfg:  enabled,
			want: filter.Decision{},
		},
		{
			name: "no text",
			msg:  filter.Message{},
			cfg:  enabled,
			want: filter.Decision{},
		},
		{
			name: "first non-whitelisted url is reported",
			msg:  filter.Message{Text: "http://example.com/a http://bad.org http://worse.net"},
			cfg:  enabled,
			want: filter.Decision{ShouldDelete: true, MatchedURL: "http://bad.org"},
		},
		{
			name: "hidden text link",
			msg:  filter.Message{Text: "click here", EntityURLs: []string{"https://evil.com/hidden"}},
			cfg:  enabled,
			want: filter.Decision{ShouldDelete: true, MatchedURL: "https://evil.com/hidden"},
		},
		{
			name: "nil whitelist deletes any url",
			msg:  filter.Message{Text: "http://example.com"},
			cfg:  filter.Config{Enabled: true},
			want: filter.Decision{ShouldDelete: true, MatchedURL: "http://example.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, filter.Decide(tt.msg, tt.cfg))
		})
	}
}

func TestDecide_Properties(t *testing.T) {
	t.Parallel()

	wl := filter.NewWhitelist([]string{"example.com", "t.me"}, filter.WithSubdomains(true))
	cfg := filter.Config{Enabled: true, Whitelist: wl}

	texts := []string{
		"",
		"plain text without links",
		"http://example.com",
		"https://docs.example.com/x and t.me/group",
		"http://evil.com",
		"mixed http://example.com http://evil.com",
		"t.me/joinchat/abc https://phish.io/login",
	}

	for _, text := range texts {
		admin := filter.Decide(filter.Message{Text: text, SenderIsAdmin: true}, cfg)
		assert.False(t, admin.ShouldDelete, "admin message must never be deleted: %q", text)

		d := filter.Decide(filter.Message{Text: text}, cfg)

		urls := filter.ExtractURLs(text)
		var offending []string
		for _, u := range urls {
			if !wl.AllowsURL(u) {
				offending = append(offending, u)
			}
		}

		switch {
		case len(urls) == 0:
			assert.False(t, d.ShouldDelete, "no url: %q", text)
		case len(offending) == 0:
			assert.False(t, d.ShouldDelete, "only whitelisted urls: %q", text)
		default:
			assert.True(t, d.ShouldDelete, "non-whitelisted url: %q", text)
			assert.Equal(t, offending[0], d.MatchedURL)
		}
	}
}
