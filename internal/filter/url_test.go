package filter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/linkguard/internal/filter"
)

func TestExtractURLs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "empty", text: "", want: nil},
		{name: "no urls", text: "hello there, see you at 5.30", want: nil},
		{name: "single http", text: "check http://evil.com/x", want: []string{"http://evil.com/x"}},
		{name: "https with query", text: "go https://Example.com/a?b=c now", want: []string{"https://Example.com/a?b=c"}},
		{name: "trailing punctuation", text: "visit http://evil.com/x.", want: []string{"http://evil.com/x"}},
		{name: "duplicates removed", text: "http://a.com http://b.com http://a.com", want: []string{"http://a.com", "http://b.com"}},
		{name: "bare telegram invite", text: "join t.me/joinchat/AbC_12 today", want: []string{"t.me/joinchat/AbC_12"}},
		{name: "bare telegram plus invite", text: "join t.me/+AbCd", want: []string{"t.me/+AbCd"}},
		{name: "telegram link inside full url", text: "https://t.me/channel", want: []string{"https://t.me/channel"}},
		{
			name: "ordered by position",
			text: "first t.me/first then http://second.com/page",
			want: []string{"t.me/first", "http://second.com/page"},
		},
		{name: "bare domain without scheme is ignored", text: "evil.com is bad", want: nil},
		{name: "mailto is ignored", text: "mailto:someone@example.com", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, filter.ExtractURLs(tt.text))
		})
	}
}

func TestHost(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want string
	}{
		{"http://evil.com/x", "evil.com"},
		{"https://User:pw@Sub.Example.COM:8443/path", "sub.example.com"},
		{"http://example.com./", "example.com"},
		{"t.me/joinchat/abc", "t.me"},
		{"https://[::1]:80/", "::1"},
	}
	for _, tt := range tests {
		got, err := filter.Host(tt.raw)
		require.NoError(t, err, tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
	}

	for _, bad := range []string{"", "http://", "http://%zz"} {
		_, err := filter.Host(bad)
		assert.Error(t, err, bad)
	}
}
