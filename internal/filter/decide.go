package filter

// Message is the part of an incoming chat message the filter looks at.
type Message struct {
	ChatID        int64
	MessageID     int
	SenderID      int64
	SenderIsAdmin bool

	// Text is the message text, or the caption for media messages.
	Text string

	// EntityURLs are URLs attached to the text as formatting entities
	// (hidden text links), which do not appear in Text.
	EntityURLs []string
}

// Config is the moderation state a decision is taken against.
type Config struct {
	Enabled   bool
	Whitelist *Whitelist
}

// Decision is the outcome of Decide.
type Decision struct {
	ShouldDelete bool
	MatchedURL   string
}

// URLs returns every URL carried by the message, text URLs first.
func (m Message) URLs() []string {
	urls := ExtractURLs(m.Text)
	if len(m.EntityURLs) == 0 {
		return urls
	}

	seen := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		seen[u] = struct{}{}
	}
	for _, u := range m.EntityURLs {
		if _, ok := seen[u]; ok || u == "" {
			continue
		}
		seen[u] = struct{}{}
		urls = append(urls, u)
	}
	return urls
}

// Decide reports whether msg must be deleted under cfg. Messages are kept
// while moderation is disabled, when sent by an admin, and when every URL
// they carry points to a whitelisted domain. Otherwise the first
// non-whitelisted URL is returned in MatchedURL.
func Decide(msg Message, cfg Config) Decision {
	if !cfg.Enabled || msg.SenderIsAdmin {
		return Decision{}
	}

	for _, u := range msg.URLs() {
		if !cfg.Whitelist.AllowsURL(u) {
			return Decision{ShouldDelete: true, MatchedURL: u}
		}
	}
	return Decision{}
}
