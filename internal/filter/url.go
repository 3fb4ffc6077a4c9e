// Package filter implements the link filter decision: it extracts URLs from
// message text, checks their hosts against a domain whitelist and decides
// whether a message must be deleted.
package filter

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"mvdan.cc/xurls/v2"
)

var (
	schemeURLRegex = mustStrictScheme(`[hH][tT][tT][pP][sS]?://`)

	// Telegram links are commonly posted without a scheme.
	telegramLinkRegex = regexp.MustCompile(`(?i)\b(?:t|telegram)\.me/(?:joinchat/|\+)?[a-z0-9_-]+`)
)

func mustStrictScheme(scheme string) *regexp.Regexp {
	re, err := xurls.StrictMatchingScheme(scheme)
	if err != nil {
		panic(fmt.Sprintf("filter: invalid url scheme pattern %q: %v", scheme, err))
	}
	return re
}

// ExtractURLs returns the URL-like substrings found in text, without
// duplicates, in order of first occurrence. Scheme-less Telegram links
// inside a full URL are not reported twice.
func ExtractURLs(text string) []string {
	if text == "" {
		return nil
	}

	var urls []string
	seen := make(map[string]struct{})
	add := func(u string) {
		if _, ok := seen[u]; ok {
			return
		}
		seen[u] = struct{}{}
		urls = append(urls, u)
	}

	spans := schemeURLRegex.FindAllStringIndex(text, -1)
	tgSpans := telegramLinkRegex.FindAllStringIndex(text, -1)

	// Merge both match lists by start offset.
	i, j := 0, 0
	for i < len(spans) || j < len(tgSpans) {
		if j >= len(tgSpans) || (i < len(spans) && spans[i][0] <= tgSpans[j][0]) {
			add(text[spans[i][0]:spans[i][1]])
			i++
			continue
		}
		if !within(tgSpans[j], spans) {
			add(text[tgSpans[j][0]:tgSpans[j][1]])
		}
		j++
	}
	return urls
}

func within(span []int, outer [][]int) bool {
	for _, o := range outer {
		if span[0] >= o[0] && span[1] <= o[1] {
			return true
		}
	}
	return false
}

// Host returns the normalized host of a URL: lower-cased, without port,
// credentials or trailing dot. URLs without a scheme are parsed as http.
func Host(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty url")
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("failed to parse url: %w", err)
	}

	host := strings.TrimSuffix(strings.ToLower(u.Hostname()), ".")
	if host == "" {
		return "", fmt.Errorf("url %q has no host", raw)
	}
	return host, nil
}
