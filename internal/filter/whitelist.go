package filter

import (
	"sort"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// Whitelist is an immutable set of domains exempted from deletion.
type Whitelist struct {
	domains           map[string]struct{}
	registrable       map[string]struct{}
	includeSubdomains bool
}

// WhitelistOption configures the matching policy of a Whitelist.
type WhitelistOption func(*Whitelist)

// WithSubdomains allows hosts that are subdomains of a whitelisted domain.
func WithSubdomains(enabled bool) WhitelistOption {
	return func(w *Whitelist) { w.includeSubdomains = enabled }
}

// WithRegistrableDomain allows any host sharing the registrable domain
// (eTLD+1) of a whitelisted entry, so "www.example.co.uk" also admits
// "cdn.example.co.uk".
func WithRegistrableDomain(enabled bool) WhitelistOption {
	return func(w *Whitelist) {
		if !enabled {
			w.registrable = nil
			return
		}
		w.registrable = make(map[string]struct{})
	}
}

// NewWhitelist builds a whitelist from domain names. Entries are
// lower-cased; empty entries are ignored. Without options only exact
// host matches are allowed.
func NewWhitelist(domains []string, opts ...WhitelistOption) *Whitelist {
	w := &Whitelist{domains: make(map[string]struct{}, len(domains))}
	for _, opt := range opts {
		opt(w)
	}

	for _, d := range domains {
		d = strings.Trim(strings.ToLower(strings.TrimSpace(d)), ".")
		if d == "" {
			continue
		}
		w.domains[d] = struct{}{}
		if w.registrable != nil {
			if etld1, err := publicsuffix.EffectiveTLDPlusOne(d); err == nil {
				w.registrable[etld1] = struct{}{}
			}
		}
	}
	return w
}

// Allows reports whether host is whitelisted.
func (w *Whitelist) Allows(host string) bool {
	if w == nil || host == "" {
		return false
	}
	host = strings.TrimSuffix(strings.ToLower(host), ".")

	for h := host; ; {
		if _, ok := w.domains[h]; ok {
			return true
		}
		if !w.includeSubdomains {
			break
		}
		i := strings.IndexByte(h, '.')
		if i < 0 {
			break
		}
		h = h[i+1:]
	}

	if w.registrable != nil {
		if etld1, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
			if _, ok := w.registrable[etld1]; ok {
				return true
			}
		}
	}
	return false
}

// AllowsURL reports whether the host of raw is whitelisted. URLs without a
// parseable host are never whitelisted.
func (w *Whitelist) AllowsURL(raw string) bool {
	host, err := Host(raw)
	if err != nil {
		return false
	}
	return w.Allows(host)
}

// Domains returns the whitelisted domains in sorted order.
func (w *Whitelist) Domains() []string {
	if w == nil {
		return nil
	}
	out := make([]string, 0, len(w.domains))
	for d := range w.domains {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}
