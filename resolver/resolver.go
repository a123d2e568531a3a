// Package resolver turns post URLs into content identifiers.
package resolver

import (
	"strings"

	"github.com/samber/lo"
	"github.com/squidlr/squidlr/content"
)

// Resolver tries its matchers in order. The first match wins.
type Resolver struct {
	matchers []Matcher
}

func New(matchers ...Matcher) *Resolver {
	return &Resolver{matchers: matchers}
}

// Default knows every supported platform.
func Default() *Resolver {
	return New(TwitterMatcher, TikTokMatcher, InstagramMatcher, FacebookMatcher, LinkedInMatcher)
}

// Resolve never fails; URLs no matcher recognizes yield content.UnknownIdentifier.
func (r *Resolver) Resolve(url string) content.Identifier {
	url = normalize(url)
	if url == "" {
		return content.UnknownIdentifier
	}

	for _, m := range r.matchers {
		if id, ok := m.Match(url); ok {
			return id
		}
	}
	return content.UnknownIdentifier
}

// Platforms lists the platforms this resolver recognizes.
func (r *Resolver) Platforms() []content.Platform {
	return lo.Uniq(lo.Map(r.matchers, func(m Matcher, _ int) content.Platform {
		return m.Platform
	}))
}

func normalize(url string) string {
	url = strings.TrimSpace(url)
	if url == "" || strings.ContainsAny(url, " \t\n") {
		return ""
	}
	if !strings.Contains(url, "://") {
		url = "https://" + url
	}
	return url
}
