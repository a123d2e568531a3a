// Package content is the data model shared by the resolver, the extractors and the provider.
package content

import (
	"fmt"
	"strings"
)

// Platform is a supported origin.
type Platform int

const (
	Unknown Platform = iota
	Twitter
	TikTok
	Instagram
	Facebook
	LinkedIn
)

var platformNames = map[Platform]string{
	Unknown:   "unknown",
	Twitter:   "twitter",
	TikTok:    "tiktok",
	Instagram: "instagram",
	Facebook:  "facebook",
	LinkedIn:  "linkedin",
}

// Platforms returns every known platform except Unknown, in resolution order.
func Platforms() []Platform {
	return []Platform{Twitter, TikTok, Instagram, Facebook, LinkedIn}
}

func (p Platform) String() string {
	if name, ok := platformNames[p]; ok {
		return name
	}
	return platformNames[Unknown]
}

// ParsePlatform is the inverse of String. It is case insensitive and accepts "x" for Twitter.
func ParsePlatform(s string) (Platform, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "x" {
		return Twitter, nil
	}
	for p, name := range platformNames {
		if name == s {
			return p, nil
		}
	}
	return Unknown, fmt.Errorf("unknown platform %q", s)
}

func (p Platform) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Platform) UnmarshalText(text []byte) error {
	parsed, err := ParsePlatform(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
