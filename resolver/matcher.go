package resolver

import (
	"regexp"

	"github.com/squidlr/squidlr/content"
	"github.com/squidlr/squidlr/util"
)

// Matcher recognizes the URL forms of one platform.
// Every pattern is anchored at the start and captures the post id in a group named "id".
type Matcher struct {
	Platform content.Platform
	Patterns []*regexp.Regexp
}

// Match returns the identifier of url, with the URL cut down to the matched prefix.
func (m Matcher) Match(url string) (content.Identifier, bool) {
	for _, pattern := range m.Patterns {
		loc := pattern.FindStringIndex(url)
		if loc == nil {
			continue
		}
		id := util.ReGroups(pattern, url)["id"]
		if id == "" {
			continue
		}
		return content.NewIdentifier(m.Platform, id, url[loc[0]:loc[1]]), true
	}
	return content.UnknownIdentifier, false
}

const scheme = `(?i)^https?://`

var TwitterMatcher = Matcher{
	Platform: content.Twitter,
	Patterns: []*regexp.Regexp{
		regexp.MustCompile(scheme + `(?:www\.|mobile\.)?(?:twitter|x|fxtwitter|vxtwitter|fixupx)\.com/(?:i/web|i|[a-z0-9_]{1,15})/status(?:es)?/(?P<id>\d+)`),
	},
}

var TikTokMatcher = Matcher{
	Platform: content.TikTok,
	Patterns: []*regexp.Regexp{
		regexp.MustCompile(scheme + `(?:www\.|m\.)?tiktok\.com/@[\w.\-]+/video/(?P<id>\d+)`),
		regexp.MustCompile(scheme + `(?:www\.|m\.)?tiktok\.com/v/(?P<id>\d+)`),
		regexp.MustCompile(scheme + `(?:vm|vt)\.tiktok\.com/(?P<id>[a-z0-9]+)`),
		regexp.MustCompile(scheme + `(?:www\.)?tiktok\.com/t/(?P<id>[a-z0-9]+)`),
	},
}

var InstagramMatcher = Matcher{
	Platform: content.Instagram,
	Patterns: []*regexp.Regexp{
		regexp.MustCompile(scheme + `(?:www\.)?instagram\.com/(?:[\w.]+/)?(?:p|reels?|tv)/(?P<id>[\w\-]+)`),
	},
}

var FacebookMatcher = Matcher{
	Platform: content.Facebook,
	Patterns: []*regexp.Regexp{
		regexp.MustCompile(scheme + `(?:www\.|m\.|web\.)?facebook\.com/watch/?\?v=(?P<id>\d+)`),
		regexp.MustCompile(scheme + `(?:www\.|m\.|web\.)?facebook\.com/[\w.\-]+/videos/(?:[\w.\-]+/)?(?P<id>\d+)`),
		regexp.MustCompile(scheme + `(?:www\.|m\.|web\.)?facebook\.com/reel/(?P<id>\d+)`),
		regexp.MustCompile(scheme + `(?:www\.|m\.|web\.)?facebook\.com/share/[vr]/(?P<id>[\w\-]+)`),
		regexp.MustCompile(scheme + `fb\.watch/(?P<id>[\w\-]+)`),
	},
}

var LinkedInMatcher = Matcher{
	Platform: content.LinkedIn,
	Patterns: []*regexp.Regexp{
		regexp.MustCompile(scheme + `(?:www\.)?linkedin\.com/posts/[^/?#]*?(?:activity|ugcPost)-(?P<id>\d+)`),
		regexp.MustCompile(scheme + `(?:www\.)?linkedin\.com/feed/update/urn:li:(?:activity|ugcPost|share):(?P<id>\d+)`),
	},
}
