package content

import "time"

// Content is a resolved post. Every platform variant embeds Base.
type Content interface {
	Common() *Base
}

// Base holds the fields all platforms share.
type Base struct {
	Platform      Platform  `json:"platform"`
	SourceURL     string    `json:"sourceUrl"`
	CreatedAt     time.Time `json:"createdAt"`
	Username      string    `json:"username"`
	FullText      string    `json:"fullText"`
	FavoriteCount int64     `json:"favoriteCount"`
	ReplyCount    int64     `json:"replyCount"`
	Videos        []Video   `json:"videos"`
}

func (b *Base) Common() *Base {
	return b
}

// Video returns the video at index i.
func (b *Base) Video(i int) (Video, bool) {
	if i < 0 || i >= len(b.Videos) {
		return Video{}, false
	}
	return b.Videos[i], true
}

type TwitterContent struct {
	Base
	FullName        string `json:"fullName"`
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
	RetweetCount    int64  `json:"retweetCount"`
	QuoteCount      int64  `json:"quoteCount"`
	BookmarkCount   int64  `json:"bookmarkCount"`
}

type TikTokContent struct {
	Base
	Nickname     string `json:"nickname"`
	AvatarURL    string `json:"avatarUrl,omitempty"`
	PlayCount    int64  `json:"playCount"`
	ShareCount   int64  `json:"shareCount"`
	CollectCount int64  `json:"collectCount"`
}

type InstagramContent struct {
	Base
	FullName      string `json:"fullName"`
	ProfilePicURL string `json:"profilePicUrl,omitempty"`
	IsVerified    bool   `json:"isVerified"`
}

type FacebookContent struct {
	Base
	Title      string `json:"title,omitempty"`
	ShareCount int64  `json:"shareCount"`
}

type LinkedInContent struct {
	Base
	Headline string `json:"headline,omitempty"`
}

// New returns an empty variant for platform, or nil for Unknown.
func New(platform Platform, sourceURL string) Content {
	base := Base{Platform: platform, SourceURL: sourceURL}
	switch platform {
	case Twitter:
		return &TwitterContent{Base: base}
	case TikTok:
		return &TikTokContent{Base: base}
	case Instagram:
		return &InstagramContent{Base: base}
	case Facebook:
		return &FacebookContent{Base: base}
	case LinkedIn:
		return &LinkedInContent{Base: base}
	default:
		return nil
	}
}
