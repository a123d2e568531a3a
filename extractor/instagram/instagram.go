// Package instagram extracts videos from Instagram posts and reels through
// the anonymous GraphQL endpoint.
package instagram

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/samber/mo"
	"github.com/squidlr/squidlr/content"
	"github.com/squidlr/squidlr/extractor"
	"github.com/squidlr/squidlr/log"
)

const (
	appID = "936619743392459"
	docID = "8845758582119845"
)

// Endpoints are the origin URLs the extractor talks to.
type Endpoints struct {
	GraphQL string
}

var DefaultEndpoints = Endpoints{
	GraphQL: "https://www.instagram.com/graphql/query",
}

type Extractor struct {
	client    *http.Client
	endpoints Endpoints
}

type Option func(*Extractor)

func WithEndpoints(endpoints Endpoints) Option {
	return func(x *Extractor) { x.endpoints = endpoints }
}

func New(client *http.Client, opts ...Option) *Extractor {
	x := &Extractor{client: client, endpoints: DefaultEndpoints}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

func (x *Extractor) Platform() content.Platform {
	return content.Instagram
}

func (x *Extractor) Extract(ctx context.Context, id content.Identifier) content.Result {
	resp, err := x.query(ctx, id.ID)
	if err != nil {
		return extractor.Failed(err)
	}
	if kind := extractor.StatusKind(resp.Status); kind != content.Success {
		log.WithFields(log.Fields{"shortcode": id.ID, "status": resp.Status}).Debug("instagram query failed")
		return content.Fail(kind)
	}

	var body response
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		log.WithError(err).WithField("shortcode", id.ID).Error("decode instagram response")
		return content.Fail(content.Error)
	}

	media := body.Data.ShortcodeMedia
	if media == nil {
		// Removed, private and age restricted posts all come back empty.
		return content.Fail(content.NotFound)
	}

	post := toContent(media, id.URL)
	if len(post.Videos) == 0 {
		return content.Fail(content.NoVideo)
	}

	extractor.FillContentLengths(ctx, x.client, post.Videos)
	if err := ctx.Err(); err != nil {
		return extractor.Failed(err)
	}
	return content.Ok(post)
}

func (x *Extractor) query(ctx context.Context, shortcode string) (*extractor.Response, error) {
	variables, _ := json.Marshal(map[string]any{
		"shortcode":               shortcode,
		"fetch_tagged_user_count": nil,
		"hoisted_comment_id":      nil,
		"hoisted_reply_id":        nil,
	})

	form := url.Values{}
	form.Set("doc_id", docID)
	form.Set("variables", string(variables))

	req, err := extractor.NewRequest(ctx, http.MethodPost, x.endpoints.GraphQL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", content.Error, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-IG-App-ID", appID)
	req.Header.Set("X-FB-Friendly-Name", "PolarisPostActionLoadPostQueryQuery")
	req.Header.Set("Referer", "https://www.instagram.com/p/"+shortcode+"/")

	return extractor.Fetch(x.client, req)
}

func toContent(media *shortcodeMedia, sourceURL string) *content.InstagramContent {
	post := content.New(content.Instagram, sourceURL).(*content.InstagramContent)

	post.Username = media.Owner.Username
	post.FullName = media.Owner.FullName
	post.ProfilePicURL = media.Owner.ProfilePicURL
	post.IsVerified = media.Owner.IsVerified
	if media.TakenAt > 0 {
		post.CreatedAt = time.Unix(media.TakenAt, 0).UTC()
	}
	if len(media.Caption.Edges) > 0 {
		post.FullText = media.Caption.Edges[0].Node.Text
	}
	post.FavoriteCount = media.Likes.Count
	post.ReplyCount = media.Comments.Count

	if media.IsVideo {
		if video, ok := media.node.toVideo(); ok {
			post.Videos = append(post.Videos, video)
		}
	}
	for _, edge := range media.Children.Edges {
		if !edge.Node.IsVideo {
			continue
		}
		if video, ok := edge.Node.toVideo(); ok {
			post.Videos = append(post.Videos, video)
		}
	}
	return post
}

func (n node) toVideo() (content.Video, bool) {
	if n.VideoURL == "" {
		return content.Video{}, false
	}

	video := content.Video{DisplayURL: n.DisplayURL}
	if n.VideoDuration > 0 {
		video.Duration = mo.Some(time.Duration(math.Round(n.VideoDuration*1000)) * time.Millisecond)
	}
	switch {
	case n.VideoPlayCount > 0:
		video.Views = mo.Some(n.VideoPlayCount)
	case n.VideoViewCount > 0:
		video.Views = mo.Some(n.VideoViewCount)
	}

	video.AddSource(content.VideoSource{
		URL:         n.VideoURL,
		ContentType: "video/mp4",
		Size:        content.Size{Width: n.Dimensions.Width, Height: n.Dimensions.Height},
	})
	return video, true
}
