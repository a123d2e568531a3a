// Package linkedin extracts videos from public LinkedIn posts.
package linkedin

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/squidlr/squidlr/content"
	"github.com/squidlr/squidlr/extractor"
	"github.com/squidlr/squidlr/log"
)

var heightPattern = regexp.MustCompile(`mp4-(\d+)p`)

// Endpoints are the origin URLs the extractor talks to.
type Endpoints struct {
	Web string
}

var DefaultEndpoints = Endpoints{
	Web: "https://www.linkedin.com",
}

func (e Endpoints) post(id string) string {
	return fmt.Sprintf("%s/feed/update/urn:li:activity:%s", e.Web, id)
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
	return content.LinkedIn
}

type dataSource struct {
	Src     string `json:"src"`
	Type    string `json:"type"`
	Bitrate int    `json:"data-bitrate"`
}

func (x *Extractor) Extract(ctx context.Context, id content.Identifier) content.Result {
	resp, err := extractor.Get(ctx, x.client, x.endpoints.post(id.ID), nil)
	if err != nil {
		return extractor.Failed(err)
	}
	if kind := extractor.StatusKind(resp.Status); kind != content.Success {
		return content.Fail(kind)
	}

	doc, err := resp.Document()
	if err != nil {
		return extractor.Failed(fmt.Errorf("parse linkedin page: %w", err))
	}

	post := content.New(content.LinkedIn, id.URL).(*content.LinkedInContent)
	post.Username = text(doc.Find(`[data-tracking-control-name="public_post_feed-actor-name"]`))
	post.Headline = text(doc.Find(".public-post-author-card__headline, [data-test-id=\"main-feed-activity-card__entity-lockup\"] p"))
	post.FullText = text(doc.Find(`[data-test-id="main-feed-activity-card__commentary"], .attributed-text-segment-list__content`))
	post.FavoriteCount = count(doc.Find(`[data-test-id="social-actions__reaction-count"]`))
	post.ReplyCount = count(doc.Find(`[data-test-id="social-actions__comments"]`))

	doc.Find("video[data-sources]").Each(func(_ int, s *goquery.Selection) {
		raw, _ := s.Attr("data-sources")

		var sources []dataSource
		if err := json.Unmarshal([]byte(raw), &sources); err != nil {
			log.WithError(err).WithField("id", id.ID).Warn("decode linkedin video sources")
			return
		}

		video := content.Video{}
		video.DisplayURL, _ = s.Attr("data-poster-url")
		for _, source := range sources {
			if source.Src == "" || !strings.HasPrefix(source.Type, "video/mp4") {
				continue
			}
			video.AddSource(content.VideoSource{
				URL:         source.Src,
				Bitrate:     source.Bitrate,
				ContentType: "video/mp4",
				Size:        content.Size{Height: height(source.Src)},
			})
		}
		if len(video.Sources) > 0 {
			post.Videos = append(post.Videos, video)
		}
	})

	if len(post.Videos) == 0 {
		return content.Fail(content.NoVideo)
	}

	extractor.FillContentLengths(ctx, x.client, post.Videos)
	if err := ctx.Err(); err != nil {
		return extractor.Failed(err)
	}
	return content.Ok(post)
}

func text(s *goquery.Selection) string {
	return strings.Join(strings.Fields(s.First().Text()), " ")
}

func count(s *goquery.Selection) int64 {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s.First().Text())
	n, _ := strconv.ParseInt(digits, 10, 64)
	return n
}

// height reads the rendition height from paths like .../mp4-720p-30fp-crf28/...
func height(src string) int {
	if m := heightPattern.FindStringSubmatch(src); m != nil {
		h, _ := strconv.Atoi(m[1])
		return h
	}
	return 0
}
