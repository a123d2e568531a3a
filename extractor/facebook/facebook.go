// Package facebook extracts videos from Facebook watch, reel and video pages.
package facebook

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/samber/mo"
	"github.com/squidlr/squidlr/content"
	"github.com/squidlr/squidlr/extractor"
	"github.com/squidlr/squidlr/log"
)

var numericID = regexp.MustCompile(`^\d+$`)

// Page patterns, in source preference order.
var sourcePatterns = []*regexp.Regexp{
	regexp.MustCompile(`"browser_native_hd_url":"([^"]+)"`),
	regexp.MustCompile(`"playable_url_quality_hd":"([^"]+)"`),
	regexp.MustCompile(`"hd_src":"([^"]+)"`),
	regexp.MustCompile(`"browser_native_sd_url":"([^"]+)"`),
	regexp.MustCompile(`"playable_url":"([^"]+)"`),
	regexp.MustCompile(`"sd_src":"([^"]+)"`),
}

var (
	durationPattern = regexp.MustCompile(`"playable_duration_in_ms":(\d+)`)
	ownerPattern    = regexp.MustCompile(`"owner":\{"__typename":"(?:User|Page)","id":"\d+","name":"([^"]+)"`)
	createdPattern  = regexp.MustCompile(`"publish_time":(\d+)`)
	loginPattern    = regexp.MustCompile(`id="login_form"`)
)

// Endpoints are the origin URLs the extractor talks to.
type Endpoints struct {
	Web string
}

var DefaultEndpoints = Endpoints{
	Web: "https://www.facebook.com",
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
	return content.Facebook
}

// page is the watch page for numeric ids. Share links and fb.watch codes
// are fetched as given and redirect to the video.
func (x *Extractor) page(id content.Identifier) string {
	if numericID.MatchString(id.ID) {
		return fmt.Sprintf("%s/watch/?v=%s", x.endpoints.Web, id.ID)
	}
	return id.URL
}

func (x *Extractor) Extract(ctx context.Context, id content.Identifier) content.Result {
	header := http.Header{}
	header.Set("Accept", "text/html,application/xhtml+xml")
	header.Set("Sec-Fetch-Mode", "navigate")

	resp, err := extractor.Get(ctx, x.client, x.page(id), header)
	if err != nil {
		return extractor.Failed(err)
	}
	if kind := extractor.StatusKind(resp.Status); kind != content.Success {
		return content.Fail(kind)
	}

	html := string(resp.Body)
	post := content.New(content.Facebook, id.URL).(*content.FacebookContent)

	doc, err := resp.Document()
	if err != nil {
		return extractor.Failed(fmt.Errorf("parse facebook page: %w", err))
	}
	post.Title = cleanTitle(metaContent(doc, "og:title"))
	post.FullText = metaContent(doc, "og:description")
	if m := ownerPattern.FindStringSubmatch(html); m != nil {
		post.Username = unescape(m[1])
	}
	if m := createdPattern.FindStringSubmatch(html); m != nil {
		if seconds, err := strconv.ParseInt(m[1], 10, 64); err == nil {
			post.CreatedAt = time.Unix(seconds, 0).UTC()
		}
	}

	video := content.Video{DisplayURL: metaContent(doc, "og:image")}
	if m := durationPattern.FindStringSubmatch(html); m != nil {
		if ms, err := strconv.ParseInt(m[1], 10, 64); err == nil {
			video.Duration = mo.Some(time.Duration(ms) * time.Millisecond)
		}
	}
	for _, pattern := range sourcePatterns {
		m := pattern.FindStringSubmatch(html)
		if m == nil {
			continue
		}
		u := unescape(m[1])
		if !strings.HasPrefix(u, "http") {
			continue
		}
		video.AddSource(content.VideoSource{URL: u, ContentType: "video/mp4"})
	}

	if len(video.Sources) == 0 {
		if loginPattern.MatchString(html) && post.Title == "" {
			log.WithField("id", id.ID).Debug("facebook answered with a login wall")
			return content.Fail(content.Protected)
		}
		return content.Fail(content.NoVideo)
	}
	post.Videos = []content.Video{video}

	extractor.FillContentLengths(ctx, x.client, post.Videos)
	if err := ctx.Err(); err != nil {
		return extractor.Failed(err)
	}
	return content.Ok(post)
}

// unescape decodes the JSON escapes of a page literal, such as \/ and \u0026.
func unescape(s string) string {
	s = strings.ReplaceAll(s, `\/`, `/`)
	if u, err := strconv.Unquote(`"` + s + `"`); err == nil {
		return u
	}
	return strings.ReplaceAll(s, `\u0026`, "&")
}

func cleanTitle(title string) string {
	for _, suffix := range []string{" | Facebook", " - Facebook"} {
		title = strings.TrimSuffix(title, suffix)
	}
	return strings.TrimSpace(title)
}
