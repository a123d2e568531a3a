// Package tiktok extracts videos from TikTok post pages.
package tiktok

import (
	"context"
	"encoding/json"
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

const rehydrationScript = "script#__UNIVERSAL_DATA_FOR_REHYDRATION__"

// Status codes of the video-detail scope.
const (
	statusOK        = 0
	statusNotFound  = 10204
	statusPrivate   = 10222
	statusFriends   = 10216
	statusSensitive = 10219
)

var (
	numericID = regexp.MustCompile(`^\d+$`)
	videoPath = regexp.MustCompile(`/video/\d+`)
)

// Endpoints are the origin URLs the extractor talks to.
type Endpoints struct {
	// Web serves the post pages.
	Web string
	// Short resolves share codes by redirecting to the post page.
	Short string
}

var DefaultEndpoints = Endpoints{
	Web:   "https://www.tiktok.com",
	Short: "https://vm.tiktok.com",
}

func (e Endpoints) page(id string) string {
	if numericID.MatchString(id) {
		return fmt.Sprintf("%s/@/video/%s", e.Web, id)
	}
	return fmt.Sprintf("%s/%s/", e.Short, id)
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
	return content.TikTok
}

func (x *Extractor) Extract(ctx context.Context, id content.Identifier) content.Result {
	resp, err := extractor.Get(ctx, x.client, x.endpoints.page(id.ID), nil)
	if err != nil {
		return extractor.Failed(err)
	}
	if kind := extractor.StatusKind(resp.Status); kind != content.Success {
		return content.Fail(kind)
	}

	// Share codes land on the canonical page, which must name a numeric id.
	if !numericID.MatchString(id.ID) {
		if !videoPath.MatchString(resp.URL.Path) {
			log.WithFields(log.Fields{"id": id.ID, "landed": resp.URL.String()}).Debug("share code did not lead to a video")
			return content.Fail(content.NotFound)
		}
	}

	doc, err := resp.Document()
	if err != nil {
		return extractor.Failed(fmt.Errorf("parse tiktok page: %w", err))
	}

	script := doc.Find(rehydrationScript).First()
	if script.Length() == 0 {
		log.WithField("id", id.ID).Warn("tiktok page without rehydration data")
		return content.Fail(content.Error)
	}

	var data rehydration
	if err := json.Unmarshal([]byte(script.Text()), &data); err != nil {
		log.WithError(err).WithField("id", id.ID).Error("decode tiktok rehydration data")
		return content.Fail(content.Error)
	}

	detail := data.DefaultScope.VideoDetail
	if kind := statusKind(detail.StatusCode); kind != content.Success {
		return content.Fail(kind)
	}

	post := toContent(detail.ItemInfo.ItemStruct, id.URL)
	if len(post.Videos) == 0 {
		return content.Fail(content.NoVideo)
	}

	extractor.FillContentLengths(ctx, x.client, post.Videos)
	if err := ctx.Err(); err != nil {
		return extractor.Failed(err)
	}
	return content.Ok(post)
}

func statusKind(code int) content.Kind {
	switch code {
	case statusOK:
		return content.Success
	case statusNotFound:
		return content.NotFound
	case statusPrivate, statusFriends:
		return content.Protected
	case statusSensitive:
		return content.AdultContent
	default:
		log.WithField("statusCode", code).Warn("unexpected tiktok status code")
		return content.Error
	}
}

func toContent(item itemStruct, sourceURL string) *content.TikTokContent {
	post := content.New(content.TikTok, sourceURL).(*content.TikTokContent)

	post.Username = item.Author.UniqueID
	post.Nickname = item.Author.Nickname
	post.AvatarURL = item.Author.AvatarThumb
	post.FullText = item.Desc
	if seconds, err := item.CreateTime.Int64(); err == nil {
		post.CreatedAt = time.Unix(seconds, 0).UTC()
	}

	post.FavoriteCount = item.Stats.DiggCount
	post.ReplyCount = item.Stats.CommentCount
	post.PlayCount = item.Stats.PlayCount
	post.ShareCount = item.Stats.ShareCount
	post.CollectCount = item.Stats.CollectCount.OrZero()

	if video, ok := item.Video.toVideo(post.PlayCount); ok {
		post.Videos = append(post.Videos, video)
	}
	return post
}

func (v videoStruct) toVideo(plays int64) (content.Video, bool) {
	video := content.Video{DisplayURL: v.Cover, Views: mo.Some(plays)}
	if v.Duration > 0 {
		video.Duration = mo.Some(time.Duration(v.Duration) * time.Second)
	}

	for _, info := range v.BitrateInfo {
		addr := info.PlayAddr
		if len(addr.URLList) == 0 {
			continue
		}
		source := content.VideoSource{
			URL:         addr.URLList[len(addr.URLList)-1],
			Bitrate:     info.Bitrate,
			ContentType: "video/mp4",
			Size:        content.Size{Width: addr.Width, Height: addr.Height},
		}
		if size, err := addr.DataSize.Int64(); err == nil && size > 0 {
			source.ContentLength = mo.Some(size)
		}
		video.AddSource(source)
	}

	for _, fallback := range []string{v.PlayAddr, v.DownloadAddr} {
		if fallback == "" || !strings.HasPrefix(fallback, "http") {
			continue
		}
		video.AddSource(content.VideoSource{
			URL:         fallback,
			Bitrate:     v.Bitrate,
			ContentType: "video/mp4",
			Size:        content.Size{Width: v.Width, Height: v.Height},
		})
	}

	return video, len(video.Sources) > 0
}

// flexNumber accepts a number, a numeric string or an empty string.
type flexNumber string

func (n *flexNumber) UnmarshalJSON(data []byte) error {
	if s, err := strconv.Unquote(string(data)); err == nil {
		*n = flexNumber(s)
		return nil
	}
	*n = flexNumber(data)
	return nil
}

func (n flexNumber) Int64() (int64, error) {
	return strconv.ParseInt(string(n), 10, 64)
}

func (n flexNumber) OrZero() int64 {
	v, _ := n.Int64()
	return v
}
