package twitter

import (
	"net/url"
	"regexp"
	"strconv"
	"time"

	"github.com/buger/jsonparser"
	"github.com/samber/mo"
	"github.com/squidlr/squidlr/content"
)

const mp4 = "video/mp4"

var sizePattern = regexp.MustCompile(`/(\d+)x(\d+)/`)

// ParseSize reads the WxH path segment of a video URL. Anything unexpected yields an empty size.
func ParseSize(rawURL string) content.Size {
	path := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		path = u.Path
	}

	matches := sizePattern.FindAllStringSubmatch(path, -1)
	if len(matches) == 0 {
		return content.Size{}
	}
	last := matches[len(matches)-1]

	w, errW := strconv.Atoi(last[1])
	h, errH := strconv.Atoi(last[2])
	if errW != nil || errH != nil {
		return content.Size{}
	}
	return content.Size{Width: w, Height: h}
}

// parseMediaEntity turns one media entity into a video. Entities without
// video_info or without any mp4 variant are skipped.
func parseMediaEntity(entity []byte) (content.Video, bool) {
	info, _, _, err := jsonparser.Get(entity, "video_info")
	if err != nil {
		return content.Video{}, false
	}

	var video content.Video
	video.DisplayURL, _ = jsonparser.GetString(entity, "media_url_https")
	if ms, err := jsonparser.GetInt(info, "duration_millis"); err == nil {
		video.Duration = mo.Some(time.Duration(ms) * time.Millisecond)
	}
	if views, err := jsonparser.GetInt(entity, "mediaStats", "viewCount"); err == nil {
		video.Views = mo.Some(views)
	}

	_, _ = jsonparser.ArrayEach(info, func(variant []byte, _ jsonparser.ValueType, _ int, _ error) {
		contentType, _ := jsonparser.GetString(variant, "content_type")
		if contentType != mp4 {
			return
		}
		u, _ := jsonparser.GetString(variant, "url")
		if u == "" {
			return
		}
		bitrate, _ := jsonparser.GetInt(variant, "bitrate")
		video.AddSource(content.VideoSource{
			URL:         u,
			Bitrate:     int(bitrate),
			ContentType: contentType,
			Size:        ParseSize(u),
		})
	}, "variants")

	return video, len(video.Sources) > 0
}

// parseMediaArray extracts the videos of an extended_entities.media array.
func parseMediaArray(media []byte) []content.Video {
	var videos []content.Video
	_, _ = jsonparser.ArrayEach(media, func(entity []byte, _ jsonparser.ValueType, _ int, _ error) {
		if video, ok := parseMediaEntity(entity); ok {
			videos = append(videos, video)
		}
	})
	return videos
}

// parseMediaMap extracts the videos of a unified card's media_entities object.
func parseMediaMap(entities []byte) []content.Video {
	var videos []content.Video
	_ = jsonparser.ObjectEach(entities, func(_ []byte, entity []byte, _ jsonparser.ValueType, _ int) error {
		if video, ok := parseMediaEntity(entity); ok {
			videos = append(videos, video)
		}
		return nil
	})
	return videos
}
