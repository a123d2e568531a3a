package twitter

import (
	"bytes"
	"fmt"
	"net/url"
	"strconv"

	"github.com/squidlr/squidlr/content"
	"gopkg.in/xmlpath.v2"
)

var (
	videoVariantPath = xmlpath.MustCompile("//videoVariant")
	variantURLPath   = xmlpath.MustCompile("@url")
	variantTypePath  = xmlpath.MustCompile("@content_type")
	variantRatePath  = xmlpath.MustCompile("@bit_rate")
)

// ParseVMAP reads the mp4 variants of a VMAP document into a video, in document order.
func ParseVMAP(data []byte) (content.Video, error) {
	root, err := xmlpath.Parse(bytes.NewReader(data))
	if err != nil {
		return content.Video{}, fmt.Errorf("parse vmap: %w", err)
	}

	var video content.Video
	iter := videoVariantPath.Iter(root)
	for iter.Next() {
		node := iter.Node()

		contentType, _ := variantTypePath.String(node)
		if contentType != mp4 {
			continue
		}

		raw, ok := variantURLPath.String(node)
		if !ok || raw == "" {
			continue
		}
		u, err := url.QueryUnescape(raw)
		if err != nil {
			u = raw
		}

		rate, _ := variantRatePath.String(node)
		bitrate, _ := strconv.Atoi(rate)

		video.AddSource(content.VideoSource{
			URL:         u,
			Bitrate:     bitrate,
			ContentType: contentType,
			Size:        ParseSize(u),
		})
	}
	return video, nil
}
