package content

import (
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Size is a video's pixel dimensions. The zero value means unknown.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (s Size) IsEmpty() bool {
	return s.Width == 0 || s.Height == 0
}

func (s Size) String() string {
	if s.IsEmpty() {
		return "?"
	}
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// VideoSource is one playable rendition of a video.
type VideoSource struct {
	URL           string           `json:"url"`
	Bitrate       int              `json:"bitrate"`
	ContentLength mo.Option[int64] `json:"contentLength"`
	ContentType   string           `json:"contentType"`
	Size          Size             `json:"size"`
}

// Equal compares sources by URL only. Metadata such as bitrate does not
// distinguish two sources pointing at the same file.
func (s VideoSource) Equal(other VideoSource) bool {
	return s.URL == other.URL
}

// Video groups the renditions of one clip. Sources keep upstream order.
type Video struct {
	DisplayURL string                   `json:"displayUrl,omitempty"`
	Duration   mo.Option[time.Duration] `json:"duration"`
	Views      mo.Option[int64]         `json:"views"`
	Sources    []VideoSource            `json:"sources"`
}

// AddSource appends source unless an equal source is already present.
func (v *Video) AddSource(source VideoSource) bool {
	if lo.ContainsBy(v.Sources, source.Equal) {
		return false
	}
	v.Sources = append(v.Sources, source)
	return true
}

// Source returns the source at index i.
func (v Video) Source(i int) (VideoSource, bool) {
	if i < 0 || i >= len(v.Sources) {
		return VideoSource{}, false
	}
	return v.Sources[i], true
}
