package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/squidlr/squidlr/constant"
	"github.com/squidlr/squidlr/content"
	"github.com/squidlr/squidlr/resolver"
	"github.com/squidlr/squidlr/stream"
)

type stubProvider map[string]content.Result

func (s stubProvider) GetContent(_ context.Context, id content.Identifier) content.Result {
	if result, ok := s[id.ID]; ok {
		return result
	}
	return content.Fail(content.NotFound)
}

var payload = bytes.Repeat([]byte("squid"), 200)

func newServer(origin string) http.Handler {
	tweet := content.New(content.Twitter, "https://x.com/squidlr/status/100").(*content.TwitterContent)
	tweet.Username = "squidlr"
	tweet.Videos = []content.Video{{Sources: []content.VideoSource{
		{URL: origin + "/low.mp4", ContentType: constant.MediaTypeVideo},
		{URL: origin + "/high.mp4", ContentType: constant.MediaTypeVideo},
	}}}

	provider := stubProvider{
		"100": content.Ok(tweet),
		"200": content.Fail(content.AdultContent),
		"300": content.Fail(content.GatewayError),
	}
	proxy := stream.New(http.DefaultClient, 256)
	return New(resolver.Default(), provider, proxy, []string{"*"}).Handler()
}

func get(h http.Handler, target string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for name, values := range header {
		req.Header[name] = values
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeProblem(rec *httptest.ResponseRecorder) Problem {
	var p Problem
	So(json.Unmarshal(rec.Body.Bytes(), &p), ShouldBeNil)
	return p
}

func TestServer(t *testing.T) {
	Convey("Given a server in front of a stub provider", t, func() {
		origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "video/mp4")
			http.ServeContent(w, r, "v.mp4", time.Time{}, bytes.NewReader(payload))
		}))
		defer origin.Close()
		h := newServer(origin.URL)

		Convey("Content is returned as JSON with the platform header", func() {
			rec := get(h, "/content?url="+"https://twitter.com/squidlr/status/100?s=20", nil)
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Header().Get(constant.HeaderPlatform), ShouldEqual, "twitter")
			So(rec.Header().Get("Content-Type"), ShouldEqual, constant.MediaTypeJSON)

			var body map[string]any
			So(json.Unmarshal(rec.Body.Bytes(), &body), ShouldBeNil)
			So(body["username"], ShouldEqual, "squidlr")
			So(body["platform"], ShouldEqual, "twitter")
		})

		Convey("Failures become problem responses", func() {
			rec := get(h, "/content?url=https://x.com/a/status/200", nil)
			So(rec.Code, ShouldEqual, http.StatusUnavailableForLegalReasons)
			So(rec.Header().Get("Content-Type"), ShouldEqual, constant.MediaTypeProblem)
			p := decodeProblem(rec)
			So(p.Result, ShouldEqual, content.AdultContent)
			So(p.Status, ShouldEqual, http.StatusUnavailableForLegalReasons)
			So(p.Detail, ShouldEqual, content.AdultContent.Detail())

			rec = get(h, "/content?url=https://x.com/a/status/300", nil)
			So(rec.Code, ShouldEqual, http.StatusBadGateway)

			rec = get(h, "/content?url=https://x.com/a/status/999", nil)
			So(rec.Code, ShouldEqual, http.StatusNotFound)
			So(strings.Contains(rec.Body.String(), `"result":"NotFound"`), ShouldBeTrue)
		})

		Convey("An unsupported URL is a 400", func() {
			rec := get(h, "/content?url=https://google.com", nil)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
			So(decodeProblem(rec).Result, ShouldEqual, content.PlatformNotSupported)
		})

		Convey("A missing url is a 400", func() {
			rec := get(h, "/content", nil)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("A video source is streamed with range support", func() {
			header := http.Header{}
			header.Set("Range", "bytes=10-19")
			rec := get(h, "/video?url=https://x.com/squidlr/status/100&video=0&source=1", header)

			So(rec.Code, ShouldEqual, http.StatusPartialContent)
			So(rec.Header().Get("Content-Disposition"), ShouldEqual, "attachment; fileName=squidlr-twitter-100.mp4")
			So(rec.Header().Get("Content-Type"), ShouldEqual, "video/mp4")
			So(rec.Header().Get("Content-Range"), ShouldEqual, "bytes 10-19/1000")
			So(rec.Body.Bytes(), ShouldResemble, payload[10:20])
		})

		Convey("Video selection is validated", func() {
			So(get(h, "/video?url=https://x.com/squidlr/status/100&video=x", nil).Code, ShouldEqual, http.StatusBadRequest)
			So(get(h, "/video?url=https://x.com/squidlr/status/100&source=-1", nil).Code, ShouldEqual, http.StatusBadRequest)
			So(get(h, "/video?url=https://x.com/squidlr/status/100&video=1", nil).Code, ShouldEqual, http.StatusNotFound)
			So(get(h, "/video?url=https://x.com/squidlr/status/100&source=2", nil).Code, ShouldEqual, http.StatusNotFound)
			So(get(h, "/video?url=https://x.com/squidlr/status/200", nil).Code, ShouldEqual, http.StatusUnavailableForLegalReasons)
		})

		Convey("Health checks succeed", func() {
			So(get(h, "/healthz", nil).Code, ShouldEqual, http.StatusOK)
		})

		Convey("Cross-origin requests are allowed", func() {
			header := http.Header{}
			header.Set("Origin", "https://squidlr.com")
			rec := get(h, "/healthz", header)
			So(rec.Header().Get("Access-Control-Allow-Origin"), ShouldEqual, "*")
		})
	})
}
