package tiktok

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/squidlr/squidlr/content"
)

var pages = map[string]string{
	"7279014426373491973": "video.html",
	"7279014426373491974": "photo.html",
	"7279014426373491975": "private.html",
	"7279014426373491976": "removed.html",
	"7279014426373491977": "captcha.html",
}

func newOrigin(probes *atomic.Int32) *httptest.Server {
	mux := http.NewServeMux()
	var srv *httptest.Server

	mux.HandleFunc("GET /@/video/{id}", func(w http.ResponseWriter, r *http.Request) {
		name, ok := pages[r.PathValue("id")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		data, err := os.ReadFile(filepath.Join("testdata", name))
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(strings.ReplaceAll(string(data), "{{origin}}", srv.URL)))
	})

	mux.HandleFunc("GET /@squidlr/video/{id}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/@/video/"+r.PathValue("id"), http.StatusFound)
	})

	mux.HandleFunc("GET /short/{code}/", func(w http.ResponseWriter, r *http.Request) {
		switch r.PathValue("code") {
		case "ZMjvd5Wb7":
			http.Redirect(w, r, "/@squidlr/video/7279014426373491973?_r=1", http.StatusMovedPermanently)
		default:
			http.Redirect(w, r, "/explore", http.StatusMovedPermanently)
		}
	})

	mux.HandleFunc("GET /explore", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html></html>"))
	})

	mux.HandleFunc("/video/", func(w http.ResponseWriter, r *http.Request) {
		probes.Add(1)
		w.Header().Set("Content-Length", "1000")
	})

	srv = httptest.NewServer(mux)
	return srv
}

func TestExtract(t *testing.T) {
	Convey("Given a tiktok origin", t, func() {
		var probes atomic.Int32
		srv := newOrigin(&probes)
		defer srv.Close()

		x := New(srv.Client(), WithEndpoints(Endpoints{Web: srv.URL, Short: srv.URL + "/short"}))
		extract := func(id string) (*content.TikTokContent, content.Kind) {
			c, err := x.Extract(context.Background(), content.NewIdentifier(content.TikTok, id, "https://www.tiktok.com/@squidlr/video/"+id)).Get()
			if err != nil {
				return nil, content.KindOfError(err)
			}
			return c.(*content.TikTokContent), content.Success
		}

		Convey("A video post is read from the rehydration data", func() {
			post, kind := extract("7279014426373491973")
			So(kind, ShouldEqual, content.Success)

			So(post.Username, ShouldEqual, "squidlr")
			So(post.Nickname, ShouldEqual, "Squidlr Official")
			So(post.FullText, ShouldEqual, "squid dance #fyp")
			So(post.CreatedAt.Equal(time.Unix(1694772000, 0)), ShouldBeTrue)
			So(post.FavoriteCount, ShouldEqual, 1200)
			So(post.ReplyCount, ShouldEqual, 45)
			So(post.PlayCount, ShouldEqual, 98000)
			So(post.CollectCount, ShouldEqual, 77)

			So(post.Videos, ShouldHaveLength, 1)
			video := post.Videos[0]
			So(video.Duration.MustGet(), ShouldEqual, 12*time.Second)
			So(video.Sources, ShouldHaveLength, 4)

			So(video.Sources[0].URL, ShouldEqual, srv.URL+"/video/720.mp4")
			So(video.Sources[0].Size, ShouldResemble, content.Size{Width: 720, Height: 1280})
			So(video.Sources[0].ContentLength.MustGet(), ShouldEqual, 2379000)
			So(video.Sources[1].ContentLength.MustGet(), ShouldEqual, 1779000)
			So(video.Sources[2].URL, ShouldEqual, srv.URL+"/video/play.mp4")
			So(video.Sources[2].ContentLength.MustGet(), ShouldEqual, 1000)

			Convey("Only sources without a known length are probed", func() {
				So(probes.Load(), ShouldEqual, 2)
			})
		})

		Convey("A share code is followed to the post", func() {
			post, kind := extract("ZMjvd5Wb7")
			So(kind, ShouldEqual, content.Success)
			So(post.Username, ShouldEqual, "squidlr")
		})

		Convey("A share code leading elsewhere is NotFound", func() {
			_, kind := extract("ZZZZZZZZ")
			So(kind, ShouldEqual, content.NotFound)
		})

		Convey("A photo post has no video", func() {
			_, kind := extract("7279014426373491974")
			So(kind, ShouldEqual, content.NoVideo)
		})

		Convey("Status codes of the page are mapped", func() {
			_, kind := extract("7279014426373491975")
			So(kind, ShouldEqual, content.Protected)
			_, kind = extract("7279014426373491976")
			So(kind, ShouldEqual, content.NotFound)
		})

		Convey("A page without data is an Error", func() {
			_, kind := extract("7279014426373491977")
			So(kind, ShouldEqual, content.Error)
		})

		Convey("An HTTP 404 is NotFound", func() {
			_, kind := extract("1")
			So(kind, ShouldEqual, content.NotFound)
		})
	})
}
