package twitter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/squidlr/squidlr/content"
)

// origin fakes the API, activation endpoint, tweet pages, VMAP documents and video files.
type origin struct {
	*httptest.Server

	activations atomic.Int32
	details     atomic.Int32
	activateOff atomic.Bool

	activating atomic.Int32

	mu     sync.Mutex
	reject map[string]bool
	tokens []string
	hold   chan struct{}
}

func newOrigin() *origin {
	o := &origin{reject: map[string]bool{}}
	mux := http.NewServeMux()

	mux.HandleFunc("POST /1.1/guest/activate.json", func(w http.ResponseWriter, r *http.Request) {
		if o.activateOff.Load() || r.Header.Get("Authorization") != "Bearer "+bearerToken {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		o.mu.Lock()
		hold := o.hold
		o.mu.Unlock()
		if hold != nil {
			o.activating.Add(1)
			select {
			case <-hold:
			case <-r.Context().Done():
				return
			}
		}
		n := o.activations.Add(1)
		_, _ = w.Write([]byte(`{"guest_token":"` + strconv.Itoa(1000000+int(n)) + `"}`))
	})

	mux.HandleFunc("GET /i/status/{id}", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><head><script>document.cookie="gt=1777777777777; Max-Age=10800; Domain=.x.com; Path=/; Secure";</script></head><body></body></html>`))
	})

	mux.HandleFunc("GET /i/api/graphql/"+tweetResultQueryID+"/TweetResultByRestId", func(w http.ResponseWriter, r *http.Request) {
		o.details.Add(1)
		token := r.Header.Get("X-Guest-Token")

		o.mu.Lock()
		o.tokens = append(o.tokens, token)
		rejected := o.reject[token]
		o.mu.Unlock()

		if rejected {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		var variables struct {
			TweetID string `json:"tweetId"`
		}
		if err := json.Unmarshal([]byte(r.URL.Query().Get("variables")), &variables); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		o.serveFixture(w, variables.TweetID+".json")
	})

	mux.HandleFunc("GET /vmap/{name}", func(w http.ResponseWriter, r *http.Request) {
		o.serveFixture(w, r.PathValue("name"))
	})

	mux.HandleFunc("/video/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "video/mp4")
		w.Header().Set("Content-Length", "4096")
		w.WriteHeader(http.StatusOK)
	})

	o.Server = httptest.NewServer(mux)
	return o
}

func (o *origin) serveFixture(w http.ResponseWriter, name string) {
	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	_, _ = w.Write([]byte(strings.ReplaceAll(string(data), "{{origin}}", o.URL)))
}

func (o *origin) endpoints() Endpoints {
	return Endpoints{
		API:      o.URL + "/i/api/graphql",
		Activate: o.URL + "/1.1/guest/activate.json",
		Web:      o.URL,
	}
}

func (o *origin) rejectTokens(tokens ...string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, token := range tokens {
		o.reject[token] = true
	}
}

// holdActivations makes activation requests wait until the returned func is called.
func (o *origin) holdActivations() (release func()) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.hold = make(chan struct{})
	return func() { close(o.hold) }
}

func (o *origin) seenTokens() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.tokens...)
}

func identifier(id string) content.Identifier {
	return content.NewIdentifier(content.Twitter, id, "https://x.com/squidlr/status/"+id)
}

func extract(x *Extractor, id string) (*content.TwitterContent, content.Kind) {
	result := x.Extract(context.Background(), identifier(id))
	c, err := result.Get()
	if err != nil {
		return nil, content.KindOfError(err)
	}
	return c.(*content.TwitterContent), content.Success
}

func TestExtract(t *testing.T) {
	Convey("Given a twitter origin", t, func() {
		o := newOrigin()
		defer o.Close()
		x := New(o.Client(), WithEndpoints(o.endpoints()))

		Convey("Direct media yields its mp4 variants and the tweet scalars", func() {
			tweet, kind := extract(x, "100")
			So(kind, ShouldEqual, content.Success)

			So(tweet.Platform, ShouldEqual, content.Twitter)
			So(tweet.SourceURL, ShouldEqual, "https://x.com/squidlr/status/100")
			So(tweet.Username, ShouldEqual, "squidlr")
			So(tweet.FullName, ShouldEqual, "Squidlr")
			So(tweet.FullText, ShouldEqual, "look at this https://t.co/abc")
			So(tweet.CreatedAt.Equal(time.Date(2023, 9, 15, 10, 0, 0, 0, time.UTC)), ShouldBeTrue)
			So(tweet.FavoriteCount, ShouldEqual, 42)
			So(tweet.ReplyCount, ShouldEqual, 3)
			So(tweet.RetweetCount, ShouldEqual, 7)
			So(tweet.QuoteCount, ShouldEqual, 1)
			So(tweet.BookmarkCount, ShouldEqual, 5)

			So(tweet.Videos, ShouldHaveLength, 1)
			video := tweet.Videos[0]
			So(video.DisplayURL, ShouldEqual, "https://pbs.twimg.com/ext_tw_video_thumb/100/pu/img/thumb.jpg")
			So(video.Duration.MustGet(), ShouldEqual, 15200*time.Millisecond)
			So(video.Views.MustGet(), ShouldEqual, 1234)
			So(video.Sources, ShouldHaveLength, 2)

			low, high := video.Sources[0], video.Sources[1]
			So(low.Bitrate, ShouldEqual, 632000)
			So(low.ContentType, ShouldEqual, mp4)
			So(low.Size, ShouldResemble, content.Size{Width: 320, Height: 568})
			So(high.Size, ShouldResemble, content.Size{Width: 720, Height: 1280})
			So(low.ContentLength.MustGet(), ShouldEqual, 4096)
			So(high.ContentLength.MustGet(), ShouldEqual, 4096)
		})

		Convey("A quoted permalink is followed and its video attributed to the outer tweet", func() {
			tweet, kind := extract(x, "200")
			So(kind, ShouldEqual, content.Success)
			So(tweet.SourceURL, ShouldEqual, "https://x.com/squidlr/status/200")
			So(tweet.Username, ShouldEqual, "quoter")
			So(tweet.FullName, ShouldEqual, "The Quoter")
			So(tweet.ProfileImageURL, ShouldEqual, "https://pbs.twimg.com/profile_images/2/b_normal.jpg")
			So(tweet.FullText, ShouldEqual, "this one https://t.co/q")
			So(tweet.Videos, ShouldHaveLength, 1)
			So(tweet.Videos[0].Sources[1].URL, ShouldEndWith, "/100/pu/vid/720x1280/high.mp4?tag=12")
		})

		Convey("A status link in the text is followed when the tweet has no media", func() {
			tweet, kind := extract(x, "1300")
			So(kind, ShouldEqual, content.Success)
			So(tweet.FullText, ShouldEqual, "watch https://t.co/z")
			So(tweet.Videos, ShouldHaveLength, 1)
			So(tweet.Videos[0].Sources, ShouldHaveLength, 2)
			So(tweet.Videos[0].Sources[0].URL, ShouldEndWith, "/100/pu/vid/320x568/low.mp4?tag=12")
		})

		Convey("An amplify card is resolved through its amplify VMAP binding", func() {
			tweet, kind := extract(x, "1200")
			So(kind, ShouldEqual, content.Success)
			So(tweet.FullText, ShouldEqual, "sponsored")
			So(tweet.Videos, ShouldHaveLength, 1)

			sources := tweet.Videos[0].Sources
			So(sources, ShouldHaveLength, 1)
			So(sources[0].URL, ShouldEqual, o.URL+"/video/amplify_video/1200/vid/640x360/c.mp4")
			So(sources[0].Bitrate, ShouldEqual, 950000)
			So(sources[0].Size, ShouldResemble, content.Size{Width: 640, Height: 360})
			So(sources[0].ContentLength.MustGet(), ShouldEqual, 4096)
		})

		Convey("A poll card is resolved through its VMAP document", func() {
			tweet, kind := extract(x, "300")
			So(kind, ShouldEqual, content.Success)
			So(tweet.Videos, ShouldHaveLength, 1)

			video := tweet.Videos[0]
			So(video.DisplayURL, ShouldEqual, "https://pbs.twimg.com/card_img/300/poster.jpg")
			So(video.Sources, ShouldHaveLength, 2)
			So(video.Sources[0].URL, ShouldEqual, o.URL+"/video/ext_tw_video/300/pu/vid/480x854/a.mp4")
			So(video.Sources[0].Size, ShouldResemble, content.Size{Width: 480, Height: 854})
			So(video.Sources[0].Bitrate, ShouldEqual, 832000)
			So(video.Sources[0].ContentLength.MustGet(), ShouldEqual, 4096)
			So(video.Sources[1].Size, ShouldResemble, content.Size{Width: 720, Height: 1280})
		})

		Convey("A unified card is parsed with the media entity logic", func() {
			tweet, kind := extract(x, "400")
			So(kind, ShouldEqual, content.Success)
			So(tweet.Videos, ShouldHaveLength, 1)
			So(tweet.Videos[0].Duration.MustGet(), ShouldEqual, 9*time.Second)
			So(tweet.Videos[0].Sources, ShouldHaveLength, 1)
			So(tweet.Videos[0].Sources[0].Size, ShouldResemble, content.Size{Width: 640, Height: 360})
		})

		Convey("A broadcast card is unsupported", func() {
			_, kind := extract(x, "500")
			So(kind, ShouldEqual, content.UnsupportedVideo)
		})

		Convey("Unavailability reasons are mapped", func() {
			_, kind := extract(x, "600")
			So(kind, ShouldEqual, content.AccountSuspended)
			_, kind = extract(x, "601")
			So(kind, ShouldEqual, content.AdultContent)
			_, kind = extract(x, "602")
			So(kind, ShouldEqual, content.Protected)
			_, kind = extract(x, "603")
			So(kind, ShouldEqual, content.Error)
		})

		Convey("A missing result or a tombstone is NotFound", func() {
			_, kind := extract(x, "604")
			So(kind, ShouldEqual, content.NotFound)
			_, kind = extract(x, "605")
			So(kind, ShouldEqual, content.NotFound)
		})

		Convey("An unknown tweet is NotFound", func() {
			_, kind := extract(x, "999999")
			So(kind, ShouldEqual, content.NotFound)
		})

		Convey("A result for another tweet is an Error", func() {
			_, kind := extract(x, "700")
			So(kind, ShouldEqual, content.Error)
		})

		Convey("Visibility wrappers are unwrapped", func() {
			tweet, kind := extract(x, "800")
			So(kind, ShouldEqual, content.Success)
			So(tweet.FullText, ShouldEqual, "limited")
			So(tweet.Videos, ShouldHaveLength, 1)
		})

		Convey("A tweet without any video is NoVideo", func() {
			_, kind := extract(x, "1100")
			So(kind, ShouldEqual, content.NoVideo)
		})

		Convey("A cycle of linked tweets ends in NoVideo", func() {
			_, kind := extract(x, "900")
			So(kind, ShouldEqual, content.NoVideo)
		})

		Convey("Recursion stops at the configured depth", func() {
			shallow := New(o.Client(), WithEndpoints(o.endpoints()), WithMaxDepth(0))
			_, kind := extract(shallow, "200")
			So(kind, ShouldEqual, content.NoVideo)
		})

		Convey("A canceled request is Canceled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := x.Extract(ctx, identifier("100")).Get()
			So(content.KindOfError(err), ShouldEqual, content.Canceled)
		})
	})
}

func TestGuestTokens(t *testing.T) {
	Convey("Given a twitter origin", t, func() {
		o := newOrigin()
		defer o.Close()
		x := New(o.Client(), WithEndpoints(o.endpoints()))

		Convey("The guest token is activated once and reused", func() {
			_, kind := extract(x, "100")
			So(kind, ShouldEqual, content.Success)
			_, kind = extract(x, "1100")
			So(kind, ShouldEqual, content.NoVideo)

			So(o.activations.Load(), ShouldEqual, 1)
			So(o.seenTokens(), ShouldResemble, []string{"1000001", "1000001"})
		})

		Convey("A rejected token is replaced and the request retried once", func() {
			o.rejectTokens("1000001")

			_, kind := extract(x, "100")
			So(kind, ShouldEqual, content.Success)
			So(o.activations.Load(), ShouldEqual, 2)
			So(o.seenTokens(), ShouldResemble, []string{"1000001", "1000002"})
		})

		Convey("A token rejected twice is a GatewayError", func() {
			o.rejectTokens("1000001", "1000002")

			_, kind := extract(x, "100")
			So(kind, ShouldEqual, content.GatewayError)
			So(o.details.Load(), ShouldEqual, 2)
		})

		Convey("When activation fails the token is scraped from the tweet page", func() {
			o.activateOff.Store(true)

			_, kind := extract(x, "100")
			So(kind, ShouldEqual, content.Success)
			So(o.seenTokens(), ShouldResemble, []string{"1777777777777"})
		})

		Convey("Waiting for a slow activation gives up when the caller's context ends", func() {
			release := o.holdActivations()
			first := make(chan content.Kind, 1)
			go func() {
				_, kind := extract(x, "100")
				first <- kind
			}()
			for o.activating.Load() == 0 {
				time.Sleep(5 * time.Millisecond)
			}

			ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
			defer cancel()
			start := time.Now()
			_, err := x.Extract(ctx, identifier("200")).Get()
			So(time.Since(start), ShouldBeLessThan, 2*time.Second)
			So(content.KindOfError(err), ShouldEqual, content.Canceled)
			So(o.activating.Load(), ShouldEqual, 1)

			release()
			So(<-first, ShouldEqual, content.Success)
			So(o.activations.Load(), ShouldEqual, 1)
		})

		Convey("When no token can be obtained the extraction is a GatewayError", func() {
			o.activateOff.Store(true)
			tokens := NewGuestTokens(o.Client(), Endpoints{Activate: o.endpoints().Activate, Web: o.URL + "/missing"})

			_, err := tokens.Get(context.Background(), "100")
			So(err, ShouldNotBeNil)

			broken := New(o.Client(), WithEndpoints(Endpoints{
				API:      o.endpoints().API,
				Activate: o.endpoints().Activate,
				Web:      o.URL + "/missing",
			}))
			_, kind := extract(broken, "100")
			So(kind, ShouldEqual, content.GatewayError)
		})
	})
}
