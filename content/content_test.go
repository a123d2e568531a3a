package content

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

func TestIdentifier(t *testing.T) {
	Convey("Given two identifiers for the same tweet", t, func() {
		a := NewIdentifier(Twitter, "123", "https://twitter.com/a/status/123")
		b := NewIdentifier(Twitter, "123", "https://x.com/a/status/123")

		Convey("They are equal regardless of URL", func() {
			So(a.Equal(b), ShouldBeTrue)
			So(a.Equal(NewIdentifier(Twitter, "124", a.URL)), ShouldBeFalse)
		})

		Convey("The cache key combines platform and id", func() {
			So(a.CacheKey(), ShouldEqual, "twitter-123")
			So(a.CacheKey(), ShouldEqual, b.CacheKey())
		})
	})

	Convey("UnknownIdentifier is unknown", t, func() {
		So(UnknownIdentifier.IsUnknown(), ShouldBeTrue)
		So(UnknownIdentifier.String(), ShouldEqual, "unknown")
	})
}

func TestPlatform(t *testing.T) {
	Convey("Platforms parse back from their names", t, func() {
		for _, p := range Platforms() {
			parsed, err := ParsePlatform(p.String())
			So(err, ShouldBeNil)
			So(parsed, ShouldEqual, p)
		}

		p, err := ParsePlatform("X")
		So(err, ShouldBeNil)
		So(p, ShouldEqual, Twitter)

		_, err = ParsePlatform("myspace")
		So(err, ShouldNotBeNil)
	})
}

func TestKind(t *testing.T) {
	Convey("Kinds map to transport status codes", t, func() {
		for _, k := range []Kind{NotFound, NoVideo, UnsupportedVideo, AccountSuspended, Protected} {
			So(k.Status(), ShouldEqual, http.StatusNotFound)
		}
		So(PlatformNotSupported.Status(), ShouldEqual, http.StatusBadRequest)
		So(AdultContent.Status(), ShouldEqual, http.StatusUnavailableForLegalReasons)
		So(GatewayError.Status(), ShouldEqual, http.StatusBadGateway)
		So(Error.Status(), ShouldEqual, http.StatusInternalServerError)
		So(Canceled.Status(), ShouldEqual, 499)
	})

	Convey("Only transient outcomes are not cacheable", t, func() {
		So(GatewayError.Cacheable(), ShouldBeFalse)
		So(Error.Cacheable(), ShouldBeFalse)
		So(Canceled.Cacheable(), ShouldBeFalse)
		for _, k := range []Kind{Success, NotFound, NoVideo, UnsupportedVideo, AccountSuspended, Protected, AdultContent, PlatformNotSupported} {
			So(k.Cacheable(), ShouldBeTrue)
		}
	})

	Convey("KindOf classifies errors", t, func() {
		So(KindOf(Fail(NoVideo)), ShouldEqual, NoVideo)
		So(KindOf(mo.Err[Content](fmt.Errorf("wrapped: %w", Protected))), ShouldEqual, Protected)
		So(KindOf(mo.Err[Content](context.Canceled)), ShouldEqual, Canceled)
		So(KindOf(mo.Err[Content](fmt.Errorf("fetch: %w", context.DeadlineExceeded))), ShouldEqual, Canceled)
		So(KindOf(mo.Err[Content](errors.New("boom"))), ShouldEqual, Error)
		So(KindOf(Ok(New(Twitter, ""))), ShouldEqual, Success)
	})
}

func TestVideo(t *testing.T) {
	Convey("Given a video with one source", t, func() {
		v := Video{}
		So(v.AddSource(VideoSource{URL: "https://cdn/a.mp4", Bitrate: 1}), ShouldBeTrue)

		Convey("A source with the same URL is a duplicate even with other metadata", func() {
			So(v.AddSource(VideoSource{URL: "https://cdn/a.mp4", Bitrate: 2}), ShouldBeFalse)
			So(v.Sources, ShouldHaveLength, 1)
		})

		Convey("Out of range sources are reported", func() {
			_, ok := v.Source(1)
			So(ok, ShouldBeFalse)
		})
	})
}

func TestResultCodec(t *testing.T) {
	Convey("Given a successful twitter result", t, func() {
		tweet := New(Twitter, "https://x.com/a/status/1").(*TwitterContent)
		tweet.Username = "a"
		tweet.FullName = "A"
		tweet.CreatedAt = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
		tweet.Videos = []Video{{
			Duration: mo.Some(30 * time.Second),
			Sources: []VideoSource{{
				URL:           "https://video.twimg.com/480x854/v.mp4",
				ContentLength: mo.Some[int64](1024),
				ContentType:   "video/mp4",
				Size:          Size{Width: 480, Height: 854},
			}},
		}}

		data, err := EncodeResult(Ok(tweet))
		So(err, ShouldBeNil)

		Convey("It decodes to the same platform variant", func() {
			decoded, err := DecodeResult(data)
			So(err, ShouldBeNil)
			c, err := decoded.Get()
			So(err, ShouldBeNil)
			So(c, ShouldHaveSameTypeAs, &TwitterContent{})
			So(c.(*TwitterContent).FullName, ShouldEqual, "A")
			So(c.Common().Videos[0].Sources[0].ContentLength.OrEmpty(), ShouldEqual, 1024)

			again, err := EncodeResult(decoded)
			So(err, ShouldBeNil)
			So(string(again), ShouldEqual, string(data))
		})
	})

	Convey("A failure decodes to the same kind", t, func() {
		data, err := EncodeResult(Fail(AccountSuspended))
		So(err, ShouldBeNil)
		decoded, err := DecodeResult(data)
		So(err, ShouldBeNil)
		So(KindOf(decoded), ShouldEqual, AccountSuspended)
	})
}
