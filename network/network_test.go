package network

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/squidlr/squidlr/key"
)

func TestContentLength(t *testing.T) {
	Convey("Given an origin serving a video", t, func() {
		var method string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			method = r.Method
			switch r.URL.Path {
			case "/video.mp4":
				w.Header().Set("Content-Length", "4096")
				w.WriteHeader(http.StatusOK)
			default:
				w.WriteHeader(http.StatusNotFound)
			}
		}))
		defer srv.Close()

		Convey("The length comes from a HEAD request", func() {
			length := ContentLength(context.Background(), Client, srv.URL+"/video.mp4")
			So(method, ShouldEqual, http.MethodHead)
			So(length.IsPresent(), ShouldBeTrue)
			So(length.MustGet(), ShouldEqual, 4096)
		})

		Convey("A failing probe yields no length", func() {
			So(ContentLength(context.Background(), Client, srv.URL+"/missing").IsPresent(), ShouldBeFalse)
			So(ContentLength(context.Background(), Client, "http://127.0.0.1:1/x").IsPresent(), ShouldBeFalse)
			So(ContentLength(context.Background(), Client, "::bad").IsPresent(), ShouldBeFalse)
		})
	})
}

func TestFingerprintTransport(t *testing.T) {
	Convey("Plain http requests are served over HTTP/1.1", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, r.Proto)
		}))
		defer srv.Close()

		resp, err := TLSClient.Get(srv.URL)
		So(err, ShouldBeNil)
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		So(strings.HasPrefix(string(body), "HTTP/1."), ShouldBeTrue)
	})

	Convey("Fingerprinted follows the configuration", t, func() {
		viper.Set(key.NetworkTLSFingerprint, false)
		So(Fingerprinted(), ShouldEqual, Client)
		viper.Set(key.NetworkTLSFingerprint, true)
		So(Fingerprinted(), ShouldEqual, TLSClient)
	})
}
