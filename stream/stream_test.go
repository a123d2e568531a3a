package stream

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

var payload = []byte(strings.Repeat("0123456789", 1000))

// statusWriter records whether a status line was ever written.
type statusWriter struct {
	*httptest.ResponseRecorder
	calls int
}

func (s *statusWriter) WriteHeader(code int) {
	s.calls++
	s.ResponseRecorder.WriteHeader(code)
}

func newOrigin(seen *http.Header, mu *sync.Mutex) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/video.mp4", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		*seen = r.Header.Clone()
		mu.Unlock()
		w.Header().Set("Content-Type", "video/mp4")
		w.Header().Set("X-Origin-Only", "secret")
		http.ServeContent(w, r, "video.mp4", time.Time{}, bytes.NewReader(payload))
	})
	mux.HandleFunc("/live.mp4", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "video/mp4")
		w.Header().Set("Accept-Ranges", "bytes")
		w.WriteHeader(http.StatusOK)
		for i := 0; i < len(payload); i += 2500 {
			_, _ = w.Write(payload[i : i+2500])
			w.(http.Flusher).Flush()
		}
	})
	mux.HandleFunc("/gone.mp4", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("<html>gone</html>"))
	})
	return httptest.NewServer(mux)
}

func TestCopy(t *testing.T) {
	Convey("Given an origin serving a video", t, func() {
		var (
			seen http.Header
			mu   sync.Mutex
		)
		origin := newOrigin(&seen, &mu)
		defer origin.Close()

		proxy := New(origin.Client(), 1024)

		Convey("A ranged request is forwarded verbatim and mirrored", func() {
			req := httptest.NewRequest(http.MethodGet, "/video", nil)
			req.Header.Set("Range", "bytes=100-199")
			rec := httptest.NewRecorder()

			proxy.Copy(rec, req, origin.URL+"/video.mp4")

			mu.Lock()
			So(seen.Get("Range"), ShouldEqual, "bytes=100-199")
			mu.Unlock()

			So(rec.Code, ShouldEqual, http.StatusPartialContent)
			So(rec.Header().Get("Content-Length"), ShouldEqual, "100")
			So(rec.Header().Get("Content-Range"), ShouldEqual, "bytes 100-199/10000")
			So(rec.Header().Get("Content-Type"), ShouldEqual, "video/mp4")
			So(rec.Header().Get("Accept-Ranges"), ShouldEqual, "bytes")
			So(rec.Header().Get("X-Origin-Only"), ShouldBeEmpty)
			So(rec.Body.Bytes(), ShouldResemble, payload[100:200])
		})

		Convey("A chunked origin is streamed with its headers but no length", func() {
			req := httptest.NewRequest(http.MethodGet, "/video", nil)
			rec := httptest.NewRecorder()

			proxy.Copy(rec, req, origin.URL+"/live.mp4")

			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Header().Get("Content-Type"), ShouldEqual, "video/mp4")
			So(rec.Header().Get("Accept-Ranges"), ShouldEqual, "bytes")
			So(rec.Header().Get("Content-Length"), ShouldBeEmpty)
			So(rec.Body.Bytes(), ShouldResemble, payload)
		})

		Convey("A full request streams the whole body through a small buffer", func() {
			req := httptest.NewRequest(http.MethodGet, "/video", nil)
			rec := httptest.NewRecorder()

			proxy.Copy(rec, req, origin.URL+"/video.mp4")

			mu.Lock()
			So(seen.Get("Range"), ShouldBeEmpty)
			mu.Unlock()
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Header().Get("Content-Length"), ShouldEqual, strconv.Itoa(len(payload)))
			So(rec.Body.Bytes(), ShouldResemble, payload)
		})

		Convey("An origin error status is mirrored without its body", func() {
			rec := httptest.NewRecorder()
			proxy.Copy(rec, httptest.NewRequest(http.MethodGet, "/video", nil), origin.URL+"/gone.mp4")

			So(rec.Code, ShouldEqual, http.StatusNotFound)
			So(rec.Header().Get("Content-Type"), ShouldBeEmpty)
			So(rec.Body.Len(), ShouldEqual, 0)
		})

		Convey("An unreachable origin is a 502", func() {
			rec := httptest.NewRecorder()
			proxy.Copy(rec, httptest.NewRequest(http.MethodGet, "/video", nil), "http://127.0.0.1:1/video.mp4")
			So(rec.Code, ShouldEqual, http.StatusBadGateway)
		})

		Convey("A canceled caller gets nothing written", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			req := httptest.NewRequest(http.MethodGet, "/video", nil).WithContext(ctx)
			w := &statusWriter{ResponseRecorder: httptest.NewRecorder()}

			proxy.Copy(w, req, origin.URL+"/video.mp4")
			So(w.calls, ShouldEqual, 0)
			So(w.Body.Len(), ShouldEqual, 0)
		})

		Convey("Download copies the body to a writer", func() {
			var buf bytes.Buffer
			n, err := proxy.Download(context.Background(), origin.URL+"/video.mp4", &buf)
			So(err, ShouldBeNil)
			So(n, ShouldEqual, len(payload))
			So(buf.Bytes(), ShouldResemble, payload)

			_, err = proxy.Download(context.Background(), origin.URL+"/gone.mp4", io.Discard)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestBufferPool(t *testing.T) {
	Convey("Buffers have the configured size", t, func() {
		p := newBufferPool(4096)
		buf := p.get()
		So(len(*buf), ShouldEqual, 4096)
		p.put(buf)

		So(len(*newBufferPool(0).get()), ShouldEqual, DefaultBufferSize)
	})
}
