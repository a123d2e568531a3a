// Package server exposes content resolution and video streaming over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rs/cors"
	"github.com/squidlr/squidlr/constant"
	"github.com/squidlr/squidlr/content"
	"github.com/squidlr/squidlr/log"
	"github.com/squidlr/squidlr/util"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Resolver interface {
	Resolve(url string) content.Identifier
}

type ContentProvider interface {
	GetContent(ctx context.Context, id content.Identifier) content.Result
}

type Streamer interface {
	Copy(w http.ResponseWriter, r *http.Request, url string)
}

type Server struct {
	resolver Resolver
	provider ContentProvider
	streamer Streamer
	origins  []string
}

func New(resolver Resolver, provider ContentProvider, streamer Streamer, origins []string) *Server {
	return &Server{
		resolver: resolver,
		provider: provider,
		streamer: streamer,
		origins:  origins,
	}
}

// Handler routes the endpoints behind CORS and tracing middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /content", s.handleContent)
	mux.HandleFunc("GET /video", s.handleVideo)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	c := cors.New(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowedHeaders: []string{"Range", "Content-Type"},
		ExposedHeaders: []string{constant.HeaderPlatform, "Content-Disposition", "Content-Length", "Content-Range", "Accept-Ranges"},
	})

	return otelhttp.NewHandler(c.Handler(mux), constant.Squidlr, otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
		return fmt.Sprintf("HTTP %s %s", r.Method, r.URL.Path)
	}))
}

// resolve turns the url query parameter into content. ok is false when a
// response has been written already.
func (s *Server) resolve(w http.ResponseWriter, r *http.Request) (content.Identifier, content.Content, bool) {
	raw := r.URL.Query().Get("url")
	if raw == "" {
		writeProblem(w, Problem{
			Type:   "about:blank",
			Title:  http.StatusText(http.StatusBadRequest),
			Detail: "The url query parameter is required.",
			Status: http.StatusBadRequest,
			Result: content.Error,
		})
		return content.UnknownIdentifier, nil, false
	}

	id := s.resolver.Resolve(raw)
	if id.IsUnknown() {
		writeProblem(w, problemOf(content.PlatformNotSupported))
		return id, nil, false
	}

	result := s.provider.GetContent(r.Context(), id)
	c, err := result.Get()
	if err != nil {
		kind := content.KindOfError(err)
		if kind == content.Canceled {
			log.WithField("id", id.String()).Debug("request canceled")
		}
		writeProblem(w, problemOf(kind))
		return id, nil, false
	}
	return id, c, true
}

func (s *Server) handleContent(w http.ResponseWriter, r *http.Request) {
	id, c, ok := s.resolve(w, r)
	if !ok {
		return
	}
	w.Header().Set(constant.HeaderPlatform, id.Platform.String())
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleVideo(w http.ResponseWriter, r *http.Request) {
	videoIndex, err := intParam(r, "video")
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	sourceIndex, err := intParam(r, "source")
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	id, c, ok := s.resolve(w, r)
	if !ok {
		return
	}

	video, ok := c.Common().Video(videoIndex)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	source, ok := video.Source(sourceIndex)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	w.Header().Set(constant.HeaderPlatform, id.Platform.String())
	w.Header().Set("Content-Type", constant.MediaTypeVideo)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; fileName=%s", FileName(id)))
	s.streamer.Copy(w, r, source.URL)
}

// FileName is the download name of a video of id. Share codes may carry
// characters that are not valid in file names, so the id is sanitized.
func FileName(id content.Identifier) string {
	return fmt.Sprintf("%s-%s-%s.mp4", constant.Squidlr, id.Platform, util.SanitizeFilename(id.ID))
}

func intParam(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return n, nil
}
