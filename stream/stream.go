// Package stream proxies byte ranges of origin videos to a caller without
// buffering them in memory.
package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/viper"
	"github.com/squidlr/squidlr/constant"
	"github.com/squidlr/squidlr/key"
	"github.com/squidlr/squidlr/log"
)

// mirrored are the origin headers passed on with a successful response,
// whether or not its length is known.
var mirrored = []string{"Content-Length", "Content-Type", "Accept-Ranges", "Content-Range"}

// Proxy copies origin responses to callers. It is safe for concurrent use.
type Proxy struct {
	client  *http.Client
	buffers *bufferPool
}

func New(client *http.Client, bufferSize int) *Proxy {
	return &Proxy{client: client, buffers: newBufferPool(bufferSize)}
}

// FromConfig uses stream.buffer_size.
func FromConfig(client *http.Client) *Proxy {
	return New(client, viper.GetInt(key.StreamBufferSize))
}

// Copy requests url and writes the origin's status, headers and body to w.
// A Range header of r is forwarded as is. Origin failures become a 502 when
// nothing has been written yet; a canceled request stops silently.
func (p *Proxy) Copy(w http.ResponseWriter, r *http.Request, url string) {
	ctx := r.Context()
	logger := log.WithField("url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		logger.WithError(err).Warn("build origin request")
		w.WriteHeader(http.StatusBadGateway)
		return
	}
	req.Header.Set("User-Agent", constant.UserAgent)
	if rng := r.Header.Get("Range"); rng != "" {
		req.Header.Set("Range", rng)
	}

	// Client.Do returns once the headers are read; the body is streamed below.
	resp, err := p.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		logger.WithError(err).Warn("origin request failed")
		w.WriteHeader(http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	// A chunked origin has no Content-Length to mirror; the rest still applies.
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		for _, name := range mirrored {
			if value := resp.Header.Get(name); value != "" {
				w.Header().Set(name, value)
			}
		}
	}
	w.WriteHeader(resp.StatusCode)

	if r.Method == http.MethodHead || resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return
	}

	written, err := p.copyBody(ctx, w, resp.Body)
	switch {
	case err == nil:
	case ctx.Err() != nil || errors.Is(err, context.Canceled):
		logger.WithField("written", written).Debug("stream canceled by caller")
	default:
		// The status line is gone already, truncating is all that is left.
		logger.WithError(err).WithField("written", written).Warn("stream interrupted")
	}
}

func (p *Proxy) copyBody(ctx context.Context, w io.Writer, body io.Reader) (int64, error) {
	buf := p.buffers.get()
	defer p.buffers.put(buf)

	var written int64
	for {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		n, readErr := body.Read(*buf)
		if n > 0 {
			m, writeErr := w.Write((*buf)[:n])
			written += int64(m)
			if writeErr != nil {
				return written, writeErr
			}
			if m != n {
				return written, io.ErrShortWrite
			}
			if f, ok := w.(http.Flusher); ok && n < len(*buf) {
				f.Flush()
			}
		}
		if readErr == io.EOF {
			return written, nil
		}
		if readErr != nil {
			return written, readErr
		}
	}
}

// Download copies the whole origin body of url to dst.
func (p *Proxy) Download(ctx context.Context, url string, dst io.Writer) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", constant.UserAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("download %s: origin answered %s", url, resp.Status)
	}
	return p.copyBody(ctx, dst, resp.Body)
}
