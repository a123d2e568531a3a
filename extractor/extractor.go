// Package extractor holds the plumbing shared by the platform extractors.
package extractor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"github.com/samber/mo"
	"github.com/squidlr/squidlr/constant"
	"github.com/squidlr/squidlr/content"
)

const maxBodySize = 16 << 20

// Response is a fully read origin response.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
	// URL is the final URL after redirects.
	URL *url.URL
}

// NewRequest builds a request carrying browser-like default headers.
func NewRequest(ctx context.Context, method, rawURL string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", constant.UserAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	return req, nil
}

// Fetch performs req and reads the body. Cancellation is returned as the
// context error; any other transport failure is a GatewayError.
func Fetch(client *http.Client, req *http.Request) (*Response, error) {
	resp, err := client.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %s %s: %v", content.GatewayError, req.Method, req.URL.Redacted(), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: read %s: %v", content.GatewayError, req.URL.Redacted(), err)
	}

	return &Response{
		Status: resp.StatusCode,
		Header: resp.Header,
		Body:   body,
		URL:    resp.Request.URL,
	}, nil
}

// Get is Fetch for a plain GET with default headers plus extra.
func Get(ctx context.Context, client *http.Client, rawURL string, extra http.Header) (*Response, error) {
	req, err := NewRequest(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", content.Error, err)
	}
	for name, values := range extra {
		req.Header[name] = values
	}
	return Fetch(client, req)
}

// StatusKind maps an origin status code to an outcome.
func StatusKind(status int) content.Kind {
	switch {
	case status >= 200 && status < 300:
		return content.Success
	case status == http.StatusNotFound, status == http.StatusGone:
		return content.NotFound
	case status == http.StatusUnauthorized, status == http.StatusForbidden,
		status == http.StatusTooManyRequests, status >= 500:
		return content.GatewayError
	default:
		return content.Error
	}
}

// Document parses an HTML body.
func (r *Response) Document() (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(bytes.NewReader(r.Body))
}

// Failed wraps any error into a result.
func Failed(err error) content.Result {
	return mo.Err[content.Content](err)
}
