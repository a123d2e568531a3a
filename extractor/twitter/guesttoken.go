package twitter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/buger/jsonparser"
	"github.com/metafates/gache"
	"github.com/squidlr/squidlr/extractor"
	"github.com/squidlr/squidlr/log"
)

// GuestTokenLifetime is how long an activated guest token is reused.
const GuestTokenLifetime = time.Hour

var guestTokenPattern = regexp.MustCompile(`gt=(\d{5,})`)

var errNoGuestToken = errors.New("no guest token found")

// GuestTokens owns the single cached guest token.
//
// mu only guards the cache slot. acquiring admits one acquisition at a time;
// waiting for it honors the caller's context.
type GuestTokens struct {
	client    *http.Client
	endpoints Endpoints
	cache     *gache.Cache[string]
	mu        sync.Mutex
	acquiring chan struct{}
}

func NewGuestTokens(client *http.Client, endpoints Endpoints) *GuestTokens {
	return &GuestTokens{
		client:    client,
		endpoints: endpoints,
		cache:     gache.New[string](&gache.Options{Lifetime: GuestTokenLifetime}),
		acquiring: make(chan struct{}, 1),
	}
}

// Get returns the cached token or acquires a new one. The activation endpoint
// is tried first, then the tweet's own page is scraped for a token.
func (g *GuestTokens) Get(ctx context.Context, tweetID string) (string, error) {
	if token, ok := g.cached(); ok {
		return token, nil
	}

	select {
	case g.acquiring <- struct{}{}:
		defer func() { <-g.acquiring }()
	case <-ctx.Done():
		return "", ctx.Err()
	}

	// Another caller may have acquired one while we waited.
	if token, ok := g.cached(); ok {
		return token, nil
	}

	token, err := g.activate(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		log.WithError(err).Warn("guest token activation failed, scraping tweet page")

		token, err = g.scrape(ctx, tweetID)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			return "", fmt.Errorf("acquire guest token: %w", err)
		}
	}

	g.mu.Lock()
	err = g.cache.Set(token)
	g.mu.Unlock()
	if err != nil {
		log.WithError(err).Warn("cache guest token")
	}
	return token, nil
}

func (g *GuestTokens) cached() (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	token, expired, err := g.cache.Get()
	return token, err == nil && !expired && token != ""
}

// Invalidate drops the cached token, e.g. after the API rejected it.
func (g *GuestTokens) Invalidate() {
	g.mu.Lock()
	defer g.mu.Unlock()
	_ = g.cache.Set("")
}

func (g *GuestTokens) activate(ctx context.Context) (string, error) {
	req, err := extractor.NewRequest(ctx, http.MethodPost, g.endpoints.Activate, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+bearerToken)

	resp, err := extractor.Fetch(g.client, req)
	if err != nil {
		return "", err
	}
	if resp.Status != http.StatusOK {
		return "", fmt.Errorf("activate guest token: status %d", resp.Status)
	}

	token, err := jsonparser.GetString(resp.Body, "guest_token")
	if err != nil || token == "" {
		return "", fmt.Errorf("activate guest token: %w", errNoGuestToken)
	}
	return token, nil
}

// scrape looks for the document.cookie="gt=..." assignment the web page carries.
func (g *GuestTokens) scrape(ctx context.Context, tweetID string) (string, error) {
	resp, err := extractor.Get(ctx, g.client, g.endpoints.statusPage(tweetID), nil)
	if err != nil {
		return "", err
	}
	if resp.Status != http.StatusOK {
		return "", fmt.Errorf("scrape guest token: status %d", resp.Status)
	}

	doc, err := resp.Document()
	if err != nil {
		return "", fmt.Errorf("scrape guest token: %w", err)
	}

	var token string
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if m := guestTokenPattern.FindStringSubmatch(s.Text()); m != nil {
			token = m[1]
			return false
		}
		return true
	})

	if token == "" {
		return "", fmt.Errorf("scrape guest token: %w", errNoGuestToken)
	}
	return token, nil
}
