package network

import (
	"context"
	"net/http"

	"github.com/samber/mo"
	"github.com/squidlr/squidlr/constant"
)

// ContentLength asks the origin for the size of url with a HEAD request.
// Any failure yields None.
func ContentLength(ctx context.Context, client *http.Client, url string) mo.Option[int64] {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return mo.None[int64]()
	}
	req.Header.Set("User-Agent", constant.UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return mo.None[int64]()
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK || resp.ContentLength < 0 {
		return mo.None[int64]()
	}
	return mo.Some(resp.ContentLength)
}
