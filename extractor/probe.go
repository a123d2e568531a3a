package extractor

import (
	"context"
	"net/http"

	"github.com/squidlr/squidlr/content"
	"github.com/squidlr/squidlr/network"
	"golang.org/x/sync/errgroup"
)

const probeConcurrency = 8

// FillContentLengths probes every source of videos whose length is still
// unknown, concurrently. Failed probes leave the length unset.
func FillContentLengths(ctx context.Context, client *http.Client, videos []content.Video) {
	var g errgroup.Group
	g.SetLimit(probeConcurrency)

	for i := range videos {
		for j := range videos[i].Sources {
			source := &videos[i].Sources[j]
			if source.ContentLength.IsPresent() {
				continue
			}
			g.Go(func() error {
				source.ContentLength = network.ContentLength(ctx, client, source.URL)
				return nil
			})
		}
	}

	_ = g.Wait()
}
