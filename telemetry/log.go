package telemetry

import (
	"context"

	"github.com/squidlr/squidlr/log"
)

// Log writes events as debug entries.
type Log struct{}

func (Log) Track(_ context.Context, event Event) {
	entry := log.WithFields(log.Fields{
		"event":    event.Type,
		"id":       event.ID,
		"platform": event.Identifier.Platform,
		"content":  event.Identifier.ID,
	})
	if event.Type == Outcome {
		entry = entry.WithField("result", event.Result).WithField("cached", event.Cached).WithField("elapsed", event.Elapsed)
	}
	entry.Debug("content event")
}
