// Package telemetry records what happens to content requests.
// Tracking is fire and forget: a failing sink never affects the request.
package telemetry

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/squidlr/squidlr/content"
)

type EventType string

const (
	Requested EventType = "content.requested"
	CacheHit  EventType = "content.cache_hit"
	Outcome   EventType = "content.outcome"
)

type Event struct {
	ID         uuid.UUID          `json:"id"`
	Type       EventType          `json:"type"`
	Time       time.Time          `json:"time"`
	Identifier content.Identifier `json:"identifier"`
	Result     content.Kind       `json:"result"`
	Cached     bool               `json:"cached"`
	Elapsed    time.Duration      `json:"elapsed,omitempty"`
}

func NewEvent(typ EventType, identifier content.Identifier) Event {
	return Event{
		ID:         uuid.New(),
		Type:       typ,
		Time:       time.Now(),
		Identifier: identifier,
	}
}

type Tracker interface {
	Track(ctx context.Context, event Event)
}

// Nop discards events.
type Nop struct{}

func (Nop) Track(context.Context, Event) {}

// Multi fans an event out to every tracker.
type Multi []Tracker

func (m Multi) Track(ctx context.Context, event Event) {
	for _, t := range m {
		t.Track(ctx, event)
	}
}
