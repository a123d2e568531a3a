package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Otel adds events to the span in the context, if any.
type Otel struct{}

func (Otel) Track(ctx context.Context, event Event) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("squidlr.event.id", event.ID.String()),
		attribute.String("squidlr.platform", event.Identifier.Platform.String()),
		attribute.String("squidlr.content.id", event.Identifier.ID),
	}
	if event.Type == Outcome {
		attrs = append(attrs,
			attribute.String("squidlr.result", event.Result.String()),
			attribute.Bool("squidlr.cached", event.Cached),
		)
	}
	span.AddEvent(string(event.Type), trace.WithAttributes(attrs...))
}
