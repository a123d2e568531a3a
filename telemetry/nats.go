package telemetry

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/squidlr/squidlr/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

type publisher interface {
	PublishMsg(msg *nats.Msg) error
}

// NATS publishes every event as json on a subject, with the trace context in the headers.
type NATS struct {
	conn    publisher
	subject string
}

func NewNATS(conn *nats.Conn, subject string) *NATS {
	return &NATS{conn: conn, subject: subject}
}

// ConnectNATS dials url. The caller owns the returned connection.
func ConnectNATS(url string) (*nats.Conn, error) {
	conn, err := nats.Connect(url, nats.Name("squidlr"), nats.MaxReconnects(-1))
	if err != nil {
		return nil, fmt.Errorf("connect nats at %s: %w", url, err)
	}
	return conn, nil
}

func (n *NATS) Track(ctx context.Context, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Warnf("marshal telemetry event: %s", err)
		return
	}

	msg := &nats.Msg{
		Subject: n.subject + "." + string(event.Type),
		Data:    data,
		Header:  nats.Header{},
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(msg.Header))

	if err := n.conn.PublishMsg(msg); err != nil {
		log.Debugf("publish telemetry event: %s", err)
	}
}
