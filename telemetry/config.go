package telemetry

import (
	"github.com/spf13/viper"
	"github.com/squidlr/squidlr/key"
)

// FromConfig combines the log and otel trackers with a NATS publisher when
// telemetry.nats_url is set. The returned func releases the connection.
func FromConfig() (Tracker, func(), error) {
	trackers := Multi{Log{}, Otel{}}

	url := viper.GetString(key.TelemetryNatsURL)
	if url == "" {
		return trackers, func() {}, nil
	}

	conn, err := ConnectNATS(url)
	if err != nil {
		return nil, nil, err
	}
	trackers = append(trackers, NewNATS(conn, viper.GetString(key.TelemetryNatsSubject)))

	return trackers, func() { _ = conn.Drain() }, nil
}
