// Package network provides the HTTP clients used to talk to origin platforms.
package network

import (
	"net/http"
	"time"

	"github.com/spf13/viper"
	"github.com/squidlr/squidlr/key"
)

// Client is shared by every extractor and the stream proxy.
// It has no overall timeout since video streams may legitimately run for minutes;
// connection level limits come from the transport.
var Client = &http.Client{
	Transport: newTransport(),
}

func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 100
	t.MaxIdleConnsPerHost = 100
	t.MaxConnsPerHost = 200
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = 30 * time.Second
	t.ExpectContinueTimeout = 30 * time.Second
	return t
}

// Fingerprinted returns the Chrome fingerprint client, or Client when
// network.tls_fingerprint is disabled.
func Fingerprinted() *http.Client {
	if !viper.GetBool(key.NetworkTLSFingerprint) {
		return Client
	}
	return TLSClient
}
