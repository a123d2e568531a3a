package provider

import (
	"io"

	"github.com/spf13/viper"
	"github.com/squidlr/squidlr/cache"
	"github.com/squidlr/squidlr/extractor/facebook"
	"github.com/squidlr/squidlr/extractor/instagram"
	"github.com/squidlr/squidlr/extractor/linkedin"
	"github.com/squidlr/squidlr/extractor/tiktok"
	"github.com/squidlr/squidlr/extractor/twitter"
	"github.com/squidlr/squidlr/key"
	"github.com/squidlr/squidlr/log"
	"github.com/squidlr/squidlr/network"
	"github.com/squidlr/squidlr/telemetry"
)

// Builtins returns one extractor per supported platform.
// Platforms that fingerprint TLS clients get the Chrome fingerprint client.
func Builtins() []Extractor {
	fingerprinted := network.Fingerprinted()

	var twitterOpts []twitter.Option
	if viper.IsSet(key.TwitterMaxDepth) {
		twitterOpts = append(twitterOpts, twitter.WithMaxDepth(viper.GetInt(key.TwitterMaxDepth)))
	}

	return []Extractor{
		twitter.New(network.Client, twitterOpts...),
		tiktok.New(fingerprinted),
		instagram.New(fingerprinted),
		facebook.New(fingerprinted),
		linkedin.New(fingerprinted),
	}
}

// FromConfig assembles a provider with the builtin extractors and the
// configured cache and telemetry. The returned func releases both.
func FromConfig() (*Provider, func(), error) {
	store, err := cache.FromConfig()
	if err != nil {
		return nil, nil, err
	}

	tracker, closeTracker, err := telemetry.FromConfig()
	if err != nil {
		closeStore(store)
		return nil, nil, err
	}

	p := New(Builtins(), WithCache(store), WithTracker(tracker), WithTTL(cache.TTL()))
	return p, func() {
		closeTracker()
		closeStore(store)
	}, nil
}

// Cache exposes the store, e.g. for starting garbage collection.
func (p *Provider) Cache() cache.Store {
	return p.cache
}

func closeStore(store cache.Store) {
	if closer, ok := store.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			log.WithError(err).Warn("close cache")
		}
	}
}
