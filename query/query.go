// Package query remembers resolved post URLs and suggests them back in completions.
package query

import (
	"strings"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
	"github.com/squidlr/squidlr/filesystem"
	"github.com/squidlr/squidlr/key"
	"github.com/squidlr/squidlr/where"
	"golang.org/x/exp/slices"
)

type queryRecord struct {
	Rank  int    `json:"rank"`
	Query string `json:"query"`
}

var cacher = sync.OnceValue(func() *gache.Cache[map[string]*queryRecord] {
	return gache.New[map[string]*queryRecord](&gache.Options{
		Path:       where.Queries(),
		FileSystem: &filesystem.GacheFs{},
	})
})

var (
	suggestionCache   = make(map[string][]*queryRecord)
	suggestionCacheMu sync.Mutex
)

// Remember records an URL or raises its rank by weight when it is already known.
func Remember(q string, weight int) error {
	q = sanitize(q)
	if q == "" {
		return nil
	}

	cached, expired, err := cacher().Get()
	if expired || err != nil || cached == nil {
		cached = make(map[string]*queryRecord)
	}

	if record, ok := cached[q]; ok {
		record.Rank += weight
	} else {
		cached[q] = &queryRecord{Rank: weight, Query: q}
	}

	suggestionCacheMu.Lock()
	clear(suggestionCache)
	suggestionCacheMu.Unlock()

	return cacher().Set(cached)
}

// Suggest returns the best ranked URL matching q.
func Suggest(q string) mo.Option[string] {
	suggestions := SuggestMany(q)
	if len(suggestions) == 0 {
		return mo.None[string]()
	}
	return mo.Some(suggestions[0])
}

// SuggestMany returns remembered URLs fuzzily matching q, highest rank first.
func SuggestMany(q string) []string {
	if !viper.GetBool(key.CliURLSuggestions) {
		return []string{}
	}

	q = sanitize(q)

	suggestionCacheMu.Lock()
	defer suggestionCacheMu.Unlock()

	records, ok := suggestionCache[q]
	if !ok {
		cached, expired, err := cacher().Get()
		if err != nil || expired || cached == nil {
			return []string{}
		}

		for _, record := range cached {
			if fuzzy.MatchFold(q, record.Query) {
				records = append(records, record)
			}
		}

		slices.SortFunc(records, func(a, b *queryRecord) int {
			if a.Rank != b.Rank {
				return b.Rank - a.Rank
			}
			return strings.Compare(a.Query, b.Query)
		})

		suggestionCache[q] = records
	}

	return lo.Map(records, func(r *queryRecord, _ int) string {
		return r.Query
	})
}

// URLs are case sensitive past the host, so only surrounding space is trimmed.
func sanitize(q string) string {
	return strings.TrimSpace(q)
}
