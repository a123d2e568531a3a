// Package history records finished downloads so they can be listed later.
package history

import (
	"sync"
	"time"

	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/squidlr/squidlr/content"
	"github.com/squidlr/squidlr/filesystem"
	"github.com/squidlr/squidlr/where"
	"golang.org/x/exp/slices"
)

// Download is one saved video.
type Download struct {
	Platform   content.Platform `json:"platform"`
	ID         string           `json:"id"`
	URL        string           `json:"url"`
	Video      int              `json:"video"`
	Source     int              `json:"source"`
	Path       string           `json:"path"`
	Bytes      int64            `json:"bytes"`
	Downloaded time.Time        `json:"downloaded"`
}

func (d Download) key() string {
	return d.Path
}

var cacher = sync.OnceValue(func() *gache.Cache[map[string]*Download] {
	return gache.New[map[string]*Download](&gache.Options{
		Path:       where.History(),
		FileSystem: &filesystem.GacheFs{},
	})
})

// Get returns every recorded download, newest first.
func Get() ([]*Download, error) {
	saved, err := load()
	if err != nil {
		return nil, err
	}

	downloads := lo.Values(saved)
	slices.SortFunc(downloads, func(a, b *Download) int {
		return b.Downloaded.Compare(a.Downloaded)
	})
	return downloads, nil
}

// Save records d. Downloading to the same path again replaces the older record.
func Save(d Download) error {
	saved, err := load()
	if err != nil {
		return err
	}

	if d.Downloaded.IsZero() {
		d.Downloaded = time.Now()
	}
	saved[d.key()] = &d
	return cacher().Set(saved)
}

// Remove forgets d.
func Remove(d *Download) error {
	saved, err := load()
	if err != nil {
		return err
	}

	delete(saved, d.key())
	return cacher().Set(saved)
}

func load() (map[string]*Download, error) {
	cached, expired, err := cacher().Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*Download), nil
	}
	return cached, nil
}
