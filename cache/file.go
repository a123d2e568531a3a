package cache

import (
	"context"
	"sync"
	"time"

	"github.com/metafates/gache"
	"github.com/squidlr/squidlr/filesystem"
)

type fileEntry struct {
	Value   []byte    `json:"value"`
	Expires time.Time `json:"expires"`
}

type fileData struct {
	Entries map[string]fileEntry `json:"entries"`
}

// File keeps results in a single json document, so a CLI can reuse them between runs.
type File struct {
	internal *gache.Cache[*fileData]
	mu       sync.Mutex
	now      func() time.Time
}

func NewFile(path string) *File {
	return &File{
		internal: gache.New[*fileData](&gache.Options{
			Path:       path,
			FileSystem: &filesystem.GacheFs{},
		}),
		now: time.Now,
	}
}

func (f *File) Get(_ context.Context, key string) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, _, err := f.internal.Get()
	if err != nil {
		return nil, false, err
	}
	if data == nil {
		return nil, false, nil
	}

	entry, ok := data.Entries[key]
	if !ok || !f.now().Before(entry.Expires) {
		return nil, false, nil
	}
	return entry.Value, true, nil
}

// Set also drops expired entries so the document does not grow forever.
func (f *File) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, _, err := f.internal.Get()
	if err != nil {
		return err
	}
	if data == nil || data.Entries == nil {
		data = &fileData{Entries: make(map[string]fileEntry)}
	}

	now := f.now()
	for k, entry := range data.Entries {
		if !now.Before(entry.Expires) {
			delete(data.Entries, k)
		}
	}
	data.Entries[key] = fileEntry{Value: value, Expires: now.Add(ttl)}
	return f.internal.Set(data)
}
