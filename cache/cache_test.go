package cache

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/squidlr/squidlr/filesystem"
	"github.com/squidlr/squidlr/key"
)

func init() {
	filesystem.SetMemMapFs()
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestMemory(t *testing.T) {
	Convey("Given a memory store", t, func() {
		ctx := context.Background()
		c := &clock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
		store := NewMemory()
		store.now = c.now

		So(store.Set(ctx, "twitter-1", []byte("a"), time.Hour), ShouldBeNil)

		Convey("A fresh entry is returned", func() {
			value, ok, err := store.Get(ctx, "twitter-1")
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)
			So(string(value), ShouldEqual, "a")
		})

		Convey("A missing key is a miss, not an error", func() {
			_, ok, err := store.Get(ctx, "twitter-2")
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)
		})

		Convey("An expired entry is a miss and is dropped", func() {
			c.advance(time.Hour)
			_, ok, _ := store.Get(ctx, "twitter-1")
			So(ok, ShouldBeFalse)
			So(store.Len(), ShouldEqual, 0)
		})

		Convey("Collect removes expired entries only", func() {
			So(store.Set(ctx, "twitter-2", []byte("b"), 3*time.Hour), ShouldBeNil)
			c.advance(2 * time.Hour)
			So(store.Collect(), ShouldEqual, 1)
			So(store.Len(), ShouldEqual, 1)
		})

		Convey("Stored values are not aliased to the caller's slice", func() {
			buf := []byte("xyz")
			So(store.Set(ctx, "k", buf, time.Hour), ShouldBeNil)
			buf[0] = 'X'
			value, _, _ := store.Get(ctx, "k")
			So(string(value), ShouldEqual, "xyz")
		})
	})
}

func TestRedis(t *testing.T) {
	Convey("Given a redis store", t, func() {
		mr, err := miniredis.Run()
		So(err, ShouldBeNil)
		defer mr.Close()

		store, err := NewRedis(&redis.Options{Addr: mr.Addr()})
		So(err, ShouldBeNil)
		defer store.Close()

		ctx := context.Background()
		So(store.Set(ctx, "tiktok-9", []byte(`{"result":"NoVideo"}`), time.Hour), ShouldBeNil)

		Convey("Values are namespaced and carry a ttl", func() {
			So(mr.Exists("squidlr:content:tiktok-9"), ShouldBeTrue)
			So(mr.TTL("squidlr:content:tiktok-9"), ShouldEqual, time.Hour)
		})

		Convey("A stored value is returned", func() {
			value, ok, err := store.Get(ctx, "tiktok-9")
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)
			So(string(value), ShouldEqual, `{"result":"NoVideo"}`)
		})

		Convey("Values disappear after their ttl", func() {
			mr.FastForward(time.Hour + time.Second)
			_, ok, err := store.Get(ctx, "tiktok-9")
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)
		})
	})

	Convey("An unreachable redis is reported at construction", t, func() {
		_, err := NewRedis(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
		So(err, ShouldNotBeNil)
	})

	Convey("A client that cannot be instrumented is closed", t, func() {
		var built *redis.Client
		previous := instrumentTracing
		instrumentTracing = func(rdb *redis.Client) error {
			built = rdb
			return errors.New("tracer unavailable")
		}
		defer func() { instrumentTracing = previous }()

		_, err := NewRedis(&redis.Options{Addr: "127.0.0.1:1"})
		So(err, ShouldNotBeNil)
		So(built, ShouldNotBeNil)
		So(errors.Is(built.Ping(context.Background()).Err(), redis.ErrClosed), ShouldBeTrue)
	})
}

func TestFile(t *testing.T) {
	Convey("Given a file store", t, func() {
		ctx := context.Background()
		c := &clock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
		path := filepath.Join("/cache", t.Name(), "content.json")
		store := NewFile(path)
		store.now = c.now

		So(store.Set(ctx, "instagram-abc", []byte("x"), time.Minute), ShouldBeNil)

		Convey("The entry survives a new store on the same path", func() {
			other := NewFile(path)
			other.now = c.now
			value, ok, err := other.Get(ctx, "instagram-abc")
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)
			So(string(value), ShouldEqual, "x")
		})

		Convey("Expired entries are misses", func() {
			c.advance(time.Minute)
			_, ok, err := store.Get(ctx, "instagram-abc")
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)
		})
	})
}

func TestFromConfig(t *testing.T) {
	Convey("The configured backend is built", t, func() {
		viper.Set(key.CacheBackend, BackendMemory)
		store, err := FromConfig()
		So(err, ShouldBeNil)
		So(store, ShouldHaveSameTypeAs, &Memory{})

		viper.Set(key.CacheBackend, BackendFile)
		store, err = FromConfig()
		So(err, ShouldBeNil)
		So(store, ShouldHaveSameTypeAs, &File{})

		viper.Set(key.CacheBackend, "memcached")
		_, err = FromConfig()
		So(err, ShouldNotBeNil)
		viper.Set(key.CacheBackend, BackendMemory)
	})
}
