package scorecache_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	model "github.com/ewscore/ewscore/internal/domain/model"
	scorecache "github.com/ewscore/ewscore/internal/domain/scorecache"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCacheKey(t *testing.T) {
	Convey("Given batches of measurements", t, func() {
		Convey("When two batches differ only in order and casing", func() {
			a := scorecache.Key(1, model.Batch{
				{Type: "HR", Value: 70},
				{Type: "RR", Value: 15},
			})
			b := scorecache.Key(1, model.Batch{
				{Type: "rr", Value: 15},
				{Type: " hr ", Value: 70},
			})

			Convey("Then they should share a key", func() {
				So(a, ShouldEqual, b)
			})
		})

		Convey("When two batches differ in a value", func() {
			a := scorecache.Key(1, model.Batch{{Type: "HR", Value: 70}})
			b := scorecache.Key(1, model.Batch{{Type: "HR", Value: 71}})

			Convey("Then their keys should differ", func() {
				So(a, ShouldNotEqual, b)
			})
		})

		Convey("When the catalogue generation changes", func() {
			batch := model.Batch{{Type: "HR", Value: 70}}
			a := scorecache.Key(1, batch)
			b := scorecache.Key(2, batch)

			Convey("Then the same batch should key differently", func() {
				So(a, ShouldNotEqual, b)
			})
		})
	})
}

func TestInMemoryCache(t *testing.T) {
	Convey("Given a new in-memory score cache", t, func() {
		Convey("When creating a cache with default options", func() {
			c := scorecache.NewInMemoryCache()

			Convey("Then it should start empty", func() {
				So(c, ShouldNotBeNil)
				So(c.Size(), ShouldEqual, 0)
			})
		})

		Convey("When storing and looking up scores", func() {
			c := scorecache.NewInMemoryCache()

			Convey("And the key is new", func() {
				_, ok := c.Lookup(context.Background(), "g1|hr=70")

				Convey("Then the lookup should miss", func() {
					So(ok, ShouldBeFalse)
				})
			})

			Convey("And a score was stored", func() {
				c.Store(context.Background(), "g1|hr=70", 3)

				score, ok := c.Lookup(context.Background(), "g1|hr=70")

				Convey("Then the lookup should hit", func() {
					So(ok, ShouldBeTrue)
					So(score, ShouldEqual, 3)
					So(c.Size(), ShouldEqual, 1)
				})
			})

			Convey("And the same key is stored twice", func() {
				c.Store(context.Background(), "g1|hr=70", 3)
				c.Store(context.Background(), "g1|hr=70", 5)

				score, ok := c.Lookup(context.Background(), "g1|hr=70")

				Convey("Then the score should be updated without growing", func() {
					So(ok, ShouldBeTrue)
					So(score, ShouldEqual, 5)
					So(c.Size(), ShouldEqual, 1)
				})
			})
		})

		Convey("When using bounded mode with eviction", func() {
			c := scorecache.NewInMemoryCache(scorecache.WithMaxEntries(3))

			keys := []string{"k1", "k2", "k3"}
			for i, k := range keys {
				c.Store(context.Background(), k, i)
			}
			So(c.Size(), ShouldEqual, 3)

			Convey("And a fourth entry is stored", func() {
				c.Store(context.Background(), "k4", 9)

				Convey("Then the oldest entry should be evicted", func() {
					So(c.Size(), ShouldEqual, 3)

					_, ok := c.Lookup(context.Background(), "k1")
					So(ok, ShouldBeFalse)

					score, ok := c.Lookup(context.Background(), "k4")
					So(ok, ShouldBeTrue)
					So(score, ShouldEqual, 9)
				})
			})
		})

		Convey("When using unbounded mode", func() {
			c := scorecache.NewInMemoryCache(scorecache.WithMaxEntries(0))

			const numEntries = 1000
			for i := 0; i < numEntries; i++ {
				c.Store(context.Background(), fmt.Sprintf("key-%d", i), i)
			}

			Convey("Then nothing should be evicted", func() {
				So(c.Size(), ShouldEqual, int64(numEntries))

				score, ok := c.Lookup(context.Background(), "key-0")
				So(ok, ShouldBeTrue)
				So(score, ShouldEqual, 0)
			})
		})
	})
}

func TestCacheConcurrency(t *testing.T) {
	Convey("Given a cache with concurrent access", t, func() {
		c := scorecache.NewInMemoryCache(scorecache.WithMaxEntries(10000))
		const numGoroutines = 10
		const entriesPerGoroutine = 100

		Convey("When multiple goroutines store and look up concurrently", func() {
			var wg sync.WaitGroup
			for i := 0; i < numGoroutines; i++ {
				wg.Add(1)
				go func(id int) {
					defer wg.Done()
					for j := 0; j < entriesPerGoroutine; j++ {
						key := fmt.Sprintf("key-%d-%d", id, j)
						c.Store(context.Background(), key, j)
						c.Lookup(context.Background(), key)
					}
				}(i)
			}
			wg.Wait()

			Convey("Then every entry should be recorded exactly once", func() {
				So(c.Size(), ShouldEqual, int64(numGoroutines*entriesPerGoroutine))
			})
		})
	})
}
