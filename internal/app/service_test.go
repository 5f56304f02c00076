package service_test

import (
	"context"
	"errors"
	"os"
	"testing"

	service "github.com/ewscore/ewscore/internal/app"
	catalog "github.com/ewscore/ewscore/internal/catalog"
	model "github.com/ewscore/ewscore/internal/domain/model"
	scoring "github.com/ewscore/ewscore/internal/domain/scoring"
	"github.com/ewscore/ewscore/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		os.Exit(1)
	}
	os.Exit(m.Run())
}

func vitalsDefs() []catalog.Definition {
	return []catalog.Definition{
		{
			Name:        "HR",
			Description: "heart rate (bpm)",
			Ranges: []catalog.RangeDefinition{
				{Start: 40, End: 50, Value: 1},
				{Start: 50, End: 90, Value: 0},
				{Start: 90, End: 110, Value: 1},
				{Start: 110, End: 130, Value: 2},
			},
		},
		{
			Name:        "RR",
			Description: "respiratory rate (breaths/min)",
			Ranges: []catalog.RangeDefinition{
				{Start: 8, End: 11, Value: 1},
				{Start: 11, End: 20, Value: 0},
				{Start: 20, End: 30, Value: 2},
			},
		},
	}
}

func TestServiceLifecycle(t *testing.T) {
	Convey("Given a scoring service", t, func() {
		ctx := context.Background()

		Convey("When scoring before Start", func() {
			svc := service.New(service.WithSource(service.StaticSource(vitalsDefs())))

			_, err := svc.Score(ctx, model.Batch{{Type: "HR", Value: 70}})

			Convey("Then it should refuse", func() {
				So(err, ShouldEqual, service.ErrNotStarted)
			})
		})

		Convey("When starting without a source", func() {
			svc := service.New()

			err := svc.Start(ctx)

			Convey("Then startup should fail", func() {
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When the source fails", func() {
			svc := service.New(service.WithSource(func(context.Context) ([]catalog.Definition, error) {
				return nil, errors.New("source unavailable")
			}))

			err := svc.Start(ctx)

			Convey("Then startup should fail", func() {
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When the source yields an invalid catalogue", func() {
			svc := service.New(service.WithSource(service.StaticSource([]catalog.Definition{
				{Name: "HR"},
			})))

			err := svc.Start(ctx)

			Convey("Then startup should fail with a catalogue error", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, catalog.ErrInvalidCatalog), ShouldBeTrue)
			})
		})

		Convey("When started with a valid source", func() {
			svc := service.New(service.WithSource(service.StaticSource(vitalsDefs())))
			So(svc.Start(ctx), ShouldBeNil)
			defer svc.Stop()

			Convey("Then starting again should be a no-op", func() {
				So(svc.Start(ctx), ShouldBeNil)
			})

			Convey("Then Types should expose the catalogue in order", func() {
				types := svc.Types(ctx)
				So(len(types), ShouldEqual, 2)
				So(types[0].Name, ShouldEqual, "HR")
				So(types[1].Name, ShouldEqual, "RR")
			})
		})
	})
}

func TestServiceScore(t *testing.T) {
	Convey("Given a started scoring service", t, func() {
		ctx := context.Background()
		svc := service.New(service.WithSource(service.StaticSource(vitalsDefs())))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When scoring a well-formed batch", func() {
			score, err := svc.Score(ctx, model.Batch{
				{Type: "HR", Value: 120},
				{Type: "RR", Value: 25},
			})

			Convey("Then it should return the aggregate score", func() {
				So(err, ShouldBeNil)
				So(score, ShouldEqual, 4)
			})
		})

		Convey("When the same batch is scored twice", func() {
			batch := model.Batch{
				{Type: "HR", Value: 120},
				{Type: "RR", Value: 25},
			}

			first, err1 := svc.Score(ctx, batch)
			second, err2 := svc.Score(ctx, batch)

			Convey("Then the second answer should come from the cache", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(first, ShouldEqual, second)

				stats := svc.GetStats()
				So(stats["cacheHits"], ShouldEqual, int64(1))
			})
		})

		Convey("When the batch fails validation", func() {
			_, err := svc.Score(ctx, model.Batch{{Type: "HR", Value: 70}})

			Convey("Then the typed error should pass through", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, scoring.ErrValidation), ShouldBeTrue)
			})
		})

		Convey("When a value is out of bounds", func() {
			_, err := svc.Score(ctx, model.Batch{
				{Type: "HR", Value: 500},
				{Type: "RR", Value: 15},
			})

			Convey("Then the typed error should pass through", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, scoring.ErrOutOfBounds), ShouldBeTrue)
			})
		})

		Convey("When inspecting stats after traffic", func() {
			_, _ = svc.Score(ctx, model.Batch{
				{Type: "HR", Value: 70},
				{Type: "RR", Value: 15},
			})
			_, _ = svc.Score(ctx, model.Batch{{Type: "HR", Value: 70}})

			stats := svc.GetStats()

			Convey("Then counters should reflect the outcomes", func() {
				So(stats["scored"], ShouldEqual, int64(1))
				So(stats["rejectedValidation"], ShouldEqual, int64(1))
				So(stats["measurementTypes"], ShouldEqual, 2)
				So(stats["started"], ShouldEqual, true)
			})
		})
	})
}

func TestServiceReload(t *testing.T) {
	Convey("Given a started service with a swappable source", t, func() {
		ctx := context.Background()

		defs := vitalsDefs()
		var sourceErr error
		svc := service.New(service.WithSource(func(context.Context) ([]catalog.Definition, error) {
			return defs, sourceErr
		}))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When the source gains a measurement type", func() {
			defs = append(vitalsDefs(), catalog.Definition{
				Name:        "SPO2",
				Description: "oxygen saturation (%)",
				Ranges: []catalog.RangeDefinition{
					{Start: 85, End: 95, Value: 2},
					{Start: 95, End: 100, Value: 0},
				},
			})

			n, err := svc.Reload(ctx)

			Convey("Then the new snapshot should serve", func() {
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 3)
				So(len(svc.Types(ctx)), ShouldEqual, 3)

				score, scoreErr := svc.Score(ctx, model.Batch{
					{Type: "HR", Value: 70},
					{Type: "RR", Value: 15},
					{Type: "SPO2", Value: 90},
				})
				So(scoreErr, ShouldBeNil)
				So(score, ShouldEqual, 2)
			})
		})

		Convey("When the source starts failing", func() {
			sourceErr = errors.New("source unavailable")

			_, err := svc.Reload(ctx)

			Convey("Then the old snapshot should keep serving", func() {
				So(err, ShouldNotBeNil)

				score, scoreErr := svc.Score(ctx, model.Batch{
					{Type: "HR", Value: 70},
					{Type: "RR", Value: 15},
				})
				So(scoreErr, ShouldBeNil)
				So(score, ShouldEqual, 0)
			})
		})

		Convey("When the source yields a broken catalogue", func() {
			defs = []catalog.Definition{{Name: "HR"}}

			_, err := svc.Reload(ctx)

			Convey("Then the reload should fail and the old snapshot survive", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, catalog.ErrInvalidCatalog), ShouldBeTrue)
				So(len(svc.Types(ctx)), ShouldEqual, 2)
			})
		})

		Convey("When reloading a stopped service", func() {
			svc.Stop()

			_, err := svc.Reload(ctx)

			Convey("Then it should refuse", func() {
				So(err, ShouldEqual, service.ErrNotStarted)
			})
		})
	})
}
