package probe

import (
	"context"
	"os"
	"testing"

	"github.com/ewscore/ewscore/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		os.Exit(1)
	}
	os.Exit(m.Run())
}

func testCatalog() []MeasurementType {
	return []MeasurementType{
		{
			Name:     "HR",
			MinValue: 40,
			MaxValue: 130,
			Ranges: []RangeSpec{
				{Start: 40, End: 50, Value: 1},
				{Start: 50, End: 90, Value: 0},
				{Start: 90, End: 110, Value: 1},
				{Start: 110, End: 130, Value: 2},
			},
		},
		{
			Name:     "RR",
			MinValue: 8,
			MaxValue: 30,
			Ranges: []RangeSpec{
				{Start: 8, End: 11, Value: 1},
				{Start: 11, End: 20, Value: 0},
				{Start: 20, End: 30, Value: 2},
			},
		},
	}
}

func TestGenerateValidBatch(t *testing.T) {
	Convey("Given the test catalogue", t, func() {
		cat := testCatalog()

		Convey("When generating valid batches", func() {
			for i := 0; i < 200; i++ {
				b := generateValidBatch(cat)

				So(b.ID, ShouldNotBeEmpty)
				So(b.ExpectError, ShouldBeEmpty)
				So(len(b.Measurements), ShouldEqual, len(cat))

				expected := 0
				for j, m := range b.Measurements {
					mt := cat[j]
					So(m.Type, ShouldEqual, mt.Name)
					So(m.Value, ShouldBeGreaterThan, mt.MinValue)
					So(m.Value, ShouldBeLessThanOrEqualTo, mt.MaxValue)
					expected += expectedContribution(mt, m.Value)
				}
				So(b.ExpectedScore, ShouldEqual, expected)
			}
		})
	})
}

func TestExpectedContribution(t *testing.T) {
	Convey("Given a catalogue entry with shared boundaries", t, func() {
		hr := testCatalog()[0]

		Convey("When resolving boundary values", func() {
			Convey("Then the lower range should win on its inclusive end", func() {
				So(expectedContribution(hr, 50), ShouldEqual, 1)
				So(expectedContribution(hr, 51), ShouldEqual, 0)
				So(expectedContribution(hr, 130), ShouldEqual, 2)
			})
		})
	})
}

func TestGenerateFaultyBatch(t *testing.T) {
	Convey("Given the test catalogue", t, func() {
		cat := testCatalog()

		Convey("When generating faulty batches", func() {
			for i := 0; i < 200; i++ {
				b := generateFaultyBatch(cat)

				So(b.ExpectError, ShouldBeIn, []string{"validation_failed", "out_of_bounds"})
			}
		})
	})
}

func TestGenerateBatches(t *testing.T) {
	Convey("Given a probe configuration with a fault ratio", t, func() {
		cat := testCatalog()
		config := &Config{NumBatches: 100, FaultRatio: 0.2}
		stats := &Stats{}

		Convey("When generating the full batch set", func() {
			batches := generateBatches(context.Background(), config, cat, stats)

			Convey("Then the requested count should be produced", func() {
				So(len(batches), ShouldEqual, 100)
				So(stats.BatchesGenerated, ShouldEqual, 100)
			})

			Convey("Then the faulty share should match the ratio", func() {
				faulty := 0
				for _, b := range batches {
					if b.ExpectError != "" {
						faulty++
					}
				}
				So(faulty, ShouldEqual, 20)
			})
		})
	})
}
