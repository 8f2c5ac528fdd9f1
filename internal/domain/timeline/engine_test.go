package timeline_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/warfroggy/clashlens/internal/domain/model"
	"github.com/warfroggy/clashlens/internal/domain/timeline"
	. "github.com/smartystreets/goconvey/convey"
)

func TestBuildOrderingProperties(t *testing.T) {
	Convey("Given a shuffled multi-day batch with duplicates", t, func() {
		engine := timeline.New()
		rows := []model.RawSnapshot{
			{Date: "2024-05-03T09:00:00Z", Trophies: 180, Donations: 30},
			{Date: "2024-05-01T08:00:00Z", Trophies: 100, Donations: 10},
			{Date: "2024-05-02T10:00:00Z", Trophies: 140, Donations: 20},
			{Date: "2024-05-02T07:00:00Z", Trophies: 120, Donations: 15},
			{Date: "not-a-date", Trophies: 999},
		}

		Convey("When the timeline is built", func() {
			events := engine.Build(context.Background(), rows)

			Convey("Then dates are unique and ascending", func() {
				seen := map[string]bool{}
				for i, ev := range events {
					So(seen[ev.Date], ShouldBeFalse)
					seen[ev.Date] = true
					if i > 0 {
						So(ev.Date, ShouldBeGreaterThan, events[i-1].Date)
					}
				}
			})

			Convey("And the later row wins within a day", func() {
				So(len(events), ShouldEqual, 2) // day 1 has no prior baseline
				So(events[0].Date, ShouldEqual, "2024-05-02")
				So(events[0].Trophies, ShouldEqual, 140)
				So(events[0].Deltas.Trophies, ShouldEqual, 40)
			})
		})

		Convey("When the timeline is built twice on the same input", func() {
			first := engine.Build(context.Background(), rows)
			second := engine.Build(context.Background(), rows)

			Convey("Then the output is byte-identical", func() {
				a, err := json.Marshal(first)
				So(err, ShouldBeNil)
				b, err := json.Marshal(second)
				So(err, ShouldBeNil)
				So(string(a), ShouldEqual, string(b))
			})
		})
	})
}

func TestBuildDuplicateDayCollapse(t *testing.T) {
	Convey("Given two rows on the same calendar day", t, func() {
		engine := timeline.New()
		rows := []model.RawSnapshot{
			{Date: "2024-05-01T08:00:00Z", Trophies: 100},
			{Date: "2024-05-01T20:00:00Z", Trophies: 140},
		}

		Convey("When the timeline is built", func() {
			events := engine.Build(context.Background(), rows)

			Convey("Then a single event uses the 20:00Z values", func() {
				So(len(events), ShouldEqual, 1)
				So(events[0].Date, ShouldEqual, "2024-05-01")
				So(events[0].Trophies, ShouldEqual, 140)
			})
		})
	})

	Convey("Given two rows with an identical timestamp", t, func() {
		engine := timeline.New()
		rows := []model.RawSnapshot{
			{Date: "2024-05-01T12:00:00Z", Trophies: 100},
			{Date: "2024-05-01T12:00:00Z", Trophies: 140},
		}

		Convey("Then the later input element wins", func() {
			events := engine.Build(context.Background(), rows)
			So(len(events), ShouldEqual, 1)
			So(events[0].Trophies, ShouldEqual, 140)
		})
	})
}

func TestBuildNonEmptyGuarantee(t *testing.T) {
	Convey("Given three valid days with no deltas and no upgrades", t, func() {
		engine := timeline.New()
		rows := []model.RawSnapshot{
			{Date: "2024-05-01T12:00:00Z", Trophies: 100, Donations: 50},
			{Date: "2024-05-02T12:00:00Z", Trophies: 100, Donations: 50},
			{Date: "2024-05-03T12:00:00Z", Trophies: 100, Donations: 50},
		}

		Convey("When the timeline is built", func() {
			events := engine.Build(context.Background(), rows)

			Convey("Then exactly one fallback event is emitted for the last day", func() {
				So(len(events), ShouldEqual, 1)
				So(events[0].Date, ShouldEqual, "2024-05-03")
				So(events[0].Summary, ShouldEqual, "Latest snapshot — no notable changes to report.")
			})
		})
	})

	Convey("Given an empty input", t, func() {
		events := timeline.New().Build(context.Background(), nil)

		Convey("Then the output is empty", func() {
			So(len(events), ShouldEqual, 0)
		})
	})

	Convey("Given only invalid-date rows", t, func() {
		events := timeline.New().Build(context.Background(), []model.RawSnapshot{
			{Trophies: 100},
			{Date: "yesterday", Trophies: 200},
			{Date: 20240501, Trophies: 300},
		})

		Convey("Then the output is empty", func() {
			So(len(events), ShouldEqual, 0)
		})
	})
}

func TestBuildWindowBound(t *testing.T) {
	Convey("Given more significant days than the window allows", t, func() {
		engine := timeline.New(timeline.WithWindow(5))
		var rows []model.RawSnapshot
		for i := 0; i < 12; i++ {
			rows = append(rows, model.RawSnapshot{
				Date:     fmt.Sprintf("2024-05-%02dT12:00:00Z", i+1),
				Trophies: 100 + i*10,
			})
		}

		Convey("When the timeline is built", func() {
			events := engine.Build(context.Background(), rows)

			Convey("Then only the most recent entries remain, still ascending", func() {
				So(len(events), ShouldEqual, 5)
				So(events[0].Date, ShouldEqual, "2024-05-08")
				So(events[4].Date, ShouldEqual, "2024-05-12")
			})
		})
	})
}

func TestBuildNumericCoercion(t *testing.T) {
	Convey("Given scalars encoded as numeric strings and junk", t, func() {
		engine := timeline.New()
		rows := []model.RawSnapshot{
			{Date: "2024-05-01T12:00:00Z", Trophies: "100", Donations: "abc"},
			{Date: "2024-05-02T12:00:00Z", Trophies: "140", Donations: 25},
		}

		Convey("When the timeline is built", func() {
			events := engine.Build(context.Background(), rows)

			Convey("Then numeric text behaves like numbers and junk like missing", func() {
				So(len(events), ShouldEqual, 1)
				So(events[0].Date, ShouldEqual, "2024-05-02")
				So(events[0].Deltas.Trophies, ShouldEqual, 40)
				// Day 1 donations were unparseable, so no delta baseline exists.
				So(events[0].Deltas.Donations, ShouldEqual, 0)
				So(events[0].Donations, ShouldEqual, 25)
			})
		})
	})
}
