package timeline_test

import (
	"context"
	"testing"

	"github.com/warfroggy/clashlens/internal/domain/model"
	"github.com/warfroggy/clashlens/internal/domain/timeline"
	. "github.com/smartystreets/goconvey/convey"
)

func TestHeroUpgradeDetection(t *testing.T) {
	Convey("Given a hero level increase between days", t, func() {
		engine := timeline.New()
		rows := []model.RawSnapshot{
			{Date: "2024-05-01T12:00:00Z", Heroes: map[string]any{"bk": 30}},
			{Date: "2024-05-02T12:00:00Z", Heroes: map[string]any{"bk": 35}},
		}

		Convey("When the timeline is built", func() {
			events := engine.Build(context.Background(), rows)

			Convey("Then the upgrade is emitted with from/to levels", func() {
				So(len(events), ShouldEqual, 1)
				So(events[0].Date, ShouldEqual, "2024-05-02")
				So(len(events[0].HeroUpgrades), ShouldEqual, 1)
				up := events[0].HeroUpgrades[0]
				So(up.Hero, ShouldEqual, "bk")
				So(*up.From, ShouldEqual, 30)
				So(up.To, ShouldEqual, 35)
			})
		})
	})

	Convey("Given an unchanged hero level", t, func() {
		engine := timeline.New()
		rows := []model.RawSnapshot{
			{Date: "2024-05-01T12:00:00Z", Heroes: map[string]any{"bk": 35}},
			{Date: "2024-05-02T12:00:00Z", Heroes: map[string]any{"bk": 35}},
		}

		Convey("Then no upgrade is emitted", func() {
			events := engine.Build(context.Background(), rows)
			So(len(events), ShouldEqual, 1) // fallback event
			So(events[0].HeroUpgrades, ShouldBeEmpty)
		})
	})

	Convey("Given multiple hero upgrades on one day", t, func() {
		engine := timeline.New()
		rows := []model.RawSnapshot{
			{Date: "2024-05-01T12:00:00Z", Heroes: map[string]any{"aq": 40, "bk": 30, "gw": 20}},
			{Date: "2024-05-02T12:00:00Z", Heroes: map[string]any{"aq": 41, "bk": 31, "gw": 20}},
		}

		Convey("Then upgrades follow the fixed hero order", func() {
			events := engine.Build(context.Background(), rows)
			So(len(events), ShouldEqual, 1)
			ups := events[0].HeroUpgrades
			So(len(ups), ShouldEqual, 2)
			So(ups[0].Hero, ShouldEqual, "bk")
			So(ups[1].Hero, ShouldEqual, "aq")
		})
	})

	Convey("Given a hero map carried forward over a silent day", t, func() {
		engine := timeline.New()
		rows := []model.RawSnapshot{
			{Date: "2024-05-01T12:00:00Z", Heroes: map[string]any{"bk": 30}},
			{Date: "2024-05-02T12:00:00Z", Trophies: 140},
			{Date: "2024-05-03T12:00:00Z", Heroes: map[string]any{"bk": 32}},
		}

		Convey("Then the upgrade compares against the carried levels", func() {
			events := engine.Build(context.Background(), rows)
			last := events[len(events)-1]
			So(last.Date, ShouldEqual, "2024-05-03")
			So(len(last.HeroUpgrades), ShouldEqual, 1)
			So(*last.HeroUpgrades[0].From, ShouldEqual, 30)
			So(last.HeroUpgrades[0].To, ShouldEqual, 32)
		})
	})
}

func TestDynamicKeyUpgrades(t *testing.T) {
	Convey("Given a pet appearing after the first day", t, func() {
		engine := timeline.New()
		rows := []model.RawSnapshot{
			{Date: "2024-05-01T12:00:00Z", Trophies: 100, Pets: map[string]any{}},
			{Date: "2024-05-02T12:00:00Z", Trophies: 140, Pets: map[string]any{"owl": 5}},
		}

		Convey("When the timeline is built", func() {
			events := engine.Build(context.Background(), rows)

			Convey("Then the first appearance is an upgrade from nil", func() {
				So(len(events), ShouldEqual, 1)
				So(len(events[0].PetUpgrades), ShouldEqual, 1)
				up := events[0].PetUpgrades[0]
				So(up.Pet, ShouldEqual, "owl")
				So(up.From, ShouldBeNil)
				So(up.To, ShouldEqual, 5)
			})
		})
	})

	Convey("Given a pet present only on the very first day", t, func() {
		engine := timeline.New()
		rows := []model.RawSnapshot{
			{Date: "2024-05-01T12:00:00Z", Trophies: 100, Pets: map[string]any{"owl": 5}},
		}

		Convey("Then the baseline is not treated as an upgrade", func() {
			events := engine.Build(context.Background(), rows)
			So(len(events), ShouldEqual, 1)
			So(events[0].PetUpgrades, ShouldBeEmpty)
		})
	})

	Convey("Given a pet level increase", t, func() {
		engine := timeline.New()
		rows := []model.RawSnapshot{
			{Date: "2024-05-01T12:00:00Z", Trophies: 100, Pets: map[string]any{"owl": 5, "yak": 3}},
			{Date: "2024-05-02T12:00:00Z", Trophies: 140, Pets: map[string]any{"owl": 7, "yak": 3}},
		}

		Convey("Then only the raised level is emitted", func() {
			events := engine.Build(context.Background(), rows)
			So(len(events), ShouldEqual, 1)
			So(len(events[0].PetUpgrades), ShouldEqual, 1)
			So(*events[0].PetUpgrades[0].From, ShouldEqual, 5)
			So(events[0].PetUpgrades[0].To, ShouldEqual, 7)
		})
	})

	Convey("Given equipment changes across days", t, func() {
		engine := timeline.New()
		rows := []model.RawSnapshot{
			{Date: "2024-05-01T12:00:00Z", Trophies: 100, Equipment: map[string]any{"rage_vial": 9}},
			{Date: "2024-05-02T12:00:00Z", Trophies: 140, Equipment: map[string]any{"rage_vial": 12, "giant_arrow": 1}},
		}

		Convey("Then upgrades and first appearances are both reported in key order", func() {
			events := engine.Build(context.Background(), rows)
			So(len(events), ShouldEqual, 1)
			ups := events[0].EquipmentUpgrades
			So(len(ups), ShouldEqual, 2)
			So(ups[0].Equipment, ShouldEqual, "giant_arrow")
			So(ups[0].From, ShouldBeNil)
			So(ups[1].Equipment, ShouldEqual, "rage_vial")
			So(*ups[1].From, ShouldEqual, 9)
			So(ups[1].To, ShouldEqual, 12)
		})
	})

	Convey("Given pet and equipment changes without primary signals", t, func() {
		engine := timeline.New()
		rows := []model.RawSnapshot{
			{Date: "2024-05-01T12:00:00Z", Trophies: 100, Pets: map[string]any{"owl": 5}},
			{Date: "2024-05-02T12:00:00Z", Trophies: 100, Pets: map[string]any{"owl": 6}},
		}

		Convey("Then the day is not significant on its own", func() {
			events := engine.Build(context.Background(), rows)
			So(len(events), ShouldEqual, 1)
			So(events[0].Summary, ShouldEqual, "Latest snapshot — no notable changes to report.")
		})
	})
}
