package repository_test

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/warfroggy/clashlens/internal/adapters/repository"
	"github.com/warfroggy/clashlens/internal/domain/model"
)

func TestMemoryStoreSave(t *testing.T) {
	Convey("Given an empty memory store", t, func() {
		store := repository.NewMemoryStore()
		ctx := context.Background()

		Convey("When rows are saved for a player", func() {
			So(store.Save(ctx, "#ABC123", model.RawSnapshot{ID: "r1", Date: "2026-08-01", Trophies: 100}), ShouldBeNil)
			So(store.Save(ctx, "#ABC123", model.RawSnapshot{ID: "r2", Date: "2026-08-02", Trophies: 120}), ShouldBeNil)

			Convey("Then history returns them in insertion order", func() {
				rows, err := store.History(ctx, "#ABC123", time.Time{})
				So(err, ShouldBeNil)
				So(rows, ShouldHaveLength, 2)
				So(rows[0].ID, ShouldEqual, "r1")
				So(rows[1].ID, ShouldEqual, "r2")
			})

			Convey("And the count reflects both rows", func() {
				So(store.Count(ctx), ShouldEqual, 2)
			})
		})

		Convey("When the same row ID is saved twice", func() {
			So(store.Save(ctx, "#ABC123", model.RawSnapshot{ID: "r1", Trophies: 100}), ShouldBeNil)
			So(store.Save(ctx, "#ABC123", model.RawSnapshot{ID: "r1", Trophies: 999}), ShouldBeNil)

			Convey("Then only the first save is kept", func() {
				rows, err := store.History(ctx, "#ABC123", time.Time{})
				So(err, ShouldBeNil)
				So(rows, ShouldHaveLength, 1)
				So(rows[0].Trophies, ShouldEqual, 100)
			})
		})
	})
}

func TestMemoryStoreHistory(t *testing.T) {
	Convey("Given a store with dated rows", t, func() {
		store := repository.NewMemoryStore()
		ctx := context.Background()
		So(store.Save(ctx, "#P1", model.RawSnapshot{ID: "a", Date: "2026-08-01T08:00:00Z"}), ShouldBeNil)
		So(store.Save(ctx, "#P1", model.RawSnapshot{ID: "b", Date: "2026-08-05T08:00:00Z"}), ShouldBeNil)
		So(store.Save(ctx, "#P1", model.RawSnapshot{ID: "c", Date: "2026-08-10T08:00:00Z"}), ShouldBeNil)

		Convey("When filtering by a since cutoff", func() {
			since := time.Date(2026, 8, 4, 0, 0, 0, 0, time.UTC)
			rows, err := store.History(ctx, "#P1", since)

			Convey("Then only rows at or after the cutoff remain", func() {
				So(err, ShouldBeNil)
				So(rows, ShouldHaveLength, 2)
				So(rows[0].ID, ShouldEqual, "b")
				So(rows[1].ID, ShouldEqual, "c")
			})
		})

		Convey("When querying an unknown player", func() {
			_, err := store.History(ctx, "#NOBODY", time.Time{})

			Convey("Then not-found is returned", func() {
				So(err, ShouldEqual, repository.ErrNotFound)
			})
		})
	})
}

func TestMemoryStoreUndatedRows(t *testing.T) {
	Convey("Given a store with a fixed clock", t, func() {
		now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
		store := repository.NewMemoryStore(repository.WithClock(func() time.Time { return now }))
		ctx := context.Background()

		Convey("When a row with an unparseable date is saved", func() {
			So(store.Save(ctx, "#P1", model.RawSnapshot{ID: "x", Date: "not-a-date"}), ShouldBeNil)

			Convey("Then it is filed under the receipt time", func() {
				rows, err := store.History(ctx, "#P1", now.Add(-time.Hour))
				So(err, ShouldBeNil)
				So(rows, ShouldHaveLength, 1)

				later, err := store.History(ctx, "#P1", now.Add(time.Hour))
				So(err, ShouldBeNil)
				So(later, ShouldBeEmpty)
			})
		})
	})
}

func TestMemoryStorePlayers(t *testing.T) {
	Convey("Given rows for several players", t, func() {
		store := repository.NewMemoryStore()
		ctx := context.Background()
		So(store.Save(ctx, "#ZZZ", model.RawSnapshot{ID: "1"}), ShouldBeNil)
		So(store.Save(ctx, "#AAA", model.RawSnapshot{ID: "2"}), ShouldBeNil)
		So(store.Save(ctx, "#MMM", model.RawSnapshot{ID: "3"}), ShouldBeNil)

		Convey("When listing players", func() {
			tags, err := store.Players(ctx)

			Convey("Then tags come back sorted", func() {
				So(err, ShouldBeNil)
				So(tags, ShouldResemble, []string{"#AAA", "#MMM", "#ZZZ"})
			})
		})
	})
}
