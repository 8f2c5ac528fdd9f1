package repository

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestHistoryStatement(t *testing.T) {
	Convey("Given the prepared history statement", t, func() {
		Convey("Then it windows on the row's observation time", func() {
			// Backfilled rows carry an old captured_at but a fresh
			// ingested_at; the since cutoff must apply to the former.
			So(sqlPlayerHistory, ShouldContainSubstring, "COALESCE(captured_at, ingested_at) >= $2")
		})

		Convey("And it orders by ingestion time for the arrival tie-break", func() {
			So(sqlPlayerHistory, ShouldContainSubstring, "ORDER BY ingested_at")
		})
	})
}

func TestInsertStatement(t *testing.T) {
	Convey("Given the prepared insert statement", t, func() {
		Convey("Then re-inserting a stored ID is a no-op", func() {
			So(sqlInsertSnapshot, ShouldContainSubstring, "ON CONFLICT (id) DO NOTHING")
		})
	})
}
