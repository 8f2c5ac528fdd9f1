package logger_test

import (
	"context"
	"testing"

	"github.com/warfroggy/clashlens/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given an uninitialized logger package", t, func() {
		Convey("When Init is called", func() {
			err := logger.Init()

			Convey("Then the global logger becomes available", func() {
				So(err, ShouldBeNil)
				So(logger.Get(), ShouldNotBeNil)
			})

			Convey("And logging methods do not panic", func() {
				ctx := context.Background()
				l := logger.Get()
				So(func() {
					l.Debug(ctx, "debug message", logger.String("k", "v"))
					l.Info(ctx, "info message", logger.Int("n", 1))
					l.Warn(ctx, "warn message", logger.Any("v", []int{1, 2}))
					l.Error(ctx, "error message", logger.Error(nil))
				}, ShouldNotPanic)
			})

			Convey("And Named returns a scoped logger", func() {
				named := logger.Named("timeline")
				So(named, ShouldNotBeNil)
				So(func() { named.Info(context.Background(), "scoped") }, ShouldNotPanic)
			})
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given an initialized logger", t, func() {
		So(logger.Init(), ShouldBeNil)

		Convey("When valid levels are set", func() {
			for _, lvl := range []string{"debug", "info", "warn", "warning", "error", ""} {
				So(logger.SetLevelString(lvl), ShouldBeNil)
			}
		})

		Convey("When an unknown level is set", func() {
			err := logger.SetLevelString("verbose")

			Convey("Then an error is returned", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}
