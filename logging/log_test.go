package logging

import (
	"context"
	"log/slog"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestAddHook(t *testing.T) {
	Convey("多个 Hook 同时生效，注销后不再触发", t, func() {
		var a, b []string
		var lastLevel slog.Level
		rmA := AddHook(func(_ context.Context, level slog.Level, msg string, _ ...any) {
			lastLevel = level
			a = append(a, msg)
		})
		rmB := AddHook(func(_ context.Context, _ slog.Level, msg string, _ ...any) {
			b = append(b, msg)
		})
		defer rmB()

		ctx := context.Background()
		L().Warn(ctx, "w1")
		So(a, ShouldResemble, []string{"w1"})
		So(b, ShouldResemble, []string{"w1"})
		So(lastLevel, ShouldEqual, slog.LevelWarn)

		// Info/Debug 不触发 Hook
		L().Info(ctx, "i1")
		L().Debug(ctx, "d1")
		So(a, ShouldResemble, []string{"w1"})

		rmA()
		rmA() // 重复注销无副作用
		L().Error(ctx, "e1")
		So(a, ShouldResemble, []string{"w1"})
		So(b, ShouldResemble, []string{"w1", "e1"})
	})
}
