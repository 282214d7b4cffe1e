package random

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestRandom(t *testing.T) {
	Convey("Given two generators with the same seed", t, func() {
		a := NewRandom(42)
		b := NewRandom(42)

		Convey("They produce the same sequence", func() {
			for i := 0; i < 50; i++ {
				So(a.IntRange(8, 12), ShouldEqual, b.IntRange(8, 12))
			}
			So(a.Seed(), ShouldEqual, uint64(42))
		})
	})

	Convey("Given a generator", t, func() {
		r := NewRandom(7)

		Convey("IntRange stays within inclusive bounds and reaches both ends", func() {
			seen := map[int]bool{}
			for i := 0; i < 2000; i++ {
				v := r.IntRange(0, 3)
				So(v, ShouldBeBetweenOrEqual, 0, 3)
				seen[v] = true
			}
			So(len(seen), ShouldEqual, 4)
		})

		Convey("Degenerate ranges collapse to the lower bound", func() {
			So(r.IntRange(5, 5), ShouldEqual, 5)
			So(r.IntRange(9, 2), ShouldEqual, 9)
			So(r.IntN(0), ShouldEqual, 0)
			So(r.IntN(-3), ShouldEqual, 0)
		})
	})

	Convey("A zero seed is replaced", t, func() {
		So(NewRandom(0).Seed(), ShouldNotEqual, uint64(0))
	})
}
