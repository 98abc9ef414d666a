package interval

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/railnet/trainsched/internal/model"
)

func TestFindEarliestEmpty(t *testing.T) {
	Convey("an empty store places the candidate at the requested start", t, func() {
		s := NewStore()
		e := s.FindEarliest(60, 120, 100, nil)
		So(e, ShouldEqual, 60)
	})
}

func TestFindEarliestHeadway(t *testing.T) {
	Convey("given scenario A's occupancy", t, func() {
		s := NewStore()
		s.Insert(Occupant{TrainID: "T2", Interval: model.Interval{Start: 60, End: 160}})

		Convey("the next train clears headway after the stored exit", func() {
			e := s.FindEarliest(0, 120, 100, nil)
			So(e, ShouldEqual, 280)
		})
	})
}

func TestFindEarliestBlockWindow(t *testing.T) {
	Convey("scenario B's block window pushes entry to the window's end", t, func() {
		s := NewStore()
		blocks := []model.Interval{{Start: 50, End: 200}}

		e := s.FindEarliest(0, 60, 100, blocks)
		So(e, ShouldEqual, 200)
	})
}

func TestFindEarliestBlockThenHeadway(t *testing.T) {
	Convey("a block jump that lands inside an existing occupancy's headway re-shifts", t, func() {
		s := NewStore()
		blocks := []model.Interval{{Start: 50, End: 200}}
		s.Insert(Occupant{TrainID: "T_A", Interval: model.Interval{Start: 200, End: 300}})

		e := s.FindEarliest(0, 60, 100, blocks)
		So(e, ShouldEqual, 360)
	})
}

func TestInsertKeepsSortedOrder(t *testing.T) {
	Convey("inserting out of order keeps the store sorted by entry", t, func() {
		s := NewStore()
		s.Insert(Occupant{TrainID: "c", Interval: model.Interval{Start: 300, End: 400}})
		s.Insert(Occupant{TrainID: "a", Interval: model.Interval{Start: 0, End: 100}})
		s.Insert(Occupant{TrainID: "b", Interval: model.Interval{Start: 100, End: 200}})

		items := s.Items()
		So(len(items), ShouldEqual, 3)
		So(items[0].TrainID, ShouldEqual, "a")
		So(items[1].TrainID, ShouldEqual, "b")
		So(items[2].TrainID, ShouldEqual, "c")
	})
}
