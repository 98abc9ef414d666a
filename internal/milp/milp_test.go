package milp

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/railnet/trainsched/internal/model"
)

func intPtr(v int) *int { return &v }

func TestScheduleScenarioC(t *testing.T) {
	Convey("lateness minimization schedules the earlier due train first", t, func() {
		network := model.NewNetwork([]model.Section{
			{ID: "S1", HeadwaySeconds: 0, TraverseSeconds: 50},
		})
		due400 := 400
		due200 := 200
		trains := []model.TrainRequest{
			{ID: "T1", Priority: 3, PlannedDeparture: 0, RouteSections: []string{"S1"}, DueTime: &due400},
			{ID: "T2", Priority: 1, PlannedDeparture: 0, RouteSections: []string{"S1"}, DueTime: &due200},
		}

		items, err := Schedule(trains, network, 0)
		So(err, ShouldBeNil)

		byTrain := map[string]model.ScheduleItem{}
		for _, it := range items {
			byTrain[it.TrainID] = it
		}
		So(byTrain["T2"].Entry, ShouldBeLessThan, byTrain["T1"].Entry)
	})
}

func TestScheduleScenarioD(t *testing.T) {
	Convey("platform capacity 1 forces dwell separation", t, func() {
		network := model.NewNetwork([]model.Section{
			{ID: "S1", HeadwaySeconds: 0, TraverseSeconds: 10, PlatformCapacity: intPtr(1)},
		})
		trains := []model.TrainRequest{
			{ID: "T1", Priority: 1, PlannedDeparture: 0, RouteSections: []string{"S1"}, DwellBefore: map[string]model.Seconds{"S1": 50}},
			{ID: "T2", Priority: 1, PlannedDeparture: 0, RouteSections: []string{"S1"}, DwellBefore: map[string]model.Seconds{"S1": 50}},
		}

		items, err := Schedule(trains, network, 5)
		So(err, ShouldBeNil)

		byTrain := map[string]model.ScheduleItem{}
		for _, it := range items {
			byTrain[it.TrainID] = it
		}
		diff := byTrain["T1"].Entry - byTrain["T2"].Entry
		if diff < 0 {
			diff = -diff
		}
		So(diff, ShouldBeGreaterThanOrEqualTo, 50)
	})
}

func TestScheduleScenarioE(t *testing.T) {
	Convey("cross-section conflicts enforce a clearance between sections", t, func() {
		network := model.NewNetwork([]model.Section{
			{ID: "S1", HeadwaySeconds: 0, TraverseSeconds: 60, ConflictsWith: map[string]model.Seconds{"S2": 120}},
			{ID: "S2", HeadwaySeconds: 0, TraverseSeconds: 60},
		})
		trains := []model.TrainRequest{
			{ID: "A", Priority: 1, PlannedDeparture: 0, RouteSections: []string{"S1"}},
			{ID: "B", Priority: 1, PlannedDeparture: 0, RouteSections: []string{"S2"}},
		}

		items, err := Schedule(trains, network, 5)
		So(err, ShouldBeNil)

		byTrain := map[string]model.ScheduleItem{}
		for _, it := range items {
			byTrain[it.TrainID] = it
		}
		diff := byTrain["A"].Entry - byTrain["B"].Entry
		if diff < 0 {
			diff = -diff
		}
		So(diff, ShouldBeGreaterThanOrEqualTo, 120)
	})
}

func TestScheduleScenarioF(t *testing.T) {
	Convey("heterogeneous routes sharing a section keep headway clearance", t, func() {
		network := model.NewNetwork([]model.Section{
			{ID: "S1", HeadwaySeconds: 60, TraverseSeconds: 80},
			{ID: "S2", HeadwaySeconds: 60, TraverseSeconds: 90},
			{ID: "S3", HeadwaySeconds: 60, TraverseSeconds: 70},
		})
		trains := []model.TrainRequest{
			{ID: "A", Priority: 1, PlannedDeparture: 0, RouteSections: []string{"S1", "S2"}},
			{ID: "B", Priority: 1, PlannedDeparture: 0, RouteSections: []string{"S3", "S2"}},
		}

		items, err := Schedule(trains, network, 5)
		So(err, ShouldBeNil)

		var aOnS2, bOnS2 model.ScheduleItem
		for _, it := range items {
			if it.SectionID != "S2" {
				continue
			}
			if it.TrainID == "A" {
				aOnS2 = it
			} else {
				bOnS2 = it
			}
		}
		diff := aOnS2.Entry - bOnS2.Entry
		if diff < 0 {
			diff = -diff
		}
		So(diff, ShouldBeGreaterThanOrEqualTo, 150)
	})
}

func TestScheduleEmpty(t *testing.T) {
	Convey("zero trains yields an empty schedule", t, func() {
		network := model.NewNetwork(nil)
		items, err := Schedule(nil, network, 0)
		So(err, ShouldBeNil)
		So(items, ShouldBeEmpty)
	})
}
