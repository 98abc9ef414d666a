package kpi

import (
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/railnet/trainsched/internal/model"
)

func TestComputeEmpty(t *testing.T) {
	Convey("an empty schedule yields a zero-valued result", t, func() {
		r := Compute(nil, nil, 0)
		So(r.TotalTrains, ShouldEqual, 0)
		So(r.Makespan, ShouldEqual, 0)
		So(r.Utilization, ShouldEqual, 0)
	})
}

func TestComputeMakespanAndUtilization(t *testing.T) {
	Convey("two back-to-back trains on one section", t, func() {
		schedule := []model.ScheduleItem{
			{TrainID: "T1", SectionID: "S1", Entry: 0, Exit: 100},
			{TrainID: "T2", SectionID: "S1", Entry: 100, Exit: 200},
		}
		trains := []model.TrainRequest{
			{ID: "T1", RouteSections: []string{"S1"}},
			{ID: "T2", RouteSections: []string{"S1"}},
		}
		r := Compute(schedule, trains, 0)
		So(r.Makespan, ShouldEqual, 200)
		So(r.Utilization, ShouldEqual, 100)
		So(r.TotalTrains, ShouldEqual, 2)
	})
}

func TestComputeLatenessAndOTP(t *testing.T) {
	Convey("lateness and OTP over due-timed trains", t, func() {
		due100 := 100
		due300 := 300
		schedule := []model.ScheduleItem{
			{TrainID: "T1", SectionID: "S1", Entry: 150, Exit: 250},
			{TrainID: "T2", SectionID: "S1", Entry: 250, Exit: 350},
		}
		trains := []model.TrainRequest{
			{ID: "T1", RouteSections: []string{"S1"}, DueTime: &due100},
			{ID: "T2", RouteSections: []string{"S1"}, DueTime: &due300},
		}

		r := Compute(schedule, trains, 60)
		So(r.LatenessByTrain["T1"], ShouldEqual, 50)
		So(r.LatenessByTrain["T2"], ShouldEqual, 0)
		So(r.OTP0End, ShouldEqual, 50)
		So(r.OTPEnd, ShouldEqual, 100)

		r2 := Compute(schedule, trains, 1000)
		So(r2.OTPEnd, ShouldBeGreaterThanOrEqualTo, r.OTPEnd)
	})
}

func TestLatenessCSV(t *testing.T) {
	Convey("the CSV export renders the two documented columns", t, func() {
		r := Result{LatenessByTrain: map[string]model.Seconds{"T1": 50, "T2": 0}}
		out, err := LatenessCSV(r)
		So(err, ShouldBeNil)
		So(strings.Contains(string(out), "train_id,lateness_s"), ShouldBeTrue)
		So(strings.Contains(string(out), "T1,50"), ShouldBeTrue)
	})
}
