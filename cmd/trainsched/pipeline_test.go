package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/railnet/trainsched/internal/dispatch"
	"github.com/railnet/trainsched/internal/kpi"
	"github.com/railnet/trainsched/internal/model"
)

func TestPipelineScenarioA(t *testing.T) {
	Convey("decoding and scheduling the bundled scenario A fixture", t, func() {
		data, err := os.ReadFile(filepath.Join("..", "..", "golden", "fixtures", "scenario_a.json"))
		So(err, ShouldBeNil)

		var payload model.ScenarioPayload
		So(json.Unmarshal(data, &payload), ShouldBeNil)

		network := payload.ToNetwork()
		trains := payload.ToTrains()

		res, err := dispatch.Schedule(trains, network, dispatch.Greedy, 0)
		So(err, ShouldBeNil)
		So(res.ModeUsed, ShouldEqual, dispatch.Greedy)

		k := kpi.Compute(res.Items, trains, 0)
		So(k.TotalTrains, ShouldEqual, 2)
		So(k.Makespan, ShouldBeGreaterThan, 0)
	})
}
