// Command trainsched loads a scenario payload from a file or stdin, runs
// the solver dispatcher, and prints the resulting schedule and KPI map as
// JSON.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	log15 "gopkg.in/inconshreveable/log15.v2"

	"github.com/railnet/trainsched/internal/dispatch"
	"github.com/railnet/trainsched/internal/kpi"
	"github.com/railnet/trainsched/internal/model"
)

func main() {
	scenarioPath := flag.String("scenario", "", "path to a scenario JSON file (default: read stdin)")
	solver := flag.String("solver", "greedy", "solver to use: greedy|mip")
	otpTolerance := flag.Int("otp_tolerance", 0, "OTP tolerance in seconds")
	milpTimeLimit := flag.Int("milp_time_limit", 0, "MIP solver time limit in seconds (0 = unbounded)")
	flag.Parse()

	root := log15.New()
	root.SetHandler(log15.StreamHandler(os.Stderr, log15.LogfmtFormat()))
	model.InitializeLogger(root)
	dispatch.InitializeLogger(root)
	kpi.InitializeLogger(root)

	var r io.Reader = os.Stdin
	if *scenarioPath != "" {
		f, err := os.Open(*scenarioPath)
		if err != nil {
			log.Fatalf("trainsched: open scenario: %v", err)
		}
		defer f.Close()
		r = f
	}

	var payload model.ScenarioPayload
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		log.Fatalf("trainsched: decode scenario: %v", err)
	}

	network := payload.ToNetwork()
	trains := payload.ToTrains()

	mode := dispatch.Greedy
	if *solver == "mip" {
		mode = dispatch.MIP
	}

	result, err := dispatch.Schedule(trains, network, mode, *milpTimeLimit)
	if err != nil {
		log.Fatalf("trainsched: schedule: %v", err)
	}

	k := kpi.Compute(result.Items, trains, *otpTolerance)

	items := make([]model.ScheduleItemPayload, len(result.Items))
	for i, it := range result.Items {
		items[i] = it.ToPayload()
	}

	out := struct {
		ModeUsed string                 `json:"mode_used"`
		Schedule []model.ScheduleItemPayload `json:"schedule"`
		KPI      map[string]interface{} `json:"kpi"`
	}{
		ModeUsed: string(result.ModeUsed),
		Schedule: items,
		KPI:      k.ToMap(),
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintln(os.Stderr, "trainsched: encode output:", err)
		os.Exit(1)
	}
}
