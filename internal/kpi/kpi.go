// Package kpi computes schedule-quality metrics: makespan, a utilization
// proxy, per-train terminal lateness, and on-time-performance at a
// caller-supplied and a zero tolerance.
package kpi

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"sort"

	log "gopkg.in/inconshreveable/log15.v2"

	"github.com/railnet/trainsched/internal/model"
)

var logger log.Logger

// InitializeLogger binds this package's logger to a parent.
func InitializeLogger(parent log.Logger) {
	logger = parent.New("module", "kpi")
}

func init() {
	logger = log.New("module", "kpi")
}

// Result is the KPI map the core returns alongside a schedule.
type Result struct {
	TotalTrains      int
	Makespan         model.Seconds
	Utilization      int
	Conflicts        int
	AvgLateness      float64
	TotalLateness    model.Seconds
	OTPEnd           float64
	OTP0End          float64
	OTPToleranceUsed model.Seconds
	LatenessByTrain  map[string]model.Seconds

	// OnTimePercentage and AvgDelayMinutes are the conventional aliases
	// the original caller interface expects alongside the primary fields.
	OnTimePercentage float64
	AvgDelayMinutes  float64
}

// Compute derives a Result from schedule over trains, using tolerance as
// the OTP tolerance in seconds. An empty schedule yields a zero-valued
// Result rather than an error.
func Compute(schedule []model.ScheduleItem, trains []model.TrainRequest, tolerance model.Seconds) Result {
	logger.Info("kpi compute starting", "items", len(schedule), "trains", len(trains), "otp_tolerance", tolerance)
	r := Result{LatenessByTrain: map[string]model.Seconds{}}

	trainIDs := map[string]bool{}
	for _, it := range schedule {
		trainIDs[it.TrainID] = true
	}
	r.TotalTrains = len(trainIDs)

	if len(schedule) == 0 {
		logger.Debug("kpi compute: empty schedule, returning zero-valued result")
		r.OTPToleranceUsed = tolerance
		return r
	}

	minEntry, maxExit := schedule[0].Entry, schedule[0].Exit
	totalBusy := 0
	for _, it := range schedule {
		if it.Entry < minEntry {
			minEntry = it.Entry
		}
		if it.Exit > maxExit {
			maxExit = it.Exit
		}
		totalBusy += it.Exit - it.Entry
	}
	r.Makespan = maxExit - minEntry
	if r.Makespan > 0 {
		u := int(math.Floor(100 * float64(totalBusy) / float64(r.Makespan)))
		r.Utilization = clamp(u, 0, 100)
	}

	firstTerminalEntry := map[string]model.Seconds{}
	for _, it := range schedule {
		t, err := lookupTrain(trains, it.TrainID)
		if err != nil {
			continue
		}
		if it.SectionID != t.LastSection() {
			continue
		}
		if _, seen := firstTerminalEntry[it.TrainID]; !seen {
			firstTerminalEntry[it.TrainID] = it.Entry
		}
	}

	dueTimed := 0
	onTimeAtTolerance := 0
	onTimeAtZero := 0
	totalLateness := 0.0
	for _, t := range trains {
		if t.DueTime == nil {
			continue
		}
		entry, ok := firstTerminalEntry[t.ID]
		if !ok {
			continue
		}
		dueTimed++
		lateness := entry - *t.DueTime
		if lateness < 0 {
			lateness = 0
		}
		r.LatenessByTrain[t.ID] = lateness
		totalLateness += float64(lateness)
		if lateness <= tolerance {
			onTimeAtTolerance++
		}
		if lateness <= 0 {
			onTimeAtZero++
		}
	}

	r.OTPToleranceUsed = tolerance
	if dueTimed > 0 {
		r.AvgLateness = totalLateness / float64(dueTimed)
		r.TotalLateness = int(totalLateness)
		r.OTPEnd = 100 * float64(onTimeAtTolerance) / float64(dueTimed)
		r.OTP0End = 100 * float64(onTimeAtZero) / float64(dueTimed)
	}

	r.OnTimePercentage = r.OTPEnd
	r.AvgDelayMinutes = round3(r.AvgLateness / 60)

	logger.Debug("kpi compute finished", "makespan", r.Makespan, "otp_end", r.OTPEnd, "avg_lateness", r.AvgLateness)
	return r
}

// ToMap renders the result as the public KPI map of §6, keyed exactly as
// documented so a caller can serialize it directly.
func (r Result) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"total_trains":       r.TotalTrains,
		"makespan":           r.Makespan,
		"utilization":        r.Utilization,
		"conflicts":          r.Conflicts,
		"otp_end":            r.OTPEnd,
		"otp0_end":           r.OTP0End,
		"avg_lateness":       r.AvgLateness,
		"total_lateness":     r.TotalLateness,
		"otp_tolerance_used": r.OTPToleranceUsed,
		"on_time_percentage": r.OnTimePercentage,
		"avg_delay_minutes":  r.AvgDelayMinutes,
		"lateness_by_train":  r.LatenessByTrain,
	}
}

func lookupTrain(trains []model.TrainRequest, id string) (model.TrainRequest, error) {
	for _, t := range trains {
		if t.ID == id {
			return t, nil
		}
	}
	return model.TrainRequest{}, fmt.Errorf("kpi: train %q not found", id)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// LatenessCSV renders the lateness-by-train map as a two-column CSV
// (train_id,lateness_s), in ascending train-id order, matching the
// original lateness-export shape without any persistence dependency.
func LatenessCSV(r Result) ([]byte, error) {
	ids := make([]string, 0, len(r.LatenessByTrain))
	for id := range r.LatenessByTrain {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"train_id", "lateness_s"}); err != nil {
		return nil, err
	}
	for _, id := range ids {
		if err := w.Write([]string{id, fmt.Sprintf("%d", r.LatenessByTrain[id])}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
