// Package scenario implements the two evaluator operations atop the
// dispatcher and KPI computer: applying a hold adjustment and
// re-scheduling, and resolving a predicted-conflict subset.
package scenario

import (
	"github.com/google/uuid"
	log "gopkg.in/inconshreveable/log15.v2"

	"github.com/railnet/trainsched/internal/dispatch"
	"github.com/railnet/trainsched/internal/kpi"
	"github.com/railnet/trainsched/internal/model"
)

var logger log.Logger

// InitializeLogger binds this package's logger to a parent.
func InitializeLogger(parent log.Logger) {
	logger = parent.New("module", "scenario")
}

func init() {
	logger = log.New("module", "scenario")
}

// Hold is a planned-departure adjustment for one train.
type Hold struct {
	TrainID    string
	AddSeconds model.Seconds
}

// Conflict is a predicted-conflict record naming the trains involved;
// SectionID, ETAs, and GapSeconds are carried for the caller's own use and
// are not consulted by ResolveConflicts beyond the train-id set.
type Conflict struct {
	SectionID  string
	TrainIDs   []string
	ETAs       []float64
	GapSeconds *float64
}

// EvalResult is the enriched outcome of either evaluator operation: a
// schedule, its KPI map, and an opaque run-id a caller can correlate
// against later.
type EvalResult struct {
	RunID    string
	Items    []model.ScheduleItem
	KPI      kpi.Result
	ModeUsed dispatch.Mode
}

// ApplyHold adds each hold's AddSeconds to the named train's planned
// departure, then re-schedules the full train set. A zero-second hold on
// every train must reproduce the unmodified schedule, since the engines
// themselves are deterministic.
func ApplyHold(trains []model.TrainRequest, network model.Network, holds []Hold, mode dispatch.Mode, timeLimitSeconds int, otpTolerance model.Seconds) (EvalResult, error) {
	logger.Info("apply hold starting", "trains", len(trains), "holds", len(holds), "mode", mode)
	adjusted := make([]model.TrainRequest, len(trains))
	copy(adjusted, trains)

	bySeconds := make(map[string]model.Seconds, len(holds))
	for _, h := range holds {
		bySeconds[h.TrainID] += h.AddSeconds
	}
	for i, t := range adjusted {
		if add, ok := bySeconds[t.ID]; ok {
			adjusted[i].PlannedDeparture = t.PlannedDeparture + add
		}
	}

	return run(adjusted, network, mode, timeLimitSeconds, otpTolerance)
}

// ResolveConflicts schedules only the trains named by conflicts (and the
// sections their routes touch). When conflicts is empty it schedules the
// whole scenario, matching the source fallback.
func ResolveConflicts(trains []model.TrainRequest, network model.Network, conflicts []Conflict, mode dispatch.Mode, timeLimitSeconds int, otpTolerance model.Seconds) (EvalResult, error) {
	logger.Info("resolve conflicts starting", "trains", len(trains), "conflicts", len(conflicts), "mode", mode)
	if len(conflicts) == 0 {
		logger.Debug("resolve conflicts: empty conflict list, scheduling full train set")
		return run(trains, network, mode, timeLimitSeconds, otpTolerance)
	}

	involved := map[string]bool{}
	for _, c := range conflicts {
		for _, id := range c.TrainIDs {
			involved[id] = true
		}
	}

	var subsetTrains []model.TrainRequest
	sectionIDs := map[string]bool{}
	for _, t := range trains {
		if !involved[t.ID] {
			continue
		}
		subsetTrains = append(subsetTrains, t)
		for _, sid := range t.RouteSections {
			sectionIDs[sid] = true
		}
	}

	var subsetSections []model.Section
	for _, s := range network.Sections {
		if sectionIDs[s.ID] {
			subsetSections = append(subsetSections, s)
		}
	}

	logger.Debug("resolve conflicts: scoped to subset", "involved_trains", len(subsetTrains), "involved_sections", len(subsetSections))
	return run(subsetTrains, model.NewNetwork(subsetSections), mode, timeLimitSeconds, otpTolerance)
}

func run(trains []model.TrainRequest, network model.Network, mode dispatch.Mode, timeLimitSeconds int, otpTolerance model.Seconds) (EvalResult, error) {
	res, err := dispatch.Schedule(trains, network, mode, timeLimitSeconds)
	if err != nil {
		logger.Error("scenario run: dispatch failed", "err", err)
		return EvalResult{}, err
	}
	k := kpi.Compute(res.Items, trains, otpTolerance)
	return EvalResult{
		RunID:    uuid.NewString(),
		Items:    res.Items,
		KPI:      k,
		ModeUsed: res.ModeUsed,
	}, nil
}
