// Package greedy implements the priority-ordered constructive scheduler: an
// earliest-feasible-slot placer that walks each train's route section by
// section, packing occupancy intervals via the interval store.
package greedy

import (
	"sort"

	log "gopkg.in/inconshreveable/log15.v2"

	"github.com/railnet/trainsched/internal/interval"
	"github.com/railnet/trainsched/internal/model"
)

var logger log.Logger

// InitializeLogger binds this package's logger to a parent.
func InitializeLogger(parent log.Logger) {
	logger = parent.New("module", "greedy")
}

func init() {
	logger = log.New("module", "greedy")
}

// Schedule places every train in trains onto network, section by section,
// in (priority descending, planned_departure ascending) order, ties broken
// by input order. It never fails for structurally valid input; platform
// capacity, conflicts_with, and conflict_groups are not honored here — only
// headway and block windows — matching the source behavior this scheduler
// is grounded on.
func Schedule(trains []model.TrainRequest, network model.Network) []model.ScheduleItem {
	ordered := make([]model.TrainRequest, len(trains))
	copy(ordered, trains)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Priority != ordered[j].Priority {
			return ordered[i].Priority > ordered[j].Priority
		}
		return ordered[i].PlannedDeparture < ordered[j].PlannedDeparture
	})

	stores := make(map[string]*interval.Store, len(network.Sections))
	for _, s := range network.Sections {
		stores[s.ID] = interval.NewStore()
	}

	var result []model.ScheduleItem
	for _, t := range ordered {
		prevExit := t.PlannedDeparture
		for k, sid := range t.RouteSections {
			sec, err := network.Lookup(sid)
			if err != nil {
				logger.Error("greedy schedule: route section vanished after validation", "train", t.ID, "section", sid, "err", err)
				continue
			}
			if k > 0 {
				prevExit += t.Dwell(sid)
			}
			candidate := max(prevExit, t.PlannedDeparture)
			store := stores[sid]
			entry := store.FindEarliest(candidate, sec.HeadwaySeconds, sec.TraverseSeconds, sec.BlockWindows)
			exit := entry + sec.TraverseSeconds

			store.Insert(interval.Occupant{TrainID: t.ID, Interval: model.Interval{Start: entry, End: exit}})
			result = append(result, model.ScheduleItem{TrainID: t.ID, SectionID: sid, Entry: entry, Exit: exit})

			prevExit = exit + sec.HeadwaySeconds
		}
	}
	return result
}
