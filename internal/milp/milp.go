// Package milp builds the disjunctive mixed-integer formulation of §4.3
// over a train set and network, and extracts a schedule from the solved
// relaxation. It is the domain layer atop the generic milpsolver
// capability: every big-M constraint family (precedence, pairwise
// non-overlap, block windows, platform capacity, cross-section conflicts,
// lateness linearization) is emitted here; milpsolver never sees train or
// section concepts.
package milp

import (
	"fmt"
	"sort"

	log "gopkg.in/inconshreveable/log15.v2"

	"github.com/railnet/trainsched/internal/milpsolver"
	"github.com/railnet/trainsched/internal/model"
)

var logger log.Logger

// InitializeLogger binds this package's logger to a parent.
func InitializeLogger(parent log.Logger) {
	logger = parent.New("module", "milp")
}

func init() {
	logger = log.New("module", "milp")
}

// leg is one (train, route-position) pair, the flat identifier the design
// notes call for in place of dictionary-of-dictionaries lookups.
type leg struct {
	trainIdx  int
	legIdx    int
	sectionID string
	varIdx    int
}

// Schedule builds and solves the MILP for trains over network and returns
// the resulting schedule items, sorted by (section_id, entry) per the
// deterministic ordering rule. It returns model.ErrSolverFailed wrapping
// the underlying cause on infeasibility, timeout, or solver error.
func Schedule(trains []model.TrainRequest, network model.Network, timeLimitSeconds int) ([]model.ScheduleItem, error) {
	logger.Info("milp schedule starting", "trains", len(trains), "sections", len(network.Sections), "time_limit_s", timeLimitSeconds)
	if len(trains) == 0 {
		return nil, nil
	}

	p := milpsolver.NewProblem()
	bigM := computeBigM(trains, network)
	logger.Debug("computed big-M", "value", bigM)

	legs := make([]leg, 0)
	trainLegs := make([][]int, len(trains)) // trainLegs[t] = indices into legs
	sectionLegs := make(map[string][]int)    // sectionID -> indices into legs

	for ti, t := range trains {
		trainLegs[ti] = make([]int, len(t.RouteSections))
		for li, sid := range t.RouteSections {
			ub := float64(bigM)
			varName := fmt.Sprintf("s_%s_%d", t.ID, li)
			v := p.AddVar(varName, ub)
			l := leg{trainIdx: ti, legIdx: li, sectionID: sid, varIdx: v}
			idx := len(legs)
			legs = append(legs, l)
			trainLegs[ti][li] = idx
			sectionLegs[sid] = append(sectionLegs[sid], idx)
		}
	}

	logger.Debug("legs built", "count", len(legs))

	// Constraint 1: within-train precedence with dwell, and the planned
	// departure floor on the first leg.
	for ti, t := range trains {
		for li := range t.RouteSections {
			idx := trainLegs[ti][li]
			if li == 0 {
				if t.PlannedDeparture > 0 {
					p.AddGE(map[int]float64{legs[idx].varIdx: 1}, float64(t.PlannedDeparture))
				}
				continue
			}
			prevIdx := trainLegs[ti][li-1]
			prevSec, err := network.Lookup(t.RouteSections[li-1])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", err.Error(), model.ErrSolverFailed)
			}
			dwell := t.Dwell(t.RouteSections[li])
			p.AddGE(map[int]float64{legs[idx].varIdx: 1, legs[prevIdx].varIdx: -1}, float64(prevSec.TraverseSeconds+dwell))
		}
	}

	logger.Debug("precedence constraints emitted")

	// Constraint 2: pairwise non-overlap with headway, and constraint 3:
	// block windows, both scoped per section.
	for _, s := range network.Sections {
		onSection := sectionLegs[s.ID]
		for a := 0; a < len(onSection); a++ {
			for b := a + 1; b < len(onSection); b++ {
				i, j := onSection[a], onSection[b]
				y := p.AddBinaryVar(fmt.Sprintf("y_%s_%d_%d", s.ID, i, j))
				gap := float64(s.TraverseSeconds + s.HeadwaySeconds)
				addDisjunctive(p, legs[i].varIdx, legs[j].varIdx, y, float64(bigM), gap)
			}
		}
		for _, idx := range onSection {
			for wi, w := range s.BlockWindows {
				z := p.AddBinaryVar(fmt.Sprintf("z_%s_%d_w%d", s.ID, idx, wi))
				addBlockWindow(p, legs[idx].varIdx, z, float64(bigM), float64(w.Start), float64(w.End), float64(s.TraverseSeconds))
			}
		}
	}

	logger.Debug("headway and block-window constraints emitted")

	// Constraint 4: platform capacity.
	for _, s := range network.Sections {
		if s.PlatformCapacity == nil {
			continue
		}
		K := *s.PlatformCapacity
		var dwellLegs []int
		dwellOf := map[int]float64{}
		for _, idx := range sectionLegs[s.ID] {
			l := legs[idx]
			d := trains[l.trainIdx].Dwell(s.ID)
			if d > 0 {
				dwellLegs = append(dwellLegs, idx)
				dwellOf[idx] = float64(d)
			}
		}
		if len(dwellLegs) < 2 {
			continue
		}
		if K == 1 {
			for a := 0; a < len(dwellLegs); a++ {
				for b := a + 1; b < len(dwellLegs); b++ {
					i, j := dwellLegs[a], dwellLegs[b]
					pv := p.AddBinaryVar(fmt.Sprintf("plat_%s_%d_%d", s.ID, i, j))
					addPlatformPairK1(p, legs[i].varIdx, legs[j].varIdx, dwellOf[i], dwellOf[j], pv, float64(bigM))
				}
			}
			continue
		}
		aVars := make(map[int][]int, len(dwellLegs)) // leg idx -> per-platform binary var idx
		for _, idx := range dwellLegs {
			vars := make([]int, K)
			sumCoeffs := map[int]float64{}
			for pf := 0; pf < K; pf++ {
				v := p.AddBinaryVar(fmt.Sprintf("a_%s_%d_p%d", s.ID, idx, pf))
				vars[pf] = v
				sumCoeffs[v] = 1
			}
			aVars[idx] = vars
			p.AddEQ(sumCoeffs, 1)
		}
		for a := 0; a < len(dwellLegs); a++ {
			for b := a + 1; b < len(dwellLegs); b++ {
				i, j := dwellLegs[a], dwellLegs[b]
				for pf := 0; pf < K; pf++ {
					z := p.AddBinaryVar(fmt.Sprintf("platz_%s_%d_%d_p%d", s.ID, i, j, pf))
					addPlatformPairKGE2(p, legs[i].varIdx, legs[j].varIdx, dwellOf[i], dwellOf[j], z, aVars[i][pf], aVars[j][pf], float64(bigM))
				}
			}
		}
	}

	logger.Debug("platform capacity constraints emitted")

	// Constraints 5 & 6: cross-section conflicts and conflict groups,
	// collapsed into one effective-clearance pass over section pairs.
	for a := 0; a < len(network.Sections); a++ {
		for b := a + 1; b < len(network.Sections); b++ {
			sa, sb := network.Sections[a], network.Sections[b]
			clearance := effectiveClearance(sa, sb)
			if clearance <= 0 {
				continue
			}
			for _, i := range sectionLegs[sa.ID] {
				for _, j := range sectionLegs[sb.ID] {
					y := p.AddBinaryVar(fmt.Sprintf("conf_%s_%s_%d_%d", sa.ID, sb.ID, i, j))
					addDisjunctive(p, legs[j].varIdx, legs[i].varIdx, y, float64(bigM), float64(clearance))
				}
			}
		}
	}

	objCoeffs := map[int]float64{}
	anyDue := false
	for _, t := range trains {
		if t.DueTime != nil {
			anyDue = true
			break
		}
	}
	if anyDue {
		for ti, t := range trains {
			lastIdx := trainLegs[ti][len(trainLegs[ti])-1]
			lastVar := legs[lastIdx].varIdx
			if t.DueTime == nil {
				continue
			}
			lVar := p.AddVar(fmt.Sprintf("L_%s", t.ID), float64(bigM))
			p.AddGE(map[int]float64{lVar: 1, lastVar: -1}, float64(-*t.DueTime))
			objCoeffs[lVar] += float64(t.Priority)
			if *t.DueTime > 0 {
				objCoeffs[lastVar] += 1e-3 / float64(*t.DueTime)
			}
		}
	} else {
		for ti, t := range trains {
			lastIdx := trainLegs[ti][len(trainLegs[ti])-1]
			objCoeffs[legs[lastIdx].varIdx] += float64(t.Priority)
		}
	}
	p.SetObjective(objCoeffs, milpsolver.Minimize)
	logger.Debug("conflict constraints emitted and objective set", "vars", p.NumVars())

	timeLimit := asDuration(timeLimitSeconds)
	sol, err := p.Solve(timeLimit)
	if err != nil {
		logger.Error("milp solve failed", "err", err)
		return nil, fmt.Errorf("%v: %w", err, model.ErrSolverFailed)
	}
	logger.Info("milp schedule solved", "trains", len(trains), "objective", sol.Objective)

	items := make([]model.ScheduleItem, 0, len(legs))
	for _, l := range legs {
		entry := sol.ValueInt(l.varIdx)
		sec, err := network.Lookup(l.sectionID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", err.Error(), model.ErrSolverFailed)
		}
		items = append(items, model.ScheduleItem{
			TrainID:   trains[l.trainIdx].ID,
			SectionID: l.sectionID,
			Entry:     entry,
			Exit:      entry + sec.TraverseSeconds,
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].SectionID != items[j].SectionID {
			return items[i].SectionID < items[j].SectionID
		}
		return items[i].Entry < items[j].Entry
	})
	return items, nil
}
