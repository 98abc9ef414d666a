package milp

import (
	"time"

	"github.com/railnet/trainsched/internal/milpsolver"
	"github.com/railnet/trainsched/internal/model"
)

// addDisjunctive emits the two big-M constraints for "a after b, separated
// by at least gap, when y=1; b after a when y=0":
//
//	a >= b + gap - M(1-y)
//	b >= a + gap - M*y
func addDisjunctive(p *milpsolver.Problem, a, b, y int, bigM, gap float64) {
	p.AddGE(map[int]float64{a: 1, b: -1, y: -bigM}, gap-bigM)
	p.AddGE(map[int]float64{b: 1, a: -1, y: bigM}, gap)
}

// addBlockWindow emits the two big-M constraints keeping leg's occupancy
// [s, s+traverse) clear of window [start, end):
//
//	s + traverse <= start + M*z
//	s            >= end   - M*(1-z)
func addBlockWindow(p *milpsolver.Problem, s, z int, bigM, start, end, traverse float64) {
	p.AddLE(map[int]float64{s: 1, z: -bigM}, start-traverse)
	p.AddGE(map[int]float64{s: 1, z: -bigM}, end-bigM)
}

// addPlatformPairK1 keeps two dwell intervals [s-d, s) from overlapping on
// a single-platform section:
//
//	s_i <= s_j - d_j + M(1-p)
//	s_j <= s_i - d_i + M*p
func addPlatformPairK1(p *milpsolver.Problem, si, sj int, di, dj float64, pVar int, bigM float64) {
	p.AddLE(map[int]float64{si: 1, sj: -1, pVar: bigM}, bigM-dj)
	p.AddLE(map[int]float64{sj: 1, si: -1, pVar: -bigM}, -di)
}

// addPlatformPairKGE2 is the K>=2 variant, vacuous unless both legs are
// assigned (via aip/ajp) to the same platform:
//
//	s_i <= s_j - d_j + M(1-z) + M(2-a_ip-a_jp)
//	s_j <= s_i - d_i + M*z    + M(2-a_ip-a_jp)
func addPlatformPairKGE2(p *milpsolver.Problem, si, sj int, di, dj float64, z, aip, ajp int, bigM float64) {
	p.AddLE(map[int]float64{si: 1, sj: -1, z: bigM, aip: bigM, ajp: bigM}, 3*bigM-dj)
	p.AddLE(map[int]float64{sj: 1, si: -1, z: -bigM, aip: bigM, ajp: bigM}, 2*bigM-di)
}

// effectiveClearance returns the worst-case clearance required between any
// entry on sa and any entry on sb, combining a direct conflicts_with
// declaration (checked both directions, since the invariant is symmetric)
// with any shared conflict_groups.
func effectiveClearance(sa, sb model.Section) model.Seconds {
	clearance := 0
	if c, ok := sa.ConflictsWith[sb.ID]; ok && c > clearance {
		clearance = c
	}
	if c, ok := sb.ConflictsWith[sa.ID]; ok && c > clearance {
		clearance = c
	}
	for g, ca := range sa.ConflictGroups {
		if cb, ok := sb.ConflictGroups[g]; ok {
			c := ca
			if cb > c {
				c = cb
			}
			if c > clearance {
				clearance = c
			}
		}
	}
	return clearance
}

// computeBigM follows the source estimate: the latest planned departure
// plus n legs' worth of combined traverse+headway across every section,
// plus a fixed slack.
func computeBigM(trains []model.TrainRequest, network model.Network) model.Seconds {
	maxDep := 0
	for _, t := range trains {
		if t.PlannedDeparture > maxDep {
			maxDep = t.PlannedDeparture
		}
	}
	sumDH := 0
	for _, s := range network.Sections {
		sumDH += s.TraverseSeconds + s.HeadwaySeconds
	}
	return maxDep + len(trains)*sumDH + 1000
}

func asDuration(seconds int) time.Duration {
	if seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
