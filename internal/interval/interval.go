// Package interval implements the per-section sorted occupancy list the
// greedy scheduler packs trains into: a sorted list of non-overlapping
// intervals supporting an earliest-feasible-slot search under headway and
// block-window constraints.
package interval

import (
	"sort"

	log "gopkg.in/inconshreveable/log15.v2"

	"github.com/railnet/trainsched/internal/model"
)

var logger log.Logger

// InitializeLogger binds this package's logger to a parent.
func InitializeLogger(parent log.Logger) {
	logger = parent.New("module", "interval")
}

func init() {
	logger = log.New("module", "interval")
}

// Occupant is one scheduled occupancy on a section: a train-id and the
// interval it holds.
type Occupant struct {
	TrainID string
	model.Interval
}

// Store is a per-section sorted list of occupied intervals.
type Store struct {
	items []Occupant
}

// NewStore returns an empty interval store.
func NewStore() *Store {
	return &Store{}
}

// FindEarliest returns the smallest entry time e >= start such that
// [e, e+traverse) avoids every block window and clears headway against
// every already-stored interval on both sides. It implements the
// scan-and-shift algorithm: a candidate that collides with a block jumps to
// the block's end; a candidate that violates headway against a stored
// interval jumps past that interval's headway boundary; either jump
// restarts the scan from the top, since a forward shift can re-trigger an
// earlier constraint.
func (s *Store) FindEarliest(start, headway, traverse model.Seconds, blocks []model.Interval) model.Seconds {
	entry := start
	for {
		movedForBlock := false
		for _, b := range blocks {
			if !(entry+traverse <= b.Start || entry >= b.End) {
				entry = b.End
				movedForBlock = true
			}
		}
		if movedForBlock {
			continue
		}

		restarted := false
		for _, occ := range s.items {
			earliestAfter := occ.End + headway
			if !(entry+traverse+headway <= occ.Start || entry >= earliestAfter) {
				entry = max(earliestAfter, occ.End+headway)
				restarted = true
				break
			}
		}
		if restarted {
			continue
		}
		break
	}
	return entry
}

// Insert records occ in the store, keeping items sorted by entry.
func (s *Store) Insert(occ Occupant) {
	idx := sort.Search(len(s.items), func(i int) bool {
		return s.items[i].Start > occ.Start
	})
	s.items = append(s.items, Occupant{})
	copy(s.items[idx+1:], s.items[idx:])
	s.items[idx] = occ
}

// Items returns the stored occupants in entry order. The returned slice
// must not be mutated by callers.
func (s *Store) Items() []Occupant {
	return s.items
}
