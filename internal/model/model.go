// Package model holds the scheduling core's value types: sections, train
// requests, the network they live on, and the schedule items the solvers
// produce. Every entity here is immutable for the duration of one
// scheduling call; nothing in this package holds state across calls.
package model

import (
	"fmt"

	log "gopkg.in/inconshreveable/log15.v2"
)

var logger log.Logger

// InitializeLogger binds this package's logger to a parent, following the
// module-scoped logger convention used across this repo's packages.
func InitializeLogger(parent log.Logger) {
	logger = parent.New("module", "model")
}

func init() {
	logger = log.New("module", "model")
}

// Seconds is a non-negative duration or timestamp, measured in seconds from
// the scenario epoch (0).
type Seconds = int

// Interval is a half-open time interval [Start, End).
type Interval struct {
	Start Seconds
	End   Seconds
}

// Section is a track resource: a fixed traversal time and headway, plus
// optional blockages, platform capacity, and cross-section conflicts.
type Section struct {
	ID string

	// HeadwaySeconds is the minimum time from one train's exit to the next
	// train's entry on this section.
	HeadwaySeconds Seconds
	// TraverseSeconds is the fixed traversal duration.
	TraverseSeconds Seconds

	// BlockWindows are half-open intervals during which the section is
	// unavailable; a train's occupancy must not intersect any of them.
	BlockWindows []Interval

	// PlatformCapacity, when set and positive, caps the number of trains
	// that may have overlapping pre-entry dwell intervals on this section.
	PlatformCapacity *int

	// ConflictsWith maps another section-id to a clearance in seconds: any
	// entry on this section and any entry on the other section must be
	// separated by at least that many seconds (either order).
	ConflictsWith map[string]Seconds

	// ConflictGroups maps a group-id to a clearance in seconds. Two
	// sections sharing a group-id are mutually constrained by the max of
	// their declared clearances for that group.
	ConflictGroups map[string]Seconds
}

// TrainRequest describes one train's journey request.
type TrainRequest struct {
	ID string

	// Priority is a positive integer; higher means more important.
	Priority int

	// RouteSections is the non-empty ordered sequence of section-ids the
	// train traverses, in order.
	RouteSections []string

	// PlannedDeparture is the earliest allowed entry time on the first
	// section.
	PlannedDeparture Seconds

	// DwellBefore maps a section-id on the route to the number of seconds
	// the train must remain at the station immediately before entering it.
	DwellBefore map[string]Seconds

	// DueTime, if set, is the target time beyond which a terminal-section
	// entry counts as lateness.
	DueTime *Seconds
}

// Dwell returns the dwell, in seconds, the train must observe before
// entering section sid (0 if none declared).
func (t TrainRequest) Dwell(sid string) Seconds {
	if t.DwellBefore == nil {
		return 0
	}
	return t.DwellBefore[sid]
}

// LastSection returns the final section-id of the train's route.
func (t TrainRequest) LastSection() string {
	return t.RouteSections[len(t.RouteSections)-1]
}

// ScheduleItem is one train's entry/exit on one section.
type ScheduleItem struct {
	TrainID   string
	SectionID string
	Entry     Seconds
	Exit      Seconds
}

// Network is the value-type aggregate of all sections in a scenario.
type Network struct {
	Sections []Section

	byID map[string]*Section
}

// NewNetwork builds a Network from sections, indexing them by id. It does
// not validate section field invariants; callers should run Validate first.
func NewNetwork(sections []Section) Network {
	n := Network{Sections: sections, byID: make(map[string]*Section, len(sections))}
	for i := range n.Sections {
		n.byID[n.Sections[i].ID] = &n.Sections[i]
	}
	return n
}

// Lookup resolves a section-id, returning ErrUnknownSection when absent.
func (n Network) Lookup(id string) (*Section, error) {
	s, ok := n.byID[id]
	if !ok {
		return nil, fmt.Errorf("section %q: %w", id, ErrUnknownSection)
	}
	return s, nil
}
