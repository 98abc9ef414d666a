package model

import "fmt"

// Validate checks the structural invariants of §3: unique section and
// train ids, non-negative durations, non-empty routes, every referenced
// section existing, and every dwell key belonging to the train's route.
// It returns the first violation found, wrapped in ErrInvalidInput or
// ErrUnknownSection.
func Validate(network Network, trains []TrainRequest) error {
	seen := make(map[string]bool, len(network.Sections))
	for _, s := range network.Sections {
		if s.ID == "" {
			return fmt.Errorf("section with empty id: %w", ErrInvalidInput)
		}
		if seen[s.ID] {
			return fmt.Errorf("duplicate section id %q: %w", s.ID, ErrInvalidInput)
		}
		seen[s.ID] = true
		if s.HeadwaySeconds < 0 {
			return fmt.Errorf("section %q: negative headway_seconds: %w", s.ID, ErrInvalidInput)
		}
		if s.TraverseSeconds < 0 {
			return fmt.Errorf("section %q: negative traverse_seconds: %w", s.ID, ErrInvalidInput)
		}
		for _, w := range s.BlockWindows {
			if w.Start < 0 || w.End < w.Start {
				return fmt.Errorf("section %q: invalid block window [%d,%d): %w", s.ID, w.Start, w.End, ErrInvalidInput)
			}
		}
		if s.PlatformCapacity != nil && *s.PlatformCapacity <= 0 {
			return fmt.Errorf("section %q: platform_capacity must be positive: %w", s.ID, ErrInvalidInput)
		}
		for other, clr := range s.ConflictsWith {
			if clr < 0 {
				return fmt.Errorf("section %q: negative clearance for conflicts_with[%q]: %w", s.ID, other, ErrInvalidInput)
			}
		}
		for grp, clr := range s.ConflictGroups {
			if clr < 0 {
				return fmt.Errorf("section %q: negative clearance for conflict_groups[%q]: %w", s.ID, grp, ErrInvalidInput)
			}
		}
	}

	trainIDs := make(map[string]bool, len(trains))
	for _, t := range trains {
		if t.ID == "" {
			return fmt.Errorf("train with empty id: %w", ErrInvalidInput)
		}
		if trainIDs[t.ID] {
			return fmt.Errorf("duplicate train id %q: %w", t.ID, ErrInvalidInput)
		}
		trainIDs[t.ID] = true
		if t.Priority <= 0 {
			return fmt.Errorf("train %q: priority must be positive: %w", t.ID, ErrInvalidInput)
		}
		if len(t.RouteSections) == 0 {
			return fmt.Errorf("train %q: empty route: %w", t.ID, ErrInvalidInput)
		}
		if t.PlannedDeparture < 0 {
			return fmt.Errorf("train %q: negative planned_departure: %w", t.ID, ErrInvalidInput)
		}
		if t.DueTime != nil && *t.DueTime < 0 {
			return fmt.Errorf("train %q: negative due_time: %w", t.ID, ErrInvalidInput)
		}
		onRoute := make(map[string]bool, len(t.RouteSections))
		for _, sid := range t.RouteSections {
			onRoute[sid] = true
			if _, err := network.Lookup(sid); err != nil {
				return fmt.Errorf("train %q: %w", t.ID, err)
			}
		}
		for sid, dwell := range t.DwellBefore {
			if dwell < 0 {
				return fmt.Errorf("train %q: negative dwell_before[%q]: %w", t.ID, sid, ErrInvalidInput)
			}
			if !onRoute[sid] {
				return fmt.Errorf("train %q: dwell_before references section %q not on its route: %w", t.ID, sid, ErrInvalidInput)
			}
		}
	}
	return nil
}
