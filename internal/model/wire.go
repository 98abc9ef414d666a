package model

// ScenarioPayload is the external JSON shape of §6: sections plus trains.
// Unknown fields on train objects are ignored silently by the decoder
// (Go's encoding/json already does this for fields with no matching tag).
type ScenarioPayload struct {
	Sections []SectionPayload `json:"sections"`
	Trains   []TrainPayload   `json:"trains"`
}

// SectionPayload is the wire shape of a Section.
type SectionPayload struct {
	ID              string           `json:"id"`
	HeadwaySeconds  Seconds          `json:"headway_seconds"`
	TraverseSeconds Seconds          `json:"traverse_seconds"`
	BlockWindows    [][2]Seconds     `json:"block_windows,omitempty"`
	PlatformCapacity *int            `json:"platform_capacity,omitempty"`
	ConflictsWith   map[string]Seconds `json:"conflicts_with,omitempty"`
	ConflictGroups  map[string]Seconds `json:"conflict_groups,omitempty"`
}

// TrainPayload is the wire shape of a TrainRequest.
type TrainPayload struct {
	ID               string             `json:"id"`
	Priority         int                `json:"priority"`
	PlannedDeparture Seconds            `json:"planned_departure"`
	RouteSections    []string           `json:"route_sections"`
	DwellBefore      map[string]Seconds `json:"dwell_before,omitempty"`
	DueTime          *Seconds           `json:"due_time,omitempty"`
}

// ToNetwork converts the wire sections into a Network.
func (p ScenarioPayload) ToNetwork() Network {
	sections := make([]Section, len(p.Sections))
	for i, sp := range p.Sections {
		windows := make([]Interval, len(sp.BlockWindows))
		for j, w := range sp.BlockWindows {
			windows[j] = Interval{Start: w[0], End: w[1]}
		}
		sections[i] = Section{
			ID:              sp.ID,
			HeadwaySeconds:  sp.HeadwaySeconds,
			TraverseSeconds: sp.TraverseSeconds,
			BlockWindows:    windows,
			PlatformCapacity: sp.PlatformCapacity,
			ConflictsWith:   sp.ConflictsWith,
			ConflictGroups:  sp.ConflictGroups,
		}
	}
	return NewNetwork(sections)
}

// ToTrains converts the wire trains into TrainRequests.
func (p ScenarioPayload) ToTrains() []TrainRequest {
	trains := make([]TrainRequest, len(p.Trains))
	for i, tp := range p.Trains {
		trains[i] = TrainRequest{
			ID:               tp.ID,
			Priority:         tp.Priority,
			RouteSections:    tp.RouteSections,
			PlannedDeparture: tp.PlannedDeparture,
			DwellBefore:      tp.DwellBefore,
			DueTime:          tp.DueTime,
		}
	}
	return trains
}

// ScheduleItemPayload is the wire shape of a ScheduleItem.
type ScheduleItemPayload struct {
	TrainID   string  `json:"train_id"`
	SectionID string  `json:"section_id"`
	Entry     Seconds `json:"entry"`
	Exit      Seconds `json:"exit"`
}

// ToPayload converts a ScheduleItem to its wire shape.
func (s ScheduleItem) ToPayload() ScheduleItemPayload {
	return ScheduleItemPayload{TrainID: s.TrainID, SectionID: s.SectionID, Entry: s.Entry, Exit: s.Exit}
}
