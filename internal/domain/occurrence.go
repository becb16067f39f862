package domain

import "time"

// Occurrence is one concrete calendar instance of a Meeting. It carries its own
// copy of every field of its source meeting; editing one occurrence does not
// touch its siblings or the source.
// swagger:model Occurrence
type Occurrence struct {
	Meeting
	OccurrenceDate time.Time `json:"occurrence_date"`
	// IsOccurrence is true for every generated instance of a recurring meeting.
	IsOccurrence bool   `json:"is_occurrence"`
	ParentID     string `json:"parent_id"`
}
