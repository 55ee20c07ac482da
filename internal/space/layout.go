// Package space validates and merges object placements in a user's pixel
// grid. All functions are pure; persistence and per-user serialization are
// the caller's job.
package space

// DefaultGridSize is the side length of a season space grid.
const DefaultGridSize = 10

// Scale bounds enforced on every placement. The original client schema
// tolerated a wider range at the wire boundary; the engine bound is the one
// that holds (see DESIGN.md).
const (
	MinScale = 0.5
	MaxScale = 2.0
)

// Placement positions one acquired object inside a space grid.
type Placement struct {
	ObjectID int64   `json:"objectId"`
	X        int     `json:"x"`
	Y        int     `json:"y"`
	Scale    float64 `json:"scale"`
	Rotation int     `json:"rotation"`
	ZIndex   int     `json:"zIndex"`
}

// StorageRecord is the flat snake_case shape placements are persisted as.
type StorageRecord struct {
	ObjectID int64   `json:"object_id"`
	X        int     `json:"x"`
	Y        int     `json:"y"`
	Scale    float64 `json:"scale"`
	Rotation int     `json:"rotation"`
	ZIndex   int     `json:"z_index"`
}

// Validation is the outcome of ValidatePlacement. Reason is set only when
// Valid is false.
type Validation struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

func invalid(reason string) Validation {
	return Validation{Valid: false, Reason: reason}
}

// ValidatePlacement checks a candidate placement against the grid and the
// current layout. Checks run in a fixed order and the first failure wins.
// Overlap with other objects is allowed; stacking is a z-index concern.
func ValidatePlacement(p Placement, gridWidth, gridHeight int, existing []Placement) Validation {
	if p.X < 0 || p.X >= gridWidth {
		return invalid("X out of grid bounds")
	}
	if p.Y < 0 || p.Y >= gridHeight {
		return invalid("Y out of grid bounds")
	}
	if p.Scale < MinScale || p.Scale > MaxScale {
		return invalid("scale out of range")
	}
	switch p.Rotation {
	case 0, 90, 180, 270:
	default:
		return invalid("invalid rotation")
	}
	for _, e := range existing {
		if e.ObjectID == p.ObjectID {
			return invalid("object already placed")
		}
	}
	return Validation{Valid: true}
}

// Apply merges a placement into a layout: an entry with the same object id
// is replaced in place, otherwise the placement is appended. The input
// slice is not mutated. The second return reports whether an existing entry
// was updated.
func Apply(layout []Placement, p Placement) ([]Placement, bool) {
	for i, e := range layout {
		if e.ObjectID == p.ObjectID {
			next := make([]Placement, len(layout))
			copy(next, layout)
			next[i] = p
			return next, true
		}
	}
	next := make([]Placement, 0, len(layout)+1)
	next = append(next, layout...)
	return append(next, p), false
}

// Remove deletes the placement for objectID. The second return is false
// when the object was not placed, letting callers distinguish a no-op from
// a removal.
func Remove(layout []Placement, objectID int64) ([]Placement, bool) {
	found := false
	next := make([]Placement, 0, len(layout))
	for _, e := range layout {
		if e.ObjectID == objectID {
			found = true
			continue
		}
		next = append(next, e)
	}
	return next, found
}

// NextZIndex returns one above the highest z-index in the layout, or 0 for
// an empty layout.
func NextZIndex(layout []Placement) int {
	max := -1
	for _, e := range layout {
		if e.ZIndex > max {
			max = e.ZIndex
		}
	}
	return max + 1
}

// ToRecords converts a layout to its storage shape, preserving order.
func ToRecords(layout []Placement) []StorageRecord {
	records := make([]StorageRecord, len(layout))
	for i, p := range layout {
		records[i] = StorageRecord{
			ObjectID: p.ObjectID,
			X:        p.X,
			Y:        p.Y,
			Scale:    p.Scale,
			Rotation: p.Rotation,
			ZIndex:   p.ZIndex,
		}
	}
	return records
}

// FromRecords is the inverse of ToRecords.
func FromRecords(records []StorageRecord) []Placement {
	layout := make([]Placement, len(records))
	for i, r := range records {
		layout[i] = Placement{
			ObjectID: r.ObjectID,
			X:        r.X,
			Y:        r.Y,
			Scale:    r.Scale,
			Rotation: r.Rotation,
			ZIndex:   r.ZIndex,
		}
	}
	return layout
}
