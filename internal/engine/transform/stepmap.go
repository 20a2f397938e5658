package transform

import (
	"fmt"
	"strings"
)

// MapResult is the outcome of mapping a position.
type MapResult struct {
	Pos int
	// Deleted is set when the content on the assoc side of the position
	// was removed.
	Deleted bool
}

// Mappable is anything that can carry a position forward.
type Mappable interface {
	Map(pos, assoc int) int
	MapResult(pos, assoc int) MapResult
}

// Range is one replaced region of a StepMap.
type Range struct {
	Start   int
	OldSize int
	NewSize int
}

// StepMap describes the positions replaced by a single step as a list of
// non-overlapping ranges in ascending order.
type StepMap struct {
	ranges []Range
}

// EmptyMap maps every position to itself.
var EmptyMap = StepMap{}

// NewStepMap builds a map from ranges.
func NewStepMap(ranges ...Range) StepMap {
	out := make([]Range, 0, len(ranges))
	for _, r := range ranges {
		if r.OldSize == 0 && r.NewSize == 0 {
			continue
		}
		out = append(out, r)
	}
	return StepMap{ranges: out}
}

// Ranges returns a copy of the replaced ranges.
func (m StepMap) Ranges() []Range {
	return append([]Range(nil), m.ranges...)
}

// Map returns the new position of pos. assoc decides which side wins
// when content is inserted exactly at pos: negative stays before it,
// positive moves after it.
func (m StepMap) Map(pos, assoc int) int {
	return m.MapResult(pos, assoc).Pos
}

// MapResult maps pos and reports whether it was deleted.
func (m StepMap) MapResult(pos, assoc int) MapResult {
	diff := 0
	for _, r := range m.ranges {
		if r.Start > pos {
			break
		}
		end := r.Start + r.OldSize
		if pos <= end {
			side := assoc
			if r.OldSize > 0 {
				if pos == r.Start {
					side = -1
				} else if pos == end {
					side = 1
				}
			}
			result := r.Start + diff
			if side >= 0 {
				result += r.NewSize
			}
			edge := end
			if assoc < 0 {
				edge = r.Start
			}
			return MapResult{Pos: result, Deleted: r.OldSize > 0 && pos != edge}
		}
		diff += r.NewSize - r.OldSize
	}
	return MapResult{Pos: pos + diff}
}

// Invert returns the map from the new document back to the old one.
func (m StepMap) Invert() StepMap {
	out := make([]Range, len(m.ranges))
	diff := 0
	for i, r := range m.ranges {
		out[i] = Range{Start: r.Start + diff, OldSize: r.NewSize, NewSize: r.OldSize}
		diff += r.NewSize - r.OldSize
	}
	return StepMap{ranges: out}
}

// Touches reports whether pos lies inside or on the edge of a replaced
// range.
func (m StepMap) Touches(pos int) bool {
	for _, r := range m.ranges {
		if r.Start > pos {
			break
		}
		if pos <= r.Start+r.OldSize {
			return true
		}
	}
	return false
}

// String renders the ranges for debugging.
func (m StepMap) String() string {
	parts := make([]string, len(m.ranges))
	for i, r := range m.ranges {
		parts[i] = fmt.Sprintf("%d:-%d+%d", r.Start, r.OldSize, r.NewSize)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Mapping composes the maps of consecutive steps.
type Mapping struct {
	maps []StepMap
}

// NewMapping returns a mapping over maps.
func NewMapping(maps ...StepMap) *Mapping {
	return &Mapping{maps: append([]StepMap(nil), maps...)}
}

// Append adds a map at the end.
func (m *Mapping) Append(sm StepMap) {
	m.maps = append(m.maps, sm)
}

// AppendMapping adds every map of other.
func (m *Mapping) AppendMapping(other *Mapping) {
	m.maps = append(m.maps, other.maps...)
}

// Maps returns the composed maps.
func (m *Mapping) Maps() []StepMap {
	return append([]StepMap(nil), m.maps...)
}

// Len returns the number of maps.
func (m *Mapping) Len() int {
	return len(m.maps)
}

// Slice returns the mapping made of maps [from, to).
func (m *Mapping) Slice(from, to int) *Mapping {
	return NewMapping(m.maps[from:to]...)
}

// Invert returns the mapping from the final document back to the first.
func (m *Mapping) Invert() *Mapping {
	out := make([]StepMap, len(m.maps))
	for i, sm := range m.maps {
		out[len(m.maps)-1-i] = sm.Invert()
	}
	return &Mapping{maps: out}
}

// Map carries pos through every map.
func (m *Mapping) Map(pos, assoc int) int {
	for _, sm := range m.maps {
		pos = sm.Map(pos, assoc)
	}
	return pos
}

// MapResult carries pos through every map; Deleted is set when any map
// deleted it.
func (m *Mapping) MapResult(pos, assoc int) MapResult {
	deleted := false
	for _, sm := range m.maps {
		r := sm.MapResult(pos, assoc)
		pos = r.Pos
		deleted = deleted || r.Deleted
	}
	return MapResult{Pos: pos, Deleted: deleted}
}
