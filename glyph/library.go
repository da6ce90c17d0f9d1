package glyph

import (
	"math"
	"sort"
)

// EmptyEntryName is the reserved library entry encoding a zero-point
// stroke. It always exists and survives Clear, so every ranking has at
// least one candidate and a blank canvas matches "Empty" rather than
// nothing.
const EmptyEntryName = "Empty"

// DefaultPrecision is the resolution the scoring constants were tuned at.
const DefaultPrecision = 6

// Entry pairs a label with the encoded shape it names. Entries are owned
// by the library that stores them.
type Entry struct {
	name  string
	shape *Bitmap
}

// Name returns the entry's label.
func (e *Entry) Name() string { return e.name }

// Shape returns the entry's encoded shape.
func (e *Entry) Shape() *Bitmap { return e.shape }

// Library is a named, ordered collection of labeled shapes plus the
// weighted scoring that ranks a candidate stroke against them. Entries
// are keyed by name; adding under an existing name replaces the shape in
// place, preserving insertion order. A Library is not safe for concurrent
// use; embedders serialize mutations against Rank calls (see Registry).
type Library struct {
	name      string
	precision int
	entries   []*Entry
	index     map[string]int
	weights   Weights
}

// NewLibrary creates a library holding only the reserved empty entry,
// encoded at the given precision. A non-positive precision falls back to
// DefaultPrecision.
func NewLibrary(name string, precision int) *Library {
	if precision < 1 {
		precision = DefaultPrecision
	}
	l := &Library{
		name:      name,
		precision: precision,
		index:     make(map[string]int),
		weights:   DefaultWeights(),
	}
	l.Add(EmptyEntryName, Encode(nil, precision))
	return l
}

// Name returns the library's name.
func (l *Library) Name() string { return l.name }

// Precision returns the resolution entries are encoded at.
func (l *Library) Precision() int { return l.precision }

// Len returns the number of stored entries, including the reserved one.
func (l *Library) Len() int { return len(l.entries) }

// Entries returns the entries in insertion order. The slice is a copy;
// the entries themselves are shared and must not be mutated.
func (l *Library) Entries() []*Entry {
	out := make([]*Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Get returns the entry stored under a name.
func (l *Library) Get(name string) (*Entry, bool) {
	pos, ok := l.index[name]
	if !ok {
		return nil, false
	}
	return l.entries[pos], true
}

// Add stores a shape under a name. An existing name keeps its position
// and has its shape replaced in place.
func (l *Library) Add(name string, shape *Bitmap) {
	if pos, ok := l.index[name]; ok {
		l.entries[pos].shape = shape
		return
	}
	l.index[name] = len(l.entries)
	l.entries = append(l.entries, &Entry{name: name, shape: shape})
}

// Remove deletes the entry under the given name, preserving the order of
// the remaining entries. Removing an absent name reports false.
func (l *Library) Remove(name string) bool {
	pos, ok := l.index[name]
	if !ok {
		return false
	}
	l.entries = append(l.entries[:pos], l.entries[pos+1:]...)
	delete(l.index, name)
	for i := pos; i < len(l.entries); i++ {
		l.index[l.entries[i].name] = i
	}
	return true
}

// RemoveEntry removes a specific entry value. An entry belonging to a
// different library (or an already-removed one) reports false.
func (l *Library) RemoveEntry(e *Entry) bool {
	if e == nil {
		return false
	}
	pos, ok := l.index[e.name]
	if !ok || l.entries[pos] != e {
		return false
	}
	return l.Remove(e.name)
}

// Clear drops every entry and restores the reserved empty entry.
func (l *Library) Clear() {
	l.entries = l.entries[:0]
	l.index = make(map[string]int)
	l.Add(EmptyEntryName, Encode(nil, l.precision))
}

// SetWeights replaces the four representation weights used by Score.
func (l *Library) SetWeights(grid, circle, horizontal, vertical float64) {
	l.weights = Weights{Grid: grid, Circle: circle, Horizontal: horizontal, Vertical: vertical}
}

// Weights returns the current representation weights.
func (l *Library) Weights() Weights { return l.weights }

// Reencode recomputes every stored shape, including the reserved empty
// entry, at a new precision.
func (l *Library) Reencode(precision int) {
	if precision < 1 {
		return
	}
	l.precision = precision
	for _, e := range l.entries {
		e.shape.Reencode(precision)
	}
}

// Score fuses the four representation differences between a candidate
// shape and one entry into a single raw score. Lower is a closer match.
//
// Grid and circle MSE values are rescaled x100 to the magnitude of the
// flat bin-mismatch fractions before fusion.
func (l *Library) Score(shape *Bitmap, e *Entry) float64 {
	grid := 100 * GridDifference(shape, e.shape)
	circ := 100 * CircleDifference(shape, e.shape, CenterMedian)
	horiz := FlatDifference(shape, e.shape, AxisHorizontal)
	vert := FlatDifference(shape, e.shape, AxisVertical)

	grid, circ = coupleBias(grid, circ)

	w := l.weights
	return horiz*w.Horizontal + vert*w.Vertical + circ*w.Circle + grid*w.Grid
}

// coupleBias pulls the larger of the grid and circle scores toward the
// smaller one. The two maps encode overlapping spatial density from two
// partitionings; when one signals a strong match and the other does not,
// the disagreement is mostly noise. The residual kept after coupling
// grows with the gap, so persistent disagreement still separates
// candidates.
func coupleBias(grid, circ float64) (float64, float64) {
	gap := math.Abs(grid - circ)
	bias := 1 / (2 * (1 + gap))
	if grid > circ {
		grid = circ + gap*bias
	} else if circ > grid {
		circ = grid + gap*bias
	}
	return grid, circ
}

// Rank scores a shape against every entry and returns all matches sorted
// ascending by raw score, ties keeping insertion order. Raw scores are
// normalized against the library mean into a bounded confidence
// percentage: a perfect match reads 100.00, entries at or above the mean
// floor at 0. Percentages are truncated, not rounded, to two decimals.
func (l *Library) Rank(shape *Bitmap) []Match {
	matches := make([]Match, len(l.entries))
	var sum float64
	for i, e := range l.entries {
		raw := l.Score(shape, e)
		matches[i] = Match{Name: e.name, RawScore: raw}
		sum += raw
	}
	if len(matches) == 0 {
		return matches
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].RawScore < matches[j].RawScore
	})

	mean := sum / float64(len(matches))
	if mean == 0 {
		mean = 1
	}
	for i := range matches {
		ratio := matches[i].RawScore / mean
		if ratio > 1 {
			ratio = 1
		}
		matches[i].Percent = math.Trunc((100-100*ratio)*100) / 100
	}
	return matches
}

// BestMatch returns the closest entry for a shape. The second return is
// false only for a library with no entries, which cannot occur through
// the public API (the reserved entry always exists).
func (l *Library) BestMatch(shape *Bitmap) (Match, bool) {
	ranked := l.Rank(shape)
	if len(ranked) == 0 {
		return Match{}, false
	}
	return ranked[0], true
}
