package glyph

import (
	"math"
	"testing"
)

func dotStroke() []Point {
	return []Point{{50, 50}}
}

func lineStroke() []Point {
	points := []Point{}
	for i := 0; i <= 20; i++ {
		points = append(points, Point{X: float64(i) * 5, Y: 0})
	}
	return points
}

func circleStroke() []Point {
	points := []Point{}
	for i := 0; i <= 36; i++ {
		angle := float64(i) * 10 * math.Pi / 180
		points = append(points, Point{X: 50 + 40*math.Cos(angle), Y: 50 + 40*math.Sin(angle)})
	}
	return points
}

func TestNewLibrary(t *testing.T) {
	l := NewLibrary("test", 5)

	if l.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 (the reserved entry)", l.Len())
	}
	e, ok := l.Get(EmptyEntryName)
	if !ok {
		t.Fatal("reserved entry missing")
	}
	if e.Shape().PointCount() != 0 {
		t.Errorf("reserved entry has %d points, want 0", e.Shape().PointCount())
	}
	if l.Precision() != 5 {
		t.Errorf("Precision() = %d, want 5", l.Precision())
	}
	if l.Weights() != DefaultWeights() {
		t.Errorf("Weights() = %+v, want defaults", l.Weights())
	}
}

func TestNewLibrary_PrecisionFallback(t *testing.T) {
	l := NewLibrary("test", 0)
	if l.Precision() != DefaultPrecision {
		t.Errorf("Precision() = %d, want %d", l.Precision(), DefaultPrecision)
	}
}

func TestLibrary_AddReplaceInPlace(t *testing.T) {
	l := NewLibrary("test", 5)
	l.Add("a", Encode(dotStroke(), 5))
	l.Add("b", Encode(lineStroke(), 5))

	replacement := Encode(circleStroke(), 5)
	l.Add("a", replacement)

	if l.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", l.Len())
	}

	names := []string{}
	for _, e := range l.Entries() {
		names = append(names, e.Name())
	}
	want := []string{EmptyEntryName, "a", "b"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("entry order = %v, want %v", names, want)
		}
	}

	e, _ := l.Get("a")
	if e.Shape() != replacement {
		t.Error("re-adding under an existing name should replace the shape in place")
	}
}

func TestLibrary_Remove(t *testing.T) {
	l := NewLibrary("test", 5)
	l.Add("a", Encode(dotStroke(), 5))
	l.Add("b", Encode(lineStroke(), 5))
	l.Add("c", Encode(circleStroke(), 5))

	if !l.Remove("b") {
		t.Fatal("Remove(b) = false, want true")
	}
	if l.Remove("b") {
		t.Error("removing an absent name should report false")
	}

	// The index stays consistent after the tail shifts down.
	e, ok := l.Get("c")
	if !ok || e.Name() != "c" {
		t.Error("entry c unreachable after removing b")
	}
	if l.Len() != 3 {
		t.Errorf("Len() = %d, want 3", l.Len())
	}
}

func TestLibrary_RemoveEntry(t *testing.T) {
	l := NewLibrary("test", 5)
	l.Add("a", Encode(dotStroke(), 5))

	e, _ := l.Get("a")
	if !l.RemoveEntry(e) {
		t.Error("RemoveEntry of an owned entry should succeed")
	}

	foreign := &Entry{name: "a", shape: Encode(nil, 5)}
	if l.RemoveEntry(foreign) {
		t.Error("RemoveEntry of a foreign entry should report false")
	}
	if l.RemoveEntry(nil) {
		t.Error("RemoveEntry(nil) should report false")
	}
}

func TestLibrary_Clear(t *testing.T) {
	l := NewLibrary("test", 5)
	l.Add("a", Encode(dotStroke(), 5))
	l.Add("b", Encode(lineStroke(), 5))

	l.Clear()

	if l.Len() != 1 {
		t.Fatalf("Len() after Clear = %d, want 1", l.Len())
	}
	if _, ok := l.Get(EmptyEntryName); !ok {
		t.Error("reserved entry should survive Clear")
	}
	if _, ok := l.Get("a"); ok {
		t.Error("custom entries should not survive Clear")
	}
}

func TestLibrary_Score_SelfIsZero(t *testing.T) {
	l := NewLibrary("test", 6)
	shape := Encode(circleStroke(), 6)
	l.Add("circle", shape)

	e, _ := l.Get("circle")
	if s := l.Score(shape, e); s != 0 {
		t.Errorf("Score against the identical shape = %f, want 0", s)
	}
}

func TestLibrary_Score_WeightsApply(t *testing.T) {
	l := NewLibrary("test", 6)
	shape := Encode(circleStroke(), 6)

	e, _ := l.Get(EmptyEntryName)
	withDefaults := l.Score(shape, e)
	if withDefaults <= 0 {
		t.Fatalf("score against the empty entry = %f, want > 0", withDefaults)
	}

	l.SetWeights(0, 0, 0, 0)
	if s := l.Score(shape, e); s != 0 {
		t.Errorf("score with zero weights = %f, want 0", s)
	}
}

func TestLibrary_Rank_EmptyOnly(t *testing.T) {
	// With a single candidate the mean equals its score, so the percent
	// bottoms out at zero no matter the stroke.
	l := NewLibrary("test", 5)
	matches := l.Rank(Encode(circleStroke(), 5))

	if len(matches) != 1 {
		t.Fatalf("len(matches) = %d, want 1", len(matches))
	}
	if matches[0].Name != EmptyEntryName {
		t.Errorf("match name = %q, want %q", matches[0].Name, EmptyEntryName)
	}
	if matches[0].Percent != 0 {
		t.Errorf("match percent = %f, want 0", matches[0].Percent)
	}
}

func TestLibrary_Rank_PerfectMatch(t *testing.T) {
	l := NewLibrary("test", 6)
	l.Add("line", Encode(lineStroke(), 6))
	l.Add("circle", Encode(circleStroke(), 6))

	matches := l.Rank(Encode(circleStroke(), 6))

	if matches[0].Name != "circle" {
		t.Fatalf("best match = %q, want circle", matches[0].Name)
	}
	if matches[0].RawScore != 0 {
		t.Errorf("best raw score = %f, want 0", matches[0].RawScore)
	}
	if matches[0].Percent != 100 {
		t.Errorf("best percent = %f, want 100", matches[0].Percent)
	}
}

func TestLibrary_Rank_Ordering(t *testing.T) {
	l := NewLibrary("test", 6)
	l.Add("dot", Encode(dotStroke(), 6))
	l.Add("line", Encode(lineStroke(), 6))
	l.Add("circle", Encode(circleStroke(), 6))

	matches := l.Rank(Encode(circleStroke(), 6))

	if len(matches) != 4 {
		t.Fatalf("len(matches) = %d, want 4", len(matches))
	}
	for i := 1; i < len(matches); i++ {
		if matches[i].RawScore < matches[i-1].RawScore {
			t.Errorf("raw scores not ascending at %d: %f < %f",
				i, matches[i].RawScore, matches[i-1].RawScore)
		}
		if matches[i].Percent > matches[i-1].Percent {
			t.Errorf("percentages not descending at %d: %f > %f",
				i, matches[i].Percent, matches[i-1].Percent)
		}
	}
	for _, m := range matches {
		if m.Percent < 0 || m.Percent > 100 {
			t.Errorf("percent %f for %q out of [0, 100]", m.Percent, m.Name)
		}
	}
}

func TestLibrary_Rank_PercentTruncated(t *testing.T) {
	l := NewLibrary("test", 6)
	l.Add("dot", Encode(dotStroke(), 6))
	l.Add("line", Encode(lineStroke(), 6))

	for _, m := range l.Rank(Encode(circleStroke(), 6)) {
		scaled := m.Percent * 100
		if math.Abs(scaled-math.Round(scaled)) > 1e-6 {
			t.Errorf("percent %f for %q is not truncated to two decimals", m.Percent, m.Name)
		}
	}
}

func TestLibrary_Reencode(t *testing.T) {
	l := NewLibrary("test", 4)
	l.Add("circle", Encode(circleStroke(), 4))

	l.Reencode(8)

	if l.Precision() != 8 {
		t.Errorf("Precision() = %d, want 8", l.Precision())
	}
	for _, e := range l.Entries() {
		if e.Shape().Precision() != 8 {
			t.Errorf("entry %q precision = %d, want 8", e.Name(), e.Shape().Precision())
		}
	}

	// Candidates encoded at the new precision stay comparable.
	matches := l.Rank(Encode(circleStroke(), 8))
	if matches[0].Name != "circle" {
		t.Errorf("best match after reencode = %q, want circle", matches[0].Name)
	}
}

func TestLibrary_BestMatch(t *testing.T) {
	l := NewLibrary("test", 6)
	l.Add("line", Encode(lineStroke(), 6))

	best, ok := l.BestMatch(Encode(lineStroke(), 6))
	if !ok {
		t.Fatal("BestMatch reported no candidates")
	}
	if best.Name != "line" {
		t.Errorf("best match = %q, want line", best.Name)
	}
}
