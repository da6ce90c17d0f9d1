package glyph

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveLoadLibrary_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.json")

	l := NewLibrary("shapes", 5)
	l.SetWeights(2, 1, 0.5, 0.5)
	l.Add("dot", Encode(dotStroke(), 5))
	l.Add("circle", Encode(circleStroke(), 5))

	if err := SaveLibrary(path, l); err != nil {
		t.Fatalf("SaveLibrary() error = %v", err)
	}

	loaded, err := LoadLibrary(path)
	if err != nil {
		t.Fatalf("LoadLibrary() error = %v", err)
	}

	if loaded.Name() != "shapes" {
		t.Errorf("Name() = %q, want shapes", loaded.Name())
	}
	if loaded.Precision() != 5 {
		t.Errorf("Precision() = %d, want 5", loaded.Precision())
	}
	if loaded.Weights() != (Weights{Grid: 2, Circle: 1, Horizontal: 0.5, Vertical: 0.5}) {
		t.Errorf("Weights() = %+v, want the saved weights", loaded.Weights())
	}
	if loaded.Len() != l.Len() {
		t.Errorf("Len() = %d, want %d", loaded.Len(), l.Len())
	}

	// Entries are re-encoded from their stored points, so maps match the
	// originals exactly.
	orig, _ := l.Get("circle")
	got, ok := loaded.Get("circle")
	if !ok {
		t.Fatal("entry circle missing after load")
	}
	if got.Shape().PointCount() != orig.Shape().PointCount() {
		t.Errorf("point count = %d, want %d", got.Shape().PointCount(), orig.Shape().PointCount())
	}
	if d := GridDifference(orig.Shape(), got.Shape()); d != 0 {
		t.Errorf("grid difference after round trip = %f, want 0", d)
	}
}

func TestLoadLibrary_Missing(t *testing.T) {
	if _, err := LoadLibrary(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("LoadLibrary of a missing file should error")
	}
}

func TestLoadLibrary_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadLibrary(path); err == nil {
		t.Error("LoadLibrary of a corrupt file should error")
	}
}

func TestLoadLibrary_MissingWeightsKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.json")
	data := `{"name":"old","precision":4,"entries":[{"name":"dot","points":[{"x":1,"y":1}]}]}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	l, err := LoadLibrary(path)
	if err != nil {
		t.Fatalf("LoadLibrary() error = %v", err)
	}
	if l.Weights() != DefaultWeights() {
		t.Errorf("Weights() = %+v, want defaults for a file without a weights block", l.Weights())
	}
	if l.Precision() != 4 {
		t.Errorf("Precision() = %d, want 4", l.Precision())
	}
	if _, ok := l.Get("dot"); !ok {
		t.Error("entry dot missing")
	}
	if _, ok := l.Get(EmptyEntryName); !ok {
		t.Error("reserved entry should be restored on load")
	}
}
