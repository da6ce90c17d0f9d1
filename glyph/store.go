package glyph

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// storedEntry is the serialized form of one labeled shape. Only the
// source points are persisted; maps are recomputed on load so the file
// format never depends on map layout.
type storedEntry struct {
	Name   string  `json:"name"`
	Points []Point `json:"points"`
}

// libraryFile is the on-disk JSON envelope for a library.
type libraryFile struct {
	Name      string        `json:"name"`
	Precision int           `json:"precision"`
	Weights   Weights       `json:"weights"`
	Entries   []storedEntry `json:"entries"`
	SavedAt   int64         `json:"savedAt"`
}

// SaveLibrary writes a library to a JSON file. Entries round-trip through
// their source point sequences.
func SaveLibrary(path string, l *Library) error {
	lf := libraryFile{
		Name:      l.Name(),
		Precision: l.Precision(),
		Weights:   l.Weights(),
		SavedAt:   time.Now().Unix(),
	}
	for _, e := range l.Entries() {
		lf.Entries = append(lf.Entries, storedEntry{
			Name:   e.Name(),
			Points: e.Shape().Points(),
		})
	}

	data, err := json.MarshalIndent(lf, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling library: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing library file: %w", err)
	}
	return nil
}

// LoadLibrary reads a library from a JSON file, re-encoding every entry
// from its stored point sequence at the stored precision. The reserved
// empty entry is restored whether or not the file carries one.
func LoadLibrary(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("library file not found: %s", path)
		}
		return nil, fmt.Errorf("reading library file: %w", err)
	}

	var lf libraryFile
	if err := json.Unmarshal(data, &lf); err != nil {
		return nil, fmt.Errorf("parsing library JSON: %w", err)
	}
	if lf.Precision < 1 {
		lf.Precision = DefaultPrecision
	}

	l := NewLibrary(lf.Name, lf.Precision)
	// A file without a weights block unmarshals to all zeros; keep the
	// neutral defaults in that case.
	if lf.Weights != (Weights{}) {
		l.SetWeights(lf.Weights.Grid, lf.Weights.Circle, lf.Weights.Horizontal, lf.Weights.Vertical)
	}
	for _, se := range lf.Entries {
		l.Add(se.Name, Encode(se.Points, lf.Precision))
	}
	return l, nil
}
