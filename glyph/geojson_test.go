package glyph

import (
	"encoding/json"
	"testing"
)

func TestStrokeToLineString(t *testing.T) {
	geom := StrokeToLineString([]Point{{0, 0}, {3, 4}})

	if geom.Type != GeometryLineString {
		t.Errorf("Type = %q, want LineString", geom.Type)
	}
	if string(geom.Coordinates) != "[[0,0],[3,4]]" {
		t.Errorf("Coordinates = %s, want [[0,0],[3,4]]", geom.Coordinates)
	}
}

func TestBoundsToPolygon(t *testing.T) {
	geom := BoundsToPolygon(Bounds{Left: 0, Right: 10, Top: 5, Bottom: 1})

	if geom.Type != GeometryPolygon {
		t.Fatalf("Type = %q, want Polygon", geom.Type)
	}

	var rings [][][2]float64
	if err := json.Unmarshal(geom.Coordinates, &rings); err != nil {
		t.Fatalf("unmarshaling coordinates: %v", err)
	}
	if len(rings) != 1 || len(rings[0]) != 5 {
		t.Fatalf("ring sizes = %d/%d, want 1 ring of 5 positions", len(rings), len(rings[0]))
	}
	if rings[0][0] != rings[0][4] {
		t.Error("polygon ring must be closed")
	}
}

func TestLibraryFeatureCollection(t *testing.T) {
	l := NewLibrary("shapes", 5)
	l.Add("line", Encode(lineStroke(), 5))
	l.Add("circle", Encode(circleStroke(), 5))

	fc := LibraryFeatureCollection(l)

	// The reserved empty entry carries no geometry and is skipped.
	if len(fc.Features) != 2 {
		t.Fatalf("len(Features) = %d, want 2", len(fc.Features))
	}

	for _, f := range fc.Features {
		if f.Type != "Feature" {
			t.Errorf("feature type = %q, want Feature", f.Type)
		}
		if f.Geometry.Type != GeometryLineString {
			t.Errorf("geometry type = %q, want LineString", f.Geometry.Type)
		}
		name, _ := f.Properties["name"].(string)
		if name != "line" && name != "circle" {
			t.Errorf("unexpected feature name %q", name)
		}
		if count, _ := f.Properties["pointCount"].(int); count == 0 {
			t.Errorf("feature %q has zero pointCount", name)
		}
		if length, _ := f.Properties["length"].(float64); length <= 0 {
			t.Errorf("feature %q has non-positive length", name)
		}
	}

	// The collection marshals to valid GeoJSON.
	data, err := json.Marshal(fc)
	if err != nil {
		t.Fatalf("marshaling collection: %v", err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("round trip: %v", err)
	}
	if decoded["type"] != "FeatureCollection" {
		t.Errorf("type = %v, want FeatureCollection", decoded["type"])
	}
}
