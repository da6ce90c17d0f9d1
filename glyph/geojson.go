package glyph

import "encoding/json"

// GeometryType represents the GeoJSON geometry type
type GeometryType string

const (
	GeometryPoint      GeometryType = "Point"
	GeometryLineString GeometryType = "LineString"
	GeometryPolygon    GeometryType = "Polygon"
)

// Geometry represents a GeoJSON geometry object
type Geometry struct {
	Type        GeometryType    `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// Feature represents a GeoJSON feature with geometry and properties
type Feature struct {
	Type       string                 `json:"type"`
	Geometry   *Geometry              `json:"geometry"`
	Properties map[string]interface{} `json:"properties"`
	ID         interface{}            `json:"id,omitempty"`
}

// FeatureCollection represents a GeoJSON FeatureCollection
type FeatureCollection struct {
	Type     string     `json:"type"`
	Features []*Feature `json:"features"`
}

// NewFeatureCollection creates a new empty FeatureCollection
func NewFeatureCollection() *FeatureCollection {
	return &FeatureCollection{
		Type:     "FeatureCollection",
		Features: make([]*Feature, 0),
	}
}

// AddFeature appends a feature to the collection
func (fc *FeatureCollection) AddFeature(f *Feature) {
	fc.Features = append(fc.Features, f)
}

// NewFeature creates a Feature with the given geometry and properties
func NewFeature(geom *Geometry, props map[string]interface{}) *Feature {
	if props == nil {
		props = make(map[string]interface{})
	}
	return &Feature{
		Type:       "Feature",
		Geometry:   geom,
		Properties: props,
	}
}

// StrokeToLineString converts a stroke to a GeoJSON LineString geometry.
// Coordinates are in input/canvas space (x, y).
func StrokeToLineString(points []Point) *Geometry {
	coords := make([][2]float64, len(points))
	for i, p := range points {
		coords[i] = [2]float64{p.X, p.Y}
	}

	coordsJSON, _ := json.Marshal(coords)
	return &Geometry{
		Type:        GeometryLineString,
		Coordinates: coordsJSON,
	}
}

// BoundsToPolygon converts a bounding box to a closed GeoJSON Polygon ring.
func BoundsToPolygon(b Bounds) *Geometry {
	ring := [][2]float64{
		{b.Left, b.Bottom},
		{b.Right, b.Bottom},
		{b.Right, b.Top},
		{b.Left, b.Top},
		{b.Left, b.Bottom},
	}
	coordsJSON, _ := json.Marshal([][][2]float64{ring})
	return &Geometry{
		Type:        GeometryPolygon,
		Coordinates: coordsJSON,
	}
}

// LibraryFeatureCollection exports every entry's source stroke as a
// LineString feature with name, point count and bounds properties, for
// inspection in external GeoJSON viewers. Entries without points (the
// reserved empty entry) are skipped.
func LibraryFeatureCollection(l *Library) *FeatureCollection {
	fc := NewFeatureCollection()
	for _, e := range l.Entries() {
		pts := e.Shape().Points()
		if len(pts) == 0 {
			continue
		}
		b := e.Shape().Bounds()
		f := NewFeature(StrokeToLineString(pts), map[string]interface{}{
			"name":       e.Name(),
			"pointCount": len(pts),
			"length":     StrokeLength(pts),
			"width":      b.Width(),
			"height":     b.Height(),
		})
		f.ID = e.Name()
		fc.AddFeature(f)
	}
	return fc
}
