package glyph

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/paulmach/orb/simplify"
)

// toLineString converts a stroke to an orb.LineString.
func toLineString(points []Point) orb.LineString {
	ls := make(orb.LineString, len(points))
	for i, p := range points {
		ls[i] = orb.Point{p.X, p.Y}
	}
	return ls
}

// fromLineString converts an orb.LineString back to a stroke.
func fromLineString(ls orb.LineString) []Point {
	points := make([]Point, len(ls))
	for i, p := range ls {
		points[i] = Point{X: p[0], Y: p[1]}
	}
	return points
}

// Simplify reduces raw capture noise with Douglas-Peucker before
// encoding. Tolerance is in input units; zero disables simplification.
// The input slice is never modified.
func Simplify(points []Point, tolerance float64) []Point {
	if tolerance <= 0 || len(points) < 3 {
		return points
	}

	s := simplify.DouglasPeucker(tolerance).Simplify(toLineString(points))
	result, ok := s.(orb.LineString)
	if !ok || len(result) < 2 {
		return points
	}
	return fromLineString(result)
}

// StrokeLength returns the drawn polyline length of a stroke.
func StrokeLength(points []Point) float64 {
	if len(points) < 2 {
		return 0
	}
	return planar.Length(toLineString(points))
}
