package glyph

import "math"

// Distance returns the Euclidean distance between two points
func Distance(a, b Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// CenterOfMass returns the arithmetic mean of all point coordinates.
// The empty stroke has no meaningful center; it maps to the origin so
// callers never observe NaN.
func CenterOfMass(points []Point) Point {
	if len(points) == 0 {
		return Point{}
	}

	var sumX, sumY float64
	for _, p := range points {
		sumX += p.X
		sumY += p.Y
	}

	n := float64(len(points))
	return Point{X: sumX / n, Y: sumY / n}
}

const (
	// medianMaxIterations caps Weiszfeld refinement so the solver always terminates.
	medianMaxIterations = 500

	// medianConvergence is the successive-estimate displacement below which
	// the solver stops early (same units as input coordinates).
	medianConvergence = 0.001
)

// GeometricMedian approximates the point minimizing total distance to all
// points using Weiszfeld's algorithm. Strokes with fewer than two points
// fall back to CenterOfMass. Starting at the center of mass, each iteration
// replaces the estimate with the inverse-distance-weighted average of all
// points; points coincident with the current estimate are skipped for that
// iteration to avoid a zero denominator.
func GeometricMedian(points []Point) Point {
	if len(points) < 2 {
		return CenterOfMass(points)
	}

	estimate := CenterOfMass(points)
	for i := 0; i < medianMaxIterations; i++ {
		var sumX, sumY, weightSum float64
		for _, p := range points {
			d := Distance(p, estimate)
			if d == 0 {
				continue
			}
			w := 1.0 / d
			sumX += p.X * w
			sumY += p.Y * w
			weightSum += w
		}

		if weightSum == 0 {
			// Every point sits exactly on the estimate.
			break
		}

		next := Point{X: sumX / weightSum, Y: sumY / weightSum}
		moved := Distance(next, estimate)
		estimate = next
		if moved < medianConvergence {
			break
		}
	}

	return estimate
}

// BoundsOf computes the bounding box of a stroke in a single pass.
// The empty stroke yields all-zero bounds.
func BoundsOf(points []Point) Bounds {
	if len(points) == 0 {
		return Bounds{}
	}

	b := Bounds{
		Left:   points[0].X,
		Right:  points[0].X,
		Top:    points[0].Y,
		Bottom: points[0].Y,
	}
	for _, p := range points[1:] {
		if p.X < b.Left {
			b.Left = p.X
		}
		if p.X > b.Right {
			b.Right = p.X
		}
		if p.Y < b.Bottom {
			b.Bottom = p.Y
		}
		if p.Y > b.Top {
			b.Top = p.Y
		}
	}
	return b
}
