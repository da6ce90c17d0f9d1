package glyph

// IncomparableDifference is returned when two bitmaps cannot be compared:
// a precision mismatch or a missing counterpart. It sits far above any
// achievable real difference, so incomparable pairs rank last instead of
// raising a fault.
const IncomparableDifference = 100.0

func sameResolution(a, b *Bitmap) bool {
	return a != nil && b != nil && a.precision == b.precision
}

// GridDifference returns the mean squared error between the grid maps of
// two bitmaps of matching precision.
func GridDifference(a, b *Bitmap) float64 {
	if !sameResolution(a, b) {
		return IncomparableDifference
	}

	var sum float64
	for i := 0; i < a.precision; i++ {
		for j := 0; j < a.precision; j++ {
			d := a.grid[i][j] - b.grid[i][j]
			sum += d * d
		}
	}
	return sum / float64(a.precision*a.precision)
}

// CircleDifference returns the mean squared error between the ring maps
// built around the requested center. Production scoring uses the
// median-centered maps; the mass-centered variant is available for
// secondary cross-checks.
func CircleDifference(a, b *Bitmap, center Center) float64 {
	if !sameResolution(a, b) {
		return IncomparableDifference
	}

	ma, mb := a.circleMedian, b.circleMedian
	if center == CenterMass {
		ma, mb = a.circleMass, b.circleMass
	}

	var sum float64
	for i := range ma {
		for q := range ma[i] {
			d := ma[i][q] - mb[i][q]
			sum += d * d
		}
	}
	return sum / float64(a.precision*circleQuadrants)
}

// FlatDifference compares the flat maps of two bitmaps along one axis as a
// bin-mismatch fraction, taking the minimum over window shifts of up to
// precision bins in either direction. Small horizontal or vertical offsets
// between otherwise identical strokes therefore do not penalize the score.
func FlatDifference(a, b *Bitmap, axis Axis) float64 {
	if !sameResolution(a, b) {
		return IncomparableDifference
	}

	x := a.flatSlice(axis)
	y := b.flatSlice(axis)

	best := flatMismatchInterior(x, y)
	for shift := 1; shift <= a.precision; shift++ {
		if m := flatMismatchShifted(x, y, shift); m < best {
			best = m
		}
		if m := flatMismatchShifted(y, x, shift); m < best {
			best = m
		}
	}
	return best
}

// flatMismatchInterior is the zero-shift comparison. The first and last
// bins are excluded: segment endpoints make the edge bins unreliable.
func flatMismatchInterior(x, y []int) float64 {
	n := len(x)
	if n <= 2 {
		return 0
	}

	mismatches := 0
	for i := 1; i < n-1; i++ {
		if x[i] != y[i] {
			mismatches++
		}
	}
	return float64(mismatches) / float64(n-2)
}

// flatMismatchShifted compares x slid shift bins ahead of y over the
// overlapping region only, normalized by the overlap size.
func flatMismatchShifted(x, y []int, shift int) float64 {
	overlap := len(x) - shift
	if overlap <= 0 {
		return 1
	}

	mismatches := 0
	for i := 0; i < overlap; i++ {
		if x[i+shift] != y[i] {
			mismatches++
		}
	}
	return float64(mismatches) / float64(overlap)
}
