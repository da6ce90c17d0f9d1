package glyph

import "math"

// axisSpan is one straight run of the stroke projected onto a single axis.
type axisSpan struct {
	from, to float64
}

func (s axisSpan) low() float64 {
	return math.Min(s.from, s.to)
}

func (s axisSpan) high() float64 {
	return math.Max(s.from, s.to)
}

func axisCoord(p Point, axis Axis) float64 {
	if axis == AxisHorizontal {
		return p.X
	}
	return p.Y
}

func perpCoord(p Point, axis Axis) float64 {
	if axis == AxisHorizontal {
		return p.Y
	}
	return p.X
}

func axisRange(b Bounds, axis Axis) (float64, float64) {
	if axis == AxisHorizontal {
		return b.Left, b.Right
	}
	return b.Bottom, b.Top
}

func perpExtent(b Bounds, axis Axis) float64 {
	if axis == AxisHorizontal {
		return b.Height()
	}
	return b.Width()
}

// computeFlat reduces the stroke to direction-change segments along one
// axis and counts, for each of precision^2 equal-width bins across the
// axis extent, how many segments overlap that bin. The bins stay integer
// counts; flat maps are the only representation that is not normalized.
// An empty stroke yields an all-zero array.
func (b *Bitmap) computeFlat(axis Axis) []int {
	bins := make([]int, b.precision*b.precision)
	if len(b.points) == 0 {
		return bins
	}

	spans := segmentStroke(b.points, axis, b.bounds)

	lo, hi := axisRange(b.bounds, axis)
	width := hi - lo
	for _, s := range spans {
		start, end := 0, 0
		if width > 0 {
			start = binIndex(s.low()-lo, width, len(bins))
			end = binIndex(s.high()-lo, width, len(bins))
		}
		for i := start; i <= end; i++ {
			bins[i]++
		}
	}
	return bins
}

func binIndex(offset, extent float64, bins int) int {
	idx := int(offset / extent * float64(bins))
	if idx < 0 {
		return 0
	}
	if idx >= bins {
		return bins - 1
	}
	return idx
}

// segmentStroke splits the stroke into monotonic runs along the chosen
// axis. A run closes at the prior point, and the next run starts at the
// current point with the tracked direction flipped, when either the next
// two movements both reverse the tracked direction, or consecutive points
// jump more than a sixth of the perpendicular bounding extent (a stroke
// revisiting the axis at a different height/offset). Strokes of three or
// fewer points form a single run from first to last point.
func segmentStroke(points []Point, axis Axis, bounds Bounds) []axisSpan {
	if len(points) == 0 {
		return nil
	}

	first := axisCoord(points[0], axis)
	last := axisCoord(points[len(points)-1], axis)
	if len(points) <= 3 {
		return []axisSpan{{from: first, to: last}}
	}

	gapLimit := perpExtent(bounds, axis) / 6

	dir := 1.0
	if axisCoord(points[1], axis) < first {
		dir = -1
	}

	var spans []axisSpan
	start := first
	for i := 1; i < len(points); i++ {
		prev := points[i-1]
		curr := points[i]

		if math.Abs(perpCoord(curr, axis)-perpCoord(prev, axis)) > gapLimit {
			spans = append(spans, axisSpan{from: start, to: axisCoord(prev, axis)})
			start = axisCoord(curr, axis)
			dir = -dir
			continue
		}

		if i+1 < len(points) {
			d1 := axisCoord(curr, axis) - axisCoord(prev, axis)
			d2 := axisCoord(points[i+1], axis) - axisCoord(curr, axis)
			if d1*dir < 0 && d2*dir < 0 {
				spans = append(spans, axisSpan{from: start, to: axisCoord(prev, axis)})
				start = axisCoord(curr, axis)
				dir = -dir
			}
		}
	}

	spans = append(spans, axisSpan{from: start, to: last})
	return spans
}
