package glyph

const (
	// minBoxWidth/minBoxHeight keep degenerate (near-vertical or
	// near-horizontal) strokes from collapsing into a single grid column
	// or row. Units match the input coordinates.
	minBoxWidth  = 10.0
	minBoxHeight = 10.0

	// minCircleRadius avoids a zero-radius ring map when every point of a
	// stroke clusters tightly around its center.
	minCircleRadius = 5.0

	// circleQuadrants is the fixed angular resolution of both circle maps.
	circleQuadrants = 4
)

// Bitmap is the encoded form of a stroke: four simplified density maps
// computed at a shared precision, plus the source geometry they were
// derived from. A Bitmap is immutable after Encode except through
// Reencode, which recomputes every map at a new precision. Two Bitmaps
// are only directly comparable when their precisions match.
type Bitmap struct {
	precision int
	bounds    Bounds
	points    []Point

	grid         [][]float64 // precision x precision density ratios over the bounding box
	circleMass   [][]float64 // precision rings x 4 quadrants around the center of mass
	circleMedian [][]float64 // precision rings x 4 quadrants around the geometric median
	flatH        []int       // precision^2 segment-density bins along X
	flatV        []int       // precision^2 segment-density bins along Y
}

// Encode builds all four map representations of a stroke at the given
// precision. The point sequence is copied, so later mutation of the
// caller's slice does not affect the Bitmap. Precision must be positive;
// values of 4-10 are typical.
func Encode(points []Point, precision int) *Bitmap {
	if precision < 1 {
		precision = 1
	}

	src := make([]Point, len(points))
	copy(src, points)

	b := &Bitmap{
		precision: precision,
		bounds:    BoundsOf(src),
		points:    src,
	}
	b.compute()
	return b
}

// Reencode recomputes all four maps at a new precision from the retained
// source stroke. Bounds are unaffected.
func (b *Bitmap) Reencode(precision int) {
	if precision < 1 {
		return
	}
	b.precision = precision
	b.compute()
}

func (b *Bitmap) compute() {
	b.grid = b.computeGrid()
	b.circleMass = b.computeCircle(CenterOfMass(b.points))
	b.circleMedian = b.computeCircle(GeometricMedian(b.points))
	b.flatH = b.computeFlat(AxisHorizontal)
	b.flatV = b.computeFlat(AxisVertical)
}

// Precision returns the shared resolution of all four maps.
func (b *Bitmap) Precision() int { return b.precision }

// Bounds returns the bounding box of the source stroke.
func (b *Bitmap) Bounds() Bounds { return b.bounds }

// PointCount returns the number of points in the source stroke.
func (b *Bitmap) PointCount() int { return len(b.points) }

// Points returns a copy of the source stroke.
func (b *Bitmap) Points() []Point {
	pts := make([]Point, len(b.points))
	copy(pts, b.points)
	return pts
}

// Grid returns a copy of the grid density map.
func (b *Bitmap) Grid() [][]float64 { return copyMatrix(b.grid) }

// CircleMap returns a copy of the ring density map built around the
// requested center.
func (b *Bitmap) CircleMap(center Center) [][]float64 {
	if center == CenterMass {
		return copyMatrix(b.circleMass)
	}
	return copyMatrix(b.circleMedian)
}

// FlatMap returns a copy of the segment-density bins along the requested axis.
func (b *Bitmap) FlatMap(axis Axis) []int {
	out := make([]int, len(b.flatSlice(axis)))
	copy(out, b.flatSlice(axis))
	return out
}

func (b *Bitmap) flatSlice(axis Axis) []int {
	if axis == AxisHorizontal {
		return b.flatH
	}
	return b.flatV
}

func copyMatrix(m [][]float64) [][]float64 {
	out := make([][]float64, len(m))
	for i, row := range m {
		out[i] = make([]float64, len(row))
		copy(out[i], row)
	}
	return out
}

// paddedBounds expands the bounding box symmetrically around its midpoint
// on any axis narrower than the minimum box dimensions, so the grid never
// degenerates into a single column or row.
func (b *Bitmap) paddedBounds() Bounds {
	pb := b.bounds
	if pb.Width() < minBoxWidth {
		mid := (pb.Left + pb.Right) / 2
		pb.Left = mid - minBoxWidth/2
		pb.Right = mid + minBoxWidth/2
	}
	if pb.Height() < minBoxHeight {
		mid := (pb.Bottom + pb.Top) / 2
		pb.Bottom = mid - minBoxHeight/2
		pb.Top = mid + minBoxHeight/2
	}
	return pb
}

// computeGrid partitions the (minimum-size-enforced) bounding box into a
// precision x precision grid and accumulates per-cell point counts,
// normalized by the total point count. Empty input yields an all-zero grid.
func (b *Bitmap) computeGrid() [][]float64 {
	grid := make([][]float64, b.precision)
	for i := range grid {
		grid[i] = make([]float64, b.precision)
	}
	if len(b.points) == 0 {
		return grid
	}

	pb := b.paddedBounds()
	for _, p := range b.points {
		row := cellIndex(p.Y-pb.Bottom, pb.Height(), b.precision)
		col := cellIndex(p.X-pb.Left, pb.Width(), b.precision)
		grid[row][col]++
	}

	total := float64(len(b.points))
	for i := range grid {
		for j := range grid[i] {
			grid[i][j] /= total
		}
	}
	return grid
}

// cellIndex maps an offset within an extent to a cell in [0, cells).
// Offsets exactly on the far edge land in the last cell; degenerate or
// negative results land in the middle cell.
func cellIndex(offset, extent float64, cells int) int {
	if extent <= 0 || offset < 0 {
		return cells / 2
	}
	idx := int(offset / extent * float64(cells))
	if idx >= cells {
		return cells - 1
	}
	return idx
}

// computeCircle builds a rings x quadrants density map around the given
// center. The radius is the maximum center-to-point distance, floored at
// minCircleRadius, divided into precision equal-width rings. Quadrants are
// numbered 0-3 counter-clockwise from +X/+Y; points on an axis count as
// positive. Empty input yields an all-zero map.
func (b *Bitmap) computeCircle(center Point) [][]float64 {
	rings := make([][]float64, b.precision)
	for i := range rings {
		rings[i] = make([]float64, circleQuadrants)
	}
	if len(b.points) == 0 {
		return rings
	}

	radius := minCircleRadius
	for _, p := range b.points {
		if d := Distance(p, center); d > radius {
			radius = d
		}
	}

	ringWidth := radius / float64(b.precision)
	for _, p := range b.points {
		ring := int(Distance(p, center) / ringWidth)
		if ring >= b.precision {
			ring = b.precision - 1
		}
		rings[ring][quadrant(p, center)]++
	}

	total := float64(len(b.points))
	for i := range rings {
		for q := range rings[i] {
			rings[i][q] /= total
		}
	}
	return rings
}

func quadrant(p, center Point) int {
	right := p.X >= center.X
	up := p.Y >= center.Y
	switch {
	case right && up:
		return 0
	case !right && up:
		return 1
	case !right && !up:
		return 2
	default:
		return 3
	}
}
