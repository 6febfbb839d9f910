package geometry

import "math"

// Point represents a 2D coordinate in float space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// BoundingBox is an axis-aligned box in float coordinates. The zero value is
// the canonical empty box.
type BoundingBox struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// Empty returns the canonical empty bounding box.
func Empty() BoundingBox { return BoundingBox{} }

// FromPoints computes the axis-aligned bounding box of a polygon by taking
// per-axis min/max. An empty point sequence yields the empty box.
func FromPoints(pts []Point) BoundingBox {
	if len(pts) == 0 {
		return BoundingBox{}
	}
	b := BoundingBox{MinX: pts[0].X, MinY: pts[0].Y, MaxX: pts[0].X, MaxY: pts[0].Y}
	for _, p := range pts[1:] {
		b.MinX = math.Min(b.MinX, p.X)
		b.MinY = math.Min(b.MinY, p.Y)
		b.MaxX = math.Max(b.MaxX, p.X)
		b.MaxY = math.Max(b.MaxY, p.Y)
	}
	return b
}

// Width returns the box width, never negative.
func (b BoundingBox) Width() float64 { return math.Max(0, b.MaxX-b.MinX) }

// Height returns the box height, never negative.
func (b BoundingBox) Height() float64 { return math.Max(0, b.MaxY-b.MinY) }

// Area returns the box area.
func (b BoundingBox) Area() float64 { return b.Width() * b.Height() }

// IsEmpty reports whether the box has no extent on both axes.
func (b BoundingBox) IsEmpty() bool { return b.Width() <= 0 && b.Height() <= 0 }

// IoU computes Intersection over Union for two boxes. Empty or non-overlapping
// boxes yield 0; a non-positive union is guarded against.
func IoU(a, b BoundingBox) float64 {
	if a.IsEmpty() || b.IsEmpty() {
		return 0
	}
	left := math.Max(a.MinX, b.MinX)
	top := math.Max(a.MinY, b.MinY)
	right := math.Min(a.MaxX, b.MaxX)
	bottom := math.Min(a.MaxY, b.MaxY)
	if left >= right || top >= bottom {
		return 0
	}
	intersection := (right - left) * (bottom - top)
	union := a.Area() + b.Area() - intersection
	if union <= 0 {
		return 0
	}
	return intersection / union
}
