package math

import "github.com/chewxy/math32"

// AABB is an axis-aligned bounding box. The zero value is not meaningful;
// use NewAABB, which starts inverted so the first ExpandPoint sets both
// corners.
type AABB struct {
	Min, Max Vec3
}

// NewAABB returns an empty (inverted) box.
func NewAABB() AABB {
	inf := math32.Inf(1)
	return AABB{
		Min: Vec3{inf, inf, inf},
		Max: Vec3{-inf, -inf, -inf},
	}
}

// ExpandPoint grows the box to contain p.
func (b *AABB) ExpandPoint(p Vec3) {
	b.Min = b.Min.Min(p)
	b.Max = b.Max.Max(p)
}

// Valid reports whether the box contains at least one point.
func (b AABB) Valid() bool {
	return b.Min.X <= b.Max.X && b.Min.Y <= b.Max.Y && b.Min.Z <= b.Max.Z
}

// Center returns the midpoint of the box.
func (b AABB) Center() Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Extents returns the box dimensions.
func (b AABB) Extents() Vec3 {
	return b.Max.Sub(b.Min)
}
