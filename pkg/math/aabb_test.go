package math

import "testing"

func TestAABBExpand(t *testing.T) {
	b := NewAABB()
	if b.Valid() {
		t.Error("fresh box should be invalid")
	}

	b.ExpandPoint(Vec3{1, 2, 3})
	if !b.Valid() {
		t.Error("box with one point should be valid")
	}
	if b.Min != (Vec3{1, 2, 3}) || b.Max != (Vec3{1, 2, 3}) {
		t.Errorf("single point box = %v..%v", b.Min, b.Max)
	}

	b.ExpandPoint(Vec3{-1, 5, 0})
	if b.Min != (Vec3{-1, 2, 0}) {
		t.Errorf("Min = %v", b.Min)
	}
	if b.Max != (Vec3{1, 5, 3}) {
		t.Errorf("Max = %v", b.Max)
	}
}

func TestAABBCenterExtents(t *testing.T) {
	b := NewAABB()
	b.ExpandPoint(Vec3{-2, -2, 0})
	b.ExpandPoint(Vec3{2, 2, 0})

	if got := b.Center(); got != (Vec3{}) {
		t.Errorf("Center = %v", got)
	}
	if got := b.Extents(); got != (Vec3{4, 4, 0}) {
		t.Errorf("Extents = %v", got)
	}
}
