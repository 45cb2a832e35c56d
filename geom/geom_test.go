package geom

import "testing"

func TestPointAddSub(t *testing.T) {
	p := Pt(3, 4).Add(Pt(1, -2))
	if !p.Equals(Pt(4, 2)) {
		t.Errorf("Add = %v, want (4, 2)", p)
	}
	if got := p.Sub(Pt(4, 2)); !got.Equals(Pt(0, 0)) {
		t.Errorf("Sub = %v, want (0, 0)", got)
	}
}

func TestSizeIsZero(t *testing.T) {
	tests := []struct {
		s    Size
		want bool
	}{
		{Sz(0, 0), true},
		{Sz(1, 0), true},
		{Sz(0, 1), true},
		{Sz(-1, 5), true},
		{Sz(1, 1), false},
	}
	for _, tt := range tests {
		if got := tt.s.IsZero(); got != tt.want {
			t.Errorf("%v.IsZero() = %v, want %v", tt.s, got, tt.want)
		}
	}
}

func TestRectEdges(t *testing.T) {
	r := RectAt(2, 3, 10, 4)
	if r.MaxX() != 12 {
		t.Errorf("MaxX = %v, want 12", r.MaxX())
	}
	if r.MaxY() != 7 {
		t.Errorf("MaxY = %v, want 7", r.MaxY())
	}
}

func TestRectContains(t *testing.T) {
	r := RectAt(0, 0, 5, 5)

	if !r.Contains(Pt(0, 0)) || !r.Contains(Pt(4.9, 4.9)) {
		t.Error("rect should contain its min corner and interior")
	}
	if r.Contains(Pt(5, 0)) || r.Contains(Pt(0, 5)) {
		t.Error("rect should exclude its max edges")
	}
}

func TestRectIntersects(t *testing.T) {
	a := RectAt(0, 0, 5, 5)

	if !a.Intersects(RectAt(4, 4, 5, 5)) {
		t.Error("overlapping rects should intersect")
	}
	if a.Intersects(RectAt(5, 0, 5, 5)) {
		t.Error("edge-touching rects should not intersect")
	}
	if a.Intersects(RectAt(10, 10, 2, 2)) {
		t.Error("disjoint rects should not intersect")
	}
}

func TestRectOffset(t *testing.T) {
	got := RectAt(1, 2, 3, 4).Offset(Pt(10, 20))
	if !got.Equals(RectAt(11, 22, 3, 4)) {
		t.Errorf("Offset = %v, want (11, 22)+3x4", got)
	}
}

func TestCeilCells(t *testing.T) {
	tests := []struct {
		v    float64
		want int
	}{
		{0, 0},
		{-3, 0},
		{0.1, 1},
		{1, 1},
		{1.0001, 2},
		{7.5, 8},
	}
	for _, tt := range tests {
		if got := CeilCells(tt.v); got != tt.want {
			t.Errorf("CeilCells(%v) = %d, want %d", tt.v, got, tt.want)
		}
	}
}
