package geometry

import "testing"

func TestSegmentContains(t *testing.T) {
	s := Segment{X0: 0, Y0: 0, X1: 10, Y1: 0}

	cases := []struct {
		name string
		p    Point2D
		want bool
	}{
		{"on road", Point2D{X: 5, Y: 0}, true},
		{"within corridor above", Point2D{X: 5, Y: 0.39}, true},
		{"outside corridor above", Point2D{X: 5, Y: 0.41}, false},
		{"past end within corridor", Point2D{X: 10.39, Y: 0}, true},
		{"past end outside corridor", Point2D{X: 10.41, Y: 0}, false},
		{"before start within corridor", Point2D{X: -0.39, Y: 0}, true},
		{"before start outside corridor", Point2D{X: -0.41, Y: 0}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := s.Contains(c.p); got != c.want {
				t.Errorf("Contains(%v) = %v, want %v", c.p, got, c.want)
			}
		})
	}
}

func TestSegmentIsHorizontalVertical(t *testing.T) {
	h := Segment{X0: 0, Y0: 5, X1: 10, Y1: 5}
	if !h.IsHorizontal() || h.IsVertical() {
		t.Errorf("expected horizontal segment")
	}
	v := Segment{X0: 5, Y0: 0, X1: 5, Y1: 10}
	if !v.IsVertical() || v.IsHorizontal() {
		t.Errorf("expected vertical segment")
	}
}

func TestUniformPointOnStaysOnSegment(t *testing.T) {
	h := Segment{X0: 2, Y0: 7, X1: 12, Y1: 7}
	p := h.UniformPointOn(0.5)
	if p.Y != 7 {
		t.Errorf("expected y to stay fixed at 7, got %v", p.Y)
	}
	if p.X != 7 {
		t.Errorf("expected x at midpoint 7, got %v", p.X)
	}

	v := Segment{X0: 3, Y0: 0, X1: 3, Y1: 20}
	q := v.UniformPointOn(0.25)
	if q.X != 3 || q.Y != 5 {
		t.Errorf("got %v, want {3 5}", q)
	}
}

func TestClamp(t *testing.T) {
	if Clamp(-1, 0, 1) != 0 {
		t.Errorf("clamp below")
	}
	if Clamp(2, 0, 1) != 1 {
		t.Errorf("clamp above")
	}
	if Clamp(0.5, 0, 1) != 0.5 {
		t.Errorf("clamp inside")
	}
}
