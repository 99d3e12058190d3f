package movement

import (
	"testing"

	"github.com/sonpython/loot-server/internal/geometry"
	"github.com/sonpython/loot-server/internal/worldmap"
)

func road(x0, y0, x1, y1 int) worldmap.Road {
	return worldmap.Road{Segment: geometry.Segment{X0: x0, Y0: y0, X1: x1, Y1: y1}}
}

func TestAdvanceUnobstructedMotion(t *testing.T) {
	m := &worldmap.Map{Roads: []worldmap.Road{road(0, 0, 10, 0)}}
	pos, vx, vy := Advance(m, geometry.Point2D{X: 0, Y: 0}, 3, 0, 2)
	if pos.X != 6 || pos.Y != 0 {
		t.Fatalf("expected (6,0), got %+v", pos)
	}
	if vx != 3 || vy != 0 {
		t.Errorf("expected velocity preserved, got (%v,%v)", vx, vy)
	}
}

func TestAdvanceClampsAtDeadEnd(t *testing.T) {
	m := &worldmap.Map{Roads: []worldmap.Road{road(0, 0, 10, 0)}}
	pos, vx, vy := Advance(m, geometry.Point2D{X: 9, Y: 0}, 5, 0, 1)
	if pos.X != 10.4 || pos.Y != 0 {
		t.Fatalf("expected (10.4,0), got %+v", pos)
	}
	if vx != 0 || vy != 0 {
		t.Errorf("expected velocity zeroed after clamp, got (%v,%v)", vx, vy)
	}
}

func TestAdvanceNegativeDirectionClamp(t *testing.T) {
	m := &worldmap.Map{Roads: []worldmap.Road{road(0, 0, 10, 0)}}
	pos, _, _ := Advance(m, geometry.Point2D{X: 1, Y: 0}, -5, 0, 1)
	if pos.X != -0.4 || pos.Y != 0 {
		t.Fatalf("expected (-0.4,0), got %+v", pos)
	}
}

func TestAdvanceJunctionTurn(t *testing.T) {
	m := &worldmap.Map{Roads: []worldmap.Road{
		road(0, 0, 10, 0),
		road(5, 0, 5, 10),
	}}
	pos, vx, vy := Advance(m, geometry.Point2D{X: 5, Y: 0}, 0, 2, 6)
	if pos.X != 5 || pos.Y != 10.4 {
		t.Fatalf("expected (5,10.4), got %+v", pos)
	}
	if vx != 0 || vy != 0 {
		t.Errorf("expected velocity zeroed at dead end past junction, got (%v,%v)", vx, vy)
	}
}

func TestAdvanceJunctionPassThroughWithoutClamp(t *testing.T) {
	m := &worldmap.Map{Roads: []worldmap.Road{
		road(0, 0, 10, 0),
		road(5, -10, 5, 10),
	}}
	pos, vx, vy := Advance(m, geometry.Point2D{X: 5, Y: 0}, 0, 2, 2)
	if pos.X != 5 || pos.Y != 4 {
		t.Fatalf("expected (5,4), got %+v", pos)
	}
	if vx != 0 || vy != 2 {
		t.Errorf("expected velocity preserved through junction, got (%v,%v)", vx, vy)
	}
}

func TestAdvanceStationaryVelocityNoOp(t *testing.T) {
	m := &worldmap.Map{Roads: []worldmap.Road{road(0, 0, 10, 0)}}
	pos, vx, vy := Advance(m, geometry.Point2D{X: 3, Y: 0}, 0, 0, 5)
	if pos.X != 3 || pos.Y != 0 || vx != 0 || vy != 0 {
		t.Fatalf("expected no-op, got pos=%+v v=(%v,%v)", pos, vx, vy)
	}
}
