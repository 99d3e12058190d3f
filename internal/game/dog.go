package game

import "github.com/sonpython/loot-server/internal/geometry"

// Direction is the dog's facing, independent of whether it is currently
// moving (an empty command preserves direction but zeroes velocity).
type Direction string

const (
	North Direction = "N"
	South Direction = "S"
	East  Direction = "E"
	West  Direction = "W"
)

// LostObject is a pickupable item: mutable position, immutable type and
// value (copied from the map's loot type at spawn time).
type LostObject struct {
	ID    uint32
	Type  int
	Pos   geometry.Point2D
	Value int64
}

// Dog is one player's avatar inside a session.
type Dog struct {
	ID        uint32
	Name      string
	Pos       geometry.Point2D
	VX, VY    float64
	Direction Direction
	Bag       []LostObject
	Score     int64
	IdleMs    float64
	LivedMs   float64
}

// SetCommand applies a movement command's velocity and direction. An empty
// command stops the dog without changing its facing, per spec §4.5.
func (d *Dog) SetCommand(dir Direction, vx, vy float64) {
	if dir != "" {
		d.Direction = dir
	}
	d.VX, d.VY = vx, vy
}

// Stationary reports whether the dog has zero velocity.
func (d *Dog) Stationary() bool {
	return d.VX == 0 && d.VY == 0
}
