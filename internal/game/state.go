package game

import (
	"math/rand"

	"github.com/sonpython/loot-server/internal/geometry"
	"github.com/sonpython/loot-server/internal/worldmap"
)

// DogState is the gob-friendly, exported-field mirror of Dog used by the
// snapshot codec (spec §4.7).
type DogState struct {
	ID        uint32
	Name      string
	Pos       [2]float64
	VX, VY    float64
	Direction Direction
	Bag       []LostObject
	Score     int64
	IdleMs    float64
	LivedMs   float64
}

// SessionState is the gob-friendly mirror of a Session's dynamic fields.
// It carries MapID rather than a *worldmap.Map pointer: map definitions
// come from config on reload, never from the snapshot, per spec §4.7.
type SessionState struct {
	ID            string
	MapID         string
	Dogs          []DogState
	LostObjects   []LostObject
	ElapsedMs     float64
	NextDogID     uint32
	NextObjectID  uint32
}

// State captures s's dynamic fields for serialization.
func (s *Session) State() SessionState {
	dogs := make([]DogState, len(s.Dogs))
	for i, d := range s.Dogs {
		dogs[i] = DogState{
			ID:        d.ID,
			Name:      d.Name,
			Pos:       [2]float64{d.Pos.X, d.Pos.Y},
			VX:        d.VX,
			VY:        d.VY,
			Direction: d.Direction,
			Bag:       append([]LostObject(nil), d.Bag...),
			Score:     d.Score,
			IdleMs:    d.IdleMs,
			LivedMs:   d.LivedMs,
		}
	}
	objects := make([]LostObject, len(s.LostObjects))
	for i, o := range s.LostObjects {
		objects[i] = *o
	}
	return SessionState{
		ID:           s.ID,
		MapID:        s.Map.ID,
		Dogs:         dogs,
		LostObjects:  objects,
		ElapsedMs:    s.ElapsedMs,
		NextDogID:    s.nextDogID,
		NextObjectID: s.nextObjectID,
	}
}

// RestoreSession rebuilds a Session from a previously captured SessionState,
// bound to m (the live map with the matching id, resolved by the caller).
func RestoreSession(m *worldmap.Map, state SessionState, rng *rand.Rand) *Session {
	s := NewSession(state.ID, m, rng)
	s.ElapsedMs = state.ElapsedMs
	s.nextDogID = state.NextDogID
	s.nextObjectID = state.NextObjectID
	for _, ds := range state.Dogs {
		s.Dogs = append(s.Dogs, &Dog{
			ID:        ds.ID,
			Name:      ds.Name,
			Pos:       geometry.Point2D{X: ds.Pos[0], Y: ds.Pos[1]},
			VX:        ds.VX,
			VY:        ds.VY,
			Direction: ds.Direction,
			Bag:       append([]LostObject(nil), ds.Bag...),
			Score:     ds.Score,
			IdleMs:    ds.IdleMs,
			LivedMs:   ds.LivedMs,
		})
	}
	for _, o := range state.LostObjects {
		obj := o
		s.LostObjects = append(s.LostObjects, &obj)
	}
	return s
}
