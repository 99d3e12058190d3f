// Package game implements the per-map runtime world: sessions, dogs, lost
// objects, and the per-tick step that advances them, per spec §4.4.
package game

import (
	"math/rand"

	"github.com/sonpython/loot-server/internal/collision"
	"github.com/sonpython/loot-server/internal/geometry"
	"github.com/sonpython/loot-server/internal/loot"
	"github.com/sonpython/loot-server/internal/movement"
	"github.com/sonpython/loot-server/internal/worldmap"
)

// dogCaptureRadius is the gatherer width used when sweeping a dog's motion
// against lost objects and offices (spec §4.4 step 3).
const dogCaptureRadius = 0.6

// RetiredDog describes a dog that was removed by a tick step because its
// idle time crossed the map's retirement threshold.
type RetiredDog struct {
	DogID      uint32
	Name       string
	Score      int64
	PlayTimeMs float64
}

// Session is the live runtime state for one map: its dogs, lost objects,
// and elapsed time. One session exists per map with at least one player,
// created lazily on first join and never destroyed except by a restart
// from a fresh snapshot.
type Session struct {
	ID          string
	Map         *worldmap.Map
	Dogs        []*Dog
	LostObjects []*LostObject
	ElapsedMs   float64

	nextDogID    uint32
	nextObjectID uint32

	lootGen *loot.Generator
	spawn   *rand.Rand
}

// NewSession creates a session bound to m. rng drives spawn-point and
// loot-type selection; callers needing deterministic tests pass a seeded
// source.
func NewSession(id string, m *worldmap.Map, rng *rand.Rand) *Session {
	return &Session{
		ID:      id,
		Map:     m,
		lootGen: loot.New(m.LootPeriodMs, m.LootProbability, rng),
		spawn:   rng,
	}
}

// SpawnDog creates a new dog at pos and appends it to the session, per
// spec §4.5 join. Dog ids are dense-ish small integers, assigned in order.
func (s *Session) SpawnDog(name string, pos geometry.Point2D) *Dog {
	d := &Dog{
		ID:        s.nextDogID,
		Name:      name,
		Pos:       pos,
		Direction: South,
	}
	s.nextDogID++
	s.Dogs = append(s.Dogs, d)
	return d
}

// DogByID returns the dog with the given id, if still present.
func (s *Session) DogByID(id uint32) (*Dog, bool) {
	for _, d := range s.Dogs {
		if d.ID == id {
			return d, true
		}
	}
	return nil, false
}

// SpawnLostObject places a fresh object with a session-unique id and
// appends it, per spec §4.4 step 4.
func (s *Session) SpawnLostObject(typ int, pos geometry.Point2D, value int64) *LostObject {
	obj := &LostObject{ID: s.nextObjectID, Type: typ, Pos: pos, Value: value}
	s.nextObjectID++
	s.LostObjects = append(s.LostObjects, obj)
	return obj
}

func (s *Session) removeLostObject(id uint32) (LostObject, bool) {
	for i, o := range s.LostObjects {
		if o.ID == id {
			removed := *o
			s.LostObjects = append(s.LostObjects[:i], s.LostObjects[i+1:]...)
			return removed, true
		}
	}
	return LostObject{}, false
}

// TickStep advances the session by dtMs following the eight-step sequence
// of spec §4.4 and returns every dog retired this tick.
func (s *Session) TickStep(dtMs float64) []RetiredDog {
	s.ElapsedMs += dtMs
	for _, d := range s.Dogs {
		d.LivedMs += dtMs
	}

	retired := s.retireIdleDogs()
	gatherers := s.advanceDogs(dtMs)
	s.spawnLoot(dtMs)

	items := make([]collision.Item, len(s.LostObjects))
	for i, o := range s.LostObjects {
		items[i] = collision.Item{ID: o.ID, Pos: o.Pos, Radius: 0}
	}
	s.resolvePickups(collision.Detect(gatherers, items))

	offices := make([]collision.Item, len(s.Map.Offices))
	for i, o := range s.Map.Offices {
		offices[i] = collision.Item{ID: uint32(i), Pos: o.Position(), Radius: worldmap.OfficeCaptureRadius}
	}
	s.resolveDropoffs(collision.Detect(gatherers, offices))

	return retired
}

// retireIdleDogs removes every dog whose idle time has crossed the map's
// retirement threshold, per spec §4.4 step 2. Retired dogs do not
// participate in the rest of this tick.
func (s *Session) retireIdleDogs() []RetiredDog {
	var retired []RetiredDog
	var kept []*Dog
	for _, d := range s.Dogs {
		if d.IdleMs >= s.Map.RetirementMs {
			retired = append(retired, RetiredDog{
				DogID:      d.ID,
				Name:       d.Name,
				Score:      d.Score,
				PlayTimeMs: d.LivedMs,
			})
			continue
		}
		kept = append(kept, d)
	}
	s.Dogs = kept
	return retired
}

// advanceDogs moves every surviving dog and returns one gatherer per dog,
// per spec §4.4 step 3.
func (s *Session) advanceDogs(dtMs float64) []collision.Gatherer {
	gatherers := make([]collision.Gatherer, len(s.Dogs))
	dtSeconds := dtMs / 1000
	for i, d := range s.Dogs {
		start := d.Pos
		if d.Stationary() {
			d.IdleMs += dtMs
			gatherers[i] = collision.Gatherer{ID: d.ID, StartPos: start, EndPos: start, Width: dogCaptureRadius}
			continue
		}
		d.IdleMs = 0
		newPos, newVx, newVy := movement.Advance(s.Map, d.Pos, d.VX, d.VY, dtSeconds)
		d.Pos = newPos
		d.VX, d.VY = newVx, newVy
		gatherers[i] = collision.Gatherer{ID: d.ID, StartPos: start, EndPos: newPos, Width: dogCaptureRadius}
	}
	return gatherers
}

// spawnLoot asks the loot generator for how many items to add this tick
// and places each on a uniformly random on-segment point of a uniformly
// random road, per spec §4.4 step 4.
func (s *Session) spawnLoot(dtMs float64) {
	if len(s.Map.LootTypes) == 0 || len(s.Map.Roads) == 0 {
		return
	}
	n := s.lootGen.Generate(dtMs, len(s.LostObjects), len(s.Dogs))
	for i := 0; i < n; i++ {
		road := s.Map.RandomRoad(s.spawn)
		pos := road.UniformPointOn(s.spawn.Float64())
		typ := s.spawn.Intn(len(s.Map.LootTypes))
		s.SpawnLostObject(typ, pos, s.Map.LootTypes[typ].Value)
	}
}

// resolvePickups moves each claimed lost object from the session into the
// claiming dog's bag, per spec §4.4 step 6: earliest-time event wins, an
// already-claimed item or an already-full bag causes the event to be
// skipped.
func (s *Session) resolvePickups(events []collision.Event) {
	claimed := make(map[uint32]bool)
	for _, ev := range events {
		if claimed[ev.ItemID] {
			continue
		}
		d, ok := s.DogByID(ev.GathererID)
		if !ok {
			continue
		}
		if len(d.Bag) >= s.Map.BagCapacity {
			continue
		}
		obj, ok := s.removeLostObject(ev.ItemID)
		if !ok {
			continue
		}
		d.Bag = append(d.Bag, obj)
		claimed[ev.ItemID] = true
	}
}

// resolveDropoffs credits each dog crossing an office with the sum of its
// bag's values and empties the bag, per spec §4.4 step 7. A dog may be
// credited by more than one office event in the same tick only if its bag
// was refilled in between, which cannot happen within a single tick.
func (s *Session) resolveDropoffs(events []collision.Event) {
	for _, ev := range events {
		d, ok := s.DogByID(ev.GathererID)
		if !ok || len(d.Bag) == 0 {
			continue
		}
		var sum int64
		for _, o := range d.Bag {
			sum += o.Value
		}
		d.Score += sum
		d.Bag = nil
	}
}
