// Package worldmap holds the static world: maps, their road networks,
// offices, buildings, loot types, and per-map tuning. A Map is created once
// at process start from config and never mutated afterward.
package worldmap

import (
	"encoding/json"
	"fmt"
	"math/rand"

	"github.com/sonpython/loot-server/internal/geometry"
)

// Road is a road segment as read from the map config. Wire format follows
// json_loader.cpp: {"x0":.., "y0":.., "x1":..} for a horizontal road or
// {"x0":.., "y0":.., "y1":..} for a vertical one.
type Road struct {
	geometry.Segment
}

// MarshalJSON renders the road in the horizontal-or-vertical wire shape.
func (r Road) MarshalJSON() ([]byte, error) {
	if r.IsHorizontal() {
		return json.Marshal(struct {
			X0 int `json:"x0"`
			Y0 int `json:"y0"`
			X1 int `json:"x1"`
		}{r.X0, r.Y0, r.X1})
	}
	return json.Marshal(struct {
		X0 int `json:"x0"`
		Y0 int `json:"y0"`
		Y1 int `json:"y1"`
	}{r.X0, r.Y0, r.Y1})
}

// UnmarshalJSON accepts either the horizontal or vertical road shape.
func (r *Road) UnmarshalJSON(data []byte) error {
	var raw struct {
		X0 int  `json:"x0"`
		Y0 int  `json:"y0"`
		X1 *int `json:"x1"`
		Y1 *int `json:"y1"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch {
	case raw.X1 != nil:
		r.Segment = geometry.Segment{X0: raw.X0, Y0: raw.Y0, X1: *raw.X1, Y1: raw.Y0}
	case raw.Y1 != nil:
		r.Segment = geometry.Segment{X0: raw.X0, Y0: raw.Y0, X1: raw.X0, Y1: *raw.Y1}
	default:
		return fmt.Errorf("road must have either x1 or y1")
	}
	return nil
}

// Building is a decorative, non-collidable rectangle.
type Building struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Office is a deposit point. Offices have integer positions, integer
// decorative offsets, and an id unique within their map.
type Office struct {
	ID      string `json:"id"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	OffsetX int    `json:"offsetX"`
	OffsetY int    `json:"offsetY"`
}

// Position returns the office's capture point.
func (o Office) Position() geometry.Point2D {
	return geometry.Point2D{X: float64(o.X), Y: float64(o.Y)}
}

// OfficeCaptureRadius is the item radius used when treating offices as
// collision targets in the drop-off pass (§4.4 step 5).
const OfficeCaptureRadius = 0.5

// LootType is indexed by its position in a Map's LootTypes slice and
// carries the score value awarded when an object of this type is deposited.
type LootType struct {
	Value int64 `json:"value"`
	Extra map[string]json.RawMessage `json:"-"`
}

// UnmarshalJSON keeps unknown per-type keys (name, file, rotation, etc. in
// the original wire format) around as opaque extras so /api/v1/maps/{id}
// can echo them back verbatim without this server needing to understand them.
func (lt *LootType) UnmarshalJSON(data []byte) error {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	if v, ok := all["value"]; ok {
		if err := json.Unmarshal(v, &lt.Value); err != nil {
			return err
		}
	}
	delete(all, "value")
	lt.Extra = all
	return nil
}

// MarshalJSON re-emits value alongside any opaque extras.
func (lt LootType) MarshalJSON() ([]byte, error) {
	out := map[string]json.RawMessage{}
	for k, v := range lt.Extra {
		out[k] = v
	}
	valueJSON, err := json.Marshal(lt.Value)
	if err != nil {
		return nil, err
	}
	out["value"] = valueJSON
	return json.Marshal(out)
}

// Map is the static, immutable definition of one playable world.
type Map struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	Roads             []Road     `json:"roads"`
	Buildings         []Building `json:"buildings"`
	Offices           []Office   `json:"offices"`
	LootTypes         []LootType `json:"lootTypes"`
	DefaultDogSpeed   float64    `json:"-"`
	BagCapacity       int        `json:"-"`
	RetirementMs      float64    `json:"-"`
	LootPeriodMs      float64    `json:"-"`
	LootProbability   float64    `json:"-"`
}

// RandomRoad returns a uniformly random road from the map. The caller
// supplies the entropy source so tests can fix the sequence.
func (m *Map) RandomRoad(rng *rand.Rand) Road {
	return m.Roads[rng.Intn(len(m.Roads))]
}

// FirstRoad returns the map's first road, used for non-randomized spawns.
func (m *Map) FirstRoad() Road {
	return m.Roads[0]
}

// Registry holds every Map loaded from config, keyed by id. It is built
// once at startup and never mutated afterward.
type Registry struct {
	maps  []*Map
	byID  map[string]*Map
}

// NewRegistry builds a registry from a slice of maps already configured
// with their per-map tuning resolved (defaults applied by the config loader).
func NewRegistry(maps []*Map) (*Registry, error) {
	reg := &Registry{byID: make(map[string]*Map, len(maps))}
	for _, m := range maps {
		if _, exists := reg.byID[m.ID]; exists {
			return nil, fmt.Errorf("duplicate map id %q", m.ID)
		}
		reg.maps = append(reg.maps, m)
		reg.byID[m.ID] = m
	}
	return reg, nil
}

// ByID returns the map with the given id, if any.
func (r *Registry) ByID(id string) (*Map, bool) {
	m, ok := r.byID[id]
	return m, ok
}

// Summary is the trimmed {id, name} view returned by GET /api/v1/maps.
type Summary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Summaries returns the id/name pairs for every loaded map, in load order.
func (r *Registry) Summaries() []Summary {
	out := make([]Summary, 0, len(r.maps))
	for _, m := range r.maps {
		out = append(out, Summary{ID: m.ID, Name: m.Name})
	}
	return out
}
