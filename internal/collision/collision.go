// Package collision implements the swept-circle-vs-stationary-point
// gathering kernel described in spec §4.1: given a tick's worth of dog
// motion and a set of stationary items, it produces every gathering event
// that motion would trigger, ordered by time of closest approach.
package collision

import (
	"sort"

	"github.com/sonpython/loot-server/internal/geometry"
)

// Gatherer is a swept circle representing one dog's motion within a tick.
type Gatherer struct {
	ID       uint32
	StartPos geometry.Point2D
	EndPos   geometry.Point2D
	Width    float64 // capture radius
}

// Item is a stationary disk: a lost object (radius 0) or an office
// (radius OfficeCaptureRadius).
type Item struct {
	ID     uint32
	Pos    geometry.Point2D
	Radius float64
}

// Event records one gatherer sweeping close enough to one item to capture it.
type Event struct {
	ItemID     uint32
	GathererID uint32
	SqDistance float64
	Time       float64 // t in [0,1], fraction of the sweep
}

// Detect returns every gathering event across all gatherer/item pairs,
// sorted by Time ascending, ties broken by emission order (gatherer-major,
// item-minor, matching the nested-loop order below).
func Detect(gatherers []Gatherer, items []Item) []Event {
	events := make([]Event, 0)
	for _, g := range gatherers {
		v := g.EndPos.Sub(g.StartPos)
		if v.X == 0 && v.Y == 0 {
			// Zero-length sweep: no event, even against a coincident item.
			continue
		}
		vv := v.Dot(v)
		for _, it := range items {
			u := it.Pos.Sub(g.StartPos)
			proj := u.Dot(v) / vv
			if proj < 0 || proj > 1 {
				continue
			}
			t := proj
			closest := g.StartPos.Add(v.Scale(t))
			sqDist := closest.SqDistanceTo(it.Pos)
			capture := g.Width + it.Radius
			if sqDist <= capture*capture {
				events = append(events, Event{
					ItemID:     it.ID,
					GathererID: g.ID,
					SqDistance: sqDist,
					Time:       t,
				})
			}
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Time < events[j].Time
	})
	return events
}
