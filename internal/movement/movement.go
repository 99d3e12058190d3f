// Package movement implements the movement resolver of spec §4.3: it
// advances one dog one tick along the road network, clamping at corridor
// boundaries and junctions.
//
// Motion within a tick is always axis-aligned (velocity has exactly one
// nonzero component), so the problem reduces to a 1D walk along the moving
// axis while the perpendicular coordinate stays fixed. At any point along
// that walk, the set of roads whose thickened corridor covers the fixed
// perpendicular coordinate defines a set of reachable intervals on the
// moving axis; where two such intervals touch or overlap the dog can walk
// straight through the junction between them, exactly as the recursive
// neighbor-probing of spec §4.3 describes for both case A (perpendicular
// to the current road) and case B (parallel to it). This file computes the
// merged reachable interval containing the dog's current position and
// clamps motion to its far edge, which lands at exactly ±W of some road's
// integer endpoint per the spec's clamping rule — one routine handling
// both axes and both signs, per the REDESIGN FLAGS.
package movement

import (
	"sort"

	"github.com/sonpython/loot-server/internal/geometry"
	"github.com/sonpython/loot-server/internal/worldmap"
)

const w = geometry.CorridorHalfWidth

const epsilon = 1e-9

type interval struct {
	lo, hi float64
}

// Advance moves a dog from pos with velocity (vx, vy) for dtSeconds along
// m's road network. It returns the new position, and the velocity to apply
// afterward (zero if the motion was clamped at a corridor boundary or dead
// end; unchanged otherwise, per spec §4.3).
func Advance(m *worldmap.Map, pos geometry.Point2D, vx, vy, dtSeconds float64) (newPos geometry.Point2D, newVx, newVy float64) {
	if vx == 0 && vy == 0 {
		return pos, 0, 0
	}

	if vx != 0 {
		target := pos.X + vx*dtSeconds
		finalX, clamped := walkAxis(m, true, pos.Y, pos.X, target)
		if clamped {
			return geometry.Point2D{X: finalX, Y: pos.Y}, 0, 0
		}
		return geometry.Point2D{X: finalX, Y: pos.Y}, vx, vy
	}

	target := pos.Y + vy*dtSeconds
	finalY, clamped := walkAxis(m, false, pos.X, pos.Y, target)
	if clamped {
		return geometry.Point2D{X: pos.X, Y: finalY}, 0, 0
	}
	return geometry.Point2D{X: pos.X, Y: finalY}, vx, vy
}

// walkAxis computes the farthest reachable coordinate along the moving
// axis (horizontal=true means moving along X) starting at `start` and
// bounded by `target`, given the fixed perpendicular coordinate `perp`. It
// returns the reachable coordinate and whether that fell short of target
// (i.e. motion was clamped).
func walkAxis(m *worldmap.Map, horizontal bool, perp, start, target float64) (float64, bool) {
	var intervals []interval
	for _, r := range m.Roads {
		if iv, ok := reachableInterval(r, horizontal, perp); ok {
			intervals = append(intervals, iv)
		}
	}
	merged := mergeIntervals(intervals)

	var containing *interval
	for i := range merged {
		if start >= merged[i].lo-epsilon && start <= merged[i].hi+epsilon {
			containing = &merged[i]
			break
		}
	}
	if containing == nil {
		// Invariant violation guard: the dog's current position should
		// always lie in some road's corridor. Stay put rather than panic.
		return start, true
	}

	if target >= start {
		if target <= containing.hi {
			return target, false
		}
		return containing.hi, true
	}
	if target >= containing.lo {
		return target, false
	}
	return containing.lo, true
}

// reachableInterval reports the interval of moving-axis coordinates road r
// makes reachable for a walk with the given fixed perpendicular coordinate,
// and whether r contributes at all (perp must fall within r's corridor on
// the perpendicular axis for it to contribute anything).
func reachableInterval(r worldmap.Road, horizontal bool, perp float64) (interval, bool) {
	x0, y0, x1, y1 := float64(r.X0), float64(r.Y0), float64(r.X1), float64(r.Y1)

	if horizontal {
		if r.IsHorizontal() {
			if perp < y0-w-epsilon || perp > y0+w+epsilon {
				return interval{}, false
			}
			return interval{lo: min(x0, x1) - w, hi: max(x0, x1) + w}, true
		}
		// Vertical road: moving along X crosses its corridor, which is only
		// as wide as 2*w, provided perp (Y) falls within its span.
		lo, hi := min(y0, y1)-w, max(y0, y1)+w
		if perp < lo-epsilon || perp > hi+epsilon {
			return interval{}, false
		}
		return interval{lo: x0 - w, hi: x0 + w}, true
	}

	if r.IsVertical() {
		if perp < x0-w-epsilon || perp > x0+w+epsilon {
			return interval{}, false
		}
		return interval{lo: min(y0, y1) - w, hi: max(y0, y1) + w}, true
	}
	lo, hi := min(x0, x1)-w, max(x0, x1)+w
	if perp < lo-epsilon || perp > hi+epsilon {
		return interval{}, false
	}
	return interval{lo: y0 - w, hi: y0 + w}, true
}

func mergeIntervals(in []interval) []interval {
	if len(in) == 0 {
		return nil
	}
	sort.Slice(in, func(i, j int) bool { return in[i].lo < in[j].lo })
	merged := []interval{in[0]}
	for _, iv := range in[1:] {
		last := &merged[len(merged)-1]
		if iv.lo <= last.hi+epsilon {
			if iv.hi > last.hi {
				last.hi = iv.hi
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
