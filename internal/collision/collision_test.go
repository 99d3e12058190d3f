package collision

import (
	"testing"

	"github.com/sonpython/loot-server/internal/geometry"
)

func TestDetectBasicPickup(t *testing.T) {
	gatherers := []Gatherer{
		{ID: 0, StartPos: geometry.Point2D{X: 0, Y: 0}, EndPos: geometry.Point2D{X: 10, Y: 0}, Width: 0.6},
	}
	items := []Item{
		{ID: 100, Pos: geometry.Point2D{X: 5, Y: 0}, Radius: 0},
	}
	events := Detect(gatherers, items)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].ItemID != 100 || events[0].GathererID != 0 {
		t.Errorf("unexpected event %+v", events[0])
	}
	if events[0].Time < 0.49 || events[0].Time > 0.51 {
		t.Errorf("expected t~0.5, got %v", events[0].Time)
	}
}

func TestDetectZeroLengthSweepSkipped(t *testing.T) {
	gatherers := []Gatherer{
		{ID: 0, StartPos: geometry.Point2D{X: 5, Y: 0}, EndPos: geometry.Point2D{X: 5, Y: 0}, Width: 10},
	}
	items := []Item{{ID: 1, Pos: geometry.Point2D{X: 5, Y: 0}, Radius: 0}}
	events := Detect(gatherers, items)
	if len(events) != 0 {
		t.Errorf("expected no events for zero-length sweep, got %d", len(events))
	}
}

func TestDetectProjectionOutsideSegmentSkipped(t *testing.T) {
	gatherers := []Gatherer{
		{ID: 0, StartPos: geometry.Point2D{X: 0, Y: 0}, EndPos: geometry.Point2D{X: 5, Y: 0}, Width: 1},
	}
	items := []Item{{ID: 1, Pos: geometry.Point2D{X: 10, Y: 0}, Radius: 0}}
	events := Detect(gatherers, items)
	if len(events) != 0 {
		t.Errorf("expected no events for out-of-range projection, got %d", len(events))
	}
}

func TestDetectOrdersByTimeAscending(t *testing.T) {
	gatherers := []Gatherer{
		{ID: 0, StartPos: geometry.Point2D{X: 0, Y: 0}, EndPos: geometry.Point2D{X: 10, Y: 0}, Width: 0.6},
	}
	items := []Item{
		{ID: 1, Pos: geometry.Point2D{X: 8, Y: 0}, Radius: 0},
		{ID: 2, Pos: geometry.Point2D{X: 2, Y: 0}, Radius: 0},
	}
	events := Detect(gatherers, items)
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].ItemID != 2 || events[1].ItemID != 1 {
		t.Errorf("expected ascending time order [2,1], got [%d,%d]", events[0].ItemID, events[1].ItemID)
	}
}

func TestDetectNoSpuriousEventPastSweepEndpoint(t *testing.T) {
	// Item sits just past the sweep's endpoint, within capture radius of
	// that endpoint, but its true projection lands outside [0,1]. Clamping
	// the projection before gating would wrongly snap it to the endpoint
	// and report a capture; it must be skipped instead.
	gatherers := []Gatherer{
		{ID: 0, StartPos: geometry.Point2D{X: 0, Y: 0}, EndPos: geometry.Point2D{X: 10, Y: 0}, Width: 1},
	}
	items := []Item{{ID: 1, Pos: geometry.Point2D{X: 10.5, Y: 0}, Radius: 0}}
	events := Detect(gatherers, items)
	if len(events) != 0 {
		t.Errorf("expected no event for an item past the sweep endpoint, got %d", len(events))
	}
}

func TestDetectMissBeyondCaptureRadius(t *testing.T) {
	gatherers := []Gatherer{
		{ID: 0, StartPos: geometry.Point2D{X: 0, Y: 0}, EndPos: geometry.Point2D{X: 10, Y: 0}, Width: 0.5},
	}
	items := []Item{{ID: 1, Pos: geometry.Point2D{X: 5, Y: 5}, Radius: 0}}
	events := Detect(gatherers, items)
	if len(events) != 0 {
		t.Errorf("expected no events, item too far, got %d", len(events))
	}
}
