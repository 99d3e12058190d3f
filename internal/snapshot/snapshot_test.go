package snapshot

import (
	"encoding/gob"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/sonpython/loot-server/internal/game"
	"github.com/sonpython/loot-server/internal/geometry"
	"github.com/sonpython/loot-server/internal/worldmap"
)

func buildSession() *game.Session {
	m := &worldmap.Map{
		ID:    "m1",
		Roads: []worldmap.Road{{Segment: geometry.Segment{X0: 0, Y0: 0, X1: 10, Y1: 0}}},
	}
	s := game.NewSession("m1", m, rand.New(rand.NewSource(1)))
	d := s.SpawnDog("Alice", geometry.Point2D{X: 2, Y: 0})
	d.Score = 14
	d.Bag = append(d.Bag, game.LostObject{ID: 0, Type: 0, Pos: geometry.Point2D{X: 2, Y: 0}, Value: 7})
	s.SpawnLostObject(0, geometry.Point2D{X: 5, Y: 0}, 7)
	s.ElapsedMs = 12345
	return s
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := buildSession()
	players := []PlayerState{{Token: "deadbeefdeadbeefdeadbeefdeadbeef", SessionID: s.ID, DogID: 0}}

	path := filepath.Join(t.TempDir(), "state.snapshot")
	if err := Save(path, []game.SessionState{s.State()}, players); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if data == nil {
		t.Fatal("expected snapshot data, got nil")
	}
	if len(data.Sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(data.Sessions))
	}
	got := data.Sessions[0]
	if got.ID != s.ID || got.MapID != "m1" || got.ElapsedMs != 12345 {
		t.Errorf("session fields mismatch: %+v", got)
	}
	if len(got.Dogs) != 1 || got.Dogs[0].Name != "Alice" || got.Dogs[0].Score != 14 {
		t.Errorf("dog state mismatch: %+v", got.Dogs)
	}
	if len(got.Dogs[0].Bag) != 1 || got.Dogs[0].Bag[0].Value != 7 {
		t.Errorf("bag state mismatch: %+v", got.Dogs[0].Bag)
	}
	if len(got.LostObjects) != 1 || got.LostObjects[0].Pos.X != 5 {
		t.Errorf("lost object state mismatch: %+v", got.LostObjects)
	}
	if len(data.Players) != 1 || data.Players[0].Token != players[0].Token {
		t.Errorf("player state mismatch: %+v", data.Players)
	}
}

func TestLoadMissingFileReturnsNilNotError(t *testing.T) {
	data, err := Load(filepath.Join(t.TempDir(), "does-not-exist.snapshot"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if data != nil {
		t.Errorf("expected nil data for missing file, got %+v", data)
	}
}

func TestLoadRejectsWrongVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.snapshot")
	if err := Save(path, nil, nil); err != nil {
		t.Fatalf("Save: %v", err)
	}
	// Overwrite with a bumped version to simulate an incompatible future format.
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := gob.NewEncoder(f).Encode(Data{Version: schemaVersion + 1}); err != nil {
		t.Fatalf("encode: %v", err)
	}
	f.Close()
	if _, err := Load(path); err == nil {
		t.Error("expected error loading an incompatible snapshot version")
	}
}
