// Package world implements the single-writer executor of spec §5: every
// operation that touches game state — join, authenticate, command, tick,
// snapshot capture, state queries — is funneled through one goroutine
// draining a command channel, so no mutex ever guards session or player
// state. This generalizes the worker-pool channel pattern used elsewhere
// in the examined stack to the project's "strand" requirement.
package world

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/rs/zerolog"

	"github.com/sonpython/loot-server/internal/apierror"
	"github.com/sonpython/loot-server/internal/applog"
	"github.com/sonpython/loot-server/internal/game"
	"github.com/sonpython/loot-server/internal/geometry"
	"github.com/sonpython/loot-server/internal/player"
	"github.com/sonpython/loot-server/internal/snapshot"
	"github.com/sonpython/loot-server/internal/worldmap"
)

// DogView is the JSON-facing, copied-out shape of one dog, used by both the
// player's own state and the roster of all dogs in its session.
type DogView struct {
	ID        uint32
	Name      string
	Pos       geometry.Point2D
	VX, VY    float64
	Direction game.Direction
	Bag       []game.LostObject
	Score     int64
}

// LostObjectView is the copied-out shape of one lost object on the ground.
type LostObjectView struct {
	ID   uint32
	Type int
	Pos  geometry.Point2D
}

// StateView is the full per-tick view returned to an authenticated player:
// every dog and lost object currently in its session.
type StateView struct {
	Dogs        []DogView
	LostObjects []LostObjectView
}

func dogView(d *game.Dog) DogView {
	return DogView{
		ID:        d.ID,
		Name:      d.Name,
		Pos:       d.Pos,
		VX:        d.VX,
		VY:        d.VY,
		Direction: d.Direction,
		Bag:       append([]game.LostObject(nil), d.Bag...),
		Score:     d.Score,
	}
}

// Leaderboard is the subset of leaderboard.Store the world needs, kept as
// an interface so sessions can be ticked in tests without a database.
type Leaderboard interface {
	Append(ctx context.Context, name string, score int64, playTimeMs float64) error
}

// World owns every map, session, and player, and serializes all access to
// them through a single command channel.
type World struct {
	maps           *worldmap.Registry
	randomizeSpawn bool
	leaderboard    Leaderboard
	log            zerolog.Logger
	rng            *rand.Rand

	sessions     map[string]*game.Session
	sessionOrder []string
	players      map[string]*player.Player

	cmds chan func()
	quit chan struct{}
}

// New creates a World bound to the given map registry. rng drives spawn
// point selection and loot generation; callers needing deterministic
// behavior (tests) pass a seeded source.
func New(maps *worldmap.Registry, randomizeSpawn bool, lb Leaderboard, log zerolog.Logger, rng *rand.Rand) *World {
	return &World{
		maps:           maps,
		randomizeSpawn: randomizeSpawn,
		leaderboard:    lb,
		log:            log,
		rng:            rng,
		sessions:       make(map[string]*game.Session),
		players:        make(map[string]*player.Player),
		cmds:           make(chan func(), 64),
		quit:           make(chan struct{}),
	}
}

// Run drains the command channel until ctx is canceled. It must be called
// exactly once, before any other World method (Join, Command, Tick, ...)
// is used concurrently from HTTP handlers or a tick driver.
func (w *World) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(w.quit)
			return
		case fn := <-w.cmds:
			fn()
		}
	}
}

// do submits fn to the executor and blocks until it has run. Any panic
// inside fn is recovered and logged as an error, per spec §7: an
// unexpected failure discards the offending operation rather than
// crashing the process.
func (w *World) do(fn func()) {
	done := make(chan struct{})
	w.cmds <- func() {
		defer close(done)
		defer func() {
			if r := recover(); r != nil {
				applog.Error(w.log, "world.executor", fmt.Errorf("recovered panic: %v", r))
			}
		}()
		fn()
	}
	<-done
}

// MapSummaries returns every loaded map's {id, name}, without touching the
// executor since the map registry is immutable after startup.
func (w *World) MapSummaries() []worldmap.Summary {
	return w.maps.Summaries()
}

// MapByID returns the full map definition for the static GET /maps/{id}
// endpoint.
func (w *World) MapByID(id string) (*worldmap.Map, bool) {
	return w.maps.ByID(id)
}

// Join creates a dog and player for userName on mapID, per spec §4.5.
func (w *World) Join(userName, mapID string) (token string, dogID uint32, err error) {
	if userName == "" {
		return "", 0, apierror.InvalidArgument("userName must not be empty")
	}
	w.do(func() {
		m, ok := w.maps.ByID(mapID)
		if !ok {
			err = apierror.MapNotFound()
			return
		}
		sess := w.sessionFor(mapID, m)

		var pos geometry.Point2D
		if w.randomizeSpawn {
			road := m.RandomRoad(w.rng)
			pos = road.UniformPointOn(w.rng.Float64())
		} else {
			pos = m.FirstRoad().Start()
		}

		dog := sess.SpawnDog(userName, pos)
		tok, terr := player.NewToken()
		if terr != nil {
			err = terr
			return
		}
		w.players[tok] = &player.Player{Token: tok, SessionID: sess.ID, DogID: dog.ID}
		token, dogID = tok, dog.ID
	})
	return
}

// sessionFor returns the session for mapID, creating it lazily on first
// join, per spec §3's session lifecycle. Must be called from inside do().
func (w *World) sessionFor(mapID string, m *worldmap.Map) *game.Session {
	if sess, ok := w.sessions[mapID]; ok {
		return sess
	}
	sess := game.NewSession(mapID, m, w.rng)
	w.sessions[mapID] = sess
	w.sessionOrder = append(w.sessionOrder, mapID)
	return sess
}

// Authenticate resolves a bearer token to its player, per spec §4.5 and
// the error taxonomy of §7.
func (w *World) Authenticate(token string) (player.Player, error) {
	if !player.ValidTokenFormat(token) {
		return player.Player{}, apierror.InvalidToken("authorization token must be 32 lowercase hex characters")
	}
	var out player.Player
	var err error
	w.do(func() {
		p, ok := w.players[token]
		if !ok {
			err = apierror.UnknownToken()
			return
		}
		out = *p
	})
	return out, err
}

// Command applies a movement command to the caller's dog, per spec §4.5.
func (w *World) Command(token, move string) error {
	if !player.ValidTokenFormat(token) {
		return apierror.InvalidToken("authorization token must be 32 lowercase hex characters")
	}
	var err error
	w.do(func() {
		p, ok := w.players[token]
		if !ok {
			err = apierror.UnknownToken()
			return
		}
		sess, ok := w.sessions[p.SessionID]
		if !ok {
			err = apierror.UnknownToken()
			return
		}
		dog, ok := sess.DogByID(p.DogID)
		if !ok {
			err = apierror.UnknownToken()
			return
		}
		dir, vx, vy, cerr := player.Command(move).Resolve(sess.Map.DefaultDogSpeed)
		if cerr != nil {
			err = cerr
			return
		}
		dog.SetCommand(dir, vx, vy)
	})
	return err
}

// State returns the session state visible to token's player: every dog and
// lost object on its map, per spec §6's GET /api/v1/game/state.
func (w *World) State(token string) (StateView, error) {
	if !player.ValidTokenFormat(token) {
		return StateView{}, apierror.InvalidToken("authorization token must be 32 lowercase hex characters")
	}
	var out StateView
	var err error
	w.do(func() {
		p, ok := w.players[token]
		if !ok {
			err = apierror.UnknownToken()
			return
		}
		sess, ok := w.sessions[p.SessionID]
		if !ok {
			err = apierror.UnknownToken()
			return
		}
		out.Dogs = make([]DogView, len(sess.Dogs))
		for i, d := range sess.Dogs {
			out.Dogs[i] = dogView(d)
		}
		out.LostObjects = make([]LostObjectView, len(sess.LostObjects))
		for i, o := range sess.LostObjects {
			out.LostObjects[i] = LostObjectView{ID: o.ID, Type: o.Type, Pos: o.Pos}
		}
	})
	return out, err
}

// Players is an alias for State kept under the name spec §6 gives the
// GET /api/v1/game/players endpoint; both surface the same roster.
func (w *World) Players(token string) (StateView, error) {
	return w.State(token)
}

// Tick advances every session by dtMs, in stable join order, appends each
// retired dog to the leaderboard, and removes its player. It never returns
// an error from within a single session's own logic: any panic is
// recovered and logged by do, and the tick that triggered it is simply
// discarded, per spec §7.
func (w *World) Tick(ctx context.Context, dtMs float64) {
	w.do(func() {
		for _, mapID := range w.sessionOrder {
			sess, ok := w.sessions[mapID]
			if !ok {
				continue
			}
			retired := sess.TickStep(dtMs)
			for _, r := range retired {
				if w.leaderboard != nil {
					if err := w.leaderboard.Append(ctx, r.Name, r.Score, r.PlayTimeMs); err != nil {
						applog.Error(w.log, "world.leaderboard.append", err)
					}
				}
				for tok, p := range w.players {
					if p.SessionID == sess.ID && p.DogID == r.DogID {
						delete(w.players, tok)
						break
					}
				}
			}
		}
	})
}

// CaptureSnapshotData copies out every session and player for persistence.
// The copy itself runs inside the executor so it sees a consistent
// instant; the caller should pass the result to snapshot.Save outside any
// executor dispatch so slow file I/O never blocks a tick.
func (w *World) CaptureSnapshotData() ([]game.SessionState, []snapshot.PlayerState) {
	var sessions []game.SessionState
	var players []snapshot.PlayerState
	w.do(func() {
		for _, mapID := range w.sessionOrder {
			sess, ok := w.sessions[mapID]
			if !ok {
				continue
			}
			sessions = append(sessions, sess.State())
		}
		for _, p := range w.players {
			players = append(players, snapshot.PlayerState{Token: p.Token, SessionID: p.SessionID, DogID: p.DogID})
		}
	})
	return sessions, players
}

// ReloadFromSnapshot rebuilds sessions and players from previously saved
// state, per spec §4.7. It must run before Run/do are used concurrently —
// startup is single-threaded, so it mutates World directly.
func (w *World) ReloadFromSnapshot(data *snapshot.Data) error {
	if data == nil {
		return nil
	}
	for _, ss := range data.Sessions {
		m, ok := w.maps.ByID(ss.MapID)
		if !ok {
			return fmt.Errorf("snapshot references map %q which no longer exists", ss.MapID)
		}
		sess := game.RestoreSession(m, ss, w.rng)
		w.sessions[ss.ID] = sess
		w.sessionOrder = append(w.sessionOrder, ss.ID)
	}
	for _, ps := range data.Players {
		w.players[ps.Token] = &player.Player{Token: ps.Token, SessionID: ps.SessionID, DogID: ps.DogID}
	}
	return nil
}
