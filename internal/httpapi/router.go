// Package httpapi exposes the world over HTTP, per spec §6: a small JSON
// API under /api/v1 plus a static file fallback for everything else. Every
// handler renders apierror.Error uniformly and every API response (JSON
// body or error) carries Cache-Control: no-cache, matching request_handler.h's dispatch-by-target
// shape generalized to gorilla/mux routing.
package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/sonpython/loot-server/internal/apierror"
	"github.com/sonpython/loot-server/internal/applog"
	"github.com/sonpython/loot-server/internal/leaderboard"
	"github.com/sonpython/loot-server/internal/scheduler"
	"github.com/sonpython/loot-server/internal/world"
)

// maxRecords is the hard ceiling on maxItems for GET /api/v1/game/records.
const maxRecords = 100

// RecordsReader is the read-only slice of leaderboard.Store the records
// endpoint needs.
type RecordsReader interface {
	Query(ctx context.Context, start, maxItems int) ([]leaderboard.Record, error)
}

// NewRouter builds the full HTTP handler: the JSON API, an unknown-/api/
// fallback, and a static file server rooted at wwwRoot.
func NewRouter(w *world.World, sched *scheduler.Scheduler, records RecordsReader, wwwRoot string, log zerolog.Logger) http.Handler {
	r := mux.NewRouter()
	r.SkipClean(true)
	r.HandleFunc("/api/v1/maps", logged(log, handleMaps(w)))
	r.HandleFunc("/api/v1/maps/{id}", logged(log, handleMapByID(w)))
	r.HandleFunc("/api/v1/game/join", logged(log, handleJoin(w)))
	r.HandleFunc("/api/v1/game/players", logged(log, handlePlayers(w)))
	r.HandleFunc("/api/v1/game/state", logged(log, handleState(w)))
	r.HandleFunc("/api/v1/game/player/action", logged(log, handleAction(w)))
	r.HandleFunc("/api/v1/game/tick", logged(log, handleTick(sched)))
	r.HandleFunc("/api/v1/game/records", logged(log, handleRecords(records)))
	r.PathPrefix("/api/").HandlerFunc(logged(log, handleUnknownAPI))
	r.PathPrefix("/").HandlerFunc(logged(log, handleStatic(wwwRoot)))
	return r
}

// logged wraps h with the request/response structured logging spec §6
// requires around every handler.
func logged(log zerolog.Logger, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		applog.RequestReceived(log, r.RemoteAddr, r.URL.RequestURI(), r.Method)
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		h(sw, r)
		applog.ResponseSent(log, time.Since(start), sw.status, sw.Header().Get("Content-Type"))
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

// writeJSON renders v as a 200 JSON response with the no-cache header
// every API response carries.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// writeError renders err as the JSON error envelope spec §7 defines. Any
// error that is not an *apierror.Error is treated as an internal failure
// and never leaks its message to the client.
func writeError(w http.ResponseWriter, err error) {
	apiErr, ok := err.(*apierror.Error)
	if !ok {
		apiErr = apierror.New(http.StatusInternalServerError, "internalError", "internal error")
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	for k, v := range apiErr.Headers {
		w.Header().Set(k, v)
	}
	w.WriteHeader(apiErr.Status)
	_ = json.NewEncoder(w).Encode(struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{apiErr.Code, apiErr.Message})
}

// methodNotAllowed writes a 405 with the given Allow header value.
func methodNotAllowed(w http.ResponseWriter, allow string) {
	writeError(w, apierror.InvalidMethod(allow))
}

// bearerToken extracts the 32-hex-char token from an Authorization: Bearer
// header, per spec §4.5 and scenario 6's auth-failure sequence.
func bearerToken(r *http.Request) (string, error) {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return "", apierror.InvalidToken("missing or malformed Authorization header")
	}
	return strings.TrimPrefix(auth, prefix), nil
}

// decodeJSONBody decodes r's body into v, translating any malformed JSON
// into invalidArgument per spec §7.
func decodeJSONBody(r *http.Request, v any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if err == io.EOF {
			return apierror.InvalidArgument("request body must not be empty")
		}
		return apierror.InvalidArgument("malformed request body: " + err.Error())
	}
	return nil
}

func handleMaps(w *world.World) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			methodNotAllowed(rw, "GET, HEAD")
			return
		}
		writeJSON(rw, w.MapSummaries())
	}
}

func handleMapByID(w *world.World) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			methodNotAllowed(rw, "GET, HEAD")
			return
		}
		id := mux.Vars(r)["id"]
		m, ok := w.MapByID(id)
		if !ok {
			writeError(rw, apierror.MapNotFound())
			return
		}
		writeJSON(rw, m)
	}
}

func handleJoin(w *world.World) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			methodNotAllowed(rw, "POST")
			return
		}
		var req struct {
			UserName string `json:"userName"`
			MapID    string `json:"mapId"`
		}
		if err := decodeJSONBody(r, &req); err != nil {
			writeError(rw, err)
			return
		}
		token, dogID, err := w.Join(req.UserName, req.MapID)
		if err != nil {
			writeError(rw, err)
			return
		}
		writeJSON(rw, struct {
			AuthToken string `json:"authToken"`
			PlayerID  uint32 `json:"playerId"`
		}{token, dogID})
	}
}

// dogEntry is the {name} shape spec §6 gives each dog under
// GET /api/v1/game/players.
type dogEntry struct {
	Name string `json:"name"`
}

func handlePlayers(w *world.World) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			methodNotAllowed(rw, "GET, HEAD")
			return
		}
		token, err := bearerToken(r)
		if err != nil {
			writeError(rw, err)
			return
		}
		view, err := w.Players(token)
		if err != nil {
			writeError(rw, err)
			return
		}
		out := make(map[string]dogEntry, len(view.Dogs))
		for _, d := range view.Dogs {
			out[strconv.FormatUint(uint64(d.ID), 10)] = dogEntry{Name: d.Name}
		}
		writeJSON(rw, out)
	}
}

// dogStateEntry is one dog's full state, as returned by GET
// /api/v1/game/state.
type dogStateEntry struct {
	Name  string  `json:"name"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	VX    float64 `json:"vx"`
	VY    float64 `json:"vy"`
	Dir   string  `json:"dir"`
	Score int64   `json:"score"`
	Bag   int     `json:"bagItems"`
}

type lostObjectEntry struct {
	Type int     `json:"type"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

func handleState(w *world.World) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			methodNotAllowed(rw, "GET, HEAD")
			return
		}
		token, err := bearerToken(r)
		if err != nil {
			writeError(rw, err)
			return
		}
		view, err := w.State(token)
		if err != nil {
			writeError(rw, err)
			return
		}
		players := make(map[string]dogStateEntry, len(view.Dogs))
		for _, d := range view.Dogs {
			players[strconv.FormatUint(uint64(d.ID), 10)] = dogStateEntry{
				Name: d.Name, X: d.Pos.X, Y: d.Pos.Y, VX: d.VX, VY: d.VY,
				Dir: string(d.Direction), Score: d.Score, Bag: len(d.Bag),
			}
		}
		objects := make(map[string]lostObjectEntry, len(view.LostObjects))
		for _, o := range view.LostObjects {
			objects[strconv.FormatUint(uint64(o.ID), 10)] = lostObjectEntry{Type: o.Type, X: o.Pos.X, Y: o.Pos.Y}
		}
		writeJSON(rw, struct {
			Players     map[string]dogStateEntry    `json:"players"`
			LostObjects map[string]lostObjectEntry  `json:"lostObjects"`
		}{players, objects})
	}
}

func handleAction(w *world.World) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			methodNotAllowed(rw, "POST")
			return
		}
		token, err := bearerToken(r)
		if err != nil {
			writeError(rw, err)
			return
		}
		var req struct {
			Move string `json:"move"`
		}
		if err := decodeJSONBody(r, &req); err != nil {
			writeError(rw, err)
			return
		}
		if err := w.Command(token, req.Move); err != nil {
			writeError(rw, err)
			return
		}
		writeJSON(rw, struct{}{})
	}
}

func handleTick(sched *scheduler.Scheduler) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			methodNotAllowed(rw, "POST")
			return
		}
		var req struct {
			TimeDelta float64 `json:"timeDelta"`
		}
		if err := decodeJSONBody(r, &req); err != nil {
			writeError(rw, err)
			return
		}
		if err := sched.ManualTick(r.Context(), req.TimeDelta); err != nil {
			writeError(rw, err)
			return
		}
		writeJSON(rw, struct{}{})
	}
}

type recordEntry struct {
	Name     string  `json:"name"`
	Score    int64   `json:"score"`
	PlayTime float64 `json:"playTime"`
}

func handleRecords(records RecordsReader) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			methodNotAllowed(rw, "GET, HEAD")
			return
		}
		start := 0
		if v := r.URL.Query().Get("start"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				writeError(rw, apierror.InvalidArgument("start must be a non-negative integer"))
				return
			}
			start = n
		}
		maxItems := maxRecords
		if v := r.URL.Query().Get("maxItems"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				writeError(rw, apierror.InvalidArgument("maxItems must be a non-negative integer"))
				return
			}
			maxItems = n
		}
		if maxItems > maxRecords {
			writeError(rw, apierror.InvalidArgument("maxItems must not exceed 100"))
			return
		}
		if records == nil {
			writeJSON(rw, []recordEntry{})
			return
		}
		recs, err := records.Query(r.Context(), start, maxItems)
		if err != nil {
			writeError(rw, apierror.New(http.StatusInternalServerError, "internalError", "failed to query leaderboard"))
			return
		}
		out := make([]recordEntry, len(recs))
		for i, rec := range recs {
			out[i] = recordEntry{Name: rec.Name, Score: rec.Score, PlayTime: rec.PlayTimeMs}
		}
		writeJSON(rw, out)
	}
}

func handleUnknownAPI(rw http.ResponseWriter, r *http.Request) {
	writeError(rw, apierror.BadRequest("unknown API endpoint"))
}

// handleStatic serves files from wwwRoot, rejecting any request whose
// canonicalized path escapes the root, per spec §6.
func handleStatic(wwwRoot string) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			methodNotAllowed(rw, "GET, HEAD")
			return
		}
		reqPath := r.URL.Path
		if reqPath == "/" {
			reqPath = "/index.html"
		}
		// Join canonicalizes the combined path in one step; cleaning
		// reqPath on its own first would treat it as rooted at "/" and
		// silently absorb a ".." escape before it ever reaches wwwRoot.
		root := filepath.Clean(wwwRoot)
		full := filepath.Join(root, reqPath)
		if full != root && !strings.HasPrefix(full, root+string(filepath.Separator)) {
			writeError(rw, apierror.BadRequest("path escapes web root"))
			return
		}
		info, err := os.Stat(full)
		if err != nil || info.IsDir() {
			writeError(rw, apierror.NotFound("static file not found"))
			return
		}
		f, err := os.Open(full)
		if err != nil {
			writeError(rw, apierror.NotFound("static file not found"))
			return
		}
		defer f.Close()
		if ct := mime.TypeByExtension(filepath.Ext(full)); ct != "" {
			rw.Header().Set("Content-Type", ct)
		}
		// ServeContent rather than ServeFile: ServeFile answers any request
		// path ending in /index.html with a redirect instead of the file.
		http.ServeContent(rw, r, full, info.ModTime(), f)
	}
}
