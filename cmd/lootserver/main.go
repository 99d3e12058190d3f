// Command lootserver is the process entry point: it wires together config
// loading, the world executor, the tick scheduler, the leaderboard store,
// snapshot persistence, and the HTTP server, then runs until SIGINT/SIGTERM.
package main

import (
	"context"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/sonpython/loot-server/internal/applog"
	"github.com/sonpython/loot-server/internal/config"
	"github.com/sonpython/loot-server/internal/httpapi"
	"github.com/sonpython/loot-server/internal/leaderboard"
	"github.com/sonpython/loot-server/internal/scheduler"
	"github.com/sonpython/loot-server/internal/snapshot"
	"github.com/sonpython/loot-server/internal/world"
	"github.com/sonpython/loot-server/internal/worldmap"
)

func main() {
	log := applog.New()

	cli, err := config.ParseFlags(os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("parse flags")
	}

	maps, err := config.LoadMaps(cli.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("load config file")
	}
	registry, err := worldmap.NewRegistry(maps)
	if err != nil {
		log.Fatal().Err(err).Msg("build map registry")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var lb *leaderboard.Store
	if dbURL := os.Getenv("GAME_DB_URL"); dbURL != "" {
		lb, err = leaderboard.Open(ctx, dbURL)
		if err != nil {
			log.Fatal().Err(err).Msg("open leaderboard database")
		}
		defer lb.Close()
	}

	w := world.New(registry, cli.RandomizeSpawn, leaderboardOrNil(lb), log, rand.New(rand.NewSource(time.Now().UnixNano())))

	if cli.StateFile != "" {
		data, err := snapshot.Load(cli.StateFile)
		if err != nil {
			log.Fatal().Err(err).Msg("load snapshot")
		}
		if err := w.ReloadFromSnapshot(data); err != nil {
			log.Fatal().Err(err).Msg("reload snapshot")
		}
	}

	go w.Run(ctx)

	sched := scheduler.New(w, cli.TickPeriod)
	sched.Start(ctx)

	if cli.StateFile != "" && cli.SaveStatePeriod > 0 {
		go runPeriodicSnapshots(ctx, w, cli.StateFile, cli.SaveStatePeriod, log)
	}

	router := httpapi.NewRouter(w, sched, recordsReaderOrNil(lb), cli.WWWRoot, log)
	server := &http.Server{
		Addr:        resolveAddr(),
		Handler:     router,
		ReadTimeout: 30 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		applog.ServerStarted(log, server.Addr)
		serverErr <- server.ListenAndServe()
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	exitCode := 0
	select {
	case <-sig:
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			applog.Error(log, "main.shutdown", err)
			exitCode = 1
		}
	case err := <-serverErr:
		if err != nil && err != http.ErrServerClosed {
			applog.Error(log, "main.listenAndServe", err)
			exitCode = 1
		}
	}

	// Capture the final snapshot while the world executor is still running:
	// CaptureSnapshotData dispatches through w.do, which blocks forever if
	// cancel has already stopped the executor goroutine.
	if cli.StateFile != "" {
		sessions, players := w.CaptureSnapshotData()
		if err := snapshot.Save(cli.StateFile, sessions, players); err != nil {
			applog.Error(log, "main.finalSnapshot", err)
		}
	}
	cancel()

	applog.ServerExited(log, exitCode)
	os.Exit(exitCode)
}

// leaderboardOrNil adapts a possibly-nil *leaderboard.Store to a possibly-nil
// world.Leaderboard, since a nil *Store compared against the interface
// would otherwise produce a non-nil interface holding a nil pointer.
func leaderboardOrNil(lb *leaderboard.Store) world.Leaderboard {
	if lb == nil {
		return nil
	}
	return lb
}

// recordsReaderOrNil is leaderboardOrNil's counterpart for the read side:
// GET /api/v1/game/records degrades to an empty list rather than panicking
// when no GAME_DB_URL was configured.
func recordsReaderOrNil(lb *leaderboard.Store) httpapi.RecordsReader {
	if lb == nil {
		return nil
	}
	return lb
}

// runPeriodicSnapshots saves a snapshot every period until ctx is canceled,
// in addition to the final snapshot main always takes at shutdown.
func runPeriodicSnapshots(ctx context.Context, w *world.World, path string, period time.Duration, log zerolog.Logger) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sessions, players := w.CaptureSnapshotData()
			if err := snapshot.Save(path, sessions, players); err != nil {
				applog.Error(log, "main.periodicSnapshot", err)
			}
		}
	}
}

func resolveAddr() string {
	if addr := os.Getenv("LOOTSERVER_ADDR"); addr != "" {
		return addr
	}
	return ":8080"
}
