// Package snapshot implements the crash-safe, versioned world snapshot of
// spec §4.7: gob-encode every session and player, write to a sibling temp
// file, fsync, then atomically rename over the target so a partial write
// never replaces a valid snapshot. Map definitions are never written; they
// are reloaded from config and rebound by id.
package snapshot

import (
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sonpython/loot-server/internal/game"
)

// schemaVersion is bumped whenever the on-disk shape changes. Load rejects
// any version it does not recognize with a clean error rather than
// attempting a best-effort decode.
const schemaVersion = 1

// PlayerState is the gob-friendly mirror of player.Player. It is defined
// here rather than imported from internal/player so that this package does
// not need to depend on it; the world layer converts both ways.
type PlayerState struct {
	Token     string
	SessionID string
	DogID     uint32
}

// Data is the full envelope written to disk.
type Data struct {
	Version  int
	Sessions []game.SessionState
	Players  []PlayerState
}

// Save writes data to a temp file beside path and atomically renames it
// into place. A failure leaves any existing file at path untouched.
func Save(path string, sessions []game.SessionState, players []PlayerState) error {
	data := Data{Version: schemaVersion, Sessions: sessions, Players: players}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".snapshot-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp snapshot file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if err := gob.NewEncoder(tmp).Encode(data); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync snapshot temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close snapshot temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename snapshot into place: %w", err)
	}

	success = true
	return nil
}

// Load reads and decodes the snapshot at path. A missing file is not an
// error: it returns (nil, nil) so first-time startup needs no special
// casing.
func Load(path string) (*Data, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open snapshot file: %w", err)
	}
	defer f.Close()

	var data Data
	if err := gob.NewDecoder(f).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if data.Version != schemaVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d (expected %d)", data.Version, schemaVersion)
	}
	return &data, nil
}
