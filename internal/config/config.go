// Package config loads the JSON game configuration file and the process's
// command-line flags, and resolves per-map overrides against top-level
// defaults the way json_loader.cpp's LoadGame does.
package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sonpython/loot-server/internal/worldmap"
)

// defaultBagCapacity is used when neither the map nor the top-level config
// specifies one.
const defaultBagCapacity = 3

// mapFile mirrors one entry of the top-level "maps" array before defaults
// are resolved against it.
type mapFile struct {
	ID        string               `json:"id"`
	Name      string               `json:"name"`
	Roads     []worldmap.Road      `json:"roads"`
	Buildings []worldmap.Building  `json:"buildings"`
	Offices   []worldmap.Office    `json:"offices"`
	LootTypes []worldmap.LootType  `json:"lootTypes"`
	DogSpeed  *float64             `json:"dogSpeed"`
	BagCap    *int                 `json:"bagCapacity"`
}

// lootGeneratorFile mirrors the top-level lootGeneratorConfig object.
type lootGeneratorFile struct {
	PeriodSec   float64 `json:"period"`
	Probability float64 `json:"probability"`
}

// gameFile mirrors the whole JSON config file described in spec §6.
type gameFile struct {
	DefaultDogSpeed    *float64          `json:"defaultDogSpeed"`
	DefaultBagCapacity *int              `json:"defaultBagCapacity"`
	DogRetirementSec   float64           `json:"dogRetirementTime"`
	LootGenerator      lootGeneratorFile `json:"lootGeneratorConfig"`
	Maps               []mapFile         `json:"maps"`
}

// LoadMaps reads and resolves a game config file into fully-tuned Map
// values ready to hand to worldmap.NewRegistry. Each map's DefaultDogSpeed,
// BagCapacity, RetirementMs, LootPeriodMs and LootProbability are resolved
// against the file's top-level defaults, matching LoadGame's fallback
// chain in json_loader.cpp.
func LoadMaps(path string) ([]*worldmap.Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	var gf gameFile
	if err := json.Unmarshal(data, &gf); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	topDogSpeed := 1.0
	if gf.DefaultDogSpeed != nil {
		topDogSpeed = *gf.DefaultDogSpeed
	}
	topBagCap := defaultBagCapacity
	if gf.DefaultBagCapacity != nil {
		topBagCap = *gf.DefaultBagCapacity
	}
	retirementMs := gf.DogRetirementSec * 1000

	maps := make([]*worldmap.Map, 0, len(gf.Maps))
	for _, mf := range gf.Maps {
		if len(mf.Roads) == 0 {
			return nil, fmt.Errorf("map %q has no roads", mf.ID)
		}
		m := &worldmap.Map{
			ID:              mf.ID,
			Name:            mf.Name,
			Roads:           mf.Roads,
			Buildings:       mf.Buildings,
			Offices:         mf.Offices,
			LootTypes:       mf.LootTypes,
			DefaultDogSpeed: topDogSpeed,
			BagCapacity:     topBagCap,
			RetirementMs:    retirementMs,
			LootPeriodMs:    gf.LootGenerator.PeriodSec * 1000,
			LootProbability: gf.LootGenerator.Probability,
		}
		if mf.DogSpeed != nil {
			m.DefaultDogSpeed = *mf.DogSpeed
		}
		if mf.BagCap != nil {
			m.BagCapacity = *mf.BagCap
		}
		maps = append(maps, m)
	}
	return maps, nil
}

// CLI holds the parsed command-line flags from spec §6.
type CLI struct {
	TickPeriod          time.Duration // 0 means manual-tick mode
	ConfigFile          string
	WWWRoot             string
	RandomizeSpawn      bool
	StateFile           string
	SaveStatePeriod     time.Duration
}

// ParseFlags parses the process's command-line flags. tickPeriodMs and
// saveStatePeriodMs of 0 mean "disabled" (manual tick mode, or no periodic
// snapshot, respectively).
func ParseFlags(args []string) (CLI, error) {
	fs := flag.NewFlagSet("lootserver", flag.ContinueOnError)
	tickPeriodMs := fs.Int64("tick-period", 0, "autotick period in milliseconds; 0 enables manual-tick mode via POST /api/v1/game/tick")
	configFile := fs.String("config-file", "", "path to the JSON game config file (required)")
	wwwRoot := fs.String("www-root", "", "path to the static file root (required)")
	randomizeSpawn := fs.Bool("randomize-spawn-points", false, "spawn dogs at a random point of a random road instead of the first road's start")
	stateFile := fs.String("state-file", "", "path to the snapshot file; empty disables persistence")
	saveStatePeriodMs := fs.Int64("save-state-period", 0, "snapshot interval in milliseconds; 0 means snapshot only at shutdown")

	if err := fs.Parse(args); err != nil {
		return CLI{}, err
	}
	if *configFile == "" {
		return CLI{}, fmt.Errorf("--config-file is required")
	}
	if *wwwRoot == "" {
		return CLI{}, fmt.Errorf("--www-root is required")
	}

	return CLI{
		TickPeriod:      time.Duration(*tickPeriodMs) * time.Millisecond,
		ConfigFile:      *configFile,
		WWWRoot:         *wwwRoot,
		RandomizeSpawn:  *randomizeSpawn,
		StateFile:       *stateFile,
		SaveStatePeriod: time.Duration(*saveStatePeriodMs) * time.Millisecond,
	}, nil
}
