package game

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
)

const SaveVersion = 1

// MaxSaveBytes caps the decompressed size of a save.
const MaxSaveBytes = 64 << 20

type saveFile struct {
	Version int       `json:"version"`
	SavedAt time.Time `json:"saved_at"`
	State   GameState `json:"state"`
}

// EncodeSave renders s as an opaque text blob: JSON, zstd, then base64.
func EncodeSave(s GameState, now time.Time) (string, error) {
	raw, err := json.Marshal(saveFile{Version: SaveVersion, SavedAt: now, State: s})
	if err != nil {
		return "", fmt.Errorf("encode save: %w", err)
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return "", err
	}
	defer enc.Close()
	return base64.StdEncoding.EncodeToString(enc.EncodeAll(raw, nil)), nil
}

// DecodeSave reverses EncodeSave. A malformed or oversized blob wraps ErrCorruptSave.
func DecodeSave(blob string) (GameState, error) {
	packed, err := base64.StdEncoding.DecodeString(strings.TrimSpace(blob))
	if err != nil {
		return GameState{}, fmt.Errorf("%w: base64: %v", ErrCorruptSave, err)
	}
	dec, err := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(MaxSaveBytes))
	if err != nil {
		return GameState{}, fmt.Errorf("decode save: %w", err)
	}
	defer dec.Close()
	raw, err := dec.DecodeAll(packed, nil)
	if err != nil {
		return GameState{}, fmt.Errorf("%w: zstd: %v", ErrCorruptSave, err)
	}

	var f saveFile
	d := json.NewDecoder(bytes.NewReader(raw))
	d.DisallowUnknownFields()
	if err := d.Decode(&f); err != nil {
		return GameState{}, fmt.Errorf("%w: json: %v", ErrCorruptSave, err)
	}
	if f.Version != SaveVersion {
		return GameState{}, fmt.Errorf("%w: unsupported version %d", ErrCorruptSave, f.Version)
	}
	if err := checkCounters(&f.State); err != nil {
		return GameState{}, fmt.Errorf("%w: %v", ErrCorruptSave, err)
	}
	return f.State, nil
}

func checkCounters(s *GameState) error {
	if math.IsNaN(s.Balance) || math.IsInf(s.Balance, 0) || s.Balance < 0 {
		return fmt.Errorf("balance %v", s.Balance)
	}
	counters := []struct {
		name string
		v    int
	}{
		{"clicker_level", s.ClickerLevel},
		{"prestige_points", s.PrestigePoints},
		{"planets_visited", s.PlanetsVisited},
		{"contraband_limit", s.ContrabandLimit},
	}
	for _, c := range counters {
		if c.v < 0 {
			return fmt.Errorf("negative %s %d", c.name, c.v)
		}
	}
	return nil
}
