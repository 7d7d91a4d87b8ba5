package snapshot

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
)

// Store handles snapshot save/load for one match directory, in the same
// spirit as a species population manager that owns one base path and
// derives per-record file names from it.
type Store struct {
	basePath string
}

func NewStore(basePath string) *Store {
	return &Store{basePath: basePath}
}

func (s *Store) FilePath(tick uint64) string {
	return filepath.Join(s.basePath, fmt.Sprintf("tick-%010d.snap", tick))
}

// digestSize is the trailing xxhash64 footer appended to every file: an
// 8-byte big-endian checksum of everything that precedes it, letting Load
// detect truncated or bit-rotted files before the JSON decoder ever sees
// them (a JSON syntax error can't distinguish "corrupt" from "partially
// written" the way a digest mismatch can).
const digestSize = 8

// Save writes snap to FilePath(snap.Tick), appending an xxhash64 integrity
// digest of the encoded body. This digest is a storage-layer integrity
// check only — it is unrelated to the simulation's own Merkle checksum,
// which snap.Checksum already carries.
func (s *Store) Save(snap Snapshot) error {
	if err := os.MkdirAll(s.basePath, 0755); err != nil {
		return err
	}

	body, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("snapshot: marshal: %w", err)
	}

	digest := xxhash.Sum64(body)
	footer := make([]byte, digestSize)
	binary.BigEndian.PutUint64(footer, digest)

	return os.WriteFile(s.FilePath(snap.Tick), append(body, footer...), 0644)
}

// Load reads and verifies a snapshot previously written by Save, rejecting
// a layout mismatch (Version) or a failed integrity digest before
// returning a partially-decoded record to the caller.
func (s *Store) Load(tick uint64) (Snapshot, error) {
	var snap Snapshot

	raw, err := os.ReadFile(s.FilePath(tick))
	if err != nil {
		return snap, err
	}
	if len(raw) < digestSize {
		return snap, fmt.Errorf("snapshot: file shorter than integrity footer")
	}

	body, footer := raw[:len(raw)-digestSize], raw[len(raw)-digestSize:]
	want := binary.BigEndian.Uint64(footer)
	got := xxhash.Sum64(body)
	if want != got {
		return snap, fmt.Errorf("snapshot: integrity digest mismatch (want %x, got %x)", want, got)
	}

	if err := json.Unmarshal(body, &snap); err != nil {
		return snap, fmt.Errorf("snapshot: unmarshal: %w", err)
	}
	if snap.Version != Version {
		return snap, fmt.Errorf("snapshot: unsupported version %d (want %d)", snap.Version, Version)
	}
	return snap, nil
}

// Exists reports whether a snapshot for tick has been saved.
func (s *Store) Exists(tick uint64) bool {
	_, err := os.Stat(s.FilePath(tick))
	return err == nil
}
