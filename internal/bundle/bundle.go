// Package bundle implements the on-disk timeline bundle: a directory owning
// a manifest, a timeline document, a score-history document and one marker
// file per snapshot. The store is the only writer of this layout; every add
// operation is a full read-modify-write over the affected collection.
package bundle

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/huangsam/evotrack/internal/contract"
	"github.com/huangsam/evotrack/schema"
)

// File names inside a bundle directory.
const (
	manifestFile = "manifest.json"
	timelineFile = "timeline.json"
	scoresFile   = "scores.json"
	snapshotsDir = "snapshots"
	snapshotExt  = ".json"

	dirPerm  = 0o755
	filePerm = 0o644
)

// Store serializes every read-modify-write cycle over one bundle directory
// through a single mutex. Two Stores pointed at the same directory still
// race; callers are expected to hold one Store per bundle.
type Store struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

var _ contract.BundleStore = (*Store)(nil) // Compile-time check

// NewStore returns a store over the given bundle directory. The directory
// is created lazily on the first write.
func NewStore(path string) *Store {
	return &Store{path: path, now: time.Now}
}

// Path returns the bundle directory.
func (s *Store) Path() string {
	return s.path
}

// AddSnapshot inserts a snapshot into the bundle timeline. The snapshot
// identity is derived from its timestamp; inserting the same timestamp twice
// is a no-op and reports false.
func (s *Store) AddSnapshot(snap schema.Snapshot) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := schema.SnapshotID(snap.Timestamp)
	marker := filepath.Join(s.path, snapshotsDir, id+snapshotExt)
	if _, err := os.Stat(marker); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat snapshot %s: %w", id, err)
	}

	timeline, err := s.loadTimeline()
	if err != nil {
		return false, err
	}

	now := s.now()
	timeline.InsertSnapshot(snap, now)

	if err := os.MkdirAll(filepath.Join(s.path, snapshotsDir), dirPerm); err != nil {
		return false, fmt.Errorf("create snapshots directory: %w", err)
	}
	if err := writeJSON(marker, snap); err != nil {
		return false, err
	}
	if err := writeJSON(filepath.Join(s.path, timelineFile), timeline); err != nil {
		return false, err
	}
	if err := s.syncManifest(func(m *schema.Manifest) {
		m.EvolutionTimeline = &timeline
	}, now); err != nil {
		return false, err
	}
	return true, nil
}

// AddChangeEvent appends a change event to the bundle timeline.
func (s *Store) AddChangeEvent(ev schema.ChangeEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	timeline, err := s.loadTimeline()
	if err != nil {
		return err
	}

	now := s.now()
	timeline.InsertChangeEvent(ev, now)

	if err := writeJSON(filepath.Join(s.path, timelineFile), timeline); err != nil {
		return err
	}
	return s.syncManifest(func(m *schema.Manifest) {
		m.EvolutionTimeline = &timeline
	}, now)
}

// AddScoreEntry appends an entry to the bundle score history.
func (s *Store) AddScoreEntry(entry schema.ScoreEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, err := s.loadScoreHistory()
	if err != nil {
		return err
	}
	history.Insert(entry)

	if err := writeJSON(filepath.Join(s.path, scoresFile), history); err != nil {
		return err
	}
	return s.syncManifest(func(m *schema.Manifest) {
		m.ErossHistory = &history
	}, s.now())
}

// LoadTimeline returns the bundle timeline. A bundle without a timeline
// document yields an empty timeline, not an error.
func (s *Store) LoadTimeline() (schema.Timeline, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadTimeline()
}

// LoadScoreHistory returns the bundle score history. A bundle without a
// scores document yields an empty history, not an error.
func (s *Store) LoadScoreHistory() (schema.ScoreHistory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadScoreHistory()
}

// LoadManifest returns the bundle manifest. A bundle without one yields a
// zero-version manifest, not an error.
func (s *Store) LoadManifest() (schema.Manifest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadManifest()
}

// Fingerprint digests the bundle path and manifest version into a stable
// cache key component. The digest changes on every successful write.
func (s *Store) Fingerprint() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	manifest, err := s.loadManifest()
	if err != nil {
		return "", err
	}

	h := sha256.New()
	fmt.Fprintf(h, "%s|%d|%d", s.path, manifest.Version, manifest.UpdatedAt.UnixNano())
	return hex.EncodeToString(h.Sum(nil)), nil
}

// loadTimeline reads the timeline document. Callers must hold s.mu.
func (s *Store) loadTimeline() (schema.Timeline, error) {
	var timeline schema.Timeline
	found, err := readJSON(filepath.Join(s.path, timelineFile), &timeline)
	if err != nil {
		return schema.Timeline{}, err
	}
	if !found {
		return schema.NewTimeline(s.now()), nil
	}
	return timeline, nil
}

// loadScoreHistory reads the scores document. Callers must hold s.mu.
func (s *Store) loadScoreHistory() (schema.ScoreHistory, error) {
	var history schema.ScoreHistory
	if _, err := readJSON(filepath.Join(s.path, scoresFile), &history); err != nil {
		return schema.ScoreHistory{}, err
	}
	return history, nil
}

// loadManifest reads the manifest document. Callers must hold s.mu.
func (s *Store) loadManifest() (schema.Manifest, error) {
	var manifest schema.Manifest
	if _, err := readJSON(filepath.Join(s.path, manifestFile), &manifest); err != nil {
		return schema.Manifest{}, err
	}
	return manifest, nil
}

// syncManifest applies a mutation to the manifest and writes it back whole,
// bumping the monotonic version. Callers must hold s.mu.
func (s *Store) syncManifest(mutate func(*schema.Manifest), now time.Time) error {
	manifest, err := s.loadManifest()
	if err != nil {
		return err
	}

	if manifest.Version == 0 {
		manifest.CreatedAt = now
	}
	mutate(&manifest)
	manifest.Version++
	manifest.UpdatedAt = now

	return writeJSON(filepath.Join(s.path, manifestFile), manifest)
}

// readJSON decodes the file at path into v. It reports false without error
// when the file does not exist.
func readJSON(path string, v any) (bool, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("decode %s: %w. The bundle may be corrupted or written by a newer version", filepath.Base(path), err)
	}
	return true, nil
}

// writeJSON encodes v and writes it to path, creating the bundle directory
// if needed.
func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return fmt.Errorf("create bundle directory: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, filePerm); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}
