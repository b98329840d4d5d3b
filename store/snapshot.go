package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

const snapshotFile = "vectors.json"

/*
SnapshotManager handles saving and loading registry contents
*/
type SnapshotManager struct {
	basePath string
	mu       sync.Mutex
}

/*
NewSnapshotManager creates a new snapshot manager
*/
func NewSnapshotManager(basePath string) *SnapshotManager {
	return &SnapshotManager{
		basePath: basePath,
	}
}

/*
Save writes the full registry contents to disk as a single JSON snapshot.

The snapshot maps each handle to the exact values its read-back returns.
*/
func (s *SnapshotManager) Save(r *Registry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.basePath, 0755); err != nil {
		return err
	}

	path := filepath.Join(s.basePath, snapshotFile)
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return json.NewEncoder(file).Encode(r.Export())
}

/*
Load restores registry contents from the snapshot on disk.

Vectors are installed under their original handles. A missing snapshot is
not an error; the registry is simply left empty.
*/
func (s *SnapshotManager) Load(r *Registry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.basePath, snapshotFile)
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	var vectors map[Handle][]float64
	if err := json.NewDecoder(file).Decode(&vectors); err != nil {
		return err
	}

	for h, data := range vectors {
		if err := r.Restore(h, data); err != nil {
			return err
		}
	}
	return nil
}

/*
Remove deletes the snapshot from disk
*/
func (s *SnapshotManager) Remove() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.basePath, snapshotFile)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
