package source

import (
	"context"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/leadroute/types"
)

// Static implements a roster source with a fixed list of workers.
type Static struct {
	mu      sync.RWMutex
	workers []types.Worker
}

var _ types.RosterSource = (*Static)(nil)

// NewStatic creates a static roster source.
//
// Parameters:
//   - workers: Roster in roster order (copied)
//
// Returns:
//   - *Static: Initialized static source
//
// Example:
//
//	src := source.NewStatic([]types.Worker{
//	    {ID: "agent_001", Name: "John Smith", Level: types.LevelSenior, MaxCapacity: 50},
//	})
//	engine, err := leadroute.NewEngine(&cfg, src)
func NewStatic(workers []types.Worker) *Static {
	return &Static{workers: cloneWorkers(workers)}
}

// RosterFile is the YAML layout read by LoadStaticFile.
type RosterFile struct {
	Workers []types.Worker `json:"workers" yaml:"workers"`
}

// LoadStaticFile reads a YAML roster file into a static source.
//
// The file holds a top-level "workers" list; see examples/basic/roster.yaml.
func LoadStaticFile(path string) (*Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster file: %w", err)
	}

	var file RosterFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode roster file %s: %w", path, err)
	}

	return NewStatic(file.Workers), nil
}

// ListWorkers returns a copy of the roster.
//
// Returns:
//   - []types.Worker: The roster in roster order
//   - error: Always nil
func (s *Static) ListWorkers(_ context.Context) ([]types.Worker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneWorkers(s.workers), nil
}

// Update replaces the roster.
//
// This lets tests simulate roster changes between engine refreshes.
func (s *Static) Update(workers []types.Worker) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.workers = cloneWorkers(workers)
}

func cloneWorkers(workers []types.Worker) []types.Worker {
	out := make([]types.Worker, len(workers))
	for i, w := range workers {
		out[i] = w.Clone()
	}

	return out
}
