package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"
)

// New creates an empty manifest with defaults.
func New(target string) *Manifest {
	return &Manifest{
		Version:     SupportedManifestVersion,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Target:      target,
		Entries:     make(map[string]Entry),
	}
}

// ComputeStats recalculates aggregate statistics from entries.
func (m *Manifest) ComputeStats() {
	s := Stats{SourceFormats: make(map[string]int)}
	s.TotalEntries = len(m.Entries)
	s.TotalSkipped = len(m.Skipped)
	for _, e := range m.Entries {
		s.TotalInputBytes += e.Source.Size
		s.TotalOutputBytes += e.Output.Size
		s.SourceFormats[e.Source.Format]++
	}
	if len(s.SourceFormats) == 0 {
		s.SourceFormats = nil
	}
	m.Stats = s
}

// WriteJSON serializes the manifest to a JSON file. Skipped entries are
// sorted by path so repeated runs produce stable output.
func WriteJSON(m *Manifest, path string) error {
	m.ComputeStats()
	sort.Slice(m.Skipped, func(i, j int) bool { return m.Skipped[i].Path < m.Skipped[j].Path })

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}

// ReadJSON loads a manifest written by WriteJSON.
func ReadJSON(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &m, nil
}
