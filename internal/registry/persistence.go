package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Manifest describes the registry's contents at one point in time.
type Manifest struct {
	Categories []CategoryEntry `json:"categories"`
}

// CategoryEntry lists the units of one category.
type CategoryEntry struct {
	Name  string      `json:"name"`
	Units []UnitEntry `json:"units"`
}

// UnitEntry identifies one unit and its state.
type UnitEntry struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	State string `json:"state"`
}

// Snapshot captures categories in sorted order, units in registration order.
func (r *Registry) Snapshot() Manifest {
	var m Manifest
	for _, name := range r.Categories() {
		entry := CategoryEntry{Name: name, Units: []UnitEntry{}}
		for _, u := range r.Lookup(name) {
			entry.Units = append(entry.Units, UnitEntry{
				ID:    u.ID(),
				Name:  u.Name(),
				State: u.State().String(),
			})
		}
		m.Categories = append(m.Categories, entry)
	}
	return m
}

// Save writes the snapshot as JSON using an atomic rename.
func (r *Registry) Save(path string) error {
	if path == "" {
		return fmt.Errorf("manifest path is required")
	}
	payload, err := json.MarshalIndent(r.Snapshot(), "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmpPath := path + ".tmp"
	file, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	_, writeErr := file.Write(payload)
	syncErr := file.Sync()
	closeErr := file.Close()
	for _, err := range []error{writeErr, syncErr, closeErr} {
		if err != nil {
			_ = os.Remove(tmpPath)
			return err
		}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}

// LoadManifest reads a manifest written by Save.
func LoadManifest(path string) (Manifest, error) {
	var m Manifest
	data, err := os.ReadFile(path)
	if err != nil {
		return m, err
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("parse manifest: %w", err)
	}
	return m, nil
}
