package manifest

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// SnapshotEntry is the serializable form of a Mapping.
type SnapshotEntry struct {
	Name   string `yaml:"name,omitempty"`
	Source string `yaml:"source,omitempty"`
	Method string `yaml:"method,omitempty"`
	Align  int    `yaml:"align,omitempty"`
	Pad    *int   `yaml:"pad,omitempty"`
}

// Snapshot describes a built manifest for audit output.
type Snapshot struct {
	Manifest string          `yaml:"manifest,omitempty"`
	Entries  []SnapshotEntry `yaml:"entries"`
}

// Snapshot returns the resolved mappings. It is empty until Build
// succeeds.
func (m *Manifest) Snapshot() Snapshot {
	s := Snapshot{Manifest: m.path, Entries: make([]SnapshotEntry, 0, len(m.mappings))}
	for _, mp := range m.mappings {
		switch mp.Kind {
		case DeclFile:
			s.Entries = append(s.Entries, SnapshotEntry{
				Name:   mp.Name,
				Source: mp.Source,
				Method: mp.Method.String(),
			})
		case DeclAlign:
			s.Entries = append(s.Entries, SnapshotEntry{Align: mp.Size})
		case DeclPad:
			size := mp.Size
			s.Entries = append(s.Entries, SnapshotEntry{Pad: &size})
		}
	}
	return s
}

// WriteSnapshot writes the snapshot to w as YAML.
func (m *Manifest) WriteSnapshot(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(m.Snapshot()); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return enc.Close()
}
