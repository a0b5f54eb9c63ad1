package manifest

import (
	"fmt"

	"github.com/meigma/pak"
)

// CreateArchive adds every resolved mapping, in manifest order, to a new
// unbound archive. It returns pak.ErrNotBuilt unless Build succeeded.
func (m *Manifest) CreateArchive(opts ...pak.Option) (*pak.Archive, error) {
	if !m.built {
		return nil, pak.ErrNotBuilt
	}
	if m.logger != nil {
		opts = append([]pak.Option{pak.WithLogger(m.logger)}, opts...)
	}
	a := pak.New("", opts...)
	for _, mp := range m.mappings {
		var err error
		switch mp.Kind {
		case DeclFile:
			_, err = a.AddFile(mp.Name, mp.Method, mp.Source)
		case DeclAlign:
			_, err = a.Align(mp.Size)
		case DeclPad:
			_, err = a.AddPad(mp.Size)
		}
		if err != nil {
			return nil, fmt.Errorf("create archive: %w", err)
		}
	}
	return a, nil
}
