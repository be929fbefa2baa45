package counters

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
)

var _ Source = (*SysfsSource)(nil)

// SysfsSource reads "<root>/<ifc>/statistics/<counter>" files, one counter
// per file with the file name as the key.
type SysfsSource struct {
	ifc string
	dir string
}

func NewSysfsSource(ifc string, opts ...OpOption) *SysfsSource {
	op := &Op{}
	op.applyOpts(opts)
	return &SysfsSource{
		ifc: ifc,
		dir: filepath.Join(op.sysfsRoot, ifc, "statistics"),
	}
}

func (s *SysfsSource) Name() string { return "sysfs" }

// Read emits the counters in reverse-alphabetical file name order.
func (s *SysfsSource) Read(ctx context.Context) ([]byte, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("could not list %q: %w", s.dir, err)
	}
	slices.Reverse(entries)

	var buf bytes.Buffer
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.IsDir() {
			continue
		}

		b, err := os.ReadFile(filepath.Join(s.dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("could not read %q: %w", e.Name(), err)
		}
		fmt.Fprintf(&buf, "%s:%s\n", e.Name(), bytes.TrimSpace(b))
	}
	return buf.Bytes(), nil
}
