package counters

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"sort"

	"github.com/safchain/ethtool"
)

var _ Source = (*CommandSource)(nil)

// CommandSource runs "ethtool -S <ifc>".
type CommandSource struct {
	ifc         string
	ethtoolPath string
}

func NewCommandSource(ifc string, opts ...OpOption) *CommandSource {
	op := &Op{}
	op.applyOpts(opts)
	return &CommandSource{
		ifc:         ifc,
		ethtoolPath: op.ethtoolPath,
	}
}

func (s *CommandSource) Name() string { return "ethtool -S" }

func (s *CommandSource) Read(ctx context.Context) ([]byte, error) {
	p, err := exec.LookPath(s.ethtoolPath)
	if err != nil {
		return nil, fmt.Errorf("ethtool not found (%w)", err)
	}
	b, err := exec.CommandContext(ctx, p, "-S", s.ifc).Output()
	if err != nil {
		return nil, err
	}
	return b, nil
}

var _ Source = (*IoctlSource)(nil)

// IoctlSource queries the driver statistics through the ethtool ioctl,
// which returns the same counters as "ethtool -S" without a fork per poll.
type IoctlSource struct {
	ifc   string
	stats func(ifc string) (map[string]uint64, error)
}

func NewIoctlSource(ifc string) *IoctlSource {
	return &IoctlSource{
		ifc:   ifc,
		stats: readEthtoolStats,
	}
}

func (s *IoctlSource) Name() string { return "ethtool ioctl" }

func (s *IoctlSource) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	stats, err := s.stats(s.ifc)
	if err != nil {
		return nil, err
	}
	return formatStats(stats), nil
}

// readEthtoolStats opens a fresh handle per poll so nothing is held
// between cycles.
func readEthtoolStats(ifc string) (map[string]uint64, error) {
	e, err := ethtool.NewEthtool()
	if err != nil {
		return nil, err
	}
	defer e.Close()

	return e.Stats(ifc)
}

// formatStats renders the map as "key: value" lines sorted by key,
// since the ioctl result carries no order of its own.
func formatStats(stats map[string]uint64) []byte {
	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	for _, k := range keys {
		fmt.Fprintf(&buf, "%s: %d\n", k, stats[k])
	}
	return buf.Bytes()
}
