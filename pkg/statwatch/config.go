// Package statwatch implements a terminal watcher that samples interface
// counters at a fixed interval and displays per-interval rate, delta since
// the session started, and raw totals.
package statwatch

import (
	"errors"
	"fmt"
	"time"

	"github.com/corigine/nfptool/pkg/counters"
)

const (
	DefaultInterval   = time.Second
	DefaultRetryPause = 500 * time.Millisecond
)

var (
	ErrInterfaceRequired = errors.New("interface name is required")
	ErrNoSources         = errors.New("at least one counter source must be enabled")
)

// Config is built once from the command line and never modified after the
// watcher starts.
type Config struct {
	// Interface is the netdev to watch (e.g., "enp1s0np0").
	Interface string

	// Sysfs enables "/sys/class/net/<ifc>/statistics".
	Sysfs bool
	// Ethtool enables the driver statistics ("ethtool -S").
	Ethtool bool
	// EthtoolIoctl reads the driver statistics through the ioctl instead of
	// running the ethtool binary. Only meaningful with Ethtool.
	EthtoolIoctl bool

	// SysfsRoot overrides "/sys/class/net".
	SysfsRoot string
	// EthtoolPath overrides the ethtool binary.
	EthtoolPath string

	Filters *FilterSet
	Colors  ColorRules
	// DimIdle renders counters that did not move this interval faint.
	DimIdle bool

	// Interval between frames. Zero means DefaultInterval.
	Interval time.Duration
	// RetryPause is the wait after a failed read. Zero means DefaultRetryPause.
	RetryPause time.Duration
}

func (cfg *Config) Validate() error {
	if cfg.Interface == "" {
		return ErrInterfaceRequired
	}
	if !cfg.Sysfs && !cfg.Ethtool {
		return ErrNoSources
	}
	if cfg.Interval < 0 {
		return fmt.Errorf("interval must not be negative, got %v", cfg.Interval)
	}
	if cfg.RetryPause < 0 {
		return fmt.Errorf("retry pause must not be negative, got %v", cfg.RetryPause)
	}
	return nil
}

func (cfg *Config) interval() time.Duration {
	if cfg.Interval == 0 {
		return DefaultInterval
	}
	return cfg.Interval
}

func (cfg *Config) retryPause() time.Duration {
	if cfg.RetryPause == 0 {
		return DefaultRetryPause
	}
	return cfg.RetryPause
}

// Sources returns the enabled counter sources, sysfs first.
func (cfg *Config) Sources() []counters.Source {
	opts := []counters.OpOption{
		counters.WithSysfsRoot(cfg.SysfsRoot),
		counters.WithEthtoolPath(cfg.EthtoolPath),
	}

	var srcs []counters.Source
	if cfg.Sysfs {
		srcs = append(srcs, counters.NewSysfsSource(cfg.Interface, opts...))
	}
	if cfg.Ethtool {
		if cfg.EthtoolIoctl {
			srcs = append(srcs, counters.NewIoctlSource(cfg.Interface))
		} else {
			srcs = append(srcs, counters.NewCommandSource(cfg.Interface, opts...))
		}
	}
	return srcs
}
