package counters

const (
	// DefaultSysfsNetRoot is where the kernel exposes network interfaces.
	DefaultSysfsNetRoot = "/sys/class/net"

	// DefaultEthtoolPath is resolved against PATH at read time.
	DefaultEthtoolPath = "ethtool"
)

type Op struct {
	sysfsRoot   string
	ethtoolPath string
}

type OpOption func(*Op)

func (op *Op) applyOpts(opts []OpOption) {
	for _, opt := range opts {
		opt(op)
	}

	if op.sysfsRoot == "" {
		op.sysfsRoot = DefaultSysfsNetRoot
	}
	if op.ethtoolPath == "" {
		op.ethtoolPath = DefaultEthtoolPath
	}
}

// WithSysfsRoot overrides the "/sys/class/net" root, mainly for tests.
func WithSysfsRoot(dir string) OpOption {
	return func(op *Op) {
		op.sysfsRoot = dir
	}
}

// WithEthtoolPath overrides the ethtool binary.
func WithEthtoolPath(p string) OpOption {
	return func(op *Op) {
		op.ethtoolPath = p
	}
}
