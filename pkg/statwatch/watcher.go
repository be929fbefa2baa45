package statwatch

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/muesli/termenv"

	"github.com/corigine/nfptool/pkg/counters"
	"github.com/corigine/nfptool/pkg/log"
)

type Op struct {
	sources []counters.Source
	profile termenv.Profile
	width   func() int
	now     func() time.Time
	sleep   func(context.Context, time.Duration) error
}

type OpOption func(*Op)

// WithSources replaces the sources derived from the config.
func WithSources(srcs ...counters.Source) OpOption {
	return func(op *Op) {
		op.sources = srcs
	}
}

// WithProfile sets the color profile. The default is termenv.Ascii.
func WithProfile(p termenv.Profile) OpOption {
	return func(op *Op) {
		op.profile = p
	}
}

// WithWidth sets the terminal width source, queried once per frame.
func WithWidth(f func() int) OpOption {
	return func(op *Op) {
		op.width = f
	}
}

func WithClock(now func() time.Time, sleep func(context.Context, time.Duration) error) OpOption {
	return func(op *Op) {
		op.now = now
		op.sleep = sleep
	}
}

func (op *Op) applyOpts(cfg *Config, w io.Writer, opts []OpOption) {
	op.profile = termenv.Ascii
	for _, opt := range opts {
		opt(op)
	}

	if op.sources == nil {
		op.sources = cfg.Sources()
	}
	if op.width == nil {
		op.width = func() int { return TerminalWidth(w) }
	}
	if op.now == nil {
		op.now = time.Now
	}
	if op.sleep == nil {
		op.sleep = sleepContext
	}
}

// Watcher runs the sample and redraw loop for one interface.
type Watcher struct {
	cfg Config
	op  Op

	sampler  *Sampler
	renderer *Renderer
	title    string
}

// New validates cfg and prepares a watcher that draws to w.
func New(cfg Config, w io.Writer, opts ...OpOption) (*Watcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	op := Op{}
	op.applyOpts(&cfg, w, opts)
	if len(op.sources) == 0 {
		return nil, ErrNoSources
	}

	names := make([]string, 0, len(op.sources))
	for _, src := range op.sources {
		names = append(names, src.Name())
	}

	return &Watcher{
		cfg:      cfg,
		op:       op,
		sampler:  NewSampler(cfg.Filters),
		renderer: NewRenderer(w, op.profile, cfg.Colors, cfg.DimIdle),
		title:    fmt.Sprintf("%s (%s, every %v)", cfg.Interface, strings.Join(names, " + "), cfg.interval()),
	}, nil
}

func (w *Watcher) State() State {
	return w.sampler.State()
}

// Step runs one poll: read all sources, update the history and draw a frame.
// A read failure resets the history, draws the failure notice and is
// returned to the caller.
func (w *Watcher) Step(ctx context.Context) error {
	sample, err := counters.Collect(ctx, w.op.sources...)
	if err != nil {
		w.sampler.Reset()
		if derr := w.renderer.DrawReadFailure(w.cfg.Interface); derr != nil {
			log.Logger.Debugw("failed to draw", "error", derr)
		}
		return err
	}

	rows := w.sampler.Update(sample)
	return w.renderer.Draw(w.title, w.op.width(), rows)
}

// Run polls until ctx is cancelled, then prints the exit status line.
// Read failures and slow cycles are not fatal.
func (w *Watcher) Run(ctx context.Context) error {
	interval := w.cfg.interval()
	next := w.op.now()

	for {
		if ctx.Err() != nil {
			return w.renderer.Exit()
		}

		if err := w.Step(ctx); err != nil {
			if ctx.Err() != nil {
				return w.renderer.Exit()
			}
			log.Logger.Debugw("failed to read stats", "interface", w.cfg.Interface, "error", err)

			if serr := w.op.sleep(ctx, w.cfg.retryPause()); serr != nil {
				return w.renderer.Exit()
			}
			next = w.op.now()
			continue
		}

		next = next.Add(interval)
		now := w.op.now()
		wait := next.Sub(now)
		if wait < 0 {
			log.Logger.Warnw("refresh time over interval", "interval", interval, "behind", -wait)
			next = now
			continue
		}
		if err := w.op.sleep(ctx, wait); err != nil {
			return w.renderer.Exit()
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
