package statwatch

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/corigine/nfptool/pkg/log"
)

func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()

	core, logs := observer.New(zapcore.DebugLevel)
	prev := log.Logger
	log.Logger = log.NewLogger(zap.New(core))
	t.Cleanup(func() { log.Logger = prev })
	return logs
}

type fakeClock struct {
	now       time.Time
	sleeps    []time.Duration
	maxSleeps int
	cancel    context.CancelFunc
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
	if len(c.sleeps) >= c.maxSleeps {
		c.cancel()
		return ctx.Err()
	}
	return nil
}

type poll struct {
	out  string
	err  error
	cost time.Duration
}

// scriptedSource replays one poll per Read and advances the clock by the
// poll's cost.
type scriptedSource struct {
	clock *fakeClock
	polls []poll
	reads int
}

func (s *scriptedSource) Name() string { return "fake" }

func (s *scriptedSource) Read(context.Context) ([]byte, error) {
	p := s.polls[s.reads%len(s.polls)]
	s.reads++
	s.clock.now = s.clock.now.Add(p.cost)
	return []byte(p.out), p.err
}

func newTestWatcher(t *testing.T, polls []poll, maxSleeps int) (*Watcher, *fakeClock, *scriptedSource, *bytes.Buffer, context.Context) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	clock := &fakeClock{now: time.Unix(1700000000, 0), maxSleeps: maxSleeps, cancel: cancel}
	src := &scriptedSource{clock: clock, polls: polls}

	var buf bytes.Buffer
	w, err := New(
		Config{Interface: "enp1s0np0", Sysfs: true},
		&buf,
		WithSources(src),
		WithWidth(func() int { return 80 }),
		WithClock(clock.Now, clock.Sleep),
	)
	require.NoError(t, err)
	return w, clock, src, &buf, ctx
}

func rowLines(out string, key string) []string {
	var lines []string
	for _, l := range strings.Split(out, "\n") {
		if strings.HasPrefix(l, key+" ") {
			lines = append(lines, l)
		}
	}
	return lines
}

func TestNewValidation(t *testing.T) {
	_, err := New(Config{Sysfs: true}, &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrInterfaceRequired)

	_, err = New(Config{Interface: "enp1s0np0"}, &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrNoSources)

	_, err = New(Config{Interface: "enp1s0np0", Sysfs: true, Interval: -time.Second}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestRunKeepsCadence(t *testing.T) {
	logs := observeLogs(t)
	polls := []poll{{out: "rx_packets: 1\n", cost: 100 * time.Millisecond}}
	w, clock, src, buf, ctx := newTestWatcher(t, polls, 3)

	require.NoError(t, w.Run(ctx))

	assert.Equal(t, 3, src.reads)
	assert.Equal(t, []time.Duration{900 * time.Millisecond, 900 * time.Millisecond, 900 * time.Millisecond}, clock.sleeps)
	assert.True(t, strings.HasSuffix(buf.String(), " Exiting...\n"))
	assert.Zero(t, logs.FilterLevelExact(zapcore.WarnLevel).Len())
}

func TestRunOverrunRebases(t *testing.T) {
	polls := []poll{
		{out: "rx_packets: 1\n", cost: 100 * time.Millisecond},
		{out: "rx_packets: 2\n", cost: 1500 * time.Millisecond},
		{out: "rx_packets: 3\n", cost: 100 * time.Millisecond},
	}
	logs := observeLogs(t)
	w, clock, src, _, ctx := newTestWatcher(t, polls, 2)

	require.NoError(t, w.Run(ctx))

	// the slow poll skips its sleep, and the next boundary is measured
	// from the end of the slow poll, not from the missed one
	assert.Equal(t, 3, src.reads)
	assert.Equal(t, []time.Duration{900 * time.Millisecond, 900 * time.Millisecond}, clock.sleeps)

	warns := logs.FilterLevelExact(zapcore.WarnLevel)
	require.Equal(t, 1, warns.Len())
	e := warns.All()[0]
	assert.Equal(t, "refresh time over interval", e.Message)
	assert.Equal(t, time.Second, e.ContextMap()["interval"])
	assert.Equal(t, 500*time.Millisecond, e.ContextMap()["behind"])
}

func TestRunRecoversFromReadFailure(t *testing.T) {
	logs := observeLogs(t)
	polls := []poll{
		{out: "rx_packets: 10\n"},
		{out: "rx_packets: 20\n"},
		{err: errors.New("no such device")},
		{out: "rx_packets: 30\n"},
		{out: "rx_packets: 40\n"},
	}
	w, clock, src, buf, ctx := newTestWatcher(t, polls, 5)

	require.NoError(t, w.Run(ctx))

	assert.Equal(t, 5, src.reads)
	assert.Equal(t, []time.Duration{time.Second, time.Second, DefaultRetryPause, time.Second, time.Second}, clock.sleeps)

	out := buf.String()
	assert.Contains(t, out, "Reading stats from device enp1s0np0 failed\n")

	// the poll right after the failure is a first sight and has no row
	rows := rowLines(out, "rx_packets")
	require.Len(t, rows, 2)
	assert.True(t, strings.HasSuffix(rows[0], " 20"))
	assert.True(t, strings.HasSuffix(rows[1], " 40"))
	assert.Equal(t, 2, strings.Count(rows[1], " 10 "), "rate and session restart from the new baseline: %q", rows[1])
	assert.Equal(t, StatePolling, w.State())

	// a recovered read does not count as an overrun
	assert.Zero(t, logs.FilterLevelExact(zapcore.WarnLevel).Len())
	assert.Equal(t, 1, logs.FilterMessage("failed to read stats").Len())
}

func TestStepFailureResetsState(t *testing.T) {
	polls := []poll{
		{out: "rx_packets: 10\n"},
		{err: errors.New("permission denied")},
	}
	w, _, _, _, ctx := newTestWatcher(t, polls, 100)

	require.NoError(t, w.Step(ctx))
	assert.Equal(t, StatePolling, w.State())

	err := w.Step(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "permission denied")
	assert.Equal(t, StateRecovering, w.State())
	assert.Empty(t, w.sampler.lastSeen)
}

func TestRunCancelledBeforeStart(t *testing.T) {
	w, _, src, buf, ctx := newTestWatcher(t, []poll{{out: "rx_packets: 1\n"}}, 1)
	ctx, cancel := context.WithCancel(ctx)
	cancel()

	require.NoError(t, w.Run(ctx))
	assert.Equal(t, 0, src.reads)
	assert.Equal(t, " Exiting...\n", buf.String())
}
