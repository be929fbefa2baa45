package statwatch

import (
	"github.com/corigine/nfptool/pkg/counters"
)

// State is the watcher state.
type State int

const (
	// StatePolling means the last read succeeded.
	StatePolling State = iota
	// StateRecovering means the last read failed and all history was dropped.
	StateRecovering
)

func (s State) String() string {
	switch s {
	case StatePolling:
		return "polling"
	case StateRecovering:
		return "recovering"
	default:
		return "unknown"
	}
}

// Row is one displayed counter.
type Row struct {
	Key string
	// Rate is the change since the previous poll. Negative after a counter reset.
	Rate int64
	// Session is the change since the key was first seen in this run.
	Session int64
	Total   uint64
}

// Idle is true when the counter did not move since the previous poll.
func (r Row) Idle() bool {
	return r.Rate == 0
}

// Sampler keeps the per-counter history between polls.
// It is not safe for concurrent use.
type Sampler struct {
	filters *FilterSet

	lastSeen        map[string]uint64
	sessionBaseline map[string]uint64

	state State
}

func NewSampler(filters *FilterSet) *Sampler {
	return &Sampler{
		filters:         filters,
		lastSeen:        make(map[string]uint64),
		sessionBaseline: make(map[string]uint64),
		state:           StatePolling,
	}
}

func (s *Sampler) State() State {
	return s.state
}

// Update folds a fresh sample into the history and returns the rows to
// display, in the sample's key order.
//
// A key seen for the first time only seeds the history. Filtered keys and
// keys whose current value is zero are not returned, but their last seen
// value is still updated.
func (s *Sampler) Update(sample *counters.Sample) []Row {
	s.state = StatePolling

	rows := make([]Row, 0, sample.Len())
	for _, key := range sample.Keys() {
		value, _ := sample.Get(key)

		last, seen := s.lastSeen[key]
		if !seen {
			s.lastSeen[key] = value
			s.sessionBaseline[key] = value
			continue
		}

		if s.filters.Match(key) && value != 0 {
			rows = append(rows, Row{
				Key: key,
				// unsigned wraparound keeps the signed difference exact
				Rate:    int64(value - last),
				Session: int64(value - s.sessionBaseline[key]),
				Total:   value,
			})
		}

		s.lastSeen[key] = value
	}
	return rows
}

// Reset drops all history after a failed read. Every key is new again on
// the next successful poll.
func (s *Sampler) Reset() {
	s.lastSeen = make(map[string]uint64)
	s.sessionBaseline = make(map[string]uint64)
	s.state = StateRecovering
}
