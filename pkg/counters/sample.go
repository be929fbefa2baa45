// Package counters reads named network interface counters from sysfs, from
// "ethtool -S" output, or from the ethtool ioctl, and parses them into an
// ordered sample.
package counters

// Sample is one poll worth of counters.
// Keys keep the order in which they were first encountered.
// The zero value is an empty sample ready to use.
type Sample struct {
	keys   []string
	values map[string]uint64
}

func NewSample() *Sample {
	return &Sample{values: make(map[string]uint64)}
}

// Set records a counter value.
// A key that is already present keeps its position and takes the new value.
func (s *Sample) Set(key string, value uint64) {
	if s.values == nil {
		s.values = make(map[string]uint64)
	}
	if _, ok := s.values[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.values[key] = value
}

func (s *Sample) Get(key string) (uint64, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Keys returns the counter keys in encounter order.
func (s *Sample) Keys() []string {
	return s.keys
}

func (s *Sample) Len() int {
	return len(s.keys)
}
