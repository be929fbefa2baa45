package statwatch

import (
	"fmt"
	"regexp"
)

// FilterSet selects which counters are displayed.
// A key passes when no include pattern is set or at least one matches,
// and no exclude pattern matches. Patterns are unanchored.
type FilterSet struct {
	include []*regexp.Regexp
	exclude []*regexp.Regexp
}

// NewFilterSet compiles the include and exclude patterns in order.
func NewFilterSet(include []string, exclude []string) (*FilterSet, error) {
	f := &FilterSet{}
	for _, p := range include {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid include pattern %q: %w", p, err)
		}
		f.include = append(f.include, re)
	}
	for _, p := range exclude {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", p, err)
		}
		f.exclude = append(f.exclude, re)
	}
	return f, nil
}

// Match reports whether key should be displayed.
// A nil FilterSet accepts everything.
func (f *FilterSet) Match(key string) bool {
	if f == nil {
		return true
	}
	for _, re := range f.exclude {
		if re.MatchString(key) {
			return false
		}
	}
	if len(f.include) == 0 {
		return true
	}
	for _, re := range f.include {
		if re.MatchString(key) {
			return true
		}
	}
	return false
}
