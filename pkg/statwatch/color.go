package statwatch

import (
	"strings"

	"github.com/muesli/termenv"
)

// DefaultColor is used for counters that match no rule.
const DefaultColor = termenv.ANSIWhite

// ColorRule colors counters whose key contains Substring.
type ColorRule struct {
	Substring string
	Color     termenv.ANSIColor
}

// ColorRules are evaluated in order; the first match wins.
type ColorRules []ColorRule

var (
	DiscardColorRules = ColorRules{
		{Substring: "discard", Color: termenv.ANSIYellow},
		{Substring: "drop", Color: termenv.ANSIYellow},
	}
	ErrorColorRules = ColorRules{
		{Substring: "error", Color: termenv.ANSIRed},
		{Substring: "illegal", Color: termenv.ANSIRed},
		{Substring: "fault", Color: termenv.ANSIRed},
	}
	RxColorRules = ColorRules{
		{Substring: "rx", Color: termenv.ANSIGreen},
	}
	TxColorRules = ColorRules{
		{Substring: "tx", Color: termenv.ANSICyan},
	}
)

// AllColorRules enables every color group. Discards and errors come first
// so that "rx_errors" is colored as an error, not as receive traffic.
func AllColorRules() ColorRules {
	var rules ColorRules
	rules = append(rules, DiscardColorRules...)
	rules = append(rules, ErrorColorRules...)
	rules = append(rules, RxColorRules...)
	rules = append(rules, TxColorRules...)
	return rules
}

// Resolve returns the color for key.
func (rules ColorRules) Resolve(key string) termenv.ANSIColor {
	for _, r := range rules {
		if strings.Contains(key, r.Substring) {
			return r.Color
		}
	}
	return DefaultColor
}
