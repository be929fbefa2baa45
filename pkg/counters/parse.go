package counters

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/corigine/nfptool/pkg/log"
)

// ParseLine parses one "key: value" or "key:value" line.
// It returns false for lines that are not exactly one key/value pair, have
// an empty key or value, or carry a value that is not a base-10 unsigned
// integer (e.g., the "NIC statistics:" header of "ethtool -S").
func ParseLine(line string) (string, uint64, bool) {
	parts := strings.Split(line, ":")
	if len(parts) != 2 || parts[1] == "" {
		return "", 0, false
	}

	key := strings.TrimSpace(parts[0])
	raw := strings.TrimSpace(parts[1])
	if key == "" || raw == "" {
		return "", 0, false
	}

	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return "", 0, false
	}
	return key, value, true
}

// Parse adds every well-formed line in b to the sample, in line order,
// and returns the number of lines it skipped.
// Lines have no length limit; an oversized line is skipped like any other
// malformed line.
func Parse(s *Sample, b []byte) int {
	skipped := 0

	for _, raw := range bytes.Split(b, []byte("\n")) {
		line := string(bytes.TrimSuffix(raw, []byte("\r")))
		if strings.TrimSpace(line) == "" {
			continue
		}

		key, value, ok := ParseLine(line)
		if !ok {
			skipped++
			log.Logger.Debugw("skipping counter line", "line", truncate(line, maxLoggedLine))
			continue
		}
		s.Set(key, value)
	}

	return skipped
}

const maxLoggedLine = 256

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
