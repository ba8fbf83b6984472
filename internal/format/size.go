package format

import (
	"math"
	"strconv"
	"strings"
)

// GiB is one binary gigabyte.
const GiB = 1 << 30

var sizeUnits = []struct {
	suffix string
	mult   float64
}{
	// Longest suffixes first so "kb" is not matched as "b".
	{"kb", 1 << 10},
	{"mb", 1 << 20},
	{"gb", 1 << 30},
	{"tb", 1 << 40},
	{"pb", 1 << 50},
	{"b", 1},
}

// ParseSize converts an Elasticsearch human-readable size ("1.5gb", "512kb",
// "42b", or a bare byte count as returned with bytes=b) into bytes.
// Units are binary and case-insensitive. ok is false for empty, "-" or
// otherwise unparseable input, in which case the size is 0.
func ParseSize(s string) (int64, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "-" {
		return 0, false
	}

	mult := 1.0
	for _, u := range sizeUnits {
		if strings.HasSuffix(s, u.suffix) {
			mult = u.mult
			s = strings.TrimSpace(strings.TrimSuffix(s, u.suffix))
			break
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return int64(v * mult), true
}

// BytesToGiB converts a byte count to binary gigabytes.
func BytesToGiB(b int64) float64 {
	return float64(b) / GiB
}
