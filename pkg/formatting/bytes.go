// Package formatting provides parsing helpers for model output and
// human-readable byte sizes.
package formatting

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var units = []string{"B", "KB", "MB", "GB", "TB", "PB"}

var exponents = map[string]int{
	"": 0, "B": 0,
	"K": 1, "KB": 1, "KIB": 1,
	"M": 2, "MB": 2, "MIB": 2,
	"G": 3, "GB": 3, "GIB": 3,
	"T": 4, "TB": 4, "TIB": 4,
	"P": 5, "PB": 5, "PIB": 5,
}

var bytesPattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*([A-Za-z]*)$`)

// FormatBytes renders n with base-1024 units at the given precision.
func FormatBytes(n int64, precision int) string {
	if n <= 0 {
		return "0 B"
	}
	precision = max(precision, 0)

	i := int(math.Floor(math.Log(float64(n)) / math.Log(1024)))
	i = min(i, len(units)-1)

	size := float64(n) / math.Pow(1024, float64(i))
	return strconv.FormatFloat(size, 'f', precision, 64) + " " + units[i]
}

// ParseBytes parses sizes such as "2MB", "512 KiB", or "1048576".
// Units are base-1024 and case-insensitive. A bare number is bytes.
func ParseBytes(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty byte size string")
	}

	m := bytesPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid byte size: %q", s)
	}

	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid byte size number: %w", err)
	}

	exp, ok := exponents[strings.ToUpper(m[2])]
	if !ok {
		return 0, fmt.Errorf("unknown byte size unit: %q", m[2])
	}

	return int64(value * math.Pow(1024, float64(exp))), nil
}
