package utils

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// SecondsPerDay is the length of a service day without overflow.
const SecondsPerDay = 24 * 3600

// SecondsToClock formats seconds since midnight as HH:MM. Hours are not
// wrapped, so GTFS times past midnight render as 24:xx, 25:xx.
func SecondsToClock(t int) string {
	sign := ""
	if t < 0 {
		sign = "-"
		t = -t
	}
	return fmt.Sprintf("%s%02d:%02d", sign, t/3600, (t%3600)/60)
}

// ParseClock parses a GTFS HH:MM:SS (or H:MM:SS, or HH:MM) time into
// seconds since midnight. Hours above 23 are allowed.
func ParseClock(s string) (int, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}
	var fields [3]int
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 {
			return 0, fmt.Errorf("invalid clock time %q", s)
		}
		if i > 0 && v > 59 {
			return 0, fmt.Errorf("invalid clock time %q", s)
		}
		fields[i] = v
	}
	return fields[0]*3600 + fields[1]*60 + fields[2], nil
}

// ServiceSpan formats the first and last of starts as "HH:MM - HH:MM".
// It returns "" for no starts.
func ServiceSpan(starts []int) string {
	if len(starts) == 0 {
		return ""
	}
	return SecondsToClock(slices.Min(starts)) + " - " + SecondsToClock(slices.Max(starts))
}
