// Package parser turns the run history feed into run records.
package parser

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"workflow-runchart/internal/entity"
)

// fieldCount is the number of comma-separated fields in a feed line:
// timestamp,runNumber,runType,status,duration,version
const fieldCount = 6

var leadingFloat = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// Parse converts raw feed text into records ordered oldest to newest. The feed is
// newest-first, so line order is reversed. Blank lines are skipped; every other line
// yields exactly one record.
func Parse(raw string) []entity.RunRecord {
	lines := splitLines(raw)
	records := make([]entity.RunRecord, 0, len(lines))
	for i := len(lines) - 1; i >= 0; i-- {
		records = append(records, ParseLine(lines[i]))
	}
	return records
}

// ParseLine converts a single feed line. It never fails: an unparsable timestamp
// leaves the zero time, and an unparsable duration becomes 0.
func ParseLine(line string) entity.RunRecord {
	fields := strings.SplitN(strings.TrimSpace(line), ",", fieldCount)
	for len(fields) < fieldCount {
		fields = append(fields, "")
	}

	timestamp, _ := ParseTimestamp(fields[0])
	runType := entity.RunType(fields[2])
	status := fields[3]

	return entity.RunRecord{
		Timestamp:   timestamp,
		RunNumber:   fields[1],
		RunType:     runType,
		Status:      status,
		StatusLabel: entity.StatusLabel(status),
		Duration:    ParseDuration(fields[4]),
		Version:     fields[5],
		Color:       entity.ClassifyColor(status, runType),
	}
}

// ParseTimestamp parses an RFC 3339 timestamp. On failure it returns the zero time
// and false.
func ParseTimestamp(s string) (time.Time, bool) {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ParseDuration reads the leading number of a duration field such as "31s".
// Missing, non-numeric, negative or non-finite input yields 0.
func ParseDuration(s string) float64 {
	m := leadingFloat.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func splitLines(raw string) []string {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
