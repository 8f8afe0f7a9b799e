package entity

import (
	"fmt"
	"strconv"
	"strings"
)

// HistoryItem is one line of the run history file as the collector writes it:
// started_at,run_number,event,conclusion,<seconds>s,v<version>
type HistoryItem struct {
	StartedAt  string
	RunNumber  int
	Event      string
	Conclusion string
	Duration   string
	Version    string
}

// ParseHistoryItem parses a line strictly; every field must be present and the run
// number must be an integer.
func ParseHistoryItem(line string) (HistoryItem, error) {
	fields := strings.Split(line, ",")
	if len(fields) != 6 {
		return HistoryItem{}, fmt.Errorf("history line %q: expected 6 fields, got %d", line, len(fields))
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	runNumber, err := strconv.Atoi(fields[1])
	if err != nil {
		return HistoryItem{}, fmt.Errorf("history line %q: invalid run number: %w", line, err)
	}
	return HistoryItem{
		StartedAt:  fields[0],
		RunNumber:  runNumber,
		Event:      fields[2],
		Conclusion: fields[3],
		Duration:   fields[4],
		Version:    fields[5],
	}, nil
}

// String formats the item as a history line.
func (h HistoryItem) String() string {
	return strings.Join([]string{
		h.StartedAt,
		strconv.Itoa(h.RunNumber),
		h.Event,
		h.Conclusion,
		h.Duration,
		h.Version,
	}, ",")
}
