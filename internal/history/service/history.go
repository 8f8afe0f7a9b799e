package service

import (
	"fmt"
	"slices"
	"strings"

	"workflow-runchart/internal/entity"
)

// History is the run history file held newest first by run number.
type History struct {
	items []entity.HistoryItem
	runs  map[int]struct{}
}

// ParseHistory parses the stored file. Blank lines are ignored; any other malformed
// line is an error so a sync never overwrites a file it could not read.
func ParseHistory(content string) (*History, error) {
	h := &History{runs: make(map[int]struct{})}
	for i, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		item, err := entity.ParseHistoryItem(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		h.items = append(h.items, item)
		h.runs[item.RunNumber] = struct{}{}
	}
	return h, nil
}

// Contains reports whether the run number is already recorded.
func (h *History) Contains(runNumber int) bool {
	_, ok := h.runs[runNumber]
	return ok
}

// Add merges items that are not yet recorded and keeps the history sorted by run
// number descending. It returns the number of items added.
func (h *History) Add(items ...entity.HistoryItem) int {
	added := 0
	for _, item := range items {
		if h.Contains(item.RunNumber) {
			continue
		}
		h.items = append(h.items, item)
		h.runs[item.RunNumber] = struct{}{}
		added++
	}
	slices.SortStableFunc(h.items, func(a, b entity.HistoryItem) int {
		return b.RunNumber - a.RunNumber
	})
	return added
}

// Items returns the recorded items, newest first.
func (h *History) Items() []entity.HistoryItem {
	return slices.Clone(h.items)
}

// Len returns the number of recorded runs.
func (h *History) Len() int {
	return len(h.items)
}

func (h *History) String() string {
	lines := make([]string, len(h.items))
	for i, item := range h.items {
		lines[i] = item.String()
	}
	return strings.Join(lines, "\n")
}
