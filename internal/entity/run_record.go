package entity

import (
	"strings"
	"time"

	"workflow-runchart/pkg/common"
)

// RunType is the event that triggered a workflow run.
type RunType string

const (
	RunTypeSchedule RunType = common.EventSchedule
	RunTypeDispatch RunType = common.EventDispatch
)

// IsManual reports whether the run was started by a manual dispatch.
func (t RunType) IsManual() bool {
	return t == RunTypeDispatch
}

// BarColor is the fill colour classification of a run.
type BarColor string

const (
	BarColorFailure  BarColor = "rgba(255, 99, 132, 0.5)"
	BarColorManual   BarColor = "rgba(54, 162, 235, 0.5)"
	BarColorSchedule BarColor = "rgba(75, 192, 192, 0.5)"
)

// Opaque returns the full-opacity variant used for bar outlines.
func (c BarColor) Opaque() string {
	return strings.Replace(string(c), "0.5", "1", 1)
}

// ClassifyColor derives the bar colour from a run's status and type.
func ClassifyColor(status string, runType RunType) BarColor {
	switch {
	case status != common.StatusSuccess:
		return BarColorFailure
	case runType.IsManual():
		return BarColorManual
	default:
		return BarColorSchedule
	}
}

// StatusLabel prefixes the status with a check or warning glyph.
func StatusLabel(status string) string {
	if status == common.StatusSuccess {
		return "✅" + status
	}
	return "⚠️" + status
}

// RunRecord is one parsed line of the run history feed.
type RunRecord struct {
	Timestamp   time.Time `json:"timestamp"`
	RunNumber   string    `json:"run_number"`
	RunType     RunType   `json:"run_type"`
	Status      string    `json:"status"`
	StatusLabel string    `json:"status_label"`
	Duration    float64   `json:"duration"` // seconds
	Version     string    `json:"version"`
	Color       BarColor  `json:"color"`
}

// Succeeded reports whether the run concluded successfully.
func (r RunRecord) Succeeded() bool {
	return r.Status == common.StatusSuccess
}

// HasTimestamp reports whether the timestamp field parsed.
func (r RunRecord) HasTimestamp() bool {
	return !r.Timestamp.IsZero()
}
