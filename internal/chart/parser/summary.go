package parser

import "workflow-runchart/internal/entity"

// Summary aggregates a set of records for page headers and the JSON API.
type Summary struct {
	Total        int     `json:"total"`
	Failures     int     `json:"failures"`
	Manual       int     `json:"manual"`
	Scheduled    int     `json:"scheduled"`
	MeanDuration float64 `json:"mean_duration"`
	Latest       string  `json:"latest_version,omitempty"`
}

// Summarize counts records by outcome and trigger.
func Summarize(records []entity.RunRecord) Summary {
	s := Summary{Total: len(records)}
	var sum float64
	for _, r := range records {
		sum += r.Duration
		if !r.Succeeded() {
			s.Failures++
		}
		switch {
		case r.RunType.IsManual():
			s.Manual++
		case r.RunType == entity.RunTypeSchedule:
			s.Scheduled++
		}
	}
	if s.Total > 0 {
		s.MeanDuration = sum / float64(s.Total)
		s.Latest = records[s.Total-1].Version
	}
	return s
}
