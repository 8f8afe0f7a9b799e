// Package adapter turns the visible window of records into the data, colours and
// hook outputs a bar chart renderer consumes.
package adapter

import (
	"fmt"
	"strconv"
	"time"

	"workflow-runchart/internal/chart/pagination"
	"workflow-runchart/internal/entity"
	"workflow-runchart/pkg/common"
	"workflow-runchart/pkg/utils"
)

const (
	shortLayout = "01/02 15:04"
	longLayout  = "Mon 2006-01-02 15:04:05"
)

// Options controls how window values are formatted.
type Options struct {
	Location *time.Location
}

func (o Options) location() *time.Location {
	if o.Location == nil {
		return time.UTC
	}
	return o.Location
}

// Tooltip is the hover content of one bar.
type Tooltip struct {
	Title string   `json:"title"`
	Lines []string `json:"lines"`
}

// View is everything a renderer needs for one page of the chart.
type View struct {
	DatasetLabel  string             `json:"dataset_label"`
	Labels        []string           `json:"labels"`
	Values        []float64          `json:"values"`
	FillColors    []string           `json:"fill_colors"`
	OutlineColors []string           `json:"outline_colors"`
	TickColors    []string           `json:"tick_colors"`
	Tooltips      []Tooltip          `json:"tooltips"`
	Records       []entity.RunRecord `json:"records"`
	Cursor        int                `json:"cursor"`
	PageSize      int                `json:"page_size"`
	Total         int                `json:"total"`
	CanBackward   bool               `json:"can_backward"`
	CanForward    bool               `json:"can_forward"`
	PrevCursor    int                `json:"prev_cursor"`
	NextCursor    int                `json:"next_cursor"`
}

// Empty reports whether there is nothing to draw.
func (v *View) Empty() bool {
	return len(v.Values) == 0
}

// Build slices the paginator's window out of records and formats it.
func Build(records []entity.RunRecord, p *pagination.Paginator, opts Options) *View {
	loc := opts.location()
	start, end := p.Window()
	window := records[start:end]

	v := &View{
		DatasetLabel:  fmt.Sprintf("Duration (%s) - Time (%s)", common.DurationUnit, loc.String()),
		Labels:        make([]string, len(window)),
		Values:        make([]float64, len(window)),
		FillColors:    make([]string, len(window)),
		OutlineColors: make([]string, len(window)),
		TickColors:    make([]string, len(window)),
		Tooltips:      make([]Tooltip, len(window)),
		Records:       window,
		Cursor:        p.Cursor(),
		PageSize:      p.PageSize(),
		Total:         p.Total(),
		CanBackward:   p.CanBackward(),
		CanForward:    p.CanForward(),
		PrevCursor:    stepCursor(p, (*pagination.Paginator).Backward),
		NextCursor:    stepCursor(p, (*pagination.Paginator).Forward),
	}

	for i, r := range window {
		v.Labels[i] = FormatShort(r.Timestamp, loc)
		v.Values[i] = r.Duration
		v.FillColors[i] = string(r.Color)
		v.OutlineColors[i] = r.Color.Opaque()
		v.TickColors[i] = TickColor(window, i, loc)
		v.Tooltips[i] = TooltipFor(window, i, loc)
	}
	return v
}

// TickColor returns the axis tick colour for bar i: weekend runs stand out.
func TickColor(window []entity.RunRecord, i int, loc *time.Location) string {
	if i < 0 || i >= len(window) || !window[i].HasTimestamp() {
		return common.DefaultTickColor
	}
	if utils.IsWeekend(window[i].Timestamp, loc) {
		return common.WeekendTickColor
	}
	return common.DefaultTickColor
}

// TooltipFor returns the hover title and lines for bar i.
func TooltipFor(window []entity.RunRecord, i int, loc *time.Location) Tooltip {
	if i < 0 || i >= len(window) {
		return Tooltip{}
	}
	r := window[i]
	return Tooltip{
		Title: FormatLong(r.Timestamp, loc),
		Lines: []string{
			"Run number: " + r.RunNumber,
			fmt.Sprintf("Duration: %s %s", FormatNumber(r.Duration), common.DurationUnit),
			"Type: " + string(r.RunType),
			"Status: " + r.StatusLabel,
		},
	}
}

// FormatShort renders a tick label such as "10/19 00:43".
func FormatShort(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return common.InvalidDateLabel
	}
	return t.In(loc).Format(shortLayout)
}

// FormatLong renders a tooltip title such as "Sat 2024-10-19 00:43:46".
func FormatLong(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return common.InvalidDateLabel
	}
	return t.In(loc).Format(longLayout)
}

// FormatNumber prints a duration without trailing zeros.
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// stepCursor reports where one navigation step would land without moving p.
func stepCursor(p *pagination.Paginator, step func(*pagination.Paginator)) int {
	probe := pagination.New(p.Total(), p.PageSize())
	probe.Seek(p.Cursor())
	step(probe)
	return probe.Cursor()
}
