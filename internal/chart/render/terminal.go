package render

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"workflow-runchart/internal/chart/adapter"
	"workflow-runchart/internal/entity"
	"workflow-runchart/pkg/common"
)

const (
	defaultBarCells = 40
	typeColumnWidth = 18
)

var (
	weekendTick = color.New(color.FgRed)
	barPalette  = map[entity.BarColor]*color.Color{
		entity.BarColorFailure:  color.New(color.FgRed),
		entity.BarColorManual:   color.New(color.FgBlue),
		entity.BarColorSchedule: color.New(color.FgCyan),
	}
	dim = color.New(color.Faint)
)

// TerminalRenderer draws the window as horizontal bars, one row per run.
type TerminalRenderer struct {
	BarCells int
}

// NewTerminal returns a terminal renderer with the default bar width.
func NewTerminal() *TerminalRenderer {
	return &TerminalRenderer{BarCells: defaultBarCells}
}

// ContentType returns the MIME type of the rendered output.
func (r *TerminalRenderer) ContentType() string { return "text/plain; charset=utf-8" }

// Render writes the header, one row per bar and the navigation hints.
func (r *TerminalRenderer) Render(w io.Writer, v *adapter.View) error {
	var b strings.Builder

	start, end := 0, 0
	if !v.Empty() {
		start, end = v.Cursor+1, v.Cursor+len(v.Values)
	}
	fmt.Fprintf(&b, "%s   runs %d-%d of %d\n", v.DatasetLabel, start, end, v.Total)
	if v.Empty() {
		b.WriteString("no runs to display\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	cells := r.BarCells
	if cells <= 0 {
		cells = defaultBarCells
	}
	maxValue := 0.0
	for _, value := range v.Values {
		maxValue = math.Max(maxValue, value)
	}

	for i, value := range v.Values {
		rec := v.Records[i]

		label := runewidth.FillRight(v.Labels[i], 12)
		if v.TickColors[i] == common.WeekendTickColor {
			label = weekendTick.Sprint(label)
		}

		n := 0
		if maxValue > 0 {
			n = int(math.Round(value / maxValue * float64(cells)))
		}
		bar := runewidth.FillRight(strings.Repeat("█", n), cells)
		if c, ok := barPalette[rec.Color]; ok {
			bar = c.Sprint(bar)
		}

		fmt.Fprintf(&b, "%s │%s %6ss  #%-5s %s %s\n",
			label,
			bar,
			adapter.FormatNumber(value),
			rec.RunNumber,
			runewidth.FillRight(runewidth.Truncate(string(rec.RunType), typeColumnWidth, "…"), typeColumnWidth),
			rec.StatusLabel,
		)
	}

	b.WriteString(dim.Sprint(navHint(v)))
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func navHint(v *adapter.View) string {
	prev, next := "      ", "      "
	if v.CanBackward {
		prev = "← prev"
	}
	if v.CanForward {
		next = "next →"
	}
	return prev + "   " + next + "   q quit"
}
