package render

import (
	"fmt"
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"workflow-runchart/internal/chart/adapter"
)

const (
	barWidth   = 28
	barSpacing = 12
	imgHeight  = 420
)

// ImageRenderer draws the chart as an SVG or PNG bar chart through go-chart.
// Tick colours are not supported by go-chart's bar chart, so every label uses the
// axis style.
type ImageRenderer struct {
	provider    chart.RendererProvider
	contentType string
}

// NewSVG returns a renderer producing SVG documents.
func NewSVG() *ImageRenderer {
	return &ImageRenderer{provider: chart.SVG, contentType: "image/svg+xml"}
}

// NewPNG returns a renderer producing PNG images.
func NewPNG() *ImageRenderer {
	return &ImageRenderer{provider: chart.PNG, contentType: "image/png"}
}

// ContentType returns the MIME type of the rendered output.
func (r *ImageRenderer) ContentType() string { return r.contentType }

// Render writes the visible window as a bar chart.
func (r *ImageRenderer) Render(w io.Writer, v *adapter.View) error {
	if v.Empty() {
		return ErrEmptyView
	}

	bars := make([]chart.Value, len(v.Values))
	maxValue := 0.0
	for i, value := range v.Values {
		maxValue = math.Max(maxValue, value)
		bars[i] = chart.Value{
			Label: v.Labels[i],
			Value: value,
			Style: chart.Style{
				FillColor:   ParseRGBA(v.FillColors[i]),
				StrokeColor: ParseRGBA(v.OutlineColors[i]),
				StrokeWidth: 1,
			},
		}
	}
	if maxValue <= 0 {
		maxValue = 1
	}

	bc := chart.BarChart{
		Title:      v.DatasetLabel,
		Width:      len(bars)*(barWidth+barSpacing) + 120,
		Height:     imgHeight,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.Style{TextRotationDegrees: 45, FontSize: 8},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: maxValue * 1.1},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f", f)
				}
				return ""
			},
		},
		Bars: bars,
	}

	if err := bc.Render(r.provider, w); err != nil {
		return fmt.Errorf("failed to render bar chart: %w", err)
	}
	return nil
}

// ParseRGBA converts a CSS "rgba(r, g, b, a)" string into a drawing colour. Anything
// else yields the transparent zero colour.
func ParseRGBA(s string) drawing.Color {
	var red, green, blue int
	var alpha float64
	if _, err := fmt.Sscanf(s, "rgba(%d, %d, %d, %g)", &red, &green, &blue, &alpha); err != nil {
		return drawing.Color{}
	}
	return drawing.Color{
		R: clampByte(float64(red)),
		G: clampByte(float64(green)),
		B: clampByte(float64(blue)),
		A: clampByte(alpha * 255),
	}
}

func clampByte(f float64) uint8 {
	return uint8(math.Max(0, math.Min(255, math.Round(f))))
}
