// Package render draws an adapter.View onto concrete surfaces.
package render

import (
	"errors"
	"io"

	"workflow-runchart/internal/chart/adapter"
)

// ErrEmptyView is returned by renderers that cannot draw a chart without bars.
var ErrEmptyView = errors.New("no runs to render")

// Renderer draws one page of the chart.
type Renderer interface {
	Render(w io.Writer, v *adapter.View) error
	ContentType() string
}
