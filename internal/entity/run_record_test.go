package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyColor(t *testing.T) {
	tests := []struct {
		status  string
		runType RunType
		want    BarColor
	}{
		{"failure", RunTypeDispatch, BarColorFailure},
		{"cancelled", RunTypeSchedule, BarColorFailure},
		{"failure", "push", BarColorFailure},
		{"success", RunTypeDispatch, BarColorManual},
		{"success", RunTypeSchedule, BarColorSchedule},
		{"success", "push", BarColorSchedule},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyColor(tt.status, tt.runType), "%s/%s", tt.status, tt.runType)
	}
}

func TestOpaque(t *testing.T) {
	assert.Equal(t, "rgba(255, 99, 132, 1)", BarColorFailure.Opaque())
	assert.Equal(t, "rgba(54, 162, 235, 1)", BarColorManual.Opaque())
	assert.Equal(t, "rgba(75, 192, 192, 1)", BarColorSchedule.Opaque())
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "✅success", StatusLabel("success"))
	assert.Equal(t, "⚠️failure", StatusLabel("failure"))
	assert.Equal(t, "⚠️", StatusLabel(""))
}
