package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadLocation(t *testing.T) {
	loc, err := LoadLocation("")
	require.NoError(t, err)
	assert.Equal(t, DefaultTimeZone, loc.String())

	loc, err = LoadLocation("Not/AZone")
	assert.Error(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestIsWeekend(t *testing.T) {
	helsinki, err := LoadLocation("Europe/Helsinki")
	require.NoError(t, err)

	// Friday 22:30 UTC is already Saturday in Helsinki.
	friNight := time.Date(2024, 10, 18, 22, 30, 0, 0, time.UTC)
	assert.False(t, IsWeekend(friNight, time.UTC))
	assert.True(t, IsWeekend(friNight, helsinki))

	monday := time.Date(2024, 10, 21, 12, 0, 0, 0, time.UTC)
	assert.False(t, IsWeekend(monday, helsinki))
}

func TestToPointer(t *testing.T) {
	p := ToPointer(24)
	require.NotNil(t, p)
	assert.Equal(t, 24, *p)
}
