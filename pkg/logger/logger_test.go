package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	for _, level := range []string{"", "debug", "info", "WARN", "error"} {
		l, err := New(level, "json")
		require.NoError(t, err, level)
		require.NotNil(t, l)
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New("verbose", "json")
	assert.Error(t, err)
}

func TestFields(t *testing.T) {
	assert.Equal(t, "run_number", StringField("run_number", "46").Key)
	assert.Equal(t, "total", IntField("total", 3).Key)
	assert.Equal(t, "error", ErrorField(assert.AnError).Key)
	assert.Equal(t, "cursor", Field("cursor", 2).Key)
}
