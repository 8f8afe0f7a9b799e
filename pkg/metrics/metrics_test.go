package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveFeedFetch(t *testing.T) {
	before := testutil.ToFloat64(feedFetchesTotal.WithLabelValues("error"))
	ObserveFeedFetch(time.Millisecond, 0, errors.New("boom"))
	assert.Equal(t, before+1, testutil.ToFloat64(feedFetchesTotal.WithLabelValues("error")))

	ObserveFeedFetch(time.Millisecond, 42, nil)
	assert.Equal(t, 42.0, testutil.ToFloat64(feedRecords))
}

func TestObserveHistorySync(t *testing.T) {
	before := testutil.ToFloat64(historyRunsAdded)
	ObserveHistorySync(3, nil)
	assert.Equal(t, before+3, testutil.ToFloat64(historyRunsAdded))
}
