package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	feedFetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "runchart",
			Subsystem: "feed",
			Name:      "fetches_total",
			Help:      "Total number of run history feed fetches by result.",
		},
		[]string{"result"},
	)
	feedFetchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "runchart",
			Subsystem: "feed",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of run history feed fetches.",
			Buckets:   prometheus.DefBuckets,
		},
	)
	feedRecords = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "runchart",
			Subsystem: "feed",
			Name:      "records",
			Help:      "Number of records parsed from the most recent feed load.",
		},
	)
	chartRendersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "runchart",
			Subsystem: "chart",
			Name:      "renders_total",
			Help:      "Total number of chart pages rendered by output format.",
		},
		[]string{"format"},
	)
	historySyncsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "runchart",
			Subsystem: "history",
			Name:      "syncs_total",
			Help:      "Total number of history sync cycles by result.",
		},
		[]string{"result"},
	)
	historyRunsAdded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "runchart",
			Subsystem: "history",
			Name:      "runs_added_total",
			Help:      "Total number of workflow runs appended to the history.",
		},
	)
)

func init() {
	Register()
}

// Register adds the collectors to the default registry once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			feedFetchesTotal,
			feedFetchDuration,
			feedRecords,
			chartRendersTotal,
			historySyncsTotal,
			historyRunsAdded,
		)
	})
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// ObserveFeedFetch records one feed fetch.
func ObserveFeedFetch(duration time.Duration, records int, err error) {
	feedFetchesTotal.WithLabelValues(result(err)).Inc()
	feedFetchDuration.Observe(duration.Seconds())
	if err == nil {
		feedRecords.Set(float64(records))
	}
}

// ObserveRender records one rendered chart page.
func ObserveRender(format string) {
	chartRendersTotal.WithLabelValues(format).Inc()
}

// ObserveHistorySync records one sync cycle and how many runs it appended.
func ObserveHistorySync(added int, err error) {
	historySyncsTotal.WithLabelValues(result(err)).Inc()
	historyRunsAdded.Add(float64(added))
}
