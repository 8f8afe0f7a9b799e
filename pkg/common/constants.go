package common

const (
	// DefaultPageSize is the number of bars shown per chart page.
	DefaultPageSize = 24

	RedisKeyChartSession = "runchart:session:%s"

	StatusSuccess     = "success"
	StatusCompleted   = "completed"
	EventSchedule     = "schedule"
	EventDispatch     = "workflow_dispatch"
	DurationUnit      = "seconds"
	InvalidDateLabel  = "Invalid Date"
	DefaultTickColor  = "#666"
	WeekendTickColor  = "red"
	HoverFillColor    = "rgba(255, 206, 86, 0.2)"
	HoverOutlineColor = "rgba(255, 206, 86, 1)"
)
