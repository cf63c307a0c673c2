package daemon

// Shutdown priorities of the background workers. Lower values shut down
// later.
const (
	PriorityCloseDatabase = iota
	PriorityFlushToDatabase
	PriorityEngine
	PriorityMetricsUpdater
	PriorityPrometheus
)
