// Package batch implements the configuration-governed batch execution engine:
// the durable task-entry text format, the planner that expands user rows into
// fully-specified jobs, and the sequential background runner with cooperative
// cancellation.
package batch

// TaskEntry is one user-edited row of a batch plan. Voice and Output are
// optional; the planner fills them from configured defaults.
type TaskEntry struct {
	Text   string
	Voice  string
	Output string
}

// Job is a fully resolved synthesis request. Jobs are created exclusively by
// Plan and are immutable once created.
type Job struct {
	Text   string
	Voice  string
	Output string
}

// Result records the outcome of one executed job. Position is 1-based over
// the job list.
type Result struct {
	Position int
	Output   string
	Err      error
}

// Outcome is the aggregate result of a run, delivered to the caller exactly
// once. Total counts attempted and remaining jobs alike.
type Outcome struct {
	Total     int
	Errors    int
	Cancelled bool
	Results   []Result
}
