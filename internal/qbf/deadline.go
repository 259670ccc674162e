package qbf

import "time"

// SolveDeadline is the wall-clock budget preprocessing and search are
// allotted before giving up with Timeout.
const SolveDeadline = 30 * time.Second

// Deadline is a simple wall-clock expiry check, standing in for the Rust
// reference's repeated timer.elapsed().as_secs() > 30 comparisons against
// a std::time::Instant captured at the start of the run.
type Deadline struct {
	start time.Time
	limit time.Duration
}

func NewDeadline(limit time.Duration) Deadline {
	return Deadline{start: time.Now(), limit: limit}
}

func (d Deadline) Expired() bool {
	return time.Since(d.start) > d.limit
}
