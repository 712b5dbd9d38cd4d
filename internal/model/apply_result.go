package model

import (
	"time"
)

// ApplyStatus is the per-item outcome of the apply phase.
type ApplyStatus string

const (
	// StatusSkipped indicates the user made no selection for the item.
	StatusSkipped ApplyStatus = "skipped"
	// StatusApplied marks a successful handler binding.
	StatusApplied ApplyStatus = "applied"
	// StatusFailed marks a binding that could not be completed.
	StatusFailed ApplyStatus = "failed"
	// StatusPlanned is reported for dry runs in place of StatusApplied.
	StatusPlanned ApplyStatus = "planned"
)

// Icon returns the Unicode icon for the status.
func (s ApplyStatus) Icon() string {
	switch s {
	case StatusApplied:
		return "✓"
	case StatusPlanned:
		return "→"
	case StatusFailed:
		return "✗"
	default:
		return "–"
	}
}

// IconFallback returns an ASCII icon when Unicode is not supported.
func (s ApplyStatus) IconFallback() string {
	switch s {
	case StatusApplied:
		return "[OK]"
	case StatusPlanned:
		return "[->]"
	case StatusFailed:
		return "[XX]"
	default:
		return "[--]"
	}
}

// ApplyResult captures the outcome of binding a default handler for one item.
type ApplyResult struct {
	Token       string
	Status      ApplyStatus
	Application string
	BundleID    string
	Message     string
	Error       error
	Duration    time.Duration
	Timestamp   time.Time
}

// Failed reports whether the result records a failure.
func (r ApplyResult) Failed() bool {
	return r.Status == StatusFailed
}

// Counts tallies results per status.
func Counts(results []ApplyResult) map[ApplyStatus]int {
	out := make(map[ApplyStatus]int, 4)
	for _, res := range results {
		out[res.Status]++
	}
	return out
}
