package jobs

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a processing job.
type Status string

const (
	StatusUploaded            Status = "uploaded"
	StatusProcessing          Status = "processing"
	StatusTranscriptExtracted Status = "transcript_extracted"
	StatusSnapshotsExtracted  Status = "snapshots_extracted"
	StatusCompleted           Status = "completed"
	StatusError               Status = "error"
)

// DaemonStopReason is the error message set on in-flight jobs when the daemon
// shuts down or restarts mid-pipeline. Jobs are never retried automatically.
const DaemonStopReason = "Processing interrupted by daemon shutdown"

var statusOrder = []Status{
	StatusUploaded,
	StatusProcessing,
	StatusTranscriptExtracted,
	StatusSnapshotsExtracted,
	StatusCompleted,
}

var statusRank = func() map[Status]int {
	ranks := make(map[Status]int, len(statusOrder))
	for i, status := range statusOrder {
		ranks[status] = i
	}
	return ranks
}()

// Mode is the style directive controlling generated course verbosity.
type Mode string

const (
	ModeConcise Mode = "concise"
	ModeFull    Mode = "full"
)

// ParseMode converts a string into a known Mode. An empty value selects the
// concise default.
func ParseMode(value string) (Mode, bool) {
	normalized := Mode(strings.ToLower(strings.TrimSpace(value)))
	switch normalized {
	case "":
		return ModeConcise, true
	case ModeConcise, ModeFull:
		return normalized, true
	default:
		return ModeConcise, false
	}
}

// Job represents a video submission persisted in SQLite.
type Job struct {
	ID            string
	Title         string
	Filename      string
	SourcePath    string
	Status        Status
	Mode          Mode
	Transcript    string
	SnapshotsJSON string
	CourseID      string
	ErrorMessage  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// AllStatuses returns the ordered list of known statuses, error last.
func AllStatuses() []Status {
	cp := make([]Status, len(statusOrder), len(statusOrder)+1)
	copy(cp, statusOrder)
	return append(cp, StatusError)
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == StatusError {
		return normalized, true
	}
	_, ok := statusRank[normalized]
	return normalized, ok
}

// IsTerminal reports whether a status admits no further transitions.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusError
}

// CanTransitionTo reports whether advancing from s to next preserves the
// monotonic status order. The error state is reachable from any non-terminal
// status; nothing leaves a terminal state.
func (s Status) CanTransitionTo(next Status) bool {
	if s.IsTerminal() {
		return false
	}
	if next == StatusError {
		return true
	}
	from, ok := statusRank[s]
	if !ok {
		return false
	}
	to, ok := statusRank[next]
	if !ok {
		return false
	}
	return to > from
}

// SetFailed marks the job as failed with the given error message.
func (j *Job) SetFailed(message string) {
	j.Status = StatusError
	j.ErrorMessage = message
}

// IsProcessing reports whether the job is mid-pipeline.
func (j Job) IsProcessing() bool {
	switch j.Status {
	case StatusProcessing, StatusTranscriptExtracted, StatusSnapshotsExtracted:
		return true
	default:
		return false
	}
}
