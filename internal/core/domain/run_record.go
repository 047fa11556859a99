package domain

import "time"

// RunStatus is the final state of a target in a run.
type RunStatus string

const (
	// RunStatusSucceeded marks a target whose body returned success.
	RunStatusSucceeded RunStatus = "succeeded"
	// RunStatusFailed marks a target whose body returned failure.
	RunStatusFailed RunStatus = "failed"
	// RunStatusSkipped marks a target not run because an earlier target failed.
	RunStatusSkipped RunStatus = "skipped"
)

// RunRecord is the persisted outcome of a target's last execution.
type RunRecord struct {
	Target        string        `json:"target"`
	Status        RunStatus     `json:"status"`
	Message       string        `json:"message,omitempty"`
	Configuration string        `json:"configuration,omitempty"`
	Duration      time.Duration `json:"duration"`
	Timestamp     time.Time     `json:"timestamp"`
}
