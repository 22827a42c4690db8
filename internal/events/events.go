// Package events carries build lifecycle notifications: an in-process
// synchronous bus, plus an optional NATS JetStream sink for external
// consumers.
package events

import "time"

// Event is anything deliverable on the bus.
type Event interface {
	Name() string
}

// Event names.
const (
	EventBuildStarted   = "build.started"
	EventStageCompleted = "build.stage_completed"
	EventBuildFinished  = "build.finished"
)

// BuildStarted signals a new pipeline run.
type BuildStarted struct {
	BuildID   string    `json:"build_id"`
	Engine    string    `json:"engine"`
	SourceDir string    `json:"source_dir"`
	StartedAt time.Time `json:"started_at"`
}

func (BuildStarted) Name() string { return EventBuildStarted }

// StageCompleted signals one pipeline stage finishing.
type StageCompleted struct {
	BuildID  string        `json:"build_id"`
	Stage    string        `json:"stage"`
	Result   string        `json:"result"`
	Duration time.Duration `json:"duration"`
}

func (StageCompleted) Name() string { return EventStageCompleted }

// BuildFinished signals the end of a pipeline run.
type BuildFinished struct {
	BuildID  string        `json:"build_id"`
	Result   string        `json:"result"`
	Pages    int           `json:"pages"`
	Duration time.Duration `json:"duration"`
	Error    string        `json:"error,omitempty"`
}

func (BuildFinished) Name() string { return EventBuildFinished }
