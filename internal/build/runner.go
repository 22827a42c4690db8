package build

import (
	"context"
	"log/slog"
	"time"

	"github.com/siteporter/siteporter/internal/events"
	"github.com/siteporter/siteporter/internal/logfields"
	"github.com/siteporter/siteporter/internal/metrics"
)

// Observer receives stage lifecycle callbacks, e.g. for CLI progress output.
type Observer interface {
	OnStageStart(name StageName)
	OnStageComplete(name StageName, d time.Duration, result StageResult)
}

// RunStages executes stages in order, recording timing and stopping on the
// first fatal error. Warnings are logged and the run continues.
func RunStages(ctx context.Context, st *State, stages []StageDef, obs Observer) error {
	if st.StageDurations == nil {
		st.StageDurations = make(map[StageName]time.Duration, len(stages))
	}

	for _, def := range stages {
		select {
		case <-ctx.Done():
			se := NewCanceledStageError(def.Name, ctx.Err())
			recordStage(st, def.Name, 0, StageResultCanceled, obs)
			return se
		default:
		}

		if obs != nil {
			obs.OnStageStart(def.Name)
		}

		t0 := time.Now()
		err := def.Fn(ctx, st)
		dur := time.Since(t0)
		st.StageDurations[def.Name] = dur

		result, abort := classify(err)
		recordStage(st, def.Name, dur, result, obs)

		if err != nil && !abort {
			slog.Warn("stage completed with warning",
				logfields.Stage(string(def.Name)), logfields.Error(err))
		}
		if abort {
			return err
		}
	}
	return nil
}

// classify maps a stage error to its result label and whether the run aborts.
func classify(err error) (StageResult, bool) {
	if err == nil {
		return StageResultSuccess, false
	}
	if se, ok := err.(*StageError); ok {
		switch se.Kind {
		case StageErrorWarning:
			return StageResultWarning, false
		case StageErrorCanceled:
			return StageResultCanceled, true
		}
	}
	return StageResultFatal, true
}

func recordStage(st *State, name StageName, dur time.Duration, result StageResult, obs Observer) {
	if st.Recorder != nil {
		st.Recorder.ObserveStageDuration(string(name), dur)
		st.Recorder.IncStageResult(string(name), metrics.ResultLabel(result))
	}
	if st.Bus != nil {
		if err := st.Bus.Publish(events.StageCompleted{
			BuildID:  st.BuildID,
			Stage:    string(name),
			Result:   string(result),
			Duration: dur,
		}); err != nil {
			slog.Warn("stage event publish failed",
				logfields.Stage(string(name)), logfields.Error(err))
		}
	}
	if obs != nil {
		obs.OnStageComplete(name, dur, result)
	}
}
