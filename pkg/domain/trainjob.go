package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/weftml/weft/pkg/utils/cmp"
)

var (
	ErrUnknownJobStatus = errors.New("unknown training job status")

	ErrInvalidStatusTransition = errors.New("cannot change job status")
)

func NewErrInvalidStatusTransition(from, to TrainingJobStatus) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, from, to)
}

type TrainingJobStatus string

const (
	// This job is accepted but its pipeline run has not started yet.
	StatusPending TrainingJobStatus = "pending"

	// The pipeline run is executing.
	StatusRunning TrainingJobStatus = "running"

	// The pipeline run finished and artifacts are available.
	StatusCompleted TrainingJobStatus = "completed"

	// The pipeline run stopped with an error.
	StatusFailed TrainingJobStatus = "failed"

	// The job was cancelled before completion.
	StatusCancelled TrainingJobStatus = "cancelled"
)

func (s TrainingJobStatus) String() string {
	return string(s)
}

func AsTrainingJobStatus(status string) (TrainingJobStatus, error) {
	switch status {
	case string(StatusPending):
		return StatusPending, nil
	case string(StatusRunning):
		return StatusRunning, nil
	case string(StatusCompleted):
		return StatusCompleted, nil
	case string(StatusFailed):
		return StatusFailed, nil
	case string(StatusCancelled):
		return StatusCancelled, nil
	default:
		return "", fmt.Errorf("%w: '%s'", ErrUnknownJobStatus, status)
	}
}

// HasEnded reports that the job reached a terminal status.
func (s TrainingJobStatus) HasEnded() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	default:
		return false
	}
}

// CanTransitTo reports whether moving to next is a legal lifecycle step.
//
// pending -> running|completed|failed|cancelled, running ->
// completed|failed|cancelled. Terminal statuses accept nothing.
// pending may skip straight to a terminal status: job statuses follow the
// pipeline runner by polling, and a short run can end between polls.
func (s TrainingJobStatus) CanTransitTo(next TrainingJobStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusRunning || next == StatusCompleted ||
			next == StatusFailed || next == StatusCancelled
	case StatusRunning:
		return next == StatusCompleted || next == StatusFailed || next == StatusCancelled
	default:
		return false
	}
}

type TrainingJobBody struct {
	Name         string
	DatasetId    int
	ModelType    string
	ModelVariant string
	Parameters   map[string]any
}

// TrainingJob tracks one requested training of a model on a dataset,
// from submission to its terminal status.
type TrainingJob struct {
	TrainingJobBody

	Id     int
	Status TrainingJobStatus

	// experiment & run on the tracking service. Empty until attached.
	TrackingExperimentId string
	TrackingRunId        string

	// run on the pipeline runner. Empty until submitted.
	PipelineRunId string

	// why the job failed, if it did.
	ErrorMessage string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (j *TrainingJob) Equal(other *TrainingJob) bool {
	if (j == nil) || (other == nil) {
		return (j == nil) && (other == nil)
	}
	return j.Id == other.Id &&
		j.Name == other.Name &&
		j.DatasetId == other.DatasetId &&
		j.ModelType == other.ModelType &&
		j.ModelVariant == other.ModelVariant &&
		cmp.MapEqWith(j.Parameters, other.Parameters, func(a, b any) bool { return a == b }) &&
		j.Status == other.Status &&
		j.TrackingExperimentId == other.TrackingExperimentId &&
		j.TrackingRunId == other.TrackingRunId &&
		j.PipelineRunId == other.PipelineRunId &&
		j.ErrorMessage == other.ErrorMessage &&
		j.CreatedAt.Equal(other.CreatedAt) &&
		j.UpdatedAt.Equal(other.UpdatedAt)
}

// TrainingDefaults are filled into job parameters the submitter left unset.
type TrainingDefaults struct {
	Epochs          int
	BatchSize       int
	LearningRate    float64
	ValidationSplit float64
}

func DefaultTrainingDefaults() TrainingDefaults {
	return TrainingDefaults{
		Epochs:          100,
		BatchSize:       16,
		LearningRate:    0.001,
		ValidationSplit: 0.2,
	}
}

// Apply returns params with unset training knobs defaulted.
// The passed map is not modified.
func (d TrainingDefaults) Apply(params map[string]any) map[string]any {
	merged := make(map[string]any, len(params)+4)
	for k, v := range params {
		merged[k] = v
	}
	if _, ok := merged["epochs"]; !ok {
		merged["epochs"] = d.Epochs
	}
	if _, ok := merged["batch_size"]; !ok {
		merged["batch_size"] = d.BatchSize
	}
	if _, ok := merged["learning_rate"]; !ok {
		merged["learning_rate"] = d.LearningRate
	}
	if _, ok := merged["validation_split"]; !ok {
		merged["validation_split"] = d.ValidationSplit
	}
	return merged
}
