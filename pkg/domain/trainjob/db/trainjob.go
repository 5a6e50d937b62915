package db

import (
	"context"

	"github.com/weftml/weft/pkg/domain"
)

type TrainingJobInterface interface {
	// Register a new training job.
	//
	// The job is stored in pending status whatever job.Status says.
	//
	// Args
	//
	// - context.Context
	//
	// - domain.TrainingJob : job to be registered. Id, Status, CreatedAt
	// and UpdatedAt are assigned by the database and ignored on input.
	//
	// Returns
	//
	// - int : id of the job newly registered
	//
	// - error
	Register(ctx context.Context, job domain.TrainingJob) (int, error)

	// Retrieve jobs identified by ids.
	//
	// args:
	//     - ctx: context
	//     - []int: job ids
	//
	// returns:
	//     - map[int]domain.TrainingJob : mapping from id to TrainingJob.
	//       Ids which are not found are simply omitted.
	//     - error
	//
	Get(ctx context.Context, ids []int) (map[int]domain.TrainingJob, error)

	// Retrieve jobs, oldest first.
	//
	// Args
	//
	// - context.Context
	//
	// - status : statuses to filter by. No statuses means every job.
	//
	// Returns
	//
	// - []domain.TrainingJob
	//
	// - error
	GetAll(ctx context.Context, status ...domain.TrainingJobStatus) ([]domain.TrainingJob, error)

	// Update job status.
	//
	// Only lifecycle steps allowed by TrainingJobStatus.CanTransitTo are
	// applied. Setting the current status again is a no-op, not an error.
	//
	// Args
	//
	// - context.Context
	//
	// - jobId
	//
	// - newStatus
	//
	// Returns
	//
	// - error : ErrInvalidStatusTransition (when newStatus is not next of
	// the current status), ErrMissing (when no job has jobId)
	SetStatus(ctx context.Context, jobId int, newStatus domain.TrainingJobStatus) error

	// Attach tracking service ids to the job.
	//
	// Returns ErrMissing when no job has jobId.
	AttachTracking(ctx context.Context, jobId int, experimentId string, runId string) error

	// Attach the pipeline runner's run id to the job.
	//
	// Returns ErrMissing when no job has jobId.
	AttachPipelineRun(ctx context.Context, jobId int, pipelineRunId string) error

	// Record why the job failed.
	//
	// Returns ErrMissing when no job has jobId.
	SetError(ctx context.Context, jobId int, message string) error
}
