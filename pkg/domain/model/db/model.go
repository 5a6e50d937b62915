package db

import (
	"context"

	"github.com/weftml/weft/pkg/domain"
)

type TrainedModelInterface interface {
	// Register a model produced by a training job.
	//
	// Args
	//
	// - context.Context
	//
	// - domain.TrainedModel : model to be registered. Id and CreatedAt are
	// assigned by the database and ignored on input.
	//
	// Returns
	//
	// - int : id of the model newly registered
	//
	// - error : ErrMissing when no job has model.JobId.
	Register(ctx context.Context, model domain.TrainedModel) (int, error)

	// Retrieve models identified by ids.
	//
	// args:
	//     - ctx: context
	//     - []int: model ids
	//
	// returns:
	//     - map[int]domain.TrainedModel : mapping from id to TrainedModel.
	//       Ids which are not found are simply omitted.
	//     - error
	//
	Get(ctx context.Context, ids []int) (map[int]domain.TrainedModel, error)

	// Retrieve models produced by a job, oldest first.
	GetByJob(ctx context.Context, jobId int) ([]domain.TrainedModel, error)

	// Retrieve all models, oldest first.
	GetAll(ctx context.Context) ([]domain.TrainedModel, error)
}
