package db

import (
	"context"

	"github.com/weftml/weft/pkg/domain"
)

type DatasetInterface interface {
	// Register a new dataset with its summary.
	//
	// Args
	//
	// - context.Context
	//
	// - domain.Dataset : dataset to be registered. Id and CreatedAt are
	// assigned by the database and ignored on input.
	//
	// Returns
	//
	// - int : id of the dataset newly registered
	//
	// - error : ErrAlreadyExists when a dataset with the same name and
	// version is registered already.
	Register(ctx context.Context, dataset domain.Dataset) (int, error)

	// Retrieve datasets identified by ids.
	//
	// args:
	//     - ctx: context
	//     - []int: dataset ids
	//
	// returns:
	//     - map[int]domain.Dataset : mapping from id to Dataset.
	//       Ids which are not found are simply omitted.
	//     - error
	//
	Get(ctx context.Context, ids []int) (map[int]domain.Dataset, error)

	// Retrieve all datasets, oldest first.
	GetAll(ctx context.Context) ([]domain.Dataset, error)

	// Find ids of datasets by name and version.
	//
	// Args
	//
	// - context.Context
	//
	// - name : dataset name. Empty matches any name.
	//
	// - version : dataset version. Empty matches any version.
	//
	// Returns
	//
	// - []int : ids of datasets matching all non-empty conditions,
	// oldest first.
	//
	// - error
	Find(ctx context.Context, name string, version string) ([]int, error)
}
