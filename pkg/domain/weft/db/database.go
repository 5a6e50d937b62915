package db

import (
	kdataset "github.com/weftml/weft/pkg/domain/dataset/db"
	kmodel "github.com/weftml/weft/pkg/domain/model/db"
	kschema "github.com/weftml/weft/pkg/domain/schema/db"
	ktrainjob "github.com/weftml/weft/pkg/domain/trainjob/db"
)

type WeftDatabase interface {
	Dataset() kdataset.DatasetInterface
	TrainingJob() ktrainjob.TrainingJobInterface
	TrainedModel() kmodel.TrainedModelInterface
	Schema() kschema.SchemaInterface
	Close() error
}
