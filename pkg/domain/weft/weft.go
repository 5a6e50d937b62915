package weft

import (
	"context"

	kconf "github.com/weftml/weft/pkg/configs/server"
	"github.com/weftml/weft/pkg/domain/dataset"
	"github.com/weftml/weft/pkg/domain/dataset/ingest"
	"github.com/weftml/weft/pkg/domain/model"
	"github.com/weftml/weft/pkg/domain/schema"
	"github.com/weftml/weft/pkg/domain/trainjob"
	dbInterface "github.com/weftml/weft/pkg/domain/weft/db"
	"github.com/weftml/weft/pkg/domain/weft/db/postgres"
	"github.com/weftml/weft/pkg/pipeline"
	"github.com/weftml/weft/pkg/tracker"
)

type Weft interface {
	Config() *kconf.ServerConfig

	Dataset() dataset.Interface
	TrainingJob() trainjob.Interface
	TrainedModel() model.Interface

	Schema() schema.Interface

	Close() error
}

type weft struct {
	config   *kconf.ServerConfig
	database dbInterface.WeftDatabase

	dataset     dataset.Interface
	trainingJob trainjob.Interface
	model       model.Interface

	schema schema.Interface
}

func New(
	ctx context.Context,
	config *kconf.ServerConfig,
	options ...Option,
) (Weft, error) {
	opt := &_options{}
	for _, o := range options {
		o(opt)
	}

	pg, err := postgres.New(ctx, config.Database(), opt.pg...)
	if err != nil {
		return nil, err
	}

	ingester := ingest.New(
		config.WorkRoot(),
		ingest.WithAnnotationSampleCap(config.AnnotationSampleCap()),
	)
	runner := pipeline.New(config.Runner().Endpoint())
	trck := tracker.New(config.Tracker().Endpoint())

	return &weft{
		config:   config,
		database: pg,

		dataset:     dataset.New(pg.Dataset(), ingester),
		trainingJob: trainjob.New(pg.TrainingJob(), runner, trck),
		model:       model.New(pg.TrainedModel()),

		schema: schema.New(pg.Schema()),
	}, nil
}

type Option func(*_options)

type _options struct {
	pg []postgres.Option
}

func WithSchemaRepository(repository string) Option {
	return func(o *_options) {
		o.pg = append(o.pg, postgres.WithSchemaRepository(repository))
	}
}

func (w *weft) Config() *kconf.ServerConfig {
	return w.config
}

func (w *weft) Dataset() dataset.Interface {
	return w.dataset
}

func (w *weft) TrainingJob() trainjob.Interface {
	return w.trainingJob
}

func (w *weft) TrainedModel() model.Interface {
	return w.model
}

func (w *weft) Schema() schema.Interface {
	return w.schema
}

func (w *weft) Close() error {
	return w.database.Close()
}
