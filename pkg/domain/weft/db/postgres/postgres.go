package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"
	kpool "github.com/weftml/weft/pkg/conn/db/postgres/pool"
	kdataset "github.com/weftml/weft/pkg/domain/dataset/db"
	kpgdataset "github.com/weftml/weft/pkg/domain/dataset/db/postgres"
	kmodel "github.com/weftml/weft/pkg/domain/model/db"
	kpgmodel "github.com/weftml/weft/pkg/domain/model/db/postgres"
	kschema "github.com/weftml/weft/pkg/domain/schema/db"
	kpgschema "github.com/weftml/weft/pkg/domain/schema/db/postgres"
	ktrainjob "github.com/weftml/weft/pkg/domain/trainjob/db"
	kpgtrainjob "github.com/weftml/weft/pkg/domain/trainjob/db/postgres"
	dbInterface "github.com/weftml/weft/pkg/domain/weft/db"
	xe "github.com/weftml/weft/pkg/errors"
)

type weftDBPostgres struct {
	pool     *pgxpool.Pool
	datasets kdataset.DatasetInterface
	jobs     ktrainjob.TrainingJobInterface
	models   kmodel.TrainedModelInterface
	schema   kschema.SchemaInterface
}

type Config struct {
	SchemaRepository string
}

type Option func(*Config) *Config

func WithSchemaRepository(repository string) Option {
	return func(c *Config) *Config {
		c.SchemaRepository = repository
		return c
	}
}

func New(
	ctx context.Context,
	url string,
	options ...Option,
) (dbInterface.WeftDatabase, error) {
	pool, err := pgxpool.Connect(ctx, url)
	if err != nil {
		return nil, xe.Wrap(err)
	}

	c := Config{}
	for _, option := range options {
		c = *option(&c)
	}

	p := kpool.Wrap(pool)
	var schema kschema.SchemaInterface = kpgschema.Null()
	if c.SchemaRepository != "" {
		schema = kpgschema.New(p, c.SchemaRepository)
	}

	return &weftDBPostgres{
		pool:     pool,
		datasets: kpgdataset.New(p),
		jobs:     kpgtrainjob.New(p),
		models:   kpgmodel.New(p),
		schema:   schema,
	}, nil
}

func (w *weftDBPostgres) Dataset() kdataset.DatasetInterface {
	return w.datasets
}

func (w *weftDBPostgres) TrainingJob() ktrainjob.TrainingJobInterface {
	return w.jobs
}

func (w *weftDBPostgres) TrainedModel() kmodel.TrainedModelInterface {
	return w.models
}

func (w *weftDBPostgres) Schema() kschema.SchemaInterface {
	return w.schema
}

func (w *weftDBPostgres) Close() error {
	w.pool.Close()
	return nil
}
