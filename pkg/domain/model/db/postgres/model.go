package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	pgerrcode "github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v4"
	kpool "github.com/weftml/weft/pkg/conn/db/postgres/pool"
	"github.com/weftml/weft/pkg/domain"
	kpgerr "github.com/weftml/weft/pkg/domain/errors/dberrors/postgres"
	kmdldb "github.com/weftml/weft/pkg/domain/model/db"
)

type pgTrainedModel struct {
	pool kpool.Pool
}

func New(pool kpool.Pool) kmdldb.TrainedModelInterface {
	return &pgTrainedModel{pool: pool}
}

func (m *pgTrainedModel) Register(ctx context.Context, model domain.TrainedModel) (int, error) {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Release()

	metrics := model.Metrics
	if metrics == nil {
		metrics = map[string]float64{}
	}
	metricsJson, err := json.Marshal(metrics)
	if err != nil {
		return 0, err
	}

	var id int
	if err := conn.QueryRow(
		ctx,
		`
		insert into "trained_model" (
			"job_id", "name", "version", "artifact_path", "metrics"
		)
		values ($1, $2, $3, $4, $5)
		returning "id"
		`,
		model.JobId, model.Name, model.Version, model.ArtifactPath, metricsJson,
	).Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return 0, kpgerr.Missing{
				Table:    "training_job",
				Identity: fmt.Sprintf("id = %d", model.JobId),
			}
		}
		return 0, err
	}

	return id, nil
}

func (m *pgTrainedModel) Get(ctx context.Context, ids []int) (map[int]domain.TrainedModel, error) {
	if len(ids) == 0 {
		return map[int]domain.TrainedModel{}, nil
	}

	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	rows, err := conn.Query(
		ctx,
		`
		select
			"id", "job_id", "name", "version", "artifact_path", "metrics",
			"created_at"
		from "trained_model"
		where "id" = any($1::int[])
		`,
		ids,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	found, err := scanTrainedModels(rows)
	if err != nil {
		return nil, err
	}

	models := map[int]domain.TrainedModel{}
	for _, mdl := range found {
		models[mdl.Id] = mdl
	}
	return models, nil
}

func (m *pgTrainedModel) GetByJob(ctx context.Context, jobId int) ([]domain.TrainedModel, error) {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	rows, err := conn.Query(
		ctx,
		`
		select
			"id", "job_id", "name", "version", "artifact_path", "metrics",
			"created_at"
		from "trained_model"
		where "job_id" = $1
		order by "id"
		`,
		jobId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTrainedModels(rows)
}

func (m *pgTrainedModel) GetAll(ctx context.Context) ([]domain.TrainedModel, error) {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	rows, err := conn.Query(
		ctx,
		`
		select
			"id", "job_id", "name", "version", "artifact_path", "metrics",
			"created_at"
		from "trained_model"
		order by "id"
		`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTrainedModels(rows)
}

func scanTrainedModels(rows pgx.Rows) ([]domain.TrainedModel, error) {
	models := []domain.TrainedModel{}
	for rows.Next() {
		mdl := domain.TrainedModel{}
		var metrics []byte
		if err := rows.Scan(
			&mdl.Id, &mdl.JobId, &mdl.Name, &mdl.Version, &mdl.ArtifactPath,
			&metrics, &mdl.CreatedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(metrics, &mdl.Metrics); err != nil {
			return nil, err
		}
		models = append(models, mdl)
	}
	return models, rows.Err()
}
