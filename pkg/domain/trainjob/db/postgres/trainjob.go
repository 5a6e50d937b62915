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
	kjobdb "github.com/weftml/weft/pkg/domain/trainjob/db"
	"github.com/weftml/weft/pkg/utils"
)

type pgTrainingJob struct {
	pool kpool.Pool
}

func New(pool kpool.Pool) kjobdb.TrainingJobInterface {
	return &pgTrainingJob{pool: pool}
}

func (m *pgTrainingJob) Register(ctx context.Context, job domain.TrainingJob) (int, error) {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Release()

	parameters := job.Parameters
	if parameters == nil {
		parameters = map[string]any{}
	}
	parametersJson, err := json.Marshal(parameters)
	if err != nil {
		return 0, err
	}

	var id int
	if err := conn.QueryRow(
		ctx,
		`
		insert into "training_job" (
			"name", "dataset_id", "model_type", "model_variant", "parameters"
		)
		values ($1, $2, $3, $4, $5)
		returning "id"
		`,
		job.Name, job.DatasetId, job.ModelType, job.ModelVariant, parametersJson,
	).Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return 0, kpgerr.Missing{
				Table:    "dataset",
				Identity: fmt.Sprintf("id = %d", job.DatasetId),
			}
		}
		return 0, err
	}

	return id, nil
}

func (m *pgTrainingJob) Get(ctx context.Context, ids []int) (map[int]domain.TrainingJob, error) {
	if len(ids) == 0 {
		return map[int]domain.TrainingJob{}, nil
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
			"id", "name", "dataset_id", "model_type", "model_variant",
			"parameters", "status",
			"tracking_experiment_id", "tracking_run_id", "pipeline_run_id",
			"error_message", "created_at", "updated_at"
		from "training_job"
		where "id" = any($1::int[])
		`,
		ids,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	found, err := scanTrainingJobs(rows)
	if err != nil {
		return nil, err
	}

	jobs := map[int]domain.TrainingJob{}
	for _, j := range found {
		jobs[j.Id] = j
	}
	return jobs, nil
}

func (m *pgTrainingJob) GetAll(ctx context.Context, status ...domain.TrainingJobStatus) ([]domain.TrainingJob, error) {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	query := `
		select
			"id", "name", "dataset_id", "model_type", "model_variant",
			"parameters", "status",
			"tracking_experiment_id", "tracking_run_id", "pipeline_run_id",
			"error_message", "created_at", "updated_at"
		from "training_job"
	`
	args := []interface{}{}
	if 0 < len(status) {
		query += ` where "status" = any($1::jobStatus[])`
		args = append(args, utils.Map(status, domain.TrainingJobStatus.String))
	}
	query += ` order by "id"`

	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTrainingJobs(rows)
}

func (m *pgTrainingJob) SetStatus(ctx context.Context, jobId int, newStatus domain.TrainingJobStatus) error {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var current string
	if err := tx.QueryRow(
		ctx,
		`select "status" from "training_job" where "id" = $1 for update`,
		jobId,
	).Scan(&current); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return kpgerr.Missing{
				Table:    "training_job",
				Identity: fmt.Sprintf("id = %d", jobId),
			}
		}
		return err
	}

	currentStatus := domain.TrainingJobStatus(current)
	if currentStatus == newStatus {
		return nil
	}
	if !currentStatus.CanTransitTo(newStatus) {
		return domain.NewErrInvalidStatusTransition(currentStatus, newStatus)
	}

	if _, err := tx.Exec(
		ctx,
		`
		update "training_job" set
			"status" = $1,
			"updated_at" = now()
		where "id" = $2
		`,
		string(newStatus), jobId,
	); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (m *pgTrainingJob) AttachTracking(ctx context.Context, jobId int, experimentId string, runId string) error {
	return m.update(
		ctx,
		`
		update "training_job" set
			"tracking_experiment_id" = $1,
			"tracking_run_id" = $2,
			"updated_at" = now()
		where "id" = $3
		`,
		experimentId, runId, jobId,
	)
}

func (m *pgTrainingJob) AttachPipelineRun(ctx context.Context, jobId int, pipelineRunId string) error {
	return m.update(
		ctx,
		`
		update "training_job" set
			"pipeline_run_id" = $1,
			"updated_at" = now()
		where "id" = $2
		`,
		pipelineRunId, jobId,
	)
}

func (m *pgTrainingJob) SetError(ctx context.Context, jobId int, message string) error {
	return m.update(
		ctx,
		`
		update "training_job" set
			"error_message" = $1,
			"updated_at" = now()
		where "id" = $2
		`,
		message, jobId,
	)
}

// update runs a single-row update whose last argument is the job id.
// Zero rows affected means the job is not there.
func (m *pgTrainingJob) update(ctx context.Context, sql string, args ...interface{}) error {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	cmd, err := conn.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return kpgerr.Missing{
			Table:    "training_job",
			Identity: fmt.Sprintf("id = %v", args[len(args)-1]),
		}
	}
	return nil
}

// scanTrainingJobs decodes rows into jobs. Parameters come back through
// JSON, so numeric parameter values are float64 whatever they were stored as.
func scanTrainingJobs(rows pgx.Rows) ([]domain.TrainingJob, error) {
	jobs := []domain.TrainingJob{}
	for rows.Next() {
		j := domain.TrainingJob{}
		var status string
		var parameters []byte
		if err := rows.Scan(
			&j.Id, &j.Name, &j.DatasetId, &j.ModelType, &j.ModelVariant,
			&parameters, &status,
			&j.TrackingExperimentId, &j.TrackingRunId, &j.PipelineRunId,
			&j.ErrorMessage, &j.CreatedAt, &j.UpdatedAt,
		); err != nil {
			return nil, err
		}
		j.Status = domain.TrainingJobStatus(status)
		if err := json.Unmarshal(parameters, &j.Parameters); err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}
