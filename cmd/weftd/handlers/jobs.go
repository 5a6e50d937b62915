package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	apierr "github.com/weftml/weft/pkg/api/types/errors"
	apijobs "github.com/weftml/weft/pkg/api/types/jobs"
	"github.com/weftml/weft/pkg/domain"
	dsdb "github.com/weftml/weft/pkg/domain/dataset/db"
	"github.com/weftml/weft/pkg/domain/trainjob"
	"github.com/weftml/weft/pkg/domain/trainjob/validate"
	"github.com/weftml/weft/pkg/pipeline"
	"github.com/weftml/weft/pkg/tracker"
)

// RegisterJobHandler accepts a job submission, validates its effective
// training configuration, opens the tracking experiment & run, and hands
// the job to the pipeline runner.
//
// Defaults are filled in before validation, so a submission may leave any
// training knob unset. The top-level model_type and model_variant shadow
// same-named keys inside parameters.
func RegisterJobHandler(
	jobs trainjob.Interface,
	dbDatasets dsdb.DatasetInterface,
	catalog domain.ModelCatalog,
	defaults domain.TrainingDefaults,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		sub := apijobs.Submission{}
		decoder := json.NewDecoder(c.Request().Body)
		decoder.DisallowUnknownFields()

		if err := decoder.Decode(&sub); err != nil {
			return apierr.NewErrorMessage(
				http.StatusBadRequest,
				"format error",
				apierr.WithAdvice(err.Error()),
				apierr.WithError(err),
			)
		}

		if sub.Name == "" {
			return apierr.NewErrorMessage(http.StatusBadRequest, "Missing required field: name")
		}
		if sub.DatasetId == 0 {
			return apierr.NewErrorMessage(http.StatusBadRequest, "Missing required field: dataset_id")
		}
		if sub.ModelType == "" {
			return apierr.NewErrorMessage(http.StatusBadRequest, "Missing required field: model_type")
		}

		datasets, err := dbDatasets.Get(ctx, []int{sub.DatasetId})
		if err != nil {
			return apierr.InternalServerError(err)
		}
		ds, ok := datasets[sub.DatasetId]
		if !ok {
			return apierr.NewErrorMessage(
				http.StatusNotFound,
				fmt.Sprintf("Dataset with ID %d not found", sub.DatasetId),
			)
		}

		params := defaults.Apply(sub.Parameters)

		conf := make(map[string]any, len(params)+2)
		for k, v := range params {
			conf[k] = v
		}
		conf["model_type"] = sub.ModelType
		conf["model_variant"] = sub.ModelVariant

		if err := validate.Validate(conf, catalog); err != nil {
			return apierr.NewErrorMessage(
				http.StatusBadRequest, err.Error(),
				apierr.WithSee("/api/catalog"),
				apierr.WithError(err),
			)
		}

		experimentId, err := jobs.Tracker().CreateExperiment(ctx, sub.Name)
		if err != nil {
			return apierr.InternalServerError(err)
		}
		trackingRunId, err := jobs.Tracker().CreateRun(ctx, experimentId, sub.Name, conf)
		if err != nil {
			return apierr.InternalServerError(err)
		}

		jobId, err := jobs.Database().Register(ctx, domain.TrainingJob{
			TrainingJobBody: domain.TrainingJobBody{
				Name:         sub.Name,
				DatasetId:    sub.DatasetId,
				ModelType:    sub.ModelType,
				ModelVariant: sub.ModelVariant,
				Parameters:   params,
			},
		})
		if err != nil {
			return apierr.InternalServerError(err)
		}
		if err := jobs.Database().AttachTracking(ctx, jobId, experimentId, trackingRunId); err != nil {
			return apierr.InternalServerError(err)
		}

		handle, err := jobs.Runner().Submit(ctx, pipeline.SubmissionRequest{
			JobId:         jobId,
			ModelType:     sub.ModelType,
			ModelVariant:  sub.ModelVariant,
			DatasetPath:   ds.WorkPath,
			DatasetFormat: ds.Format.String(),
			TrackingRunId: trackingRunId,
			Parameters:    params,
		})
		if err != nil {
			// the job stays on record, with why it never started.
			if serr := jobs.Database().SetError(ctx, jobId, err.Error()); serr != nil {
				return apierr.InternalServerError(serr)
			}
			if serr := jobs.Database().SetStatus(ctx, jobId, domain.StatusFailed); serr != nil {
				return apierr.InternalServerError(serr)
			}
			return apierr.InternalServerError(err)
		}
		if err := jobs.Database().AttachPipelineRun(ctx, jobId, handle.RunId); err != nil {
			return apierr.InternalServerError(err)
		}

		registered, err := jobs.Database().Get(ctx, []int{jobId})
		if err != nil {
			return apierr.InternalServerError(err)
		}
		j, ok := registered[jobId]
		if !ok {
			return apierr.InternalServerError(errors.New("job vanished just after registration"))
		}

		return c.JSON(http.StatusCreated, apijobs.ComposeDetail(j))
	}
}

// FindJobHandler lists jobs, optionally filtered by ?status=.
// Statuses served here are as stored; only the single-job endpoint asks
// the runner for fresh ones.
func FindJobHandler(jobs trainjob.Interface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		statuses := []domain.TrainingJobStatus{}
		if q := c.QueryParam("status"); q != "" {
			status, err := domain.AsTrainingJobStatus(q)
			if err != nil {
				return apierr.BadRequest(
					fmt.Sprintf("unknown status: %s", q), err,
				)
			}
			statuses = append(statuses, status)
		}

		found, err := jobs.Database().GetAll(ctx, statuses...)
		if err != nil {
			return apierr.InternalServerError(err)
		}

		summaries := make([]apijobs.Summary, 0, len(found))
		for _, j := range found {
			summaries = append(summaries, apijobs.ComposeSummary(j))
		}

		return c.JSON(http.StatusOK, summaries)
	}
}

// GetJobHandler serves one job. When the job has not ended and a pipeline
// run is attached, the runner is asked for the current state first and the
// stored status is brought up to date.
func GetJobHandler(jobs trainjob.Interface, paramId string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		id, err := strconv.Atoi(c.Param(paramId))
		if err != nil {
			return apierr.BadRequest("job id should be an integer", err)
		}

		found, err := jobs.Database().Get(ctx, []int{id})
		if err != nil {
			return apierr.InternalServerError(err)
		}
		j, ok := found[id]
		if !ok {
			return apierr.NotFound()
		}

		if !j.Status.HasEnded() && j.PipelineRunId != "" {
			// when the runner cannot be asked, the stored status is served.
			if status, err := jobs.Runner().Status(ctx, j.PipelineRunId); err == nil && status != j.Status {
				if err := jobs.Database().SetStatus(ctx, id, status); err != nil {
					return apierr.InternalServerError(err)
				}
				j.Status = status
			}
		}

		return c.JSON(http.StatusOK, apijobs.ComposeDetail(j))
	}
}

// CancelJobHandler stops a job which has not ended yet.
func CancelJobHandler(jobs trainjob.Interface, paramId string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		id, err := strconv.Atoi(c.Param(paramId))
		if err != nil {
			return apierr.BadRequest("job id should be an integer", err)
		}

		found, err := jobs.Database().Get(ctx, []int{id})
		if err != nil {
			return apierr.InternalServerError(err)
		}
		j, ok := found[id]
		if !ok {
			return apierr.NotFound()
		}

		if j.Status.HasEnded() {
			return apierr.Conflict(
				fmt.Sprintf("job is %s already", j.Status),
				apierr.WithAdvice("only pending or running jobs can be cancelled"),
			)
		}

		if j.PipelineRunId != "" {
			if err := jobs.Runner().Cancel(ctx, j.PipelineRunId); err != nil {
				return apierr.InternalServerError(err)
			}
		}
		if err := jobs.Database().SetStatus(ctx, id, domain.StatusCancelled); err != nil {
			if errors.Is(err, domain.ErrInvalidStatusTransition) {
				return apierr.Conflict("job has ended already", apierr.WithError(err))
			}
			return apierr.InternalServerError(err)
		}
		if j.TrackingRunId != "" {
			if err := jobs.Tracker().SetTerminated(ctx, j.TrackingRunId, tracker.RunKilled); err != nil {
				return apierr.InternalServerError(err)
			}
		}

		j.Status = domain.StatusCancelled
		return c.JSON(http.StatusOK, apijobs.ComposeDetail(j))
	}
}
