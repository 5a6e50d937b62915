package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	apierr "github.com/weftml/weft/pkg/api/types/errors"
	apimodels "github.com/weftml/weft/pkg/api/types/models"
	"github.com/weftml/weft/pkg/domain"
	kerr "github.com/weftml/weft/pkg/domain/errors"
	"github.com/weftml/weft/pkg/domain/model"
)

// RegisterModelHandler records a model artifact reported by the pipeline
// once training saved it.
func RegisterModelHandler(models model.Interface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		reg := apimodels.Registration{}
		decoder := json.NewDecoder(c.Request().Body)
		decoder.DisallowUnknownFields()

		if err := decoder.Decode(&reg); err != nil {
			return apierr.NewErrorMessage(
				http.StatusBadRequest,
				"format error",
				apierr.WithAdvice(err.Error()),
				apierr.WithError(err),
			)
		}

		if reg.JobId == 0 {
			return apierr.NewErrorMessage(http.StatusBadRequest, "Missing required field: job_id")
		}
		if reg.Name == "" {
			return apierr.NewErrorMessage(http.StatusBadRequest, "Missing required field: name")
		}
		if reg.ArtifactPath == "" {
			return apierr.NewErrorMessage(http.StatusBadRequest, "Missing required field: artifact_path")
		}

		id, err := models.Database().Register(ctx, domain.TrainedModel{
			JobId:        reg.JobId,
			Name:         reg.Name,
			Version:      reg.Version,
			ArtifactPath: reg.ArtifactPath,
			Metrics:      reg.Metrics,
		})
		if err != nil {
			if errors.Is(err, kerr.ErrMissing) {
				return apierr.NewErrorMessage(
					http.StatusNotFound,
					fmt.Sprintf("Job with ID %d not found", reg.JobId),
				)
			}
			return apierr.InternalServerError(err)
		}

		registered, err := models.Database().Get(ctx, []int{id})
		if err != nil {
			return apierr.InternalServerError(err)
		}
		m, ok := registered[id]
		if !ok {
			return apierr.InternalServerError(errors.New("model vanished just after registration"))
		}

		return c.JSON(http.StatusCreated, apimodels.ComposeDetail(m))
	}
}

// FindModelHandler lists models, optionally those of one job with ?job_id=.
func FindModelHandler(models model.Interface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		var found []domain.TrainedModel
		if q := c.QueryParam("job_id"); q != "" {
			jobId, err := strconv.Atoi(q)
			if err != nil {
				return apierr.BadRequest("job_id should be an integer", err)
			}
			found, err = models.Database().GetByJob(ctx, jobId)
			if err != nil {
				return apierr.InternalServerError(err)
			}
		} else {
			var err error
			found, err = models.Database().GetAll(ctx)
			if err != nil {
				return apierr.InternalServerError(err)
			}
		}

		summaries := make([]apimodels.Summary, 0, len(found))
		for _, m := range found {
			summaries = append(summaries, apimodels.ComposeSummary(m))
		}

		return c.JSON(http.StatusOK, summaries)
	}
}

func GetModelHandler(models model.Interface, paramId string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		id, err := strconv.Atoi(c.Param(paramId))
		if err != nil {
			return apierr.BadRequest("model id should be an integer", err)
		}

		found, err := models.Database().Get(ctx, []int{id})
		if err != nil {
			return apierr.InternalServerError(err)
		}
		m, ok := found[id]
		if !ok {
			return apierr.NotFound()
		}

		return c.JSON(http.StatusOK, apimodels.ComposeDetail(m))
	}
}

// GetModelMetricsHandler serves just the evaluation metrics of a model.
func GetModelMetricsHandler(models model.Interface, paramId string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		id, err := strconv.Atoi(c.Param(paramId))
		if err != nil {
			return apierr.BadRequest("model id should be an integer", err)
		}

		found, err := models.Database().Get(ctx, []int{id})
		if err != nil {
			return apierr.InternalServerError(err)
		}
		m, ok := found[id]
		if !ok {
			return apierr.NotFound()
		}

		metrics := m.Metrics
		if metrics == nil {
			metrics = map[string]float64{}
		}
		return c.JSON(http.StatusOK, metrics)
	}
}
