package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	apidatasets "github.com/weftml/weft/pkg/api/types/datasets"
	apierr "github.com/weftml/weft/pkg/api/types/errors"
	"github.com/weftml/weft/pkg/domain"
	"github.com/weftml/weft/pkg/domain/dataset"
	dsdb "github.com/weftml/weft/pkg/domain/dataset/db"
	"github.com/weftml/weft/pkg/domain/dataset/ingest"
	kerr "github.com/weftml/weft/pkg/domain/errors"
)

// RegisterDatasetHandler accepts a multipart upload (file + name + version +
// format), runs the ingest pipeline over it and persists the dataset.
func RegisterDatasetHandler(datasets dataset.Interface, uploadRoot string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		name := c.FormValue("name")
		if name == "" {
			return apierr.NewErrorMessage(http.StatusBadRequest, "Missing required field: name")
		}
		formatLabel := c.FormValue("format")
		if formatLabel == "" {
			return apierr.NewErrorMessage(http.StatusBadRequest, "Missing required field: format")
		}
		format, err := domain.AsDatasetFormat(formatLabel)
		if err != nil {
			return apierr.NewErrorMessage(
				http.StatusBadRequest, "unsupported dataset format",
				apierr.WithAdvice(err.Error()),
				apierr.WithError(err),
			)
		}
		version := c.FormValue("version")
		if version == "" {
			version = "v1"
		}

		file, err := c.FormFile("file")
		if err != nil {
			return apierr.NewErrorMessage(
				http.StatusBadRequest, "Missing required field: file",
				apierr.WithError(err),
			)
		}

		uploadPath, err := saveUpload(file, uploadRoot)
		if err != nil {
			return apierr.InternalServerError(err)
		}

		workDir, summary, err := datasets.Ingester().Ingest(ctx, uploadPath, format.String())
		if err != nil {
			if workDir != "" {
				os.RemoveAll(workDir)
			}
			if isDatasetProblem(err) {
				return apierr.NewErrorMessage(
					http.StatusBadRequest, "dataset cannot be processed",
					apierr.WithAdvice(err.Error()),
					apierr.WithError(err),
				)
			}
			return apierr.InternalServerError(err)
		}

		id, err := datasets.Database().Register(ctx, domain.Dataset{
			DatasetBody: domain.DatasetBody{
				Name:    name,
				Version: version,
				Format:  format,
			},
			UploadPath: uploadPath,
			WorkPath:   workDir,
			Summary:    summary,
		})
		if err != nil {
			os.RemoveAll(workDir)
			if errors.Is(err, kerr.ErrAlreadyExists) {
				return apierr.Conflict(
					"dataset already exists",
					apierr.WithAdvice("use another name or version"),
					apierr.WithError(err),
				)
			}
			return apierr.InternalServerError(err)
		}

		registered, err := datasets.Database().Get(ctx, []int{id})
		if err != nil {
			return apierr.InternalServerError(err)
		}
		d, ok := registered[id]
		if !ok {
			return apierr.InternalServerError(errors.New("dataset vanished just after registration"))
		}

		return c.JSON(http.StatusCreated, apidatasets.ComposeDetail(d))
	}
}

// saveUpload persists the received archive under its own directory, keeping
// the original file name since extraction dispatches on its suffix.
func saveUpload(file *multipart.FileHeader, uploadRoot string) (string, error) {
	dir := filepath.Join(uploadRoot, uuid.NewString())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dest := filepath.Join(dir, filepath.Base(file.Filename))
	sink, err := os.Create(dest)
	if err != nil {
		return "", err
	}
	defer sink.Close()

	if _, err := io.Copy(sink, src); err != nil {
		return "", err
	}
	return dest, nil
}

// isDatasetProblem distinguishes broken uploads from server trouble.
func isDatasetProblem(err error) bool {
	for _, known := range []error{
		ingest.ErrExtraction,
		ingest.ErrUnsupportedFormat,
		ingest.ErrMissingAnnotation,
		ingest.ErrMissingManifest,
		ingest.ErrMissingAnnotationDir,
		ingest.ErrMalformedAnnotation,
		ingest.ErrMalformedManifest,
	} {
		if errors.Is(err, known) {
			return true
		}
	}
	return false
}

func FindDatasetHandler(dbDatasets dsdb.DatasetInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		ids, err := dbDatasets.Find(
			ctx, c.QueryParam("name"), c.QueryParam("version"),
		)
		if err != nil {
			return apierr.InternalServerError(err)
		}
		if len(ids) == 0 {
			return c.JSON(http.StatusOK, []apidatasets.Detail{})
		}

		datasets, err := dbDatasets.Get(ctx, ids)
		if err != nil {
			return apierr.InternalServerError(err)
		}

		found := make([]apidatasets.Detail, 0, len(datasets))
		for _, id := range ids {
			if d, ok := datasets[id]; ok {
				found = append(found, apidatasets.ComposeDetail(d))
			}
		}

		return c.JSON(http.StatusOK, found)
	}
}

func GetDatasetHandler(dbDatasets dsdb.DatasetInterface, paramId string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		id, err := strconv.Atoi(c.Param(paramId))
		if err != nil {
			return apierr.BadRequest("dataset id should be an integer", err)
		}

		datasets, err := dbDatasets.Get(ctx, []int{id})
		if err != nil {
			return apierr.InternalServerError(err)
		}

		d, ok := datasets[id]
		if !ok {
			return apierr.NotFound()
		}

		return c.JSON(http.StatusOK, apidatasets.ComposeDetail(d))
	}
}
