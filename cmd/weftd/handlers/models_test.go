package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	httptestutil "github.com/weftml/weft/internal/testutils/http"
	apierr "github.com/weftml/weft/pkg/api/types/errors"
	apimodels "github.com/weftml/weft/pkg/api/types/models"
	"github.com/weftml/weft/pkg/domain"
	kerr "github.com/weftml/weft/pkg/domain/errors"
	"github.com/weftml/weft/pkg/domain/model"
	mdlmock "github.com/weftml/weft/pkg/domain/model/db/mock"
	"github.com/weftml/weft/pkg/utils/cmp"
	"github.com/weftml/weft/pkg/utils/rfctime"
	"github.com/weftml/weft/pkg/utils/try"

	"github.com/weftml/weft/cmd/weftd/handlers"
)

func TestRegisterModelHandler(t *testing.T) {
	theTime := try.To(rfctime.ParseRFC3339DateTime(
		"2025-06-12T18:00:00+00:00",
	)).OrFatal(t)

	t.Run("when the pipeline reports an artifact, it should register the model", func(t *testing.T) {
		mckModels := mdlmock.NewTrainedModelInterface()
		mckModels.Impl.Register = func(ctx context.Context, m domain.TrainedModel) (int, error) {
			return 5, nil
		}
		mckModels.Impl.Get = func(ctx context.Context, ids []int) (map[int]domain.TrainedModel, error) {
			m := mckModels.Calls.Register[0]
			m.Id = 5
			m.CreatedAt = theTime.Time()
			return map[int]domain.TrainedModel{5: m}, nil
		}

		e := echo.New()
		c, respRec := httptestutil.Post(
			e, "/api/models/",
			bytes.NewBuffer([]byte(`{
				"job_id": 42, "name": "traffic detector", "version": "1",
				"artifact_path": "/artifacts/42/best.pt",
				"metrics": {"mAP50": 0.62, "mAP50-95": 0.41}
			}`)),
			httptestutil.ContentType("application/json"),
		)

		testee := handlers.RegisterModelHandler(model.New(mckModels))
		if err := testee(c); err != nil {
			t.Fatal(err)
		}

		if respRec.Result().StatusCode != http.StatusCreated {
			t.Errorf(
				"status code: (actual, expected) = (%d, %d)",
				respRec.Result().StatusCode, http.StatusCreated,
			)
		}

		if len(mckModels.Calls.Register) != 1 {
			t.Fatalf("Register: wrong call count: %d", len(mckModels.Calls.Register))
		}
		registered := mckModels.Calls.Register[0]
		if registered.JobId != 42 || registered.Name != "traffic detector" ||
			registered.Version != "1" || registered.ArtifactPath != "/artifacts/42/best.pt" {
			t.Errorf("unexpected model registered: %+v", registered)
		}
		if !cmp.MapEq(registered.Metrics, map[string]float64{"mAP50": 0.62, "mAP50-95": 0.41}) {
			t.Errorf("unexpected metrics: %v", registered.Metrics)
		}

		expected := apimodels.Detail{
			Summary: apimodels.Summary{
				Id: 5, JobId: 42, Name: "traffic detector", Version: "1",
				CreatedAt: theTime,
			},
			ArtifactPath: "/artifacts/42/best.pt",
			Metrics:      map[string]float64{"mAP50": 0.62, "mAP50-95": 0.41},
		}
		actual := apimodels.Detail{}
		if err := json.Unmarshal(respRec.Body.Bytes(), &actual); err != nil {
			t.Fatal(err)
		}
		if !actual.Equal(&expected) {
			t.Errorf(
				"response mismatch. (actual, expected) =\n(%+v,\n%+v)",
				actual, expected,
			)
		}
	})

	t.Run("when no job has the reported id, it should respond 404", func(t *testing.T) {
		mckModels := mdlmock.NewTrainedModelInterface()
		mckModels.Impl.Register = func(ctx context.Context, m domain.TrainedModel) (int, error) {
			return 0, kerr.ErrMissing
		}

		e := echo.New()
		c, _ := httptestutil.Post(
			e, "/api/models/",
			bytes.NewBuffer([]byte(`{"job_id": 99, "name": "m", "artifact_path": "/a"}`)),
			httptestutil.ContentType("application/json"),
		)

		testee := handlers.RegisterModelHandler(model.New(mckModels))
		err := testee(c)

		var echoErr *echo.HTTPError
		if !errors.As(err, &echoErr) {
			t.Fatalf("error is not echo.HTTPError. actual = %#v", err)
		}
		if echoErr.Code != http.StatusNotFound {
			t.Errorf("status code: (actual, expected) = (%d, %d)", echoErr.Code, http.StatusNotFound)
		}
		msg, ok := echoErr.Message.(apierr.ErrorMessage)
		if !ok {
			t.Fatalf("unexpected message: %#v", echoErr.Message)
		}
		if msg.Reason != "Job with ID 99 not found" {
			t.Errorf("reason: %s", msg.Reason)
		}
	})

	t.Run("when a required field is missing, it should respond 400 naming the field", func(t *testing.T) {
		for name, when := range map[string]struct {
			body   string
			reason string
		}{
			"no job_id": {
				body:   `{"name": "m", "artifact_path": "/a"}`,
				reason: "Missing required field: job_id",
			},
			"no name": {
				body:   `{"job_id": 42, "artifact_path": "/a"}`,
				reason: "Missing required field: name",
			},
			"no artifact_path": {
				body:   `{"job_id": 42, "name": "m"}`,
				reason: "Missing required field: artifact_path",
			},
		} {
			t.Run(name, func(t *testing.T) {
				e := echo.New()
				c, _ := httptestutil.Post(
					e, "/api/models/", bytes.NewBuffer([]byte(when.body)),
					httptestutil.ContentType("application/json"),
				)

				testee := handlers.RegisterModelHandler(model.New(mdlmock.NewTrainedModelInterface()))
				err := testee(c)

				var echoErr *echo.HTTPError
				if !errors.As(err, &echoErr) {
					t.Fatalf("error is not echo.HTTPError. actual = %#v", err)
				}
				if echoErr.Code != http.StatusBadRequest {
					t.Errorf("status code: (actual, expected) = (%d, %d)", echoErr.Code, http.StatusBadRequest)
				}
				msg, ok := echoErr.Message.(apierr.ErrorMessage)
				if !ok {
					t.Fatalf("unexpected message: %#v", echoErr.Message)
				}
				if msg.Reason != when.reason {
					t.Errorf("reason: (actual, expected) = (%s, %s)", msg.Reason, when.reason)
				}
			})
		}
	})
}

func TestFindModelHandler(t *testing.T) {
	theTime := try.To(rfctime.ParseRFC3339DateTime(
		"2025-06-12T18:00:00+00:00",
	)).OrFatal(t)

	theModels := []domain.TrainedModel{
		{
			Id: 1, JobId: 42, Name: "traffic detector", Version: "1",
			ArtifactPath: "/artifacts/42/best.pt",
			Metrics:      map[string]float64{"mAP50": 0.62},
			CreatedAt:    theTime.Time(),
		},
		{
			Id: 2, JobId: 43, Name: "wildlife detector", Version: "1",
			ArtifactPath: "/artifacts/43/best.pt",
			Metrics:      map[string]float64{"mAP50": 0.54},
			CreatedAt:    theTime.Time(),
		},
	}

	t.Run("when no filter is given, it should list every model", func(t *testing.T) {
		mckModels := mdlmock.NewTrainedModelInterface()
		mckModels.Impl.GetAll = func(ctx context.Context) ([]domain.TrainedModel, error) {
			return theModels, nil
		}

		e := echo.New()
		c, respRec := httptestutil.Get(e, "/api/models/")

		testee := handlers.FindModelHandler(model.New(mckModels))
		if err := testee(c); err != nil {
			t.Fatal(err)
		}

		actual := []apimodels.Summary{}
		if err := json.Unmarshal(respRec.Body.Bytes(), &actual); err != nil {
			t.Fatal(err)
		}
		expected := []apimodels.Summary{
			{Id: 1, JobId: 42, Name: "traffic detector", Version: "1", CreatedAt: theTime},
			{Id: 2, JobId: 43, Name: "wildlife detector", Version: "1", CreatedAt: theTime},
		}
		if !cmp.SliceEqWith(actual, expected, func(a, e apimodels.Summary) bool { return a.Equal(&e) }) {
			t.Errorf("response mismatch. (actual, expected) =\n(%+v,\n%+v)", actual, expected)
		}
	})

	t.Run("when ?job_id= is given, it should list the job's models only", func(t *testing.T) {
		mckModels := mdlmock.NewTrainedModelInterface()
		mckModels.Impl.GetByJob = func(ctx context.Context, jobId int) ([]domain.TrainedModel, error) {
			return theModels[:1], nil
		}

		e := echo.New()
		c, respRec := httptestutil.Get(e, "/api/models/?job_id=42")

		testee := handlers.FindModelHandler(model.New(mckModels))
		if err := testee(c); err != nil {
			t.Fatal(err)
		}

		if !cmp.SliceEq(mckModels.Calls.GetByJob, []int{42}) {
			t.Errorf("GetByJob should be called with 42: %v", mckModels.Calls.GetByJob)
		}

		actual := []apimodels.Summary{}
		if err := json.Unmarshal(respRec.Body.Bytes(), &actual); err != nil {
			t.Fatal(err)
		}
		if len(actual) != 1 || actual[0].JobId != 42 {
			t.Errorf("unexpected models: %+v", actual)
		}
	})

	t.Run("when ?job_id= is not an integer, it should respond 400", func(t *testing.T) {
		e := echo.New()
		c, _ := httptestutil.Get(e, "/api/models/?job_id=x")

		testee := handlers.FindModelHandler(model.New(mdlmock.NewTrainedModelInterface()))
		err := testee(c)

		var echoErr *echo.HTTPError
		if !errors.As(err, &echoErr) {
			t.Fatalf("error is not echo.HTTPError. actual = %#v", err)
		}
		if echoErr.Code != http.StatusBadRequest {
			t.Errorf("status code: (actual, expected) = (%d, %d)", echoErr.Code, http.StatusBadRequest)
		}
	})
}

func TestGetModelHandler(t *testing.T) {
	theTime := try.To(rfctime.ParseRFC3339DateTime(
		"2025-06-12T18:00:00+00:00",
	)).OrFatal(t)

	t.Run("when the model exists, it should serve its detail", func(t *testing.T) {
		mckModels := mdlmock.NewTrainedModelInterface()
		mckModels.Impl.Get = func(ctx context.Context, ids []int) (map[int]domain.TrainedModel, error) {
			return map[int]domain.TrainedModel{
				5: {
					Id: 5, JobId: 42, Name: "traffic detector", Version: "1",
					ArtifactPath: "/artifacts/42/best.pt",
					Metrics:      map[string]float64{"mAP50": 0.62},
					CreatedAt:    theTime.Time(),
				},
			}, nil
		}

		e := echo.New()
		c, respRec := httptestutil.Get(e, "/api/models/5")
		c.SetParamNames("modelId")
		c.SetParamValues("5")

		testee := handlers.GetModelHandler(model.New(mckModels), "modelId")
		if err := testee(c); err != nil {
			t.Fatal(err)
		}

		expected := apimodels.Detail{
			Summary: apimodels.Summary{
				Id: 5, JobId: 42, Name: "traffic detector", Version: "1",
				CreatedAt: theTime,
			},
			ArtifactPath: "/artifacts/42/best.pt",
			Metrics:      map[string]float64{"mAP50": 0.62},
		}
		actual := apimodels.Detail{}
		if err := json.Unmarshal(respRec.Body.Bytes(), &actual); err != nil {
			t.Fatal(err)
		}
		if !actual.Equal(&expected) {
			t.Errorf(
				"response mismatch. (actual, expected) =\n(%+v,\n%+v)",
				actual, expected,
			)
		}
	})

	t.Run("when no model has the id, it should respond 404", func(t *testing.T) {
		mckModels := mdlmock.NewTrainedModelInterface()
		mckModels.Impl.Get = func(ctx context.Context, ids []int) (map[int]domain.TrainedModel, error) {
			return map[int]domain.TrainedModel{}, nil
		}

		e := echo.New()
		c, _ := httptestutil.Get(e, "/api/models/5")
		c.SetParamNames("modelId")
		c.SetParamValues("5")

		testee := handlers.GetModelHandler(model.New(mckModels), "modelId")
		err := testee(c)

		var echoErr *echo.HTTPError
		if !errors.As(err, &echoErr) {
			t.Fatalf("error is not echo.HTTPError. actual = %#v", err)
		}
		if echoErr.Code != http.StatusNotFound {
			t.Errorf("status code: (actual, expected) = (%d, %d)", echoErr.Code, http.StatusNotFound)
		}
	})
}

func TestGetModelMetricsHandler(t *testing.T) {
	t.Run("when the model has metrics, it should serve just them", func(t *testing.T) {
		mckModels := mdlmock.NewTrainedModelInterface()
		mckModels.Impl.Get = func(ctx context.Context, ids []int) (map[int]domain.TrainedModel, error) {
			return map[int]domain.TrainedModel{
				5: {
					Id: 5, JobId: 42, Name: "traffic detector",
					Metrics: map[string]float64{"mAP50": 0.62, "loss": 0.08},
				},
			}, nil
		}

		e := echo.New()
		c, respRec := httptestutil.Get(e, "/api/models/5/metrics")
		c.SetParamNames("modelId")
		c.SetParamValues("5")

		testee := handlers.GetModelMetricsHandler(model.New(mckModels), "modelId")
		if err := testee(c); err != nil {
			t.Fatal(err)
		}

		actual := map[string]float64{}
		if err := json.Unmarshal(respRec.Body.Bytes(), &actual); err != nil {
			t.Fatal(err)
		}
		if !cmp.MapEq(actual, map[string]float64{"mAP50": 0.62, "loss": 0.08}) {
			t.Errorf("unexpected metrics: %v", actual)
		}
	})

	t.Run("when the model has no metrics yet, it should serve an empty mapping", func(t *testing.T) {
		mckModels := mdlmock.NewTrainedModelInterface()
		mckModels.Impl.Get = func(ctx context.Context, ids []int) (map[int]domain.TrainedModel, error) {
			return map[int]domain.TrainedModel{5: {Id: 5, JobId: 42, Name: "m"}}, nil
		}

		e := echo.New()
		c, respRec := httptestutil.Get(e, "/api/models/5/metrics")
		c.SetParamNames("modelId")
		c.SetParamValues("5")

		testee := handlers.GetModelMetricsHandler(model.New(mckModels), "modelId")
		if err := testee(c); err != nil {
			t.Fatal(err)
		}

		if body := strings.TrimSpace(respRec.Body.String()); body != "{}" {
			t.Errorf("body: (actual, expected) = (%s, {})", body)
		}
	})
}
