package pipeline_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	testutilctx "github.com/weftml/weft/internal/testutils/context"
	"github.com/weftml/weft/pkg/domain"
	"github.com/weftml/weft/pkg/pipeline"
	"github.com/weftml/weft/pkg/utils/try"
)

func TestSubmit(t *testing.T) {
	t.Run("when the runner accepts the run, it returns the run handle", func(t *testing.T) {
		ctx, cancel := testutilctx.WithTest(context.Background(), t)
		defer cancel()

		var request *http.Request
		var requestBody map[string]any
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			request = r
			if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
				t.Fatal(err)
			}

			w.Header().Add("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"run": {"runId": "run-britney-1"}}`))
		})
		server := httptest.NewServer(handler)
		defer server.Close()

		testee := pipeline.New(server.URL)
		handle := try.To(testee.Submit(ctx, pipeline.SubmissionRequest{
			JobId:         42,
			ModelType:     "yolo",
			ModelVariant:  "yolov8n",
			DatasetPath:   "/data/work/traffic-abc",
			DatasetFormat: "YOLO",
			TrackingRunId: "tr-1",
			Parameters: map[string]any{
				"epochs":           5,
				"batch_size":       2,
				"learning_rate":    0.01,
				"validation_split": 0.25,
			},
		})).OrFatal(t)

		if handle.RunId != "run-britney-1" {
			t.Errorf("run id: got %s, want run-britney-1", handle.RunId)
		}

		if request.Method != http.MethodPost {
			t.Errorf("method: got %s, want POST", request.Method)
		}
		if request.URL.Path != "/api/v1/pipelines/yolo_training_pipeline/execute" {
			t.Errorf("path: got %s", request.URL.Path)
		}
		if ct := request.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type: got %s", ct)
		}

		if mode := requestBody["mode"]; mode != "default" {
			t.Errorf("mode: got %v, want default", mode)
		}

		ops := requestBody["runConfigData"].(map[string]any)["ops"].(map[string]any)

		loadConfig := ops["load_dataset"].(map[string]any)["config"].(map[string]any)
		for key, want := range map[string]any{
			"job_id":         float64(42),
			"dataset_path":   "/data/work/traffic-abc",
			"dataset_format": "YOLO",
		} {
			if got := loadConfig[key]; got != want {
				t.Errorf("load_dataset config %s: got %v, want %v", key, got, want)
			}
		}

		trainConfig := ops["train_model"].(map[string]any)["config"].(map[string]any)
		for key, want := range map[string]any{
			"job_id":             float64(42),
			"model_type":         "yolo",
			"model_variant":      "yolov8n",
			"epochs":             float64(5),
			"batch_size":         float64(2),
			"learning_rate":      0.01,
			"validation_split":   0.25,
			"augmentation":       "default",
			"transfer_learning":  false,
			"pretrained_weights": "coco",
			"tracking_run_id":    "tr-1",
		} {
			if got := trainConfig[key]; got != want {
				t.Errorf("train_model config %s: got %v, want %v", key, got, want)
			}
		}

		saveConfig := ops["save_model"].(map[string]any)["config"].(map[string]any)
		if got := saveConfig["job_id"]; got != float64(42) {
			t.Errorf("save_model config job_id: got %v, want 42", got)
		}
	})

	t.Run("when parameters carry augmentation knobs, they override the fallbacks", func(t *testing.T) {
		var requestBody map[string]any
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
				t.Fatal(err)
			}
			w.Header().Add("Content-Type", "application/json")
			w.Write([]byte(`{"run": {"runId": "run-1"}}`))
		})
		server := httptest.NewServer(handler)
		defer server.Close()

		testee := pipeline.New(server.URL)
		try.To(testee.Submit(context.Background(), pipeline.SubmissionRequest{
			JobId:        1,
			ModelType:    "yolo",
			ModelVariant: "yolov8n",
			Parameters: map[string]any{
				"augmentation":       "mosaic",
				"transfer_learning":  true,
				"pretrained_weights": "imagenet",
			},
		})).OrFatal(t)

		ops := requestBody["runConfigData"].(map[string]any)["ops"].(map[string]any)
		trainConfig := ops["train_model"].(map[string]any)["config"].(map[string]any)
		for key, want := range map[string]any{
			"augmentation":       "mosaic",
			"transfer_learning":  true,
			"pretrained_weights": "imagenet",
		} {
			if got := trainConfig[key]; got != want {
				t.Errorf("train_model config %s: got %v, want %v", key, got, want)
			}
		}
	})

	t.Run("when the model type is rf-detr, it executes the rf-detr pipeline", func(t *testing.T) {
		var requestPath string
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestPath = r.URL.Path
			w.Header().Add("Content-Type", "application/json")
			w.Write([]byte(`{"run": {"runId": "run-2"}}`))
		})
		server := httptest.NewServer(handler)
		defer server.Close()

		testee := pipeline.New(server.URL)
		try.To(testee.Submit(context.Background(), pipeline.SubmissionRequest{
			JobId:        7,
			ModelType:    "rf-detr",
			ModelVariant: "rf_detr_r50",
			Parameters:   map[string]any{},
		})).OrFatal(t)

		if requestPath != "/api/v1/pipelines/rf_detr_training_pipeline/execute" {
			t.Errorf("path: got %s", requestPath)
		}
	})

	t.Run("when the runner returns no run id, it returns an error", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("Content-Type", "application/json")
			w.Write([]byte(`{"run": {}}`))
		})
		server := httptest.NewServer(handler)
		defer server.Close()

		testee := pipeline.New(server.URL)
		if _, err := testee.Submit(context.Background(), pipeline.SubmissionRequest{
			JobId: 1, ModelType: "yolo", Parameters: map[string]any{},
		}); err == nil {
			t.Error("no error occured")
		}
	})

	t.Run("a server responding with error is given", func(t *testing.T) {
		for _, status := range []int{http.StatusNotFound, http.StatusInternalServerError} {
			t.Run(fmt.Sprintf("when server responding with %d, it returns error", status), func(t *testing.T) {
				handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(status)
					w.Write([]byte(`{"error": "something wrong"}`))
				})
				server := httptest.NewServer(handler)
				defer server.Close()

				testee := pipeline.New(server.URL)
				if _, err := testee.Submit(context.Background(), pipeline.SubmissionRequest{
					JobId: 1, ModelType: "yolo", Parameters: map[string]any{},
				}); err == nil {
					t.Error("no error occured")
				}
			})
		}
	})
}

func TestStatus(t *testing.T) {
	for state, want := range map[string]domain.TrainingJobStatus{
		"QUEUED":    domain.StatusRunning,
		"STARTING":  domain.StatusRunning,
		"STARTED":   domain.StatusRunning,
		"CANCELING": domain.StatusRunning,
		"SUCCESS":   domain.StatusCompleted,
		"FAILURE":   domain.StatusFailed,
		"CANCELED":  domain.StatusCancelled,
	} {
		t.Run(fmt.Sprintf("when the runner reports %s, it maps to %s", state, want), func(t *testing.T) {
			var request *http.Request
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				request = r
				w.Header().Add("Content-Type", "application/json")
				fmt.Fprintf(w, `{"runId": "run-3", "status": "%s"}`, state)
			})
			server := httptest.NewServer(handler)
			defer server.Close()

			testee := pipeline.New(server.URL)
			got := try.To(testee.Status(context.Background(), "run-3")).OrFatal(t)

			if got != want {
				t.Errorf("status: got %s, want %s", got, want)
			}
			if request.URL.Path != "/api/v1/runs/run-3" {
				t.Errorf("path: got %s", request.URL.Path)
			}
		})
	}

	t.Run("when the runner reports an unknown state, it returns an error", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("Content-Type", "application/json")
			w.Write([]byte(`{"runId": "run-3", "status": "PURPLE"}`))
		})
		server := httptest.NewServer(handler)
		defer server.Close()

		testee := pipeline.New(server.URL)
		if _, err := testee.Status(context.Background(), "run-3"); err == nil {
			t.Error("no error occured")
		}
	})

	t.Run("when the run is not found, it returns an error", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
		server := httptest.NewServer(handler)
		defer server.Close()

		testee := pipeline.New(server.URL)
		if _, err := testee.Status(context.Background(), "run-gone"); err == nil {
			t.Error("no error occured")
		}
	})
}

func TestCancel(t *testing.T) {
	t.Run("when the runner accepts, it returns no error", func(t *testing.T) {
		var request *http.Request
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			request = r
			w.WriteHeader(http.StatusOK)
		})
		server := httptest.NewServer(handler)
		defer server.Close()

		testee := pipeline.New(server.URL)
		if err := testee.Cancel(context.Background(), "run-4"); err != nil {
			t.Fatal(err)
		}

		if request.Method != http.MethodPost {
			t.Errorf("method: got %s, want POST", request.Method)
		}
		if request.URL.Path != "/api/v1/runs/run-4/cancel" {
			t.Errorf("path: got %s", request.URL.Path)
		}
	})

	t.Run("when the runner refuses, it returns an error", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
			w.Write([]byte(`{"error": "already finished"}`))
		})
		server := httptest.NewServer(handler)
		defer server.Close()

		testee := pipeline.New(server.URL)
		if err := testee.Cancel(context.Background(), "run-4"); err == nil {
			t.Error("no error occured")
		}
	})
}
