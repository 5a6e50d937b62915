// Package pipeline is the client for the training pipeline runner's HTTP API.
//
// The runner executes named training pipelines. Weft submits one run per
// training job and follows it by polling the run status.
package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/weftml/weft/pkg/conn/rest"
	"github.com/weftml/weft/pkg/domain"
	"github.com/weftml/weft/pkg/utils"
)

const (
	PipelineYOLO   = "yolo_training_pipeline"
	PipelineRFDETR = "rf_detr_training_pipeline"
)

// PipelineFor names the runner pipeline which trains the given model type.
func PipelineFor(modelType string) string {
	if modelType == "rf-detr" {
		return PipelineRFDETR
	}
	return PipelineYOLO
}

// SubmissionRequest carries everything the runner needs to train one job.
type SubmissionRequest struct {
	JobId         int
	ModelType     string
	ModelVariant  string
	DatasetPath   string
	DatasetFormat string
	TrackingRunId string

	// training parameters, with defaults already applied.
	Parameters map[string]any
}

// RunHandle identifies a submitted pipeline run.
type RunHandle struct {
	RunId string
}

type Runner interface {
	// Submit starts a pipeline run for the job.
	//
	// # Args
	//
	// - ctx
	//
	// - req: what to train and on which dataset.
	//
	// # Returns
	//
	// - RunHandle: handle of the started run
	//
	// - error
	Submit(ctx context.Context, req SubmissionRequest) (RunHandle, error)

	// Status fetches the run state and maps it onto the job lifecycle.
	//
	// QUEUED, NOT_STARTED, STARTING, STARTED and CANCELING map to running,
	// SUCCESS to completed, FAILURE to failed, CANCELED to cancelled.
	// Any other state is an error.
	Status(ctx context.Context, runId string) (domain.TrainingJobStatus, error)

	// Cancel stops the run. Cancelling an already finished run is the
	// runner's business; this client only reports what the runner said.
	Cancel(ctx context.Context, runId string) error
}

type client struct {
	httpclient *http.Client
	api        string
}

// New creates a Runner talking to the runner API at endpoint.
func New(endpoint string) Runner {
	return &client{
		httpclient: new(http.Client),
		api:        strings.TrimSuffix(endpoint, "/"),
	}
}

// build URL with path
func (c *client) apipath(path ...string) string {
	path = utils.Map(path, func(p string) string {
		return strings.TrimPrefix(strings.TrimSuffix(p, "/"), "/")
	})

	return strings.Join(append([]string{c.api}, path...), "/")
}

type executeRequest struct {
	Mode          string         `json:"mode"`
	RunConfigData map[string]any `json:"runConfigData"`
}

type runDetail struct {
	Run struct {
		RunId string `json:"runId"`
	} `json:"run"`
}

type runInfo struct {
	RunId  string `json:"runId"`
	Status string `json:"status"`
}

func (c *client) Submit(ctx context.Context, sub SubmissionRequest) (RunHandle, error) {
	body, err := json.Marshal(executeRequest{
		Mode:          "default",
		RunConfigData: map[string]any{"ops": opsConfig(sub)},
	})
	if err != nil {
		return RunHandle{}, err
	}

	pipelineName := PipelineFor(sub.ModelType)
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost,
		c.apipath("api/v1/pipelines", pipelineName, "execute"),
		bytes.NewReader(body),
	)
	if err != nil {
		return RunHandle{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpclient.Do(req)
	if err != nil {
		return RunHandle{}, err
	}
	defer resp.Body.Close()

	var detail runDetail
	if err := rest.UnmarshalJsonResponse(
		resp, &detail,
		rest.MessageFor{
			rest.Status4xx: fmt.Sprintf("pipeline %s cannot be executed", pipelineName),
			rest.Status5xx: fmt.Sprintf("runner error (status code = %d)", resp.StatusCode),
		},
	); err != nil {
		return RunHandle{}, err
	}

	if detail.Run.RunId == "" {
		return RunHandle{}, fmt.Errorf("no run id returned from the runner")
	}
	return RunHandle{RunId: detail.Run.RunId}, nil
}

func (c *client) Status(ctx context.Context, runId string) (domain.TrainingJobStatus, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, c.apipath("api/v1/runs", runId), nil,
	)
	if err != nil {
		return "", err
	}

	resp, err := c.httpclient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var info runInfo
	if err := rest.UnmarshalJsonResponse(
		resp, &info,
		rest.MessageFor{
			rest.Status4xx: fmt.Sprintf("run %s is not found", runId),
			rest.Status5xx: fmt.Sprintf("runner error (status code = %d)", resp.StatusCode),
		},
	); err != nil {
		return "", err
	}

	return asJobStatus(info.Status)
}

func (c *client) Cancel(ctx context.Context, runId string) error {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.apipath("api/v1/runs", runId, "cancel"), nil,
	)
	if err != nil {
		return err
	}

	resp, err := c.httpclient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return rest.UnmarshalResponseDiscardingPayload(
		resp,
		rest.MessageFor{
			rest.Status4xx: fmt.Sprintf("run %s cannot be cancelled", runId),
			rest.Status5xx: fmt.Sprintf("runner error (status code = %d)", resp.StatusCode),
		},
	)
}

// opsConfig builds the per-op run config of the training pipelines.
// Every pipeline has the same four ops; train_model takes the
// hyperparameters, the rest need only the job they belong to.
func opsConfig(sub SubmissionRequest) map[string]any {
	return map[string]any{
		"load_dataset": opOf(map[string]any{
			"job_id":         sub.JobId,
			"dataset_path":   sub.DatasetPath,
			"dataset_format": sub.DatasetFormat,
		}),
		"train_model": opOf(map[string]any{
			"job_id":             sub.JobId,
			"model_type":         sub.ModelType,
			"model_variant":      sub.ModelVariant,
			"epochs":             sub.Parameters["epochs"],
			"batch_size":         sub.Parameters["batch_size"],
			"learning_rate":      sub.Parameters["learning_rate"],
			"validation_split":   sub.Parameters["validation_split"],
			"augmentation":       paramOr(sub.Parameters, "augmentation", "default"),
			"transfer_learning":  paramOr(sub.Parameters, "transfer_learning", false),
			"pretrained_weights": paramOr(sub.Parameters, "pretrained_weights", "coco"),
			"tracking_run_id":    sub.TrackingRunId,
		}),
		"evaluate_model": opOf(map[string]any{
			"job_id":          sub.JobId,
			"tracking_run_id": sub.TrackingRunId,
		}),
		"save_model": opOf(map[string]any{
			"job_id": sub.JobId,
		}),
	}
}

func opOf(config map[string]any) map[string]any {
	return map[string]any{"config": config}
}

func paramOr(params map[string]any, key string, fallback any) any {
	if v, ok := params[key]; ok {
		return v
	}
	return fallback
}

func asJobStatus(state string) (domain.TrainingJobStatus, error) {
	switch state {
	case "QUEUED", "NOT_STARTED", "STARTING", "STARTED", "CANCELING":
		return domain.StatusRunning, nil
	case "SUCCESS":
		return domain.StatusCompleted, nil
	case "FAILURE":
		return domain.StatusFailed, nil
	case "CANCELED":
		return domain.StatusCancelled, nil
	}
	return "", fmt.Errorf("unexpected runner state: %s", state)
}
