// Package tracker is the client for the experiment tracking service.
//
// Weft records every training job as a run under an experiment named
// after the job, so training metrics land in one browsable place.
package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/weftml/weft/pkg/conn/rest"
	"github.com/weftml/weft/pkg/utils"
)

// RunStatus is a terminal state of a tracked run.
type RunStatus string

const (
	RunFinished RunStatus = "FINISHED"
	RunFailed   RunStatus = "FAILED"
	RunKilled   RunStatus = "KILLED"
)

type Tracker interface {
	// CreateExperiment finds the experiment named name, creating it when
	// there is none yet.
	//
	// # Returns
	//
	// - string: experiment id
	//
	// - error
	CreateExperiment(ctx context.Context, name string) (string, error)

	// CreateRun starts a run under the experiment and logs params on it.
	//
	// Only scalar parameter values (strings, booleans, integers, floats)
	// are logged; anything else is skipped.
	//
	// # Returns
	//
	// - string: run id. It is set even when parameter logging failed,
	// since the run exists on the tracker by then.
	//
	// - error
	CreateRun(ctx context.Context, experimentId string, name string, params map[string]any) (string, error)

	// LogMetrics records metric values on the run.
	LogMetrics(ctx context.Context, runId string, metrics map[string]float64) error

	// SetTerminated closes the run with the given terminal state.
	SetTerminated(ctx context.Context, runId string, status RunStatus) error
}

type client struct {
	httpclient *http.Client
	api        string
}

// New creates a Tracker talking to the tracking service at endpoint.
func New(endpoint string) Tracker {
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

func (c *client) postJson(ctx context.Context, path string, body any) (*http.Response, error) {
	buf, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.apipath(path), bytes.NewReader(buf),
	)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.httpclient.Do(req)
}

type experimentDetail struct {
	Experiment struct {
		ExperimentId string `json:"experiment_id"`
	} `json:"experiment"`
}

type createdExperiment struct {
	ExperimentId string `json:"experiment_id"`
}

type runDetail struct {
	Run struct {
		Info struct {
			RunId string `json:"run_id"`
		} `json:"info"`
	} `json:"run"`
}

type runParam struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type runMetric struct {
	Key       string  `json:"key"`
	Value     float64 `json:"value"`
	Timestamp int64   `json:"timestamp"`
}

func (c *client) CreateExperiment(ctx context.Context, name string) (string, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, c.apipath("api/2.0/mlflow/experiments/get-by-name"), nil,
	)
	if err != nil {
		return "", err
	}
	q := req.URL.Query()
	q.Add("experiment_name", name)
	req.URL.RawQuery = q.Encode()

	resp, err := c.httpclient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		io.Copy(io.Discard, resp.Body)
		return c.newExperiment(ctx, name)
	}

	var found experimentDetail
	if err := rest.UnmarshalJsonResponse(
		resp, &found,
		rest.MessageFor{
			rest.Status4xx: fmt.Sprintf("experiment %s cannot be looked up", name),
			rest.Status5xx: fmt.Sprintf("tracker error (status code = %d)", resp.StatusCode),
		},
	); err != nil {
		return "", err
	}
	return found.Experiment.ExperimentId, nil
}

func (c *client) newExperiment(ctx context.Context, name string) (string, error) {
	resp, err := c.postJson(
		ctx, "api/2.0/mlflow/experiments/create",
		map[string]string{"name": name},
	)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var created createdExperiment
	if err := rest.UnmarshalJsonResponse(
		resp, &created,
		rest.MessageFor{
			rest.Status4xx: fmt.Sprintf("experiment %s cannot be created", name),
			rest.Status5xx: fmt.Sprintf("tracker error (status code = %d)", resp.StatusCode),
		},
	); err != nil {
		return "", err
	}
	return created.ExperimentId, nil
}

func (c *client) CreateRun(ctx context.Context, experimentId string, name string, params map[string]any) (string, error) {
	resp, err := c.postJson(
		ctx, "api/2.0/mlflow/runs/create",
		map[string]any{
			"experiment_id": experimentId,
			"run_name":      name,
			"start_time":    time.Now().UnixMilli(),
		},
	)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var created runDetail
	if err := rest.UnmarshalJsonResponse(
		resp, &created,
		rest.MessageFor{
			rest.Status4xx: fmt.Sprintf("run cannot be created in experiment %s", experimentId),
			rest.Status5xx: fmt.Sprintf("tracker error (status code = %d)", resp.StatusCode),
		},
	); err != nil {
		return "", err
	}
	runId := created.Run.Info.RunId

	scalars := scalarParams(params)
	if len(scalars) == 0 {
		return runId, nil
	}

	logResp, err := c.postJson(
		ctx, "api/2.0/mlflow/runs/log-batch",
		map[string]any{"run_id": runId, "params": scalars},
	)
	if err != nil {
		return runId, err
	}
	defer logResp.Body.Close()

	return runId, rest.UnmarshalResponseDiscardingPayload(
		logResp,
		rest.MessageFor{
			rest.Status4xx: fmt.Sprintf("parameters cannot be logged on run %s", runId),
			rest.Status5xx: fmt.Sprintf("tracker error (status code = %d)", logResp.StatusCode),
		},
	)
}

func (c *client) LogMetrics(ctx context.Context, runId string, metrics map[string]float64) error {
	now := time.Now().UnixMilli()

	keys := make([]string, 0, len(metrics))
	for key := range metrics {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	batch := make([]runMetric, 0, len(metrics))
	for _, key := range keys {
		batch = append(batch, runMetric{Key: key, Value: metrics[key], Timestamp: now})
	}

	resp, err := c.postJson(
		ctx, "api/2.0/mlflow/runs/log-batch",
		map[string]any{"run_id": runId, "metrics": batch},
	)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return rest.UnmarshalResponseDiscardingPayload(
		resp,
		rest.MessageFor{
			rest.Status4xx: fmt.Sprintf("metrics cannot be logged on run %s", runId),
			rest.Status5xx: fmt.Sprintf("tracker error (status code = %d)", resp.StatusCode),
		},
	)
}

func (c *client) SetTerminated(ctx context.Context, runId string, status RunStatus) error {
	resp, err := c.postJson(
		ctx, "api/2.0/mlflow/runs/update",
		map[string]any{
			"run_id":   runId,
			"status":   string(status),
			"end_time": time.Now().UnixMilli(),
		},
	)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return rest.UnmarshalResponseDiscardingPayload(
		resp,
		rest.MessageFor{
			rest.Status4xx: fmt.Sprintf("run %s cannot be terminated", runId),
			rest.Status5xx: fmt.Sprintf("tracker error (status code = %d)", resp.StatusCode),
		},
	)
}

// scalarParams picks the loggable parameters, stringified, in key order.
func scalarParams(params map[string]any) []runParam {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	scalars := make([]runParam, 0, len(params))
	for _, key := range keys {
		switch v := params[key].(type) {
		case string, bool,
			int, int8, int16, int32, int64,
			uint, uint8, uint16, uint32, uint64,
			float32, float64:
			scalars = append(scalars, runParam{Key: key, Value: fmt.Sprintf("%v", v)})
		}
	}
	return scalars
}
