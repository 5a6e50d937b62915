package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	apicatalog "github.com/weftml/weft/pkg/api/types/catalog"
	apidatasets "github.com/weftml/weft/pkg/api/types/datasets"
	apijobs "github.com/weftml/weft/pkg/api/types/jobs"
	apimodels "github.com/weftml/weft/pkg/api/types/models"
	"github.com/weftml/weft/pkg/conn/rest"
)

// DatasetPush is what `weft dataset push` sends to the server.
type DatasetPush struct {
	Name    string
	Version string
	Format  string

	// path of the archive file to be uploaded.
	Archive string
}

type WeftClient interface {
	// PushDataset uploads a dataset archive and registers it.
	//
	// # Args
	//
	// - context.Context
	//
	// - DatasetPush: name, version, format and archive of the dataset.
	//
	// # Returns
	//
	// - apidatasets.Detail: metadata of the registered dataset
	//
	// - error
	PushDataset(ctx context.Context, push DatasetPush) (apidatasets.Detail, error)

	// FindDataset finds datasets with given name and version.
	//
	// Pass "" to leave a filter unset.
	FindDataset(ctx context.Context, name string, version string) ([]apidatasets.Detail, error)

	// GetDataset gets a dataset detail with given id.
	GetDataset(ctx context.Context, datasetId int) (apidatasets.Detail, error)

	// ApplyJob submits a training job.
	//
	// # Args
	//
	// - context.Context
	//
	// - apijobs.Submission: spec of the job to be submitted
	//
	// # Returns
	//
	// - apijobs.Detail: metadata of the submitted job
	//
	// - error
	ApplyJob(ctx context.Context, spec apijobs.Submission) (apijobs.Detail, error)

	// FindJob finds jobs with given status. Pass "" for all jobs.
	FindJob(ctx context.Context, status string) ([]apijobs.Summary, error)

	// GetJob gets a job detail with given id.
	GetJob(ctx context.Context, jobId int) (apijobs.Detail, error)

	// StopJob cancels a job with given id.
	StopJob(ctx context.Context, jobId int) (apijobs.Detail, error)

	// FindModel finds trained models. Pass jobId = 0 for all models.
	FindModel(ctx context.Context, jobId int) ([]apimodels.Summary, error)

	// GetModel gets a trained model detail with given id.
	GetModel(ctx context.Context, modelId int) (apimodels.Detail, error)

	// GetCatalog tells what the server accepts: model types, variants,
	// dataset formats and training parameter defaults.
	GetCatalog(ctx context.Context) (apicatalog.Catalog, error)
}

type client struct {
	httpclient *http.Client
	api        string
}

// create new weft client.
//
// # Args
//
// - server: URL of the weft server, like "http://localhost:8080"
//
// # Return
//
// - WeftClient: created client
func NewClient(server string) WeftClient {
	return &client{
		httpclient: new(http.Client),
		api:        strings.TrimSuffix(server, "/") + "/api",
	}
}

// build URL with path
func (c *client) apipath(path ...string) string {
	for i, p := range path {
		path[i] = strings.TrimPrefix(strings.TrimSuffix(p, "/"), "/")
	}

	return strings.Join(append([]string{c.api}, path...), "/")
}

func (c *client) PushDataset(ctx context.Context, push DatasetPush) (apidatasets.Detail, error) {
	f, err := os.Open(push.Archive)
	if err != nil {
		return apidatasets.Detail{}, err
	}
	defer f.Close()

	r, w := io.Pipe()
	mw := multipart.NewWriter(w)
	go func() {
		err := func() error {
			if err := mw.WriteField("name", push.Name); err != nil {
				return err
			}
			if push.Version != "" {
				if err := mw.WriteField("version", push.Version); err != nil {
					return err
				}
			}
			if err := mw.WriteField("format", push.Format); err != nil {
				return err
			}
			part, err := mw.CreateFormFile("file", filepath.Base(push.Archive))
			if err != nil {
				return err
			}
			if _, err := io.Copy(part, f); err != nil {
				return err
			}
			return mw.Close()
		}()
		w.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apipath("datasets"), r)
	if err != nil {
		return apidatasets.Detail{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpclient.Do(req)
	if err != nil {
		return apidatasets.Detail{}, err
	}
	defer resp.Body.Close()

	res := apidatasets.Detail{}
	if err := rest.UnmarshalJsonResponse(
		resp, &res,
		rest.MessageFor{
			rest.Status4xx: fmt.Sprintf("dataset is rejected by server (status code = %d)", resp.StatusCode),
			rest.Status5xx: fmt.Sprintf("server error (status code = %d)", resp.StatusCode),
		},
	); err != nil {
		return apidatasets.Detail{}, err
	}
	return res, nil
}

func (c *client) FindDataset(ctx context.Context, name string, version string) ([]apidatasets.Detail, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apipath("datasets"), nil)
	if err != nil {
		return nil, err
	}
	q := req.URL.Query()
	if name != "" {
		q.Add("name", name)
	}
	if version != "" {
		q.Add("version", version)
	}
	req.URL.RawQuery = q.Encode()

	resp, err := c.httpclient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	found := make([]apidatasets.Detail, 0, 5)
	if err := rest.UnmarshalJsonResponse(
		resp, &found,
		rest.MessageFor{
			rest.Status4xx: fmt.Sprintf("[BUG] client is not compatible with the server (status code = %d)", resp.StatusCode),
			rest.Status5xx: fmt.Sprintf("server error (status code = %d)", resp.StatusCode),
		},
	); err != nil {
		return nil, err
	}
	return found, nil
}

func (c *client) GetDataset(ctx context.Context, datasetId int) (apidatasets.Detail, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, c.apipath("datasets", strconv.Itoa(datasetId)), nil,
	)
	if err != nil {
		return apidatasets.Detail{}, err
	}

	resp, err := c.httpclient.Do(req)
	if err != nil {
		return apidatasets.Detail{}, err
	}
	defer resp.Body.Close()

	res := apidatasets.Detail{}
	if err := rest.UnmarshalJsonResponse(
		resp, &res,
		rest.MessageFor{
			rest.Status4xx: fmt.Sprintf("dataset %d is not found", datasetId),
			rest.Status5xx: fmt.Sprintf("server error (status code = %d)", resp.StatusCode),
		},
	); err != nil {
		return apidatasets.Detail{}, err
	}
	return res, nil
}

func (c *client) ApplyJob(ctx context.Context, spec apijobs.Submission) (apijobs.Detail, error) {
	b, err := json.Marshal(spec)
	if err != nil {
		return apijobs.Detail{}, err
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.apipath("jobs"), bytes.NewBuffer(b),
	)
	if err != nil {
		return apijobs.Detail{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpclient.Do(req)
	if err != nil {
		return apijobs.Detail{}, err
	}
	defer resp.Body.Close()

	res := apijobs.Detail{}
	if err := rest.UnmarshalJsonResponse(
		resp, &res,
		rest.MessageFor{
			rest.Status4xx: "job is rejected by server",
			rest.Status5xx: fmt.Sprintf("server error (status code = %d)", resp.StatusCode),
		},
	); err != nil {
		return apijobs.Detail{}, err
	}
	return res, nil
}

func (c *client) FindJob(ctx context.Context, status string) ([]apijobs.Summary, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apipath("jobs"), nil)
	if err != nil {
		return nil, err
	}
	if status != "" {
		q := req.URL.Query()
		q.Add("status", status)
		req.URL.RawQuery = q.Encode()
	}

	resp, err := c.httpclient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	found := make([]apijobs.Summary, 0, 5)
	if err := rest.UnmarshalJsonResponse(
		resp, &found,
		rest.MessageFor{
			rest.Status4xx: fmt.Sprintf("unknown status: %s", status),
			rest.Status5xx: fmt.Sprintf("server error (status code = %d)", resp.StatusCode),
		},
	); err != nil {
		return nil, err
	}
	return found, nil
}

func (c *client) GetJob(ctx context.Context, jobId int) (apijobs.Detail, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, c.apipath("jobs", strconv.Itoa(jobId)), nil,
	)
	if err != nil {
		return apijobs.Detail{}, err
	}

	resp, err := c.httpclient.Do(req)
	if err != nil {
		return apijobs.Detail{}, err
	}
	defer resp.Body.Close()

	res := apijobs.Detail{}
	if err := rest.UnmarshalJsonResponse(
		resp, &res,
		rest.MessageFor{
			rest.Status4xx: fmt.Sprintf("job %d is not found", jobId),
			rest.Status5xx: fmt.Sprintf("server error (status code = %d)", resp.StatusCode),
		},
	); err != nil {
		return apijobs.Detail{}, err
	}
	return res, nil
}

func (c *client) StopJob(ctx context.Context, jobId int) (apijobs.Detail, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.apipath("jobs", strconv.Itoa(jobId), "cancel"), nil,
	)
	if err != nil {
		return apijobs.Detail{}, err
	}

	resp, err := c.httpclient.Do(req)
	if err != nil {
		return apijobs.Detail{}, err
	}
	defer resp.Body.Close()

	res := apijobs.Detail{}
	if err := rest.UnmarshalJsonResponse(
		resp, &res,
		rest.MessageFor{
			rest.Status4xx: fmt.Sprintf("job %d cannot be stopped", jobId),
			rest.Status5xx: fmt.Sprintf("server error (status code = %d)", resp.StatusCode),
		},
	); err != nil {
		return apijobs.Detail{}, err
	}
	return res, nil
}

func (c *client) FindModel(ctx context.Context, jobId int) ([]apimodels.Summary, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apipath("models"), nil)
	if err != nil {
		return nil, err
	}
	if jobId != 0 {
		q := req.URL.Query()
		q.Add("job_id", strconv.Itoa(jobId))
		req.URL.RawQuery = q.Encode()
	}

	resp, err := c.httpclient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	found := make([]apimodels.Summary, 0, 5)
	if err := rest.UnmarshalJsonResponse(
		resp, &found,
		rest.MessageFor{
			rest.Status4xx: fmt.Sprintf("[BUG] client is not compatible with the server (status code = %d)", resp.StatusCode),
			rest.Status5xx: fmt.Sprintf("server error (status code = %d)", resp.StatusCode),
		},
	); err != nil {
		return nil, err
	}
	return found, nil
}

func (c *client) GetModel(ctx context.Context, modelId int) (apimodels.Detail, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, c.apipath("models", strconv.Itoa(modelId)), nil,
	)
	if err != nil {
		return apimodels.Detail{}, err
	}

	resp, err := c.httpclient.Do(req)
	if err != nil {
		return apimodels.Detail{}, err
	}
	defer resp.Body.Close()

	res := apimodels.Detail{}
	if err := rest.UnmarshalJsonResponse(
		resp, &res,
		rest.MessageFor{
			rest.Status4xx: fmt.Sprintf("model %d is not found", modelId),
			rest.Status5xx: fmt.Sprintf("server error (status code = %d)", resp.StatusCode),
		},
	); err != nil {
		return apimodels.Detail{}, err
	}
	return res, nil
}

func (c *client) GetCatalog(ctx context.Context) (apicatalog.Catalog, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apipath("catalog"), nil)
	if err != nil {
		return apicatalog.Catalog{}, err
	}

	resp, err := c.httpclient.Do(req)
	if err != nil {
		return apicatalog.Catalog{}, err
	}
	defer resp.Body.Close()

	res := apicatalog.Catalog{}
	if err := rest.UnmarshalJsonResponse(
		resp, &res,
		rest.MessageFor{
			rest.Status4xx: fmt.Sprintf("[BUG] client is not compatible with the server (status code = %d)", resp.StatusCode),
			rest.Status5xx: fmt.Sprintf("server error (status code = %d)", resp.StatusCode),
		},
	); err != nil {
		return apicatalog.Catalog{}, err
	}
	return res, nil
}
