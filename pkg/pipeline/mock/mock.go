package mock

import (
	"context"
	"testing"

	"github.com/weftml/weft/pkg/domain"
	"github.com/weftml/weft/pkg/pipeline"
)

func New(t *testing.T) *mockRunner {
	return &mockRunner{t: t}
}

type mockRunner struct {
	t    *testing.T
	Impl struct {
		Submit func(ctx context.Context, req pipeline.SubmissionRequest) (pipeline.RunHandle, error)
		Status func(ctx context.Context, runId string) (domain.TrainingJobStatus, error)
		Cancel func(ctx context.Context, runId string) error
	}
	Calls struct {
		Submit []pipeline.SubmissionRequest
		Status []string
		Cancel []string
	}
}

var _ pipeline.Runner = &mockRunner{}

func (m *mockRunner) Submit(ctx context.Context, req pipeline.SubmissionRequest) (pipeline.RunHandle, error) {
	m.t.Helper()

	m.Calls.Submit = append(m.Calls.Submit, req)
	if m.Impl.Submit == nil {
		m.t.Fatal("Submit is not ready to be called")
	}
	return m.Impl.Submit(ctx, req)
}

func (m *mockRunner) Status(ctx context.Context, runId string) (domain.TrainingJobStatus, error) {
	m.t.Helper()

	m.Calls.Status = append(m.Calls.Status, runId)
	if m.Impl.Status == nil {
		m.t.Fatal("Status is not ready to be called")
	}
	return m.Impl.Status(ctx, runId)
}

func (m *mockRunner) Cancel(ctx context.Context, runId string) error {
	m.t.Helper()

	m.Calls.Cancel = append(m.Calls.Cancel, runId)
	if m.Impl.Cancel == nil {
		m.t.Fatal("Cancel is not ready to be called")
	}
	return m.Impl.Cancel(ctx, runId)
}
