package mock

import (
	"context"
	"testing"

	"github.com/weftml/weft/pkg/tracker"
)

type CreateRunArgs struct {
	ExperimentId string
	Name         string
	Params       map[string]any
}

type LogMetricsArgs struct {
	RunId   string
	Metrics map[string]float64
}

type SetTerminatedArgs struct {
	RunId  string
	Status tracker.RunStatus
}

func New(t *testing.T) *mockTracker {
	return &mockTracker{t: t}
}

type mockTracker struct {
	t    *testing.T
	Impl struct {
		CreateExperiment func(ctx context.Context, name string) (string, error)
		CreateRun        func(ctx context.Context, experimentId string, name string, params map[string]any) (string, error)
		LogMetrics       func(ctx context.Context, runId string, metrics map[string]float64) error
		SetTerminated    func(ctx context.Context, runId string, status tracker.RunStatus) error
	}
	Calls struct {
		CreateExperiment []string
		CreateRun        []CreateRunArgs
		LogMetrics       []LogMetricsArgs
		SetTerminated    []SetTerminatedArgs
	}
}

var _ tracker.Tracker = &mockTracker{}

func (m *mockTracker) CreateExperiment(ctx context.Context, name string) (string, error) {
	m.t.Helper()

	m.Calls.CreateExperiment = append(m.Calls.CreateExperiment, name)
	if m.Impl.CreateExperiment == nil {
		m.t.Fatal("CreateExperiment is not ready to be called")
	}
	return m.Impl.CreateExperiment(ctx, name)
}

func (m *mockTracker) CreateRun(ctx context.Context, experimentId string, name string, params map[string]any) (string, error) {
	m.t.Helper()

	m.Calls.CreateRun = append(m.Calls.CreateRun, CreateRunArgs{
		ExperimentId: experimentId, Name: name, Params: params,
	})
	if m.Impl.CreateRun == nil {
		m.t.Fatal("CreateRun is not ready to be called")
	}
	return m.Impl.CreateRun(ctx, experimentId, name, params)
}

func (m *mockTracker) LogMetrics(ctx context.Context, runId string, metrics map[string]float64) error {
	m.t.Helper()

	m.Calls.LogMetrics = append(m.Calls.LogMetrics, LogMetricsArgs{
		RunId: runId, Metrics: metrics,
	})
	if m.Impl.LogMetrics == nil {
		m.t.Fatal("LogMetrics is not ready to be called")
	}
	return m.Impl.LogMetrics(ctx, runId, metrics)
}

func (m *mockTracker) SetTerminated(ctx context.Context, runId string, status tracker.RunStatus) error {
	m.t.Helper()

	m.Calls.SetTerminated = append(m.Calls.SetTerminated, SetTerminatedArgs{
		RunId: runId, Status: status,
	})
	if m.Impl.SetTerminated == nil {
		m.t.Fatal("SetTerminated is not ready to be called")
	}
	return m.Impl.SetTerminated(ctx, runId, status)
}
