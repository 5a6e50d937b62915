package mock

import (
	"context"
	"errors"

	"github.com/weftml/weft/pkg/domain"
	dbmock "github.com/weftml/weft/pkg/domain/internal/db/mock"
	kdb "github.com/weftml/weft/pkg/domain/trainjob/db"
)

type TrainingJobInterface struct {
	Impl struct {
		Register          func(ctx context.Context, job domain.TrainingJob) (int, error)
		Get               func(ctx context.Context, ids []int) (map[int]domain.TrainingJob, error)
		GetAll            func(ctx context.Context, status ...domain.TrainingJobStatus) ([]domain.TrainingJob, error)
		SetStatus         func(ctx context.Context, jobId int, newStatus domain.TrainingJobStatus) error
		AttachTracking    func(ctx context.Context, jobId int, experimentId string, runId string) error
		AttachPipelineRun func(ctx context.Context, jobId int, pipelineRunId string) error
		SetError          func(ctx context.Context, jobId int, message string) error
	}

	Calls struct {
		Register  dbmock.CallLog[domain.TrainingJob]
		Get       dbmock.CallLog[[]int]
		GetAll    dbmock.CallLog[[]domain.TrainingJobStatus]
		SetStatus dbmock.CallLog[struct {
			JobId     int
			NewStatus domain.TrainingJobStatus
		}]
		AttachTracking dbmock.CallLog[struct {
			JobId        int
			ExperimentId string
			RunId        string
		}]
		AttachPipelineRun dbmock.CallLog[struct {
			JobId         int
			PipelineRunId string
		}]
		SetError dbmock.CallLog[struct {
			JobId   int
			Message string
		}]
	}
}

func NewTrainingJobInterface() *TrainingJobInterface {
	return &TrainingJobInterface{}
}

var _ kdb.TrainingJobInterface = &TrainingJobInterface{}

func (m *TrainingJobInterface) Register(ctx context.Context, job domain.TrainingJob) (int, error) {
	m.Calls.Register = append(m.Calls.Register, job)
	if m.Impl.Register != nil {
		return m.Impl.Register(ctx, job)
	}

	panic(errors.New("it should not be called"))
}

func (m *TrainingJobInterface) Get(ctx context.Context, ids []int) (map[int]domain.TrainingJob, error) {
	m.Calls.Get = append(m.Calls.Get, ids)
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, ids)
	}

	panic(errors.New("it should not be called"))
}

func (m *TrainingJobInterface) GetAll(ctx context.Context, status ...domain.TrainingJobStatus) ([]domain.TrainingJob, error) {
	m.Calls.GetAll = append(m.Calls.GetAll, status)
	if m.Impl.GetAll != nil {
		return m.Impl.GetAll(ctx, status...)
	}

	panic(errors.New("it should not be called"))
}

func (m *TrainingJobInterface) SetStatus(ctx context.Context, jobId int, newStatus domain.TrainingJobStatus) error {
	m.Calls.SetStatus = append(m.Calls.SetStatus, struct {
		JobId     int
		NewStatus domain.TrainingJobStatus
	}{JobId: jobId, NewStatus: newStatus})
	if m.Impl.SetStatus != nil {
		return m.Impl.SetStatus(ctx, jobId, newStatus)
	}

	panic(errors.New("it should not be called"))
}

func (m *TrainingJobInterface) AttachTracking(ctx context.Context, jobId int, experimentId string, runId string) error {
	m.Calls.AttachTracking = append(m.Calls.AttachTracking, struct {
		JobId        int
		ExperimentId string
		RunId        string
	}{JobId: jobId, ExperimentId: experimentId, RunId: runId})
	if m.Impl.AttachTracking != nil {
		return m.Impl.AttachTracking(ctx, jobId, experimentId, runId)
	}

	panic(errors.New("it should not be called"))
}

func (m *TrainingJobInterface) AttachPipelineRun(ctx context.Context, jobId int, pipelineRunId string) error {
	m.Calls.AttachPipelineRun = append(m.Calls.AttachPipelineRun, struct {
		JobId         int
		PipelineRunId string
	}{JobId: jobId, PipelineRunId: pipelineRunId})
	if m.Impl.AttachPipelineRun != nil {
		return m.Impl.AttachPipelineRun(ctx, jobId, pipelineRunId)
	}

	panic(errors.New("it should not be called"))
}

func (m *TrainingJobInterface) SetError(ctx context.Context, jobId int, message string) error {
	m.Calls.SetError = append(m.Calls.SetError, struct {
		JobId   int
		Message string
	}{JobId: jobId, Message: message})
	if m.Impl.SetError != nil {
		return m.Impl.SetError(ctx, jobId, message)
	}

	panic(errors.New("it should not be called"))
}
