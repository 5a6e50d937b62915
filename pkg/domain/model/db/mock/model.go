package mock

import (
	"context"
	"errors"

	"github.com/weftml/weft/pkg/domain"
	dbmock "github.com/weftml/weft/pkg/domain/internal/db/mock"
	kdb "github.com/weftml/weft/pkg/domain/model/db"
)

type TrainedModelInterface struct {
	Impl struct {
		Register func(ctx context.Context, model domain.TrainedModel) (int, error)
		Get      func(ctx context.Context, ids []int) (map[int]domain.TrainedModel, error)
		GetByJob func(ctx context.Context, jobId int) ([]domain.TrainedModel, error)
		GetAll   func(ctx context.Context) ([]domain.TrainedModel, error)
	}

	Calls struct {
		Register dbmock.CallLog[domain.TrainedModel]
		Get      dbmock.CallLog[[]int]
		GetByJob dbmock.CallLog[int]
		GetAll   dbmock.CallLog[struct{}]
	}
}

func NewTrainedModelInterface() *TrainedModelInterface {
	return &TrainedModelInterface{}
}

var _ kdb.TrainedModelInterface = &TrainedModelInterface{}

func (m *TrainedModelInterface) Register(ctx context.Context, model domain.TrainedModel) (int, error) {
	m.Calls.Register = append(m.Calls.Register, model)
	if m.Impl.Register != nil {
		return m.Impl.Register(ctx, model)
	}

	panic(errors.New("it should not be called"))
}

func (m *TrainedModelInterface) Get(ctx context.Context, ids []int) (map[int]domain.TrainedModel, error) {
	m.Calls.Get = append(m.Calls.Get, ids)
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, ids)
	}

	panic(errors.New("it should not be called"))
}

func (m *TrainedModelInterface) GetByJob(ctx context.Context, jobId int) ([]domain.TrainedModel, error) {
	m.Calls.GetByJob = append(m.Calls.GetByJob, jobId)
	if m.Impl.GetByJob != nil {
		return m.Impl.GetByJob(ctx, jobId)
	}

	panic(errors.New("it should not be called"))
}

func (m *TrainedModelInterface) GetAll(ctx context.Context) ([]domain.TrainedModel, error) {
	m.Calls.GetAll = append(m.Calls.GetAll, struct{}{})
	if m.Impl.GetAll != nil {
		return m.Impl.GetAll(ctx)
	}

	panic(errors.New("it should not be called"))
}
