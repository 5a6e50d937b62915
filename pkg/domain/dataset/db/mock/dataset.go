package mock

import (
	"context"
	"errors"

	"github.com/weftml/weft/pkg/domain"
	kdb "github.com/weftml/weft/pkg/domain/dataset/db"
	dbmock "github.com/weftml/weft/pkg/domain/internal/db/mock"
)

type DatasetInterface struct {
	Impl struct {
		Register func(ctx context.Context, dataset domain.Dataset) (int, error)
		Get      func(ctx context.Context, ids []int) (map[int]domain.Dataset, error)
		GetAll   func(ctx context.Context) ([]domain.Dataset, error)
		Find     func(ctx context.Context, name string, version string) ([]int, error)
	}

	Calls struct {
		Register dbmock.CallLog[domain.Dataset]
		Get      dbmock.CallLog[[]int]
		GetAll   dbmock.CallLog[struct{}]
		Find     dbmock.CallLog[struct {
			Name    string
			Version string
		}]
	}
}

func NewDatasetInterface() *DatasetInterface {
	return &DatasetInterface{}
}

var _ kdb.DatasetInterface = &DatasetInterface{}

func (m *DatasetInterface) Register(ctx context.Context, dataset domain.Dataset) (int, error) {
	m.Calls.Register = append(m.Calls.Register, dataset)
	if m.Impl.Register != nil {
		return m.Impl.Register(ctx, dataset)
	}

	panic(errors.New("it should not be called"))
}

func (m *DatasetInterface) Get(ctx context.Context, ids []int) (map[int]domain.Dataset, error) {
	m.Calls.Get = append(m.Calls.Get, ids)
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, ids)
	}

	panic(errors.New("it should not be called"))
}

func (m *DatasetInterface) GetAll(ctx context.Context) ([]domain.Dataset, error) {
	m.Calls.GetAll = append(m.Calls.GetAll, struct{}{})
	if m.Impl.GetAll != nil {
		return m.Impl.GetAll(ctx)
	}

	panic(errors.New("it should not be called"))
}

func (m *DatasetInterface) Find(ctx context.Context, name string, version string) ([]int, error) {
	m.Calls.Find = append(m.Calls.Find, struct {
		Name    string
		Version string
	}{Name: name, Version: version})
	if m.Impl.Find != nil {
		return m.Impl.Find(ctx, name, version)
	}

	panic(errors.New("it should not be called"))
}
