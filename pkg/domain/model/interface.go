package model

import (
	"github.com/weftml/weft/pkg/domain/model/db"
)

type Interface interface {
	Database() db.TrainedModelInterface
}

type impl struct {
	database db.TrainedModelInterface
}

func New(database db.TrainedModelInterface) Interface {
	return &impl{
		database: database,
	}
}

func (i *impl) Database() db.TrainedModelInterface {
	return i.database
}
