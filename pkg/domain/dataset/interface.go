package dataset

import (
	"github.com/weftml/weft/pkg/domain/dataset/db"
	"github.com/weftml/weft/pkg/domain/dataset/ingest"
)

type Interface interface {
	Database() db.DatasetInterface
	Ingester() *ingest.Ingester
}

type impl struct {
	database db.DatasetInterface
	ingester *ingest.Ingester
}

func New(database db.DatasetInterface, ingester *ingest.Ingester) Interface {
	return &impl{
		database: database,
		ingester: ingester,
	}
}

func (i *impl) Database() db.DatasetInterface {
	return i.database
}

func (i *impl) Ingester() *ingest.Ingester {
	return i.ingester
}
