package schema

import "github.com/weftml/weft/pkg/domain/schema/db"

// Interface exposes schema bookkeeping to the rest of weft.
//
// Unlike other entities, schema has no operations beyond its database:
// upgrading and watching the schema version are database matters.
type Interface interface {
	Database() db.SchemaInterface
}

type impl struct {
	db db.SchemaInterface
}

func New(db db.SchemaInterface) Interface {
	return &impl{db: db}
}

func (i *impl) Database() db.SchemaInterface {
	return i.db
}
