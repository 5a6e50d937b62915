package trainjob

import (
	"github.com/weftml/weft/pkg/domain/trainjob/db"
	"github.com/weftml/weft/pkg/pipeline"
	"github.com/weftml/weft/pkg/tracker"
)

type Interface interface {
	Database() db.TrainingJobInterface
	Runner() pipeline.Runner
	Tracker() tracker.Tracker
}

type impl struct {
	database db.TrainingJobInterface
	runner   pipeline.Runner
	tracker  tracker.Tracker
}

func New(database db.TrainingJobInterface, runner pipeline.Runner, tracker tracker.Tracker) Interface {
	return &impl{
		database: database,
		runner:   runner,
		tracker:  tracker,
	}
}

func (i *impl) Database() db.TrainingJobInterface {
	return i.database
}

func (i *impl) Runner() pipeline.Runner {
	return i.runner
}

func (i *impl) Tracker() tracker.Tracker {
	return i.tracker
}
