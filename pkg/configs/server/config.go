package server

import (
	"github.com/weftml/weft/pkg/domain"
)

// Configuration for the weft server.
//
// to get `ServerConfig` instance, use `ServerConfigMarshall.TrySeal()` .
type ServerConfig struct {
	port                int32
	database            string
	uploadRoot          string
	workRoot            string
	annotationSampleCap int
	runner              *RunnerConfig
	tracker             *TrackerConfig
	catalog             domain.ModelCatalog
	defaults            domain.TrainingDefaults
}

func (s *ServerConfig) Port() int32 {
	return s.port
}

// Connection string for database.
func (s *ServerConfig) Database() string {
	return s.database
}

// Directory where uploaded dataset archives are kept.
func (s *ServerConfig) UploadRoot() string {
	return s.uploadRoot
}

// Directory where archives are unpacked for inspection.
// default = UploadRoot()/work
func (s *ServerConfig) WorkRoot() string {
	return s.workRoot
}

// How many annotation files are sampled for class names. default = 100
func (s *ServerConfig) AnnotationSampleCap() int {
	return s.annotationSampleCap
}

// Configuration for the pipeline runner.
func (s *ServerConfig) Runner() *RunnerConfig {
	return s.runner
}

// Configuration for the experiment tracking service.
func (s *ServerConfig) Tracker() *TrackerConfig {
	return s.tracker
}

// Model catalog job submissions are validated against.
func (s *ServerConfig) Catalog() domain.ModelCatalog {
	return s.catalog
}

// Training parameter defaults filled into job submissions.
func (s *ServerConfig) Defaults() domain.TrainingDefaults {
	return s.defaults
}

type RunnerConfig struct {
	endpoint string
}

// Base URL of the pipeline runner API. default = "http://localhost:3000"
func (r *RunnerConfig) Endpoint() string {
	return r.endpoint
}

type TrackerConfig struct {
	endpoint string
}

// Base URL of the tracking service API. default = "http://localhost:5000"
func (t *TrackerConfig) Endpoint() string {
	return t.endpoint
}
