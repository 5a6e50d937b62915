package server

import (
	"path/filepath"

	"github.com/weftml/weft/pkg/domain"
)

type Marshalled[S any] interface {
	trySeal(string) S
}

// seal marshalled object.
//
// this function CAN CAUSE PANIC if misconfiguration is found.
//
// All types named `pkg/configs/server.XxxMarshall` are `Marshalled[*Xxx]` .
func TrySeal[S any](conf Marshalled[S]) S {
	return conf.trySeal("(root)")
}

// Configuration of the weft server.
//
// This type is marshalling value and mutable.
// Consider to use immutable version, `ServerConfig`.
// You can get `ServerConfig` instance with `ServerConfigMarshall.TrySeal()`
type ServerConfigMarshall struct {
	Port                int32                     `yaml:"port"`
	Database            string                    `yaml:"database"`
	UploadRoot          string                    `yaml:"uploadRoot"`
	WorkRoot            string                    `yaml:"workRoot,omitempty"`
	AnnotationSampleCap int                       `yaml:"annotationSampleCap,omitempty"`
	Runner              *RunnerConfigMarshall     `yaml:"runner,omitempty"`
	Tracker             *TrackerConfigMarshall    `yaml:"tracker,omitempty"`
	Catalog             *CatalogMarshall          `yaml:"catalog,omitempty"`
	Defaults            *TrainingDefaultsMarshall `yaml:"defaults,omitempty"`
}

var _ Marshalled[*ServerConfig] = &ServerConfigMarshall{}

// verify configuration value and create "readonly" version of this.
//
// IT WILL PANIC if any misconfiguration is found.
func (s *ServerConfigMarshall) TrySeal() *ServerConfig {
	return s.trySeal("(root)")
}

func (s *ServerConfigMarshall) trySeal(path string) *ServerConfig {
	uploadRoot := required(s.UploadRoot, path+".uploadRoot")

	workRoot := s.WorkRoot
	if workRoot == "" {
		workRoot = filepath.Join(uploadRoot, "work")
	}

	sampleCap := s.AnnotationSampleCap
	if sampleCap == 0 {
		sampleCap = 100
	}

	runner := s.Runner
	if runner == nil {
		runner = &RunnerConfigMarshall{}
	}
	tracker := s.Tracker
	if tracker == nil {
		tracker = &TrackerConfigMarshall{}
	}

	catalog := domain.DefaultCatalog()
	if s.Catalog != nil {
		catalog = s.Catalog.trySeal(path + ".catalog")
	}

	defaults := domain.DefaultTrainingDefaults()
	if s.Defaults != nil {
		defaults = s.Defaults.trySeal(path + ".defaults")
	}

	return &ServerConfig{
		port:                required(s.Port, path+".port"),
		database:            required(s.Database, path+".database"),
		uploadRoot:          uploadRoot,
		workRoot:            workRoot,
		annotationSampleCap: sampleCap,
		runner:              runner.trySeal(path + ".runner"),
		tracker:             tracker.trySeal(path + ".tracker"),
		catalog:             catalog,
		defaults:            defaults,
	}
}

type RunnerConfigMarshall struct {
	Endpoint string `yaml:"endpoint"`
}

func (r *RunnerConfigMarshall) trySeal(path string) *RunnerConfig {
	endpoint := r.Endpoint
	if endpoint == "" {
		endpoint = "http://localhost:3000"
	}
	return &RunnerConfig{endpoint: endpoint}
}

type TrackerConfigMarshall struct {
	Endpoint string `yaml:"endpoint"`
}

func (t *TrackerConfigMarshall) trySeal(path string) *TrackerConfig {
	endpoint := t.Endpoint
	if endpoint == "" {
		endpoint = "http://localhost:5000"
	}
	return &TrackerConfig{endpoint: endpoint}
}

type CatalogMarshall struct {
	Types    []string            `yaml:"types"`
	Variants map[string][]string `yaml:"variants,omitempty"`
}

func (c *CatalogMarshall) trySeal(path string) domain.ModelCatalog {
	if len(c.Types) == 0 {
		panic(path + ".types is required")
	}
	return domain.ModelCatalog{
		SupportedTypes: c.Types,
		Variants:       c.Variants,
	}
}

type TrainingDefaultsMarshall struct {
	Epochs          int     `yaml:"epochs,omitempty"`
	BatchSize       int     `yaml:"batchSize,omitempty"`
	LearningRate    float64 `yaml:"learningRate,omitempty"`
	ValidationSplit float64 `yaml:"validationSplit,omitempty"`
}

// unset fields fall back to the built-in defaults.
func (d *TrainingDefaultsMarshall) trySeal(path string) domain.TrainingDefaults {
	sealed := domain.DefaultTrainingDefaults()
	if d.Epochs != 0 {
		sealed.Epochs = d.Epochs
	}
	if d.BatchSize != 0 {
		sealed.BatchSize = d.BatchSize
	}
	if d.LearningRate != 0 {
		sealed.LearningRate = d.LearningRate
	}
	if d.ValidationSplit != 0 {
		sealed.ValidationSplit = d.ValidationSplit
	}
	return sealed
}

func required[T comparable](v T, path string) T {
	if v == *new(T) {
		panic(path + " is required")
	}
	return v
}
