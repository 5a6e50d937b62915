package domain

import (
	"time"

	"github.com/weftml/weft/pkg/utils/cmp"
)

// TrainedModel is an artifact produced by a completed training job.
type TrainedModel struct {
	Id    int
	JobId int

	Name    string
	Version string

	// where the runner stored the weights.
	ArtifactPath string

	// final evaluation metrics reported by the pipeline.
	Metrics map[string]float64

	CreatedAt time.Time
}

func (m *TrainedModel) Equal(other *TrainedModel) bool {
	if (m == nil) || (other == nil) {
		return (m == nil) && (other == nil)
	}
	return m.Id == other.Id &&
		m.JobId == other.JobId &&
		m.Name == other.Name &&
		m.Version == other.Version &&
		m.ArtifactPath == other.ArtifactPath &&
		cmp.MapEq(m.Metrics, other.Metrics) &&
		m.CreatedAt.Equal(other.CreatedAt)
}

// ModelCatalog is the set of trainable models, grouped by model type.
type ModelCatalog struct {
	// model types a job submission may name.
	//
	// Kept apart from the keys of Variants: a type can be accepted here
	// while its variants are not catalogued yet, in which case any
	// variant passes.
	SupportedTypes []string

	// variant names per model type, in preference order.
	Variants map[string][]string
}

// Types lists the model types job submissions may name, in declared order.
func (c ModelCatalog) Types() []string {
	types := make([]string, len(c.SupportedTypes))
	copy(types, c.SupportedTypes)
	return types
}

func (c ModelCatalog) HasType(modelType string) bool {
	for _, t := range c.SupportedTypes {
		if t == modelType {
			return true
		}
	}
	return false
}

// VariantsOf returns the catalogued variants of modelType.
// ok is false when the type has no variant list at all.
func (c ModelCatalog) VariantsOf(modelType string) ([]string, bool) {
	variants, ok := c.Variants[modelType]
	return variants, ok
}

func (c ModelCatalog) HasVariant(modelType string, variant string) bool {
	for _, v := range c.Variants[modelType] {
		if v == variant {
			return true
		}
	}
	return false
}

func (c ModelCatalog) Equal(other ModelCatalog) bool {
	return cmp.SliceEq(c.SupportedTypes, other.SupportedTypes) &&
		cmp.MapEqWith(c.Variants, other.Variants, cmp.SliceEq)
}

// DefaultCatalog is the catalog shipped with the service.
func DefaultCatalog() ModelCatalog {
	return ModelCatalog{
		SupportedTypes: []string{"yolo", "rf-detr"},
		Variants: map[string][]string{
			"yolo": {
				"yolov5s", "yolov5m", "yolov5l", "yolov5x",
				"yolov8n", "yolov8s", "yolov8m", "yolov8l", "yolov8x",
			},
			"rf-detr": {
				"rf_detr_r50", "rf_detr_r101",
			},
		},
	}
}
