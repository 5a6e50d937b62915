package catalog

import (
	"github.com/weftml/weft/pkg/domain"
	"github.com/weftml/weft/pkg/utils/cmp"
)

// Catalog tells clients what the server accepts: model types and variants,
// dataset formats, and the parameter defaults filled into submissions.
type Catalog struct {
	ModelTypes []string            `json:"model_types"`
	Variants   map[string][]string `json:"variants"`
	Formats    []string            `json:"formats"`
	Defaults   Defaults            `json:"defaults"`
}

type Defaults struct {
	Epochs          int     `json:"epochs"`
	BatchSize       int     `json:"batch_size"`
	LearningRate    float64 `json:"learning_rate"`
	ValidationSplit float64 `json:"validation_split"`
}

func Compose(c domain.ModelCatalog, d domain.TrainingDefaults) Catalog {
	formats := []string{}
	for _, f := range domain.SupportedFormats() {
		formats = append(formats, string(f))
	}
	return Catalog{
		ModelTypes: c.Types(),
		Variants:   c.Variants,
		Formats:    formats,
		Defaults: Defaults{
			Epochs:          d.Epochs,
			BatchSize:       d.BatchSize,
			LearningRate:    d.LearningRate,
			ValidationSplit: d.ValidationSplit,
		},
	}
}

func (c *Catalog) Equal(o *Catalog) bool {
	if c == nil || o == nil {
		return (c == nil) && (o == nil)
	}
	return cmp.SliceEq(c.ModelTypes, o.ModelTypes) &&
		cmp.MapEqWith(c.Variants, o.Variants, cmp.SliceEq) &&
		cmp.SliceEq(c.Formats, o.Formats) &&
		c.Defaults == o.Defaults
}
