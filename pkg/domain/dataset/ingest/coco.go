package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/weftml/weft/pkg/domain"
)

type cocoCategory struct {
	Id   int     `json:"id"`
	Name *string `json:"name"`
}

// only the lengths of images/annotations matter, so their elements are
// left undecoded.
type cocoIndex struct {
	Categories  []cocoCategory    `json:"categories"`
	Images      []json.RawMessage `json:"images"`
	Annotations []json.RawMessage `json:"annotations"`
}

// ParseCOCO summarizes a COCO dataset: a single JSON index holding
// categories, images and annotations (each optional, defaulting to empty).
//
// The index is the first .json file directly under workDir or, failing
// that, under workDir/annotations.
func (i *Ingester) ParseCOCO(workDir string) (domain.DatasetSummary, error) {
	isJSON := func(name string) bool { return strings.HasSuffix(name, ".json") }

	file, ok := i.firstMatch(workDir, isJSON)
	if !ok {
		file, ok = i.firstMatch(filepath.Join(workDir, "annotations"), isJSON)
	}
	if !ok {
		return domain.DatasetSummary{}, fmt.Errorf(
			"%w: no .json in %s or its annotations/", ErrMissingAnnotation, workDir,
		)
	}

	raw, err := os.ReadFile(file)
	if err != nil {
		return domain.DatasetSummary{}, fmt.Errorf("%w: %v", ErrMalformedAnnotation, err)
	}

	index := cocoIndex{}
	if err := json.Unmarshal(raw, &index); err != nil {
		return domain.DatasetSummary{}, fmt.Errorf(
			"%w: %s: %v", ErrMalformedAnnotation, file, err,
		)
	}

	classNames := make([]string, 0, len(index.Categories))
	for n, cat := range index.Categories {
		if cat.Name == nil {
			return domain.DatasetSummary{}, fmt.Errorf(
				"%w: %s: category #%d has no name", ErrMalformedAnnotation, file, n,
			)
		}
		classNames = append(classNames, *cat.Name)
	}

	numAnnotations := len(index.Annotations)
	return domain.DatasetSummary{
		NumClasses:     len(index.Categories),
		NumImages:      len(index.Images),
		NumAnnotations: &numAnnotations,
		ClassNames:     classNames,
	}, nil
}
