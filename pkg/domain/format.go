package domain

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownDatasetFormat = errors.New("unknown dataset format")

// DatasetFormat is the annotation format of an object-detection dataset.
type DatasetFormat string

const (
	// COCO: one JSON annotation file with categories/images/annotations.
	FormatCOCO DatasetFormat = "COCO"

	// YOLO: data.yaml manifest + train/val/test image directories.
	FormatYOLO DatasetFormat = "YOLO"

	// Pascal VOC: one XML annotation file per image under Annotations/.
	FormatPascalVOC DatasetFormat = "Pascal VOC"
)

func (f DatasetFormat) String() string {
	return string(f)
}

// SupportedFormats are the dataset formats the ingest pipeline understands,
// in display order.
func SupportedFormats() []DatasetFormat {
	return []DatasetFormat{FormatCOCO, FormatYOLO, FormatPascalVOC}
}

// AsDatasetFormat canonicalizes a format name.
//
// Matching is case-insensitive: "coco", "Coco" and "COCO" all mean FormatCOCO.
// For unknown names it returns ErrUnknownDatasetFormat listing the supported
// formats.
func AsDatasetFormat(s string) (DatasetFormat, error) {
	for _, f := range SupportedFormats() {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
	}

	names := make([]string, 0, len(SupportedFormats()))
	for _, f := range SupportedFormats() {
		names = append(names, string(f))
	}
	return DatasetFormat(""), fmt.Errorf(
		"%w: %s (supported: %s)",
		ErrUnknownDatasetFormat, s, strings.Join(names, ", "),
	)
}
