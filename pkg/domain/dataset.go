package domain

import (
	"time"

	"github.com/weftml/weft/pkg/utils/cmp"
)

// DatasetSummary is the normalized description of a dataset,
// whichever annotation format it arrived in.
type DatasetSummary struct {
	// number of object classes the dataset annotates.
	NumClasses int

	// number of images.
	//
	// For Pascal VOC this counts annotation files, one per image.
	NumImages int

	// number of annotation records.
	//
	// Only COCO knows this; nil for other formats.
	NumAnnotations *int

	// class names.
	//
	// COCO and YOLO preserve the source order (YOLO sparse mappings are
	// filled with "" placeholders); Pascal VOC is sorted since the source
	// has no defined order.
	ClassNames []string
}

func (s DatasetSummary) Equal(other DatasetSummary) bool {
	if (s.NumAnnotations == nil) != (other.NumAnnotations == nil) {
		return false
	}
	if s.NumAnnotations != nil && *s.NumAnnotations != *other.NumAnnotations {
		return false
	}
	return s.NumClasses == other.NumClasses &&
		s.NumImages == other.NumImages &&
		cmp.SliceEq(s.ClassNames, other.ClassNames)
}

type DatasetBody struct {
	Name    string
	Version string
	Format  DatasetFormat
}

// Dataset is a registered dataset: where its files live and what is in them.
type Dataset struct {
	DatasetBody

	Id int

	// path of the uploaded archive, as received.
	UploadPath string

	// directory the archive was extracted into (or copied to).
	WorkPath string

	Summary DatasetSummary

	CreatedAt time.Time
}

func (d *Dataset) Equal(other *Dataset) bool {
	if (d == nil) || (other == nil) {
		return (d == nil) && (other == nil)
	}
	return d.Id == other.Id &&
		d.DatasetBody == other.DatasetBody &&
		d.UploadPath == other.UploadPath &&
		d.WorkPath == other.WorkPath &&
		d.Summary.Equal(other.Summary) &&
		d.CreatedAt.Equal(other.CreatedAt)
}
