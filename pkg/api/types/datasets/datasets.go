package datasets

import (
	"github.com/weftml/weft/pkg/domain"
	"github.com/weftml/weft/pkg/utils/cmp"
	"github.com/weftml/weft/pkg/utils/rfctime"
)

type Summary struct {
	Id         int             `json:"id"`
	Name       string          `json:"name"`
	Version    string          `json:"version"`
	Format     string          `json:"format"`
	NumClasses int             `json:"num_classes"`
	NumImages  int             `json:"num_images"`
	CreatedAt  rfctime.RFC3339 `json:"created_at"`
}

func ComposeSummary(d domain.Dataset) Summary {
	return Summary{
		Id:         d.Id,
		Name:       d.Name,
		Version:    d.Version,
		Format:     string(d.Format),
		NumClasses: d.Summary.NumClasses,
		NumImages:  d.Summary.NumImages,
		CreatedAt:  rfctime.RFC3339(d.CreatedAt),
	}
}

func (s *Summary) Equal(o *Summary) bool {
	if s == nil || o == nil {
		return (s == nil) && (o == nil)
	}
	return s.Id == o.Id &&
		s.Name == o.Name &&
		s.Version == o.Version &&
		s.Format == o.Format &&
		s.NumClasses == o.NumClasses &&
		s.NumImages == o.NumImages &&
		s.CreatedAt.Equal(&o.CreatedAt)
}

type Detail struct {
	Summary

	UploadPath string `json:"upload_path"`
	WorkPath   string `json:"work_path"`

	// only set for COCO datasets, where the annotation file counts them.
	NumAnnotations *int     `json:"num_annotations,omitempty"`
	ClassNames     []string `json:"class_names"`
}

func ComposeDetail(d domain.Dataset) Detail {
	return Detail{
		Summary:        ComposeSummary(d),
		UploadPath:     d.UploadPath,
		WorkPath:       d.WorkPath,
		NumAnnotations: d.Summary.NumAnnotations,
		ClassNames:     d.Summary.ClassNames,
	}
}

func (d *Detail) Equal(o *Detail) bool {
	if d == nil || o == nil {
		return (d == nil) && (o == nil)
	}
	if (d.NumAnnotations == nil) != (o.NumAnnotations == nil) {
		return false
	}
	if d.NumAnnotations != nil && *d.NumAnnotations != *o.NumAnnotations {
		return false
	}
	return d.Summary.Equal(&o.Summary) &&
		d.UploadPath == o.UploadPath &&
		d.WorkPath == o.WorkPath &&
		cmp.SliceEq(d.ClassNames, o.ClassNames)
}
