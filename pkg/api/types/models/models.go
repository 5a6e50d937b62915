package models

import (
	"github.com/weftml/weft/pkg/domain"
	"github.com/weftml/weft/pkg/utils/cmp"
	"github.com/weftml/weft/pkg/utils/rfctime"
)

// Registration is the request body the pipeline sends to report a trained
// model artifact.
type Registration struct {
	JobId        int                `json:"job_id"`
	Name         string             `json:"name"`
	Version      string             `json:"version"`
	ArtifactPath string             `json:"artifact_path"`
	Metrics      map[string]float64 `json:"metrics,omitempty"`
}

type Summary struct {
	Id        int             `json:"id"`
	JobId     int             `json:"job_id"`
	Name      string          `json:"name"`
	Version   string          `json:"version"`
	CreatedAt rfctime.RFC3339 `json:"created_at"`
}

func ComposeSummary(m domain.TrainedModel) Summary {
	return Summary{
		Id:        m.Id,
		JobId:     m.JobId,
		Name:      m.Name,
		Version:   m.Version,
		CreatedAt: rfctime.RFC3339(m.CreatedAt),
	}
}

func (s *Summary) Equal(o *Summary) bool {
	if s == nil || o == nil {
		return (s == nil) && (o == nil)
	}
	return s.Id == o.Id &&
		s.JobId == o.JobId &&
		s.Name == o.Name &&
		s.Version == o.Version &&
		s.CreatedAt.Equal(&o.CreatedAt)
}

type Detail struct {
	Summary

	ArtifactPath string             `json:"artifact_path"`
	Metrics      map[string]float64 `json:"metrics"`
}

func ComposeDetail(m domain.TrainedModel) Detail {
	return Detail{
		Summary:      ComposeSummary(m),
		ArtifactPath: m.ArtifactPath,
		Metrics:      m.Metrics,
	}
}

func (d *Detail) Equal(o *Detail) bool {
	if d == nil || o == nil {
		return (d == nil) && (o == nil)
	}
	return d.Summary.Equal(&o.Summary) &&
		d.ArtifactPath == o.ArtifactPath &&
		cmp.MapEq(d.Metrics, o.Metrics)
}
