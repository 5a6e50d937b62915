package jobs

import (
	"github.com/weftml/weft/pkg/domain"
	"github.com/weftml/weft/pkg/utils/cmp"
	"github.com/weftml/weft/pkg/utils/rfctime"
)

// Submission is the request body of job registration.
//
// `weft job apply` reads this from a YAML file, so fields carry yaml tags too.
type Submission struct {
	Name         string         `json:"name" yaml:"name"`
	DatasetId    int            `json:"dataset_id" yaml:"dataset_id"`
	ModelType    string         `json:"model_type" yaml:"model_type"`
	ModelVariant string         `json:"model_variant" yaml:"model_variant"`
	Parameters   map[string]any `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

type Summary struct {
	Id           int             `json:"id"`
	Name         string          `json:"name"`
	DatasetId    int             `json:"dataset_id"`
	ModelType    string          `json:"model_type"`
	ModelVariant string          `json:"model_variant"`
	Status       string          `json:"status"`
	CreatedAt    rfctime.RFC3339 `json:"created_at"`
}

func ComposeSummary(j domain.TrainingJob) Summary {
	return Summary{
		Id:           j.Id,
		Name:         j.Name,
		DatasetId:    j.DatasetId,
		ModelType:    j.ModelType,
		ModelVariant: j.ModelVariant,
		Status:       string(j.Status),
		CreatedAt:    rfctime.RFC3339(j.CreatedAt),
	}
}

func (s *Summary) Equal(o *Summary) bool {
	if s == nil || o == nil {
		return (s == nil) && (o == nil)
	}
	return s.Id == o.Id &&
		s.Name == o.Name &&
		s.DatasetId == o.DatasetId &&
		s.ModelType == o.ModelType &&
		s.ModelVariant == o.ModelVariant &&
		s.Status == o.Status &&
		s.CreatedAt.Equal(&o.CreatedAt)
}

type Detail struct {
	Summary

	Parameters map[string]any `json:"parameters"`

	TrackingExperimentId string `json:"tracking_experiment_id,omitempty"`
	TrackingRunId        string `json:"tracking_run_id,omitempty"`
	PipelineRunId        string `json:"pipeline_run_id,omitempty"`

	ErrorMessage string          `json:"error_message,omitempty"`
	UpdatedAt    rfctime.RFC3339 `json:"updated_at"`
}

func ComposeDetail(j domain.TrainingJob) Detail {
	return Detail{
		Summary:              ComposeSummary(j),
		Parameters:           j.Parameters,
		TrackingExperimentId: j.TrackingExperimentId,
		TrackingRunId:        j.TrackingRunId,
		PipelineRunId:        j.PipelineRunId,
		ErrorMessage:         j.ErrorMessage,
		UpdatedAt:            rfctime.RFC3339(j.UpdatedAt),
	}
}

func (d *Detail) Equal(o *Detail) bool {
	if d == nil || o == nil {
		return (d == nil) && (o == nil)
	}
	return d.Summary.Equal(&o.Summary) &&
		cmp.MapEqWith(
			d.Parameters, o.Parameters,
			func(a, b any) bool { return a == b },
		) &&
		d.TrackingExperimentId == o.TrackingExperimentId &&
		d.TrackingRunId == o.TrackingRunId &&
		d.PipelineRunId == o.PipelineRunId &&
		d.ErrorMessage == o.ErrorMessage &&
		d.UpdatedAt.Equal(&o.UpdatedAt)
}
