package domain_test

import (
	"errors"
	"testing"

	"github.com/weftml/weft/pkg/domain"
	"github.com/weftml/weft/pkg/utils/cmp"
)

func TestAsTrainingJobStatus(t *testing.T) {
	t.Run("it should accept every lifecycle status", func(t *testing.T) {
		for _, expected := range []domain.TrainingJobStatus{
			domain.StatusPending, domain.StatusRunning, domain.StatusCompleted,
			domain.StatusFailed, domain.StatusCancelled,
		} {
			actual, err := domain.AsTrainingJobStatus(string(expected))
			if err != nil {
				t.Errorf("%s should be accepted: %v", expected, err)
			}
			if actual != expected {
				t.Errorf("wrong status: (actual, expected) = (%s, %s)", actual, expected)
			}
		}
	})

	t.Run("it should reject anything else", func(t *testing.T) {
		for _, input := range []string{"", "Pending", "done", "PENDING"} {
			if _, err := domain.AsTrainingJobStatus(input); !errors.Is(err, domain.ErrUnknownJobStatus) {
				t.Errorf("%q should be rejected, got: %v", input, err)
			}
		}
	})
}

func TestTrainingJobStatus_Lifecycle(t *testing.T) {
	type expectation struct {
		ended    bool
		allowed  []domain.TrainingJobStatus
		rejected []domain.TrainingJobStatus
	}

	for status, want := range map[domain.TrainingJobStatus]expectation{
		domain.StatusPending: {
			ended: false,
			allowed: []domain.TrainingJobStatus{
				domain.StatusRunning, domain.StatusCompleted,
				domain.StatusFailed, domain.StatusCancelled,
			},
			rejected: []domain.TrainingJobStatus{domain.StatusPending},
		},
		domain.StatusRunning: {
			ended:    false,
			allowed:  []domain.TrainingJobStatus{domain.StatusCompleted, domain.StatusFailed, domain.StatusCancelled},
			rejected: []domain.TrainingJobStatus{domain.StatusPending, domain.StatusRunning},
		},
		domain.StatusCompleted: {
			ended: true,
			rejected: []domain.TrainingJobStatus{
				domain.StatusPending, domain.StatusRunning, domain.StatusCompleted,
				domain.StatusFailed, domain.StatusCancelled,
			},
		},
		domain.StatusFailed: {
			ended: true,
			rejected: []domain.TrainingJobStatus{
				domain.StatusPending, domain.StatusRunning, domain.StatusCompleted,
				domain.StatusFailed, domain.StatusCancelled,
			},
		},
		domain.StatusCancelled: {
			ended: true,
			rejected: []domain.TrainingJobStatus{
				domain.StatusPending, domain.StatusRunning, domain.StatusCompleted,
				domain.StatusFailed, domain.StatusCancelled,
			},
		},
	} {
		if status.HasEnded() != want.ended {
			t.Errorf("HasEnded of %s: (actual, expected) = (%v, %v)", status, status.HasEnded(), want.ended)
		}
		for _, next := range want.allowed {
			if !status.CanTransitTo(next) {
				t.Errorf("%s -> %s should be allowed", status, next)
			}
		}
		for _, next := range want.rejected {
			if status.CanTransitTo(next) {
				t.Errorf("%s -> %s should be rejected", status, next)
			}
		}
	}
}

func TestTrainingDefaults_Apply(t *testing.T) {
	t.Run("when params are empty, every knob is defaulted", func(t *testing.T) {
		defaults := domain.DefaultTrainingDefaults()

		merged := defaults.Apply(map[string]any{})

		expected := map[string]any{
			"epochs": 100, "batch_size": 16,
			"learning_rate": 0.001, "validation_split": 0.2,
		}
		if !cmp.MapEqWith(merged, expected, func(a, b any) bool { return a == b }) {
			t.Errorf("wrong merge: (actual, expected) = (%v, %v)", merged, expected)
		}
	})

	t.Run("when a knob is set, it is kept, and extra keys pass through", func(t *testing.T) {
		defaults := domain.DefaultTrainingDefaults()
		params := map[string]any{"epochs": 5, "augment": true}

		merged := defaults.Apply(params)

		expected := map[string]any{
			"epochs": 5, "batch_size": 16,
			"learning_rate": 0.001, "validation_split": 0.2,
			"augment": true,
		}
		if !cmp.MapEqWith(merged, expected, func(a, b any) bool { return a == b }) {
			t.Errorf("wrong merge: (actual, expected) = (%v, %v)", merged, expected)
		}

		if len(params) != 2 {
			t.Errorf("input params should be left untouched: %v", params)
		}
	})

	t.Run("nil params are as good as empty ones", func(t *testing.T) {
		merged := domain.DefaultTrainingDefaults().Apply(nil)
		if len(merged) != 4 {
			t.Errorf("wrong merge: %v", merged)
		}
	})
}
