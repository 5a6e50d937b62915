package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/weftml/weft/pkg/domain"
	"github.com/weftml/weft/pkg/utils/cmp"
)

func TestLintFile(t *testing.T) {
	write := func(t *testing.T, content string) string {
		t.Helper()
		p := filepath.Join(t.TempDir(), "jobspec.yaml")
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		return p
	}

	t.Run("when the spec is complete and valid, it passes", func(t *testing.T) {
		p := write(t, `
name: traffic detector
dataset_id: 7
model_type: yolo
model_variant: yolov8n
parameters:
  epochs: 5
  batch_size: 8
  learning_rate: 0.01
  validation_split: 0.3
`)
		if err := lintFile(p, domain.DefaultCatalog()); err != nil {
			t.Errorf("unexpected error: %s", err)
		}
	})

	t.Run("when training knobs are left unset, defaults fill in and it passes", func(t *testing.T) {
		p := write(t, `
name: traffic detector
dataset_id: 7
model_type: yolo
model_variant: yolov8n
`)
		if err := lintFile(p, domain.DefaultCatalog()); err != nil {
			t.Errorf("unexpected error: %s", err)
		}
	})

	t.Run("when the file does not exist, it returns error", func(t *testing.T) {
		if err := lintFile(filepath.Join(t.TempDir(), "no-such-spec.yaml"), domain.DefaultCatalog()); err == nil {
			t.Errorf("no error occured")
		}
	})

	t.Run("when the file is not yaml, it returns error", func(t *testing.T) {
		p := write(t, "::: this is not yaml {")
		if err := lintFile(p, domain.DefaultCatalog()); err == nil {
			t.Errorf("no error occured")
		}
	})

	for name, testcase := range map[string]struct {
		spec    string
		message string
	}{
		"a spec without name": {
			spec: `
dataset_id: 7
model_type: yolo
model_variant: yolov8n
`,
			message: "Missing required field: name",
		},
		"a spec without dataset_id": {
			spec: `
name: traffic detector
model_type: yolo
model_variant: yolov8n
`,
			message: "Missing required field: dataset_id",
		},
		"a spec without model_type": {
			spec: `
name: traffic detector
dataset_id: 7
model_variant: yolov8n
`,
			message: "Missing required field: model_type",
		},
		"a spec without model_variant": {
			spec: `
name: traffic detector
dataset_id: 7
model_type: yolo
`,
			message: "Model variant is required",
		},
		"a spec naming an unsupported model type": {
			spec: `
name: traffic detector
dataset_id: 7
model_type: resnet
model_variant: resnet50
`,
			message: "Unsupported model type: resnet",
		},
		"a spec naming an unsupported variant": {
			spec: `
name: traffic detector
dataset_id: 7
model_type: yolo
model_variant: yolov99
`,
			message: "Unsupported model variant: yolov99 for yolo",
		},
		"a spec with non-positive epochs": {
			spec: `
name: traffic detector
dataset_id: 7
model_type: yolo
model_variant: yolov8n
parameters:
  epochs: -1
`,
			message: "Epochs must be a positive integer",
		},
		"a spec with out-of-range validation_split": {
			spec: `
name: traffic detector
dataset_id: 7
model_type: yolo
model_variant: yolov8n
parameters:
  validation_split: 1.5
`,
			message: "Validation split must be between 0 and 1",
		},
	} {
		t.Run("when "+name+" is linted, it reports why", func(t *testing.T) {
			p := write(t, testcase.spec)
			err := lintFile(p, domain.DefaultCatalog())
			if err == nil {
				t.Fatalf("no error occured")
			}
			if !strings.Contains(err.Error(), testcase.message) {
				t.Errorf(
					"error message is wrong: (actual, expected) = (%s, %s)",
					err.Error(), testcase.message,
				)
			}
		})
	}
}

func TestReadCatalog(t *testing.T) {
	write := func(t *testing.T, content string) string {
		t.Helper()
		p := filepath.Join(t.TempDir(), "catalog.yaml")
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		return p
	}

	t.Run("when a catalog file is given, it is read as the catalog", func(t *testing.T) {
		p := write(t, `
types:
  - detr
variants:
  detr: [detr_r50]
`)
		actual, err := readCatalog(p)
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if !cmp.SliceEq(actual.SupportedTypes, []string{"detr"}) {
			t.Errorf(
				"types: (actual, expected) = (%v, %v)",
				actual.SupportedTypes, []string{"detr"},
			)
		}
		if !cmp.MapEqWith(
			actual.Variants, map[string][]string{"detr": {"detr_r50"}},
			cmp.SliceEq[string],
		) {
			t.Errorf("variants are wrong: %v", actual.Variants)
		}
	})

	t.Run("when the catalog lists no types, it returns error", func(t *testing.T) {
		p := write(t, `variants: {yolo: [yolov8n]}`)
		if _, err := readCatalog(p); err == nil {
			t.Errorf("no error occured")
		}
	})

	t.Run("when the catalog file does not exist, it returns error", func(t *testing.T) {
		if _, err := readCatalog(filepath.Join(t.TempDir(), "no-such.yaml")); err == nil {
			t.Errorf("no error occured")
		}
	})

	t.Run("when a spec is linted against it, the built-in catalog does not leak in", func(t *testing.T) {
		catalog := domain.ModelCatalog{
			SupportedTypes: []string{"detr"},
			Variants:       map[string][]string{"detr": {"detr_r50"}},
		}

		p := filepath.Join(t.TempDir(), "jobspec.yaml")
		if err := os.WriteFile(p, []byte(`
name: traffic detector
dataset_id: 7
model_type: yolo
model_variant: yolov8n
`), 0o644); err != nil {
			t.Fatal(err)
		}

		err := lintFile(p, catalog)
		if err == nil {
			t.Fatalf("no error occured")
		}
		if !strings.Contains(err.Error(), "Unsupported model type: yolo") {
			t.Errorf("error message is wrong: %s", err)
		}
	})
}
