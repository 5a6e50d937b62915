package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	apijobs "github.com/weftml/weft/pkg/api/types/jobs"
	kconf "github.com/weftml/weft/pkg/configs/server"
	"github.com/weftml/weft/pkg/domain"
	"github.com/weftml/weft/pkg/domain/trainjob/validate"
	"gopkg.in/yaml.v3"
)

func NewLintCmd() *cobra.Command {
	catalogPath := ""
	cmd := &cobra.Command{
		Use:   "lint",
		Short: "check job spec files without submitting them",
		Long: `check job spec files without submitting them.

Specs are checked the way the server checks submissions, with the built-in
parameter defaults filled in first. Checks run against the built-in model
catalog, or the one given with --catalog (same shape as the "catalog"
section of the server config). A server configured with another catalog
or other defaults may still judge a spec differently.`,
		Example: `
  weft lint ./jobspec.yaml
  weft lint ./jobs/*.yaml
  weft lint --catalog ./catalog.yaml ./jobspec.yaml
		`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("at least one argument is required")
			}

			catalog := domain.DefaultCatalog()
			if catalogPath != "" {
				c, err := readCatalog(catalogPath)
				if err != nil {
					return err
				}
				catalog = c
			}

			for _, p := range args {
				if err := lintFile(p, catalog); err != nil {
					return err
				}
				fmt.Printf("%s: ok\n", p)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(
		&catalogPath, "catalog", "",
		"path to a model catalog YAML to check against, instead of the built-in one",
	)
	return cmd
}

func readCatalog(path string) (domain.ModelCatalog, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return domain.ModelCatalog{}, fmt.Errorf("fail to read catalog: %w", err)
	}

	c := new(kconf.CatalogMarshall)
	if err := yaml.Unmarshal(buf, c); err != nil {
		return domain.ModelCatalog{}, fmt.Errorf("fail to parse catalog: %w", err)
	}
	if len(c.Types) == 0 {
		return domain.ModelCatalog{}, fmt.Errorf("%s: catalog lists no types", path)
	}

	return domain.ModelCatalog{
		SupportedTypes: c.Types,
		Variants:       c.Variants,
	}, nil
}

func lintFile(path string, catalog domain.ModelCatalog) error {
	buf, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("fail to read job spec: %w", err)
	}

	spec := new(apijobs.Submission)
	if err := yaml.Unmarshal(buf, spec); err != nil {
		return fmt.Errorf("fail to parse job spec: %w", err)
	}

	if spec.Name == "" {
		return fmt.Errorf("%s: Missing required field: name", path)
	}
	if spec.DatasetId == 0 {
		return fmt.Errorf("%s: Missing required field: dataset_id", path)
	}
	if spec.ModelType == "" {
		return fmt.Errorf("%s: Missing required field: model_type", path)
	}

	conf := domain.DefaultTrainingDefaults().Apply(spec.Parameters)
	conf["model_type"] = spec.ModelType
	conf["model_variant"] = spec.ModelVariant
	if err := validate.Validate(conf, catalog); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
