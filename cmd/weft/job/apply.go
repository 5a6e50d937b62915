package job

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/weftml/weft/cmd/weft/rest"
	apijobs "github.com/weftml/weft/pkg/api/types/jobs"
	"gopkg.in/yaml.v3"
)

func NewApplyCmd(server *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "submit a training job from a job spec file",
		Example: `
  weft job apply ./jobspec.yaml
		`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
			defer cancel()
			if len(args) == 0 {
				return errors.New("at least one argument is required")
			}

			buf, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("fail to read job spec: %w", err)
			}

			spec := new(apijobs.Submission)
			if err := yaml.Unmarshal(buf, spec); err != nil {
				return fmt.Errorf("fail to parse job spec: %w", err)
			}

			submitted, err := rest.NewClient(*server).ApplyJob(ctx, *spec)
			if err != nil {
				return fmt.Errorf("failed to submit job: %w", err)
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(submitted)
		},
	}
	return cmd
}
