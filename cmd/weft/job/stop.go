package job

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/signal"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/weftml/weft/cmd/weft/rest"
)

func NewStopCmd(server *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stop",
		Short: "cancel a pending or running training job",
		Example: `
  weft job stop 42
		`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
			defer cancel()
			if len(args) == 0 {
				return errors.New("at least one argument is required")
			}
			jobId, err := strconv.Atoi(args[0])
			if err != nil {
				return errors.New("job id should be an integer")
			}

			stopped, err := rest.NewClient(*server).StopJob(ctx, jobId)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(stopped)
		},
	}
	return cmd
}
