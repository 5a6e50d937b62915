package dataset

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

func NewShowCmd(server *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "show a dataset registered on the server",
		Example: `
  weft dataset show 3
		`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
			defer cancel()
			if len(args) == 0 {
				return errors.New("at least one argument is required")
			}
			datasetId, err := strconv.Atoi(args[0])
			if err != nil {
				return errors.New("dataset id should be an integer")
			}

			found, err := rest.NewClient(*server).GetDataset(ctx, datasetId)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(found)
		},
	}
	return cmd
}
