package job

import (
	"context"
	"os"
	"os/signal"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/weftml/weft/cmd/weft/rest"
)

func NewFindCmd(server *string) *cobra.Command {
	status := ""
	cmd := &cobra.Command{
		Use:   "find",
		Short: "find training jobs on the server",
		Example: `
  weft job find
  weft job find --status running
		`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
			defer cancel()

			found, err := rest.NewClient(*server).FindJob(ctx, status)
			if err != nil {
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.AppendHeader(table.Row{"ID", "NAME", "DATASET", "MODEL", "VARIANT", "STATUS", "CREATED AT"})
			for _, j := range found {
				t.AppendRow(table.Row{
					j.Id, j.Name, j.DatasetId, j.ModelType, j.ModelVariant,
					j.Status, j.CreatedAt.String(),
				})
			}
			t.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", status, "filter by status. pending|running|completed|failed|cancelled")
	return cmd
}
