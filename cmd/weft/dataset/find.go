package dataset

import (
	"context"
	"os"
	"os/signal"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/weftml/weft/cmd/weft/rest"
)

func NewFindCmd(server *string) *cobra.Command {
	name := ""
	version := ""
	cmd := &cobra.Command{
		Use:   "find",
		Short: "find datasets registered on the server",
		Example: `
  weft dataset find
  weft dataset find --name traffic
  weft dataset find --name traffic --version v2
		`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
			defer cancel()

			found, err := rest.NewClient(*server).FindDataset(ctx, name, version)
			if err != nil {
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.AppendHeader(table.Row{"ID", "NAME", "VERSION", "FORMAT", "CLASSES", "IMAGES", "CREATED AT"})
			for _, d := range found {
				t.AppendRow(table.Row{
					d.Id, d.Name, d.Version, d.Format,
					d.NumClasses, d.NumImages, d.CreatedAt.String(),
				})
			}
			t.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", name, "filter by dataset name")
	cmd.Flags().StringVar(&version, "version", version, "filter by dataset version")
	return cmd
}
