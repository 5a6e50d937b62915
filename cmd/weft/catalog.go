package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/weftml/weft/cmd/weft/rest"
)

func NewCatalogCmd(server *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "show model types, dataset formats and parameter defaults the server accepts",
		Example: `
  weft catalog
		`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
			defer cancel()

			cat, err := rest.NewClient(*server).GetCatalog(ctx)
			if err != nil {
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.AppendHeader(table.Row{"MODEL TYPE", "VARIANTS"})
			for _, mt := range cat.ModelTypes {
				t.AppendRow(table.Row{mt, strings.Join(cat.Variants[mt], ", ")})
			}
			t.Render()

			fmt.Println("formats:", strings.Join(cat.Formats, ", "))
			fmt.Printf(
				"defaults: epochs=%d batch_size=%d learning_rate=%g validation_split=%g\n",
				cat.Defaults.Epochs, cat.Defaults.BatchSize,
				cat.Defaults.LearningRate, cat.Defaults.ValidationSplit,
			)
			return nil
		},
	}
	return cmd
}
