package model

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/signal"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/weftml/weft/cmd/weft/rest"
)

func NewModelCmd(server *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "model",
		Short: "Trained model catalog",
		Long:  "Trained model catalog",
	}
	cmd.AddCommand(NewFindCmd(server))
	cmd.AddCommand(NewShowCmd(server))

	return cmd
}

func NewFindCmd(server *string) *cobra.Command {
	jobId := 0
	cmd := &cobra.Command{
		Use:   "find",
		Short: "find trained models on the server",
		Example: `
  weft model find
  weft model find --job 42
		`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
			defer cancel()

			found, err := rest.NewClient(*server).FindModel(ctx, jobId)
			if err != nil {
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.AppendHeader(table.Row{"ID", "JOB", "NAME", "VERSION", "CREATED AT"})
			for _, m := range found {
				t.AppendRow(table.Row{m.Id, m.JobId, m.Name, m.Version, m.CreatedAt.String()})
			}
			t.Render()
			return nil
		},
	}
	cmd.Flags().IntVar(&jobId, "job", jobId, "filter by the training job which produced the model")
	return cmd
}

func NewShowCmd(server *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "show a trained model, with its evaluation metrics",
		Example: `
  weft model show 1
		`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
			defer cancel()
			if len(args) == 0 {
				return errors.New("at least one argument is required")
			}
			modelId, err := strconv.Atoi(args[0])
			if err != nil {
				return errors.New("model id should be an integer")
			}

			found, err := rest.NewClient(*server).GetModel(ctx, modelId)
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
