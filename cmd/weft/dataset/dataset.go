package dataset

import (
	"github.com/spf13/cobra"
)

func NewDatasetCmd(server *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dataset",
		Short: "Dataset management",
		Long:  "Dataset management",
	}
	cmd.AddCommand(NewInspectCmd())
	cmd.AddCommand(NewPushCmd(server))
	cmd.AddCommand(NewFindCmd(server))
	cmd.AddCommand(NewShowCmd(server))

	return cmd
}
