package job

import (
	"github.com/spf13/cobra"
)

func NewJobCmd(server *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "job",
		Short: "Training job management",
		Long:  "Training job management",
	}
	cmd.AddCommand(NewApplyCmd(server))
	cmd.AddCommand(NewFindCmd(server))
	cmd.AddCommand(NewShowCmd(server))
	cmd.AddCommand(NewStopCmd(server))

	return cmd
}
