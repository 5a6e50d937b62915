package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/weftml/weft/cmd/weft/dataset"
	"github.com/weftml/weft/cmd/weft/job"
	"github.com/weftml/weft/cmd/weft/model"
)

const ErrExitCode = 1

func main() {
	if err := NewWeftCmd().Execute(); err != nil {
		os.Exit(ErrExitCode)
	}
}

// NewWeftCmd builds the weft command tree.
//
// The server URL comes from --server, and from the WEFT_SERVER environment
// variable when the flag is not given.
func NewWeftCmd() *cobra.Command {
	server := os.Getenv("WEFT_SERVER")
	if server == "" {
		server = "http://localhost:8080"
	}

	cmd := &cobra.Command{
		Use:   "weft",
		Short: "weft commandline interface",
	}
	cmd.PersistentFlags().StringVar(&server, "server", server, "URL of the weft server")
	cmd.AddCommand(
		dataset.NewDatasetCmd(&server),
		job.NewJobCmd(&server),
		model.NewModelCmd(&server),
		NewCatalogCmd(&server),
		NewLintCmd(),
	)
	return cmd
}
