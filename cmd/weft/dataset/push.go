package dataset

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/weftml/weft/cmd/weft/rest"
)

func NewPushCmd(server *string) *cobra.Command {
	name := ""
	version := ""
	format := ""
	cmd := &cobra.Command{
		Use:   "push",
		Short: "upload a dataset archive and register it on the server",
		Example: `
  weft dataset push ./traffic.zip --name traffic --format coco
  weft dataset push ./traffic.zip --name traffic --version v2 --format coco
		`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
			defer cancel()
			if len(args) == 0 {
				return errors.New("at least one argument is required")
			}

			registered, err := rest.NewClient(*server).PushDataset(ctx, rest.DatasetPush{
				Name:    name,
				Version: version,
				Format:  format,
				Archive: args[0],
			})
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(registered)
		},
	}
	cmd.Flags().StringVar(&name, "name", name, "name of the dataset")
	cmd.Flags().StringVar(&version, "version", version, "version of the dataset. default = v1")
	cmd.Flags().StringVar(&format, "format", format, `dataset format. COCO|YOLO|"Pascal VOC" (case-insensitive)`)
	return cmd
}
