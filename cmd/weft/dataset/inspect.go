package dataset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/weftml/weft/pkg/domain"
	"github.com/weftml/weft/pkg/domain/dataset/ingest"
)

// inspection is the machine-readable form of a local archive summary.
type inspection struct {
	Format         string   `json:"format"`
	NumClasses     int      `json:"num_classes"`
	NumImages      int      `json:"num_images"`
	NumAnnotations *int     `json:"num_annotations,omitempty"`
	ClassNames     []string `json:"class_names"`
}

func NewInspectCmd() *cobra.Command {
	format := ""
	jsonOut := false
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "extract and summarize a dataset archive locally, without a server",
		Example: `
  weft dataset inspect ./traffic.zip --format coco
  weft dataset inspect ./roadsigns.tar.gz --format "pascal voc" --json
		`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
			defer cancel()
			if len(args) == 0 {
				return errors.New("at least one argument is required")
			}

			f, err := domain.AsDatasetFormat(format)
			if err != nil {
				return err
			}

			workRoot, err := os.MkdirTemp("", "weft-inspect-")
			if err != nil {
				return err
			}
			defer os.RemoveAll(workRoot)

			_, summary, err := ingest.New(workRoot).Ingest(ctx, args[0], f.String())
			if err != nil {
				return err
			}

			if jsonOut {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(inspection{
					Format:         f.String(),
					NumClasses:     summary.NumClasses,
					NumImages:      summary.NumImages,
					NumAnnotations: summary.NumAnnotations,
					ClassNames:     summary.ClassNames,
				})
			}

			annotations := "-"
			if summary.NumAnnotations != nil {
				annotations = strconv.Itoa(*summary.NumAnnotations)
			}

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.AppendHeader(table.Row{"FORMAT", "CLASSES", "IMAGES", "ANNOTATIONS"})
			t.AppendRow(table.Row{f.String(), summary.NumClasses, summary.NumImages, annotations})
			t.Render()
			fmt.Println("classes:", strings.Join(summary.ClassNames, ", "))
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", format, `dataset format. COCO|YOLO|"Pascal VOC" (case-insensitive)`)
	cmd.Flags().BoolVar(&jsonOut, "json", jsonOut, "print the summary as JSON")
	return cmd
}
