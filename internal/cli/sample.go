package cli

import (
	"os"

	"github.com/spf13/cobra"

	apperrors "tradecoach/internal/errors"
	"tradecoach/internal/importer"
)

func newSampleCmd(app *App) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Generate a sample trade history CSV",
		Long: `Sample writes a deterministic ~200-trade dataset over five sessions,
shaped to exhibit all three bias patterns. The same file is produced on
every run, which makes it useful for demos and for trying the analyzer
before exporting real data.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			trades := importer.SampleTrades()

			w := cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return apperrors.Wrapf(err, "creating %s", out)
				}
				defer f.Close()
				w = f
			}

			if err := importer.WriteCSV(w, trades); err != nil {
				return err
			}
			if out != "" && !output.IsJSON() {
				output.Success("Wrote %d sample trades to %s.", len(trades), out)
				output.Dim("Analyze it with: tradecoach analyze --legacy %s", out)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "write the CSV to a file instead of stdout")
	return cmd
}
