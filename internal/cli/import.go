package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tradecoach/internal/biases"
	apperrors "tradecoach/internal/errors"
	"tradecoach/internal/importer"
	"tradecoach/internal/logging"
	"tradecoach/internal/metrics"
)

func newImportCmd(app *App) *cobra.Command {
	var legacy bool

	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import a trade history CSV into the local store",
		Long: `Import validates a CSV export, scores it, and saves it so later analyze,
coach and brokerages runs can reuse it without re-reading the file.

Column headers are matched loosely: "Entry Price", "entry-price" and
"ENTRY_PRICE" all work, and common synonyms (symbol/ticker, qty/shares)
are accepted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return apperrors.Wrap(apperrors.ErrDatabaseError, "store unavailable")
			}

			f, err := os.Open(args[0])
			if err != nil {
				return apperrors.Wrapf(err, "opening %s", args[0])
			}
			defer f.Close()

			res, err := importer.ParseCSV(f, importer.Options{AllowLegacy: legacy || app.Config.Import.AllowLegacy})
			if err != nil {
				return err
			}
			logging.LogImport(app.Logger, args[0], len(res.Trades), len(res.Warnings))
			for _, w := range res.Warnings {
				output.Warning("! %s", w)
			}

			m, err := metrics.Compute(res.Trades)
			if err != nil {
				return err
			}
			score := biases.OverallRiskScore(biasResultsFrom(m))

			if err := saveImport(cmd, app, args[0], res.Trades, score); err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"trades":           len(res.Trades),
					"warnings":         res.Warnings,
					"overallRiskScore": score,
				})
			}
			output.Success("Imported %d trades (%s).", len(res.Trades), m.TradingWindow)
			output.Dim("Run 'tradecoach analyze' to see the full breakdown.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&legacy, "legacy", false, "accept files without entry/exit/balance columns")

	cmd.AddCommand(newImportListCmd(app))
	return cmd
}

func newImportListCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved datasets",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return apperrors.Wrap(apperrors.ErrDatabaseError, "store unavailable")
			}

			recs, err := app.Store.ListImports(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(recs)
			}
			if len(recs) == 0 {
				output.Dim("No saved datasets.")
				return nil
			}

			table := NewTable(output, "ID", "SOURCE", "TRADES", "WINDOW", "RISK")
			for _, r := range recs {
				table.AddRow(r.ID, TruncateString(r.Source, 32),
					fmt.Sprintf("%d", r.TradeCount),
					FormatDate(r.FirstTrade)+" .. "+FormatDate(r.LastTrade),
					fmt.Sprintf("%d/100", r.RiskScore))
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum datasets to list")
	return cmd
}
