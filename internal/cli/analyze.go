package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tradecoach/internal/biases"
	apperrors "tradecoach/internal/errors"
	"tradecoach/internal/importer"
	"tradecoach/internal/logging"
	"tradecoach/internal/metrics"
	"tradecoach/internal/models"
	"tradecoach/internal/risk"
)

func newAnalyzeCmd(app *App) *cobra.Command {
	var legacy bool
	var dataset string
	var save bool

	cmd := &cobra.Command{
		Use:   "analyze [file.csv]",
		Short: "Analyze trade history for behavioral patterns",
		Long: `Analyze computes summary statistics from trade history, detects behavioral
biases with supporting evidence, and builds an overall risk profile.

Reads a CSV file when given, otherwise the most recent imported dataset.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			trades, source, warnings, err := loadTrades(cmd, app, args, dataset, legacy)
			if err != nil {
				return err
			}
			for _, w := range warnings {
				output.Warning("! %s", w)
			}

			m, err := metrics.Compute(trades)
			if err != nil {
				return err
			}
			results := biasResultsFrom(m)
			score := biases.OverallRiskScore(results)
			profile := risk.ComputeProfile(trades, results)

			logging.LogAnalysis(app.Logger, source, len(trades), score, string(profile.Level))

			if save && app.Store != nil {
				if err := saveImport(cmd, app, source, trades, score); err != nil {
					output.Warning("! Could not save dataset: %v", err)
				} else {
					output.Dim("Dataset saved (%d trades).", len(trades))
				}
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"metrics":          m,
					"overallRiskScore": score,
					"riskProfile":      profile,
				})
			}

			renderAnalysis(output, m, results, score, profile)
			return nil
		},
	}

	cmd.Flags().BoolVar(&legacy, "legacy", false, "accept files without entry/exit/balance columns")
	cmd.Flags().StringVar(&dataset, "dataset", "", "analyze a saved dataset by import id")
	cmd.Flags().BoolVar(&save, "save", false, "save the imported dataset for later runs")

	return cmd
}

// loadTrades resolves the dataset for a command: an explicit CSV file, a
// saved dataset by id, or the latest saved import.
func loadTrades(cmd *cobra.Command, app *App, args []string, dataset string, legacy bool) ([]models.Trade, string, []string, error) {
	if dataset != "" && len(args) > 0 {
		return nil, "", nil, fmt.Errorf("pass either a file or --dataset, not both")
	}

	if len(args) == 1 {
		path := args[0]
		f, err := os.Open(path)
		if err != nil {
			return nil, "", nil, apperrors.Wrapf(err, "opening %s", path)
		}
		defer f.Close()

		res, err := importer.ParseCSV(f, importer.Options{AllowLegacy: legacy || app.Config.Import.AllowLegacy})
		if err != nil {
			return nil, "", nil, err
		}
		logging.LogImport(app.Logger, path, len(res.Trades), len(res.Warnings))
		return res.Trades, filepath.Base(path), res.Warnings, nil
	}

	if app.Store == nil {
		return nil, "", nil, apperrors.Wrap(apperrors.ErrDataNotFound,
			"no file given and no store available")
	}
	ctx := cmd.Context()

	var rec *models.ImportRecord
	var err error
	if dataset != "" {
		rec, err = app.Store.GetImport(ctx, dataset)
		if err != nil {
			return nil, "", nil, apperrors.Wrapf(err, "dataset %s", dataset)
		}
	} else {
		rec, err = app.Store.GetLatestImport(ctx)
		if err != nil {
			return nil, "", nil, apperrors.Wrap(err,
				"no file given and no saved dataset found; run 'tradecoach import <file.csv>' first")
		}
	}

	trades, err := app.Store.GetTrades(ctx, rec.ID)
	if err != nil {
		return nil, "", nil, err
	}
	return trades, rec.Source, nil, nil
}

// biasResultsFrom reassembles detector results from the verdicts attached to
// the metrics.
func biasResultsFrom(m *models.SummaryMetrics) []models.BiasResult {
	results := make([]models.BiasResult, 0, len(m.DetectedBiases))
	for _, b := range m.DetectedBiases {
		results = append(results, models.BiasResult{
			Bias:     b,
			Severity: m.Severities[b],
			Evidence: m.Evidence[b],
		})
	}
	return results
}

func saveImport(cmd *cobra.Command, app *App, source string, trades []models.Trade, score int) error {
	rec := &models.ImportRecord{
		ID:         fmt.Sprintf("imp-%d", time.Now().UnixMilli()),
		Source:     source,
		TradeCount: len(trades),
		FirstTrade: trades[0].Time(),
		LastTrade:  trades[len(trades)-1].Time(),
		RiskScore:  score,
		ImportedAt: time.Now(),
	}
	return app.Store.SaveImport(cmd.Context(), rec, trades)
}

func renderAnalysis(output *Output, m *models.SummaryMetrics, results []models.BiasResult, score int, profile models.RiskProfile) {
	output.Bold("Trading Summary")
	output.Printf("  Window:           %s\n", m.TradingWindow)
	output.Printf("  Trades:           %d over %d active days\n", m.TotalTrades, m.ActiveDays)
	output.Printf("  Pace:             %v/day avg, %d/day max, %s between trades\n",
		m.TradesPerDayAvg, m.TradesPerDayMax, FormatMinutes(m.AvgMinutesBetweenTrades))
	output.Printf("  Win rate:         %s\n", FormatPercent(m.WinRate))
	output.Printf("  Avg win/loss:     %s / %s\n", output.FormatPnL(m.AvgWin), output.FormatPnL(m.AvgLoss))
	output.Printf("  Profit factor:    %v\n", m.ProfitFactor)
	if m.AvgHoldMinutesWins != nil && m.AvgHoldMinutesLosses != nil {
		output.Printf("  Hold (win/loss):  %s / %s\n",
			FormatMinutes(*m.AvgHoldMinutesWins), FormatMinutes(*m.AvgHoldMinutesLosses))
	}
	if m.AvgWinReturnPct != nil && m.AvgLossReturnPct != nil {
		output.Printf("  Return (win/loss): %s / %s\n",
			FormatSignedPercent(*m.AvgWinReturnPct*100), FormatSignedPercent(-*m.AvgLossReturnPct*100))
	}
	if m.AvgTradeSize != nil {
		output.Printf("  Avg trade size:   %s\n", FormatOptional(m.AvgTradeSize, "$"))
	}
	if m.BalanceTurnover != nil {
		output.Printf("  Balance turnover: %vx\n", *m.BalanceTurnover)
	}
	if len(m.WorstHours) > 0 {
		output.Printf("  Worst hours:      %s\n", strings.Join(m.WorstHours, ", "))
	}
	if len(m.DataCompleteness.MissingFields) > 0 {
		output.Printf("  Sparse columns:   %s\n", strings.Join(m.DataCompleteness.MissingFields, ", "))
	}
	output.Println()

	output.Bold("Detected Biases")
	for _, r := range results {
		output.Printf("  %s  [%s]\n", r.Bias, output.FormatSeverity(r.Severity))
		for _, e := range r.Evidence {
			output.Dim("    - %s", e)
		}
	}
	output.Println()

	output.Bold("Behavioral Risk")
	output.Printf("  Overall score:    %d/100\n", score)
	output.Printf("  Risk level:       %s  (P&L trend: %s)\n",
		output.FormatRiskLevel(profile.Level), profile.PnLTrend)
	for _, reason := range profile.Reasons {
		output.Dim("    - %s", reason)
	}
	output.Println()

	output.Bold("Suggested Holdings")
	table := NewTable(output, "TICKER", "NAME", "NOTES")
	for _, etf := range profile.Recommendations {
		name := etf.Name
		if etf.IsSponsorPick {
			name = name + " " + output.Cyan("(sponsor pick)")
		}
		table.AddRow(etf.Ticker, name, TruncateString(etf.Description, 60))
	}
	table.Render()
}
