package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"tradecoach/internal/brokerage"
	"tradecoach/internal/config"
	"tradecoach/internal/metrics"
)

func newBrokeragesCmd(app *App) *cobra.Command {
	var legacy bool
	var dataset string

	cmd := &cobra.Command{
		Use:   "brokerages [file.csv]",
		Short: "Compare estimated annual trading costs across brokerages",
		Long: `Brokerages projects your observed trading pace onto illustrative fee
schedules (not real fees) and estimates what a year of trading costs at
each. Fee schedules can be overridden in the config file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			trades, _, warnings, err := loadTrades(cmd, app, args, dataset, legacy)
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

			comparisons := brokerage.Compare(m, feeOverrides(app.Config))
			savings := brokerage.SavingsMessage(comparisons)

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"comparisons":    comparisons,
					"savingsMessage": savings,
				})
			}

			output.Bold("Estimated Annual Costs (illustrative fees)")
			table := NewTable(output, "BROKERAGE", "PER TRADE", "MONTHLY", "ANNUAL EST.")
			for _, c := range comparisons {
				name := c.Name
				if c.IsSponsor {
					name = output.Cyan(name)
				}
				table.AddRow(name,
					fmt.Sprintf("$%.2f", c.PerTrade),
					fmt.Sprintf("$%.2f", c.MonthlyFee),
					FormatCurrency(float64(c.EstimatedAnnualCost)))
			}
			table.Render()

			for _, c := range comparisons {
				if c.Highlight != "" {
					output.Println()
					output.Info("%s", c.Highlight)
				}
			}
			if savings != "" {
				output.Success("%s", savings)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&legacy, "legacy", false, "accept files without entry/exit/balance columns")
	cmd.Flags().StringVar(&dataset, "dataset", "", "use a saved dataset by import id")
	return cmd
}

// feeOverrides converts config overrides to the brokerage package's type.
func feeOverrides(cfg *config.Config) map[string]brokerage.FeeOverride {
	if len(cfg.Brokerages) == 0 {
		return nil
	}
	out := make(map[string]brokerage.FeeOverride, len(cfg.Brokerages))
	for name, o := range cfg.Brokerages {
		out[name] = brokerage.FeeOverride{PerTrade: o.PerTrade, MonthlyFee: o.MonthlyFee}
	}
	return out
}
