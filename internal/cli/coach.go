package cli

import (
	"time"

	"github.com/spf13/cobra"

	"tradecoach/internal/coach"
	apperrors "tradecoach/internal/errors"
	"tradecoach/internal/logging"
	"tradecoach/internal/metrics"
	"tradecoach/internal/models"
)

func newCoachCmd(app *App) *cobra.Command {
	var legacy bool
	var dataset string
	var offline bool

	cmd := &cobra.Command{
		Use:   "coach [file.csv]",
		Short: "Get coaching advice from your analysis",
		Long: `Coach runs the full analysis and renders it as actionable guidance:
bias cards with corrective rules, short literacy lessons, a rest-mode
plan and a closing nudge.

With an OpenAI key configured the wording comes from the model, grounded
strictly in the computed numbers. Without one (or with --offline) the
built-in templates are used; the analysis itself is identical either way.`,
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

			llm := app.LLM
			if offline {
				llm = nil
			}
			c := coach.New(llm, time.Duration(app.Config.Coach.TimeoutSeconds)*time.Second, app.Logger)

			start := time.Now()
			out, usedFallback := c.Generate(cmd.Context(), m)
			if llm != nil {
				var callErr error
				if usedFallback {
					callErr = apperrors.ErrCoachUnavailable
				}
				logging.LogCoachCall(app.Logger, app.Config.Coach.Model, time.Since(start), callErr)
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"coaching":     out,
					"usedFallback": usedFallback,
				})
			}
			renderCoaching(output, out, usedFallback)
			return nil
		},
	}

	cmd.Flags().BoolVar(&legacy, "legacy", false, "accept files without entry/exit/balance columns")
	cmd.Flags().StringVar(&dataset, "dataset", "", "coach a saved dataset by import id")
	cmd.Flags().BoolVar(&offline, "offline", false, "skip the LLM and use template coaching")
	return cmd
}

func renderCoaching(output *Output, out *models.CoachOutput, usedFallback bool) {
	output.Bold(out.Headline)
	output.Printf("Behavioral risk score: %d/100\n", out.OverallRiskScore)
	if usedFallback {
		output.Dim("(template coaching; configure an OpenAI key for personalized wording)")
	}
	output.Println()

	for _, card := range out.BiasCards {
		output.Info("%s [%s]", card.Bias, card.Severity)
		output.Printf("  %s\n", card.WhyItHurts)
		for _, rule := range card.Rules {
			output.Printf("  - %s: %s\n", output.BoldText(rule.Title), rule.Details)
		}
		output.Dim("  Micro-habit: %s", card.MicroHabit)
		output.Println()
	}

	if len(out.LiteracyModules) > 0 {
		output.Bold("Learn (3 minutes each)")
		for _, mod := range out.LiteracyModules {
			output.Printf("  %s\n", output.Cyan(mod.Title))
			output.Printf("    %s\n", mod.Lesson)
			output.Printf("    Rule: %s\n", mod.OneRule)
			output.Dim("    Reflect: %s", mod.ReflectionQuestion)
			output.Dim("    Challenge: %s", mod.MiniChallenge)
		}
		output.Println()
	}

	output.Bold("Rest Mode")
	output.Printf("  Cooldown: %d minutes\n", out.RestModePlan.RecommendedCooldownMinutes)
	output.Printf("  Trigger:  %s\n", out.RestModePlan.TriggerRule)
	output.Printf("  Script:   %s\n", out.RestModePlan.Script)
	output.Println()

	output.Bold("Brokerage Fit")
	output.Printf("  %s\n", out.BrokerageFit.Summary)
	for _, rec := range out.BrokerageFit.Recommendations {
		output.Printf("  - %s\n", rec)
	}
	output.Println()

	output.Success("%s", out.OneSentenceNudge)
}
