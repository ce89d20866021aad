package biases

import (
	"fmt"

	"tradecoach/internal/models"
)

// detectOvertrading scores trade frequency, capital churn and clustering.
// Frequency is tiered (at most one of +2/+1 fires); the remaining conditions
// are independent and stack.
func detectOvertrading(m *models.SummaryMetrics) models.BiasResult {
	score := 0
	evidence := []string{
		fmt.Sprintf("You average %s trades/day (healthy swing/day-trade range is usually 3-15).", num(m.TradesPerDayAvg)),
		fmt.Sprintf("Average time between trades: %s minutes.", num(m.AvgMinutesBetweenTrades)),
		fmt.Sprintf("Busiest day: %d trades in a single session.", m.TradesPerDayMax),
	}

	// A gap of zero means no two trades landed within the same session, so
	// the pace cutoffs only apply when a real gap was measured.
	gapKnown := m.AvgMinutesBetweenTrades > 0
	switch {
	case m.TradesPerDayAvg > 20 || (gapKnown && m.AvgMinutesBetweenTrades < 15):
		score += 2
	case m.TradesPerDayAvg > 12 || (gapKnown && m.AvgMinutesBetweenTrades < 30):
		score++
	}

	if m.BalanceTurnover != nil {
		if *m.BalanceTurnover > 3 {
			score++
			evidence = append(evidence, fmt.Sprintf(
				"Total notional traded is %sx your average account balance.", num(*m.BalanceTurnover)))
		}
		if *m.BalanceTurnover > 5 {
			score++
		}
	}

	if m.AssetSwitchRate > 0.6 {
		score++
		evidence = append(evidence, fmt.Sprintf(
			"You switch assets on %.0f%% of consecutive trades, which suggests chasing rather than following a plan.",
			m.AssetSwitchRate*100))
	}

	if m.MaxHourlyTradeShare > 0.25 {
		score++
		evidence = append(evidence, fmt.Sprintf(
			"%.0f%% of your trades cluster in a single hour of the day.", m.MaxHourlyTradeShare*100))
	}

	if m.PostWinTradesWithin30MinAvg >= 3 {
		score++
		evidence = append(evidence, fmt.Sprintf(
			"After a big win, you place ~%.1f trades within 30 minutes.", m.PostWinTradesWithin30MinAvg))
	}

	return models.BiasResult{
		Bias:     models.BiasOvertrading,
		Severity: severityFor(score, 2, 4),
		Evidence: evidence,
	}
}
