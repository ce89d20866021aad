package biases

import (
	"fmt"

	"tradecoach/internal/models"
)

// detectRevengeTrading scores behavior in the window after losses: rapid
// follow-up entries, degraded post-loss win rate, and size escalation either
// after a single loss or after a losing streak.
func detectRevengeTrading(m *models.SummaryMetrics) models.BiasResult {
	score := 0
	evidence := []string{
		fmt.Sprintf("After losses, you place ~%.1f trades within 30 minutes.", m.PostLossTradesWithin30MinAvg),
	}

	evidence = append(evidence, fmt.Sprintf(
		"Your win rate after a loss: %.0f%% (overall: %.0f%%).",
		m.PostLossWinRate*100, m.WinRate*100))

	drop := m.WinRate - m.PostLossWinRate
	if drop > 0 {
		evidence = append(evidence, fmt.Sprintf(
			"Your win rate drops by %.0f percentage points after a loss.", drop*100))
	}

	if m.PostLossTradesWithin30MinAvg >= 3 && drop > 0.10 {
		score += 2
	}
	if m.PostLossTradesWithin30MinAvg >= 2 || drop > 0.05 {
		score++
	}

	if m.SizeAfterLossRatio != nil && *m.SizeAfterLossRatio >= 1.3 {
		score++
		evidence = append(evidence, fmt.Sprintf(
			"You size up %.1fx after a loss ($%.2f vs $%.2f average).",
			*m.SizeAfterLossRatio, deref(m.AvgTradeSizeAfterLoss), deref(m.AvgTradeSize)))
	}

	if m.AvgMinutesBetweenTradesAfterStreak != nil && m.AvgMinutesBetweenTrades > 0 &&
		*m.AvgMinutesBetweenTradesAfterStreak < 0.7*m.AvgMinutesBetweenTrades {
		score++
		evidence = append(evidence, fmt.Sprintf(
			"After 2+ consecutive losses you re-enter in %s minutes on average (overall pace: %s minutes).",
			num(*m.AvgMinutesBetweenTradesAfterStreak), num(m.AvgMinutesBetweenTrades)))
	}

	if m.AvgTradeSizeAfterStreak != nil && m.AvgTradeSize != nil &&
		*m.AvgTradeSizeAfterStreak > 1.2*(*m.AvgTradeSize) {
		score++
		evidence = append(evidence, fmt.Sprintf(
			"Your trade size after losing streaks ($%.2f) runs above your norm ($%.2f).",
			*m.AvgTradeSizeAfterStreak, *m.AvgTradeSize))
	}

	return models.BiasResult{
		Bias:     models.BiasRevengeTrading,
		Severity: severityFor(score, 2, 3),
		Evidence: evidence,
	}
}
