package biases

import (
	"fmt"
	"math"

	"tradecoach/internal/models"
)

// detectLossAversion scores the classic asymmetry of cutting winners early
// while letting losers run. The hold-time comparison is preferred when the
// dataset carries hold durations; otherwise only P&L magnitudes are used.
func detectLossAversion(m *models.SummaryMetrics) models.BiasResult {
	score := 0
	absLoss := math.Abs(m.AvgLoss)
	evidence := []string{fmt.Sprintf(
		"Your average loss ($%.2f) vs average win ($%.2f).", absLoss, m.AvgWin)}

	if m.AvgHoldMinutesWins != nil && m.AvgHoldMinutesLosses != nil {
		holdRatio := *m.AvgHoldMinutesLosses / math.Max(*m.AvgHoldMinutesWins, 0.1)
		evidence = append(evidence, fmt.Sprintf(
			"You hold losing trades %.1fx longer than winners (%s min vs %s min).",
			holdRatio, num(*m.AvgHoldMinutesLosses), num(*m.AvgHoldMinutesWins)))
		if holdRatio > 1.5 && absLoss > m.AvgWin {
			score += 2
		}
		if holdRatio > 1.2 || absLoss > m.AvgWin*1.2 {
			score++
		}
	} else {
		switch {
		case absLoss > m.AvgWin*1.5:
			score += 3
			evidence = append(evidence,
				"Your losses are significantly larger than your wins (no hold-time data available).")
		case absLoss > m.AvgWin*1.2:
			score++
			evidence = append(evidence, "Your losses are moderately larger than your wins.")
		}
	}

	if m.RiskRewardRatio != nil {
		if *m.RiskRewardRatio < 0.9 {
			score++
			evidence = append(evidence, fmt.Sprintf(
				"Your risk/reward ratio is %.2f; winners return less per trade than losers cost.",
				*m.RiskRewardRatio))
		}
		if *m.RiskRewardRatio < 0.7 {
			score++
		}
	}

	if m.SmallWinRate != nil && *m.SmallWinRate > 0.6 {
		score++
		evidence = append(evidence, fmt.Sprintf(
			"%.0f%% of your wins are small scalps (return under %.2f%%), a sign of taking profit too early.",
			*m.SmallWinRate*100, deref(m.SmallWinThreshold)*100))
	}

	evidence = append(evidence, fmt.Sprintf(
		"Profit factor: %.2f (below 1.0 means net losing).", m.ProfitFactor))

	return models.BiasResult{
		Bias:     models.BiasLossAversion,
		Severity: severityFor(score, 2, 3),
		Evidence: evidence,
	}
}

func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
