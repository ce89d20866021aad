// Package risk builds an overall behavioral risk profile from raw trades and
// detector verdicts, and maps the profile to a fixed ETF shortlist.
package risk

import (
	"fmt"
	"sort"
	"strings"

	"tradecoach/internal/models"
)

// ComputeProfile averages four 1-3 sub-scores: longest loss streak, net P&L
// trend, P&L variance, and mean detector severity. Reasons are collected only
// for the sub-scores that flagged something.
func ComputeProfile(trades []models.Trade, biases []models.BiasResult) models.RiskProfile {
	var reasons []string

	maxStreak := longestLossStreak(trades)
	streakRisk := 1.0
	switch {
	case maxStreak >= 8:
		streakRisk = 3
		reasons = append(reasons, fmt.Sprintf(
			"Your longest loss streak is %d trades, indicating high emotional risk.", maxStreak))
	case maxStreak >= 5:
		streakRisk = 2
		reasons = append(reasons, fmt.Sprintf("Your longest loss streak is %d trades.", maxStreak))
	}

	var cumulative float64
	for _, t := range trades {
		cumulative += t.PnL
	}
	trend := models.TrendFlat
	pnlRisk := 2.0
	switch {
	case cumulative > 50:
		trend = models.TrendPositive
		pnlRisk = 1
	case cumulative < -50:
		trend = models.TrendNegative
		pnlRisk = 3
		reasons = append(reasons, fmt.Sprintf(
			"Net P&L is $%.2f; you are losing money overall.", cumulative))
	}

	variance := pnlVariance(trades)
	volRisk := 1.0
	switch {
	case variance > 2500:
		volRisk = 3
		reasons = append(reasons, fmt.Sprintf(
			"Your P&L volatility is very high (variance: %.0f).", variance))
	case variance > 1000:
		volRisk = 2
		reasons = append(reasons, "Your P&L shows moderate volatility.")
	}

	biasRisk := 1.0
	if len(biases) > 0 {
		total := 0
		for _, b := range biases {
			switch b.Severity {
			case models.SeverityHigh:
				total += 3
			case models.SeverityMedium:
				total += 2
			default:
				total++
			}
		}
		biasRisk = float64(total) / float64(len(biases))
	}

	total := (streakRisk + pnlRisk + volRisk + biasRisk) / 4

	level := models.RiskLow
	switch {
	case total >= 2.5:
		level = models.RiskHigh
	case total >= 1.8:
		level = models.RiskMedium
	}

	return models.RiskProfile{
		Level:           level,
		Reasons:         reasons,
		PnLTrend:        trend,
		Recommendations: Recommendations(level),
	}
}

// Recommendations returns the ETF shortlist for a risk level. High-risk
// profiles get bond and balanced funds first; the relative order of the rest
// is preserved.
func Recommendations(level models.RiskLevel) []models.ETFRecommendation {
	etfs := []models.ETFRecommendation{
		{
			Ticker:        "NBI Canadian Equity ETF",
			Name:          "NBI Canadian Equity ETF",
			Description:   "Broad Canadian equity exposure with professional management.",
			IsSponsorPick: true,
		},
		{
			Ticker:        "NBI Global Equity ETF",
			Name:          "NBI Global Equity ETF",
			Description:   "Globally diversified equities to reduce home-country bias.",
			IsSponsorPick: true,
		},
		{
			Ticker:        "NBI Sustainable Canadian Bond ETF",
			Name:          "NBI Sustainable Canadian Bond ETF",
			Description:   "Fixed-income stability with an ESG focus.",
			IsSponsorPick: true,
		},
		{
			Ticker:        "XIU",
			Name:          "iShares S&P/TSX 60 ETF",
			Description:   "Low-cost exposure to Canada's 60 largest companies.",
			IsSponsorPick: false,
		},
		{
			Ticker:        "VFV",
			Name:          "Vanguard S&P 500 ETF",
			Description:   "Track the S&P 500 with minimal fees.",
			IsSponsorPick: false,
		},
		{
			Ticker:        "XBAL",
			Name:          "iShares Core Balanced ETF",
			Description:   "60/40 equity-bond mix for balanced risk exposure.",
			IsSponsorPick: false,
		},
	}

	if level == models.RiskHigh {
		sort.SliceStable(etfs, func(i, j int) bool {
			return stabilityRank(etfs[i]) < stabilityRank(etfs[j])
		})
	}
	return etfs
}

func stabilityRank(e models.ETFRecommendation) int {
	d := strings.ToLower(e.Description + " " + e.Name)
	if strings.Contains(d, "bond") || strings.Contains(d, "balanced") {
		return 0
	}
	return 1
}

func longestLossStreak(trades []models.Trade) int {
	max, current := 0, 0
	for _, t := range trades {
		if t.PnL < 0 {
			current++
			if current > max {
				max = current
			}
		} else {
			current = 0
		}
	}
	return max
}

func pnlVariance(trades []models.Trade) float64 {
	if len(trades) == 0 {
		return 0
	}
	var sum float64
	for _, t := range trades {
		sum += t.PnL
	}
	mean := sum / float64(len(trades))
	var sq float64
	for _, t := range trades {
		d := t.PnL - mean
		sq += d * d
	}
	return sq / float64(len(trades))
}
