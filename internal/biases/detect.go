// Package biases provides deterministic, explainable detection of harmful
// trading patterns. Each detector is a pure function of the summary metrics:
// an additive integer point score is mapped to a severity tier, and every
// scoring condition appends an evidence line citing the number that fired it.
// No model call is involved anywhere.
package biases

import (
	"strconv"

	"tradecoach/internal/models"
)

// Detect runs all detectors in fixed order. Extended metrics that are nil
// (legacy datasets) are skipped by the detectors rather than coerced to zero.
func Detect(m *models.SummaryMetrics) []models.BiasResult {
	return []models.BiasResult{
		detectOvertrading(m),
		detectLossAversion(m),
		detectRevengeTrading(m),
	}
}

// severityFor maps an additive point score to a tier given the detector's
// medium and high cutoffs.
func severityFor(score, medium, high int) models.Severity {
	switch {
	case score >= high:
		return models.SeverityHigh
	case score >= medium:
		return models.SeverityMedium
	default:
		return models.SeverityLow
	}
}

// num formats a statistic the way it was computed, without trailing zeros.
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
