package biases

import "tradecoach/internal/models"

var severityWeights = map[models.Severity]int{
	models.SeverityLow:    10,
	models.SeverityMedium: 22,
	models.SeverityHigh:   34,
}

// OverallRiskScore reduces detector results to a single 0-100 number by
// summing per-severity weights. Order of results does not matter.
func OverallRiskScore(results []models.BiasResult) int {
	score := 0
	for _, r := range results {
		score += severityWeights[r.Severity]
	}
	if score > 100 {
		score = 100
	}
	return score
}
