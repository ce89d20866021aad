package models

// RiskLevel is the coarse behavioral risk rating.
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// PnLTrend classifies the overall profit-and-loss direction of a batch.
type PnLTrend string

const (
	TrendPositive PnLTrend = "POSITIVE"
	TrendNegative PnLTrend = "NEGATIVE"
	TrendFlat     PnLTrend = "FLAT"
)

// ETFRecommendation is one diversified instrument suggested as a safer
// alternative to active day trading.
type ETFRecommendation struct {
	Ticker        string `json:"ticker"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	IsSponsorPick bool   `json:"isSponsorPick"`
}

// RiskProfile is the behavioral risk rating computed once per analysis run
// from the trade batch and the bias verdicts.
type RiskProfile struct {
	Level           RiskLevel           `json:"level"`
	Reasons         []string            `json:"reasons"`
	PnLTrend        PnLTrend            `json:"pnlTrend"`
	Recommendations []ETFRecommendation `json:"recommendations"`
}
