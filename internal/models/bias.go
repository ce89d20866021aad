package models

// BiasType names a harmful trading pattern detected heuristically.
type BiasType string

const (
	BiasOvertrading    BiasType = "OVERTRADING"
	BiasLossAversion   BiasType = "LOSS_AVERSION"
	BiasRevengeTrading BiasType = "REVENGE_TRADING"
)

// Severity is the tier assigned to a bias verdict.
type Severity string

const (
	SeverityLow    Severity = "LOW"
	SeverityMedium Severity = "MEDIUM"
	SeverityHigh   Severity = "HIGH"
)

// BiasResult is the verdict for one bias type. Evidence lines are ordered and
// each cites a concrete number from the summary metrics.
type BiasResult struct {
	Bias     BiasType `json:"bias"`
	Severity Severity `json:"severity"`
	Evidence []string `json:"evidence"`
}
