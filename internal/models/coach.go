package models

// CoachRule is a single actionable rule inside a bias card.
type CoachRule struct {
	Title   string `json:"title"`
	Details string `json:"details"`
}

// BiasCard is the coaching view of one detected bias.
type BiasCard struct {
	Bias       string      `json:"bias"`
	Severity   string      `json:"severity"`
	Evidence   []string    `json:"evidence"`
	WhyItHurts string      `json:"whyItHurts"`
	Rules      []CoachRule `json:"rules"`
	MicroHabit string      `json:"microHabit"`
}

// LiteracyModule is a short educational lesson tied to a detected bias.
type LiteracyModule struct {
	Title              string `json:"title"`
	Minutes            int    `json:"minutes"`
	Lesson             string `json:"lesson"`
	OneRule            string `json:"oneRule"`
	ReflectionQuestion string `json:"reflectionQuestion"`
	MiniChallenge      string `json:"miniChallenge"`
}

// BrokerageFit summarizes how the trader's style relates to brokerage choice.
type BrokerageFit struct {
	Summary         string   `json:"summary"`
	Recommendations []string `json:"recommendations"`
}

// RestModePlan describes the cooldown routine suggested to the trader.
type RestModePlan struct {
	RecommendedCooldownMinutes int    `json:"recommendedCooldownMinutes"`
	TriggerRule                string `json:"triggerRule"`
	Script                     string `json:"script"`
}

// CoachOutput is the coaching enrichment built on top of the deterministic
// engine output, either by an LLM or by the template fallback. It never
// introduces numbers beyond what SummaryMetrics provides.
type CoachOutput struct {
	Headline         string           `json:"headline"`
	OverallRiskScore int              `json:"overallRiskScore"`
	BiasCards        []BiasCard       `json:"biasCards"`
	LiteracyModules  []LiteracyModule `json:"literacyModules"`
	BrokerageFit     BrokerageFit     `json:"brokerageFit"`
	RestModePlan     RestModePlan     `json:"restModePlan"`
	OneSentenceNudge string           `json:"oneSentenceNudge"`
}

// BrokerageComparison is one row of the illustrative fee comparison.
type BrokerageComparison struct {
	Name                string  `json:"name"`
	PerTrade            float64 `json:"perTrade"`
	MonthlyFee          float64 `json:"monthlyFee"`
	EstimatedAnnualCost int     `json:"estimatedAnnualCost"`
	IsSponsor           bool    `json:"isSponsor"`
	Highlight           string  `json:"highlight,omitempty"`
}
