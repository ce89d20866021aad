package models

// DataCompleteness reports how well optional field groups are populated
// across a trade batch. Coverage ratios are raw fractions in [0,1]; any group
// under 0.6 coverage is listed in MissingFields so the UI can warn the user
// and detectors can skip magnitude-dependent signals.
type DataCompleteness struct {
	EntryExitCoverage float64  `json:"entryExitCoverage"`
	BalanceCoverage   float64  `json:"balanceCoverage"`
	SizeCoverage      float64  `json:"sizeCoverage"`
	MissingFields     []string `json:"missingFields"`
}

// SummaryMetrics is an immutable snapshot computed once per analysis run from
// a full trade batch. Extended aggregates are nil when the underlying optional
// fields are absent from the batch. The bias verdicts are attached as the
// final step of aggregation and are always populated.
type SummaryMetrics struct {
	TradingWindow string `json:"tradingWindow"`
	TotalTrades   int    `json:"totalTrades"`
	ActiveDays    int    `json:"activeDays"`

	TradesPerDayAvg         float64 `json:"tradesPerDayAvg"`
	TradesPerDayMax         int     `json:"tradesPerDayMax"`
	AvgMinutesBetweenTrades float64 `json:"avgMinutesBetweenTrades"`

	WinRate      float64 `json:"winRate"`
	AvgWin       float64 `json:"avgWin"`
	AvgLoss      float64 `json:"avgLoss"`
	ProfitFactor float64 `json:"profitFactor"`

	AvgHoldMinutesWins   *float64 `json:"avgHoldMinutesWins"`
	AvgHoldMinutesLosses *float64 `json:"avgHoldMinutesLosses"`

	PostLossTradesWithin30MinAvg float64 `json:"postLossTradesWithin30MinAvg"`
	PostLossWinRate              float64 `json:"postLossWinRate"`

	AvgAccountBalance *float64 `json:"avgAccountBalance"`
	AvgTradeSize      *float64 `json:"avgTradeSize"`
	BalanceTurnover   *float64 `json:"balanceTurnover"`

	AssetSwitchRate float64 `json:"assetSwitchRate"`
	SideFlipRate    float64 `json:"sideFlipRate"`

	HourlyTradeCounts   [24]int `json:"hourlyTradeCounts"`
	MaxHourlyTradeShare float64 `json:"maxHourlyTradeShare"`

	PostWinTradesWithin30MinAvg float64  `json:"postWinTradesWithin30MinAvg"`
	LargeWinThreshold           *float64 `json:"largeWinThreshold"`

	AvgWinReturnPct   *float64 `json:"avgWinReturnPct"`
	AvgLossReturnPct  *float64 `json:"avgLossReturnPct"`
	RiskRewardRatio   *float64 `json:"riskRewardRatio"`
	SmallWinThreshold *float64 `json:"smallWinThreshold"`
	SmallWinRate      *float64 `json:"smallWinRate"`

	AvgTradeSizeAfterLoss *float64 `json:"avgTradeSizeAfterLoss"`
	SizeAfterLossRatio    *float64 `json:"sizeAfterLossRatio"`

	AvgTradeSizeAfterStreak            *float64 `json:"avgTradeSizeAfterStreak"`
	AvgMinutesBetweenTradesAfterStreak *float64 `json:"avgMinutesBetweenTradesAfterStreak"`

	WorstHours []string `json:"worstHours"`

	DataCompleteness DataCompleteness `json:"dataCompleteness"`

	DetectedBiases []BiasType            `json:"detectedBiases"`
	Severities     map[BiasType]Severity `json:"severities"`
	Evidence       map[BiasType][]string `json:"evidence"`
}
