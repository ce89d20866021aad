// Package metrics computes summary statistics over a trader's execution
// history. The aggregator is a pure function of its input batch: sorting is
// defensive, extended aggregates degrade to nil when optional fields are
// absent, and bias detection is attached as the final step so consumers
// always receive fully populated metrics.
package metrics

import (
	"fmt"
	"math"
	"sort"

	"tradecoach/internal/biases"
	"tradecoach/internal/errors"
	"tradecoach/internal/models"
)

// minutesPerDayGap is the inter-trade gap cutoff beyond which a gap is
// treated as day-boundary noise rather than a trading pause.
const minutesPerDayGap = 720

// postEventWindowMinutes is the span scanned after losses and large wins.
const postEventWindowMinutes = 30

// coverageThreshold is the minimum fraction of trades that must carry an
// optional field group before magnitude-dependent signals use it.
const coverageThreshold = 0.6

// Compute aggregates a trade batch into SummaryMetrics and attaches the bias
// verdicts. It returns errors.ErrNoTrades for an empty batch; every
// downstream consumer assumes at least one trade.
//
// The sequencing is deliberate: aggregate, then detect, then attach. UI and
// coaching layers read DetectedBiases/Severities/Evidence straight off the
// returned metrics.
func Compute(trades []models.Trade) (*models.SummaryMetrics, error) {
	if len(trades) == 0 {
		return nil, errors.ErrNoTrades
	}

	sorted := make([]models.Trade, len(trades))
	copy(sorted, trades)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp < sorted[j].Timestamp
	})

	total := len(sorted)
	first := sorted[0].Time()
	last := sorted[total-1].Time()

	m := &models.SummaryMetrics{
		TradingWindow: fmt.Sprintf("%s to %s", first.Format("2006-01-02"), last.Format("2006-01-02")),
		TotalTrades:   total,
	}

	// Day bucketing
	dayCounts := make(map[string]int)
	for _, t := range sorted {
		dayCounts[t.Time().Format("2006-01-02")]++
	}
	m.ActiveDays = len(dayCounts)
	m.TradesPerDayAvg = round2(float64(total) / float64(m.ActiveDays))
	for _, c := range dayCounts {
		if c > m.TradesPerDayMax {
			m.TradesPerDayMax = c
		}
	}

	// Inter-trade gaps, excluding day-boundary noise
	var gaps []float64
	for i := 1; i < total; i++ {
		gapMin := float64(sorted[i].Timestamp-sorted[i-1].Timestamp) / 60000
		if gapMin < minutesPerDayGap {
			gaps = append(gaps, gapMin)
		}
	}
	if len(gaps) > 0 {
		m.AvgMinutesBetweenTrades = round2(mean(gaps))
	}

	// Win/loss aggregates; pnl == 0 lands in neither bucket
	var winPnls, lossPnls []float64
	for _, t := range sorted {
		if t.PnL > 0 {
			winPnls = append(winPnls, t.PnL)
		} else if t.PnL < 0 {
			lossPnls = append(lossPnls, t.PnL)
		}
	}
	m.WinRate = round2(float64(len(winPnls)) / float64(total))
	if len(winPnls) > 0 {
		m.AvgWin = round2(mean(winPnls))
	}
	if len(lossPnls) > 0 {
		m.AvgLoss = round2(mean(lossPnls))
	}

	var totalWins, totalLosses float64
	for _, p := range winPnls {
		totalWins += p
	}
	for _, p := range lossPnls {
		totalLosses += p
	}
	totalLosses = math.Abs(totalLosses)
	switch {
	case totalLosses > 0:
		m.ProfitFactor = round2(totalWins / totalLosses)
	case totalWins > 0:
		m.ProfitFactor = 999
	}

	// Hold-time split, available only where the optional field is carried
	var winHolds, lossHolds []float64
	for _, t := range sorted {
		if t.HoldMinutes == nil {
			continue
		}
		if t.PnL > 0 {
			winHolds = append(winHolds, *t.HoldMinutes)
		} else if t.PnL < 0 {
			lossHolds = append(lossHolds, *t.HoldMinutes)
		}
	}
	m.AvgHoldMinutesWins = meanPtr(winHolds, 2)
	m.AvgHoldMinutesLosses = meanPtr(lossHolds, 2)

	m.PostLossTradesWithin30MinAvg, m.PostLossWinRate = computePostLossStats(sorted)

	// Data completeness
	var entryExitCount, balanceCount, sizeCount int
	for _, t := range sorted {
		if t.EntryPrice != nil && t.ExitPrice != nil {
			entryExitCount++
		}
		if t.AccountBalance != nil {
			balanceCount++
		}
		if t.Size() != nil {
			sizeCount++
		}
	}
	dc := models.DataCompleteness{
		EntryExitCoverage: float64(entryExitCount) / float64(total),
		BalanceCoverage:   float64(balanceCount) / float64(total),
		SizeCoverage:      float64(sizeCount) / float64(total),
		MissingFields:     []string{},
	}
	if dc.EntryExitCoverage < coverageThreshold {
		dc.MissingFields = append(dc.MissingFields, "entry_price/exit_price")
	}
	if dc.BalanceCoverage < coverageThreshold {
		dc.MissingFields = append(dc.MissingFields, "account_balance")
	}
	if dc.SizeCoverage < coverageThreshold {
		dc.MissingFields = append(dc.MissingFields, "qty/position_size")
	}
	m.DataCompleteness = dc

	// Balance and size aggregates
	var balances, sizes []float64
	var totalNotional float64
	for _, t := range sorted {
		if t.AccountBalance != nil {
			balances = append(balances, *t.AccountBalance)
		}
		if s := t.Size(); s != nil {
			sizes = append(sizes, *s)
			totalNotional += *s
		}
	}
	m.AvgAccountBalance = meanPtr(balances, 2)
	m.AvgTradeSize = meanPtr(sizes, 2)
	if m.AvgAccountBalance != nil && *m.AvgAccountBalance != 0 && totalNotional > 0 {
		m.BalanceTurnover = ptr(round2(totalNotional / *m.AvgAccountBalance))
	}

	// Position switching
	if total > 1 {
		var assetSwitches, sideFlips int
		for i := 1; i < total; i++ {
			if sorted[i].Asset != sorted[i-1].Asset {
				assetSwitches++
			}
			if sorted[i].Side != sorted[i-1].Side {
				sideFlips++
			}
		}
		m.AssetSwitchRate = round2(float64(assetSwitches) / float64(total-1))
		m.SideFlipRate = round2(float64(sideFlips) / float64(total-1))
	}

	// Hourly clustering
	for _, t := range sorted {
		m.HourlyTradeCounts[t.Time().Hour()]++
	}
	maxHourly := 0
	for _, c := range m.HourlyTradeCounts {
		if c > maxHourly {
			maxHourly = c
		}
	}
	m.MaxHourlyTradeShare = round2(float64(maxHourly) / float64(total))

	m.PostWinTradesWithin30MinAvg, m.LargeWinThreshold = computePostWinStats(sorted, m.AvgAccountBalance)

	// Return-based aggregates (risk/reward, early winners)
	var winReturns, lossReturns []float64
	for _, t := range sorted {
		r := t.ReturnPct()
		if r == nil {
			continue
		}
		if *r > 0 {
			winReturns = append(winReturns, *r)
		} else if *r < 0 {
			lossReturns = append(lossReturns, math.Abs(*r))
		}
	}
	m.AvgWinReturnPct = meanPtr(winReturns, 4)
	m.AvgLossReturnPct = meanPtr(lossReturns, 4)
	if m.AvgWinReturnPct != nil && m.AvgLossReturnPct != nil && *m.AvgLossReturnPct > 0 {
		m.RiskRewardRatio = ptr(round2(*m.AvgWinReturnPct / *m.AvgLossReturnPct))
	}
	if len(winReturns) > 0 {
		thr := percentile(winReturns, 0.25)
		m.SmallWinThreshold = ptr(thr)
		small := 0
		for _, r := range winReturns {
			if r <= thr {
				small++
			}
		}
		m.SmallWinRate = ptr(round2(float64(small) / float64(len(winReturns))))
	}

	m.AvgTradeSizeAfterLoss, m.SizeAfterLossRatio = computeSizeAfterLoss(sorted, m.AvgTradeSize)
	m.AvgTradeSizeAfterStreak, m.AvgMinutesBetweenTradesAfterStreak = computeAfterStreakStats(sorted)

	m.WorstHours = computeWorstHours(sorted)

	// Final step: detect and attach. Consumers read verdicts off the metrics.
	results := biases.Detect(m)
	m.DetectedBiases = make([]models.BiasType, 0, len(results))
	m.Severities = make(map[models.BiasType]models.Severity, len(results))
	m.Evidence = make(map[models.BiasType][]string, len(results))
	for _, r := range results {
		m.DetectedBiases = append(m.DetectedBiases, r.Bias)
		m.Severities[r.Bias] = r.Severity
		m.Evidence[r.Bias] = r.Evidence
	}

	return m, nil
}

// computePostLossStats scans the 30-minute window after every losing trade.
// A trade inside several overlapping loss windows counts toward each of them.
func computePostLossStats(sorted []models.Trade) (followUpAvg, postLossWinRate float64) {
	var lossIndices []int
	for i, t := range sorted {
		if t.PnL < 0 {
			lossIndices = append(lossIndices, i)
		}
	}
	if len(lossIndices) == 0 {
		return 0, 0
	}

	var totalFollowUps, postLossWins, postLossTotal int
	for _, idx := range lossIndices {
		lossTime := sorted[idx].Timestamp
		for j := idx + 1; j < len(sorted); j++ {
			diffMin := float64(sorted[j].Timestamp-lossTime) / 60000
			if diffMin > postEventWindowMinutes {
				break
			}
			totalFollowUps++
			postLossTotal++
			if sorted[j].PnL > 0 {
				postLossWins++
			}
		}
	}

	followUpAvg = round2(float64(totalFollowUps) / float64(len(lossIndices)))
	if postLossTotal > 0 {
		postLossWinRate = round2(float64(postLossWins) / float64(postLossTotal))
	}
	return followUpAvg, postLossWinRate
}

// computePostWinStats finds "large" wins (1% of average balance when balance
// is known, else the 90th percentile of winning pnl) and averages the
// follow-up trade count within 30 minutes of each.
func computePostWinStats(sorted []models.Trade, avgBalance *float64) (float64, *float64) {
	var winPnls []float64
	for _, t := range sorted {
		if t.PnL > 0 {
			winPnls = append(winPnls, t.PnL)
		}
	}
	if len(winPnls) == 0 {
		return 0, nil
	}

	var threshold float64
	if avgBalance != nil && *avgBalance != 0 {
		threshold = round2(*avgBalance * 0.01)
	} else {
		threshold = percentile(winPnls, 0.9)
	}

	var largeWinIndices []int
	for i, t := range sorted {
		if t.PnL > 0 && t.PnL >= threshold {
			largeWinIndices = append(largeWinIndices, i)
		}
	}
	if len(largeWinIndices) == 0 {
		return 0, ptr(threshold)
	}

	var totalFollowUps int
	for _, idx := range largeWinIndices {
		winTime := sorted[idx].Timestamp
		for j := idx + 1; j < len(sorted); j++ {
			diffMin := float64(sorted[j].Timestamp-winTime) / 60000
			if diffMin > postEventWindowMinutes {
				break
			}
			totalFollowUps++
		}
	}

	return round2(float64(totalFollowUps) / float64(len(largeWinIndices))), ptr(threshold)
}

// computeSizeAfterLoss averages the notional size of trades placed within 30
// minutes of a losing trade and relates it to the overall average size.
func computeSizeAfterLoss(sorted []models.Trade, avgTradeSize *float64) (*float64, *float64) {
	var sizesAfterLoss []float64
	for i, t := range sorted {
		if t.PnL >= 0 {
			continue
		}
		lossTime := t.Timestamp
		for j := i + 1; j < len(sorted); j++ {
			diffMin := float64(sorted[j].Timestamp-lossTime) / 60000
			if diffMin > postEventWindowMinutes {
				break
			}
			if s := sorted[j].Size(); s != nil {
				sizesAfterLoss = append(sizesAfterLoss, *s)
			}
		}
	}

	avgAfterLoss := meanPtr(sizesAfterLoss, 2)
	var ratio *float64
	if avgAfterLoss != nil && avgTradeSize != nil && *avgTradeSize > 0 {
		ratio = ptr(round2(*avgAfterLoss / *avgTradeSize))
	}
	return avgAfterLoss, ratio
}

// computeAfterStreakStats looks at trades placed right after two or more
// consecutive losses: how big they are and how quickly they follow.
func computeAfterStreakStats(sorted []models.Trade) (*float64, *float64) {
	var sizes, gaps []float64
	for i := 2; i < len(sorted); i++ {
		if sorted[i-1].PnL < 0 && sorted[i-2].PnL < 0 {
			if s := sorted[i].Size(); s != nil {
				sizes = append(sizes, *s)
			}
			gaps = append(gaps, float64(sorted[i].Timestamp-sorted[i-1].Timestamp)/60000)
		}
	}
	return meanPtr(sizes, 2), meanPtr(gaps, 2)
}

// computeWorstHours sums pnl per hour of day and reports up to the 3 most
// negative hours as formatted ranges. Hours with non-negative net pnl never
// appear.
func computeWorstHours(sorted []models.Trade) []string {
	var hourPnl [24]float64
	seen := make(map[int]bool)
	for _, t := range sorted {
		h := t.Time().Hour()
		hourPnl[h] += t.PnL
		seen[h] = true
	}

	type hourEntry struct {
		hour int
		pnl  float64
	}
	var negative []hourEntry
	for h := 0; h < 24; h++ {
		if seen[h] && hourPnl[h] < 0 {
			negative = append(negative, hourEntry{h, hourPnl[h]})
		}
	}
	sort.SliceStable(negative, func(i, j int) bool {
		return negative[i].pnl < negative[j].pnl
	})
	if len(negative) > 3 {
		negative = negative[:3]
	}

	worst := make([]string, 0, len(negative))
	for _, e := range negative {
		worst = append(worst, fmt.Sprintf("%02d:00-%02d:00", e.hour, e.hour+1))
	}
	return worst
}
