package metrics

import (
	"math"
	"testing"
	"time"

	"tradecoach/internal/errors"
	"tradecoach/internal/models"
)

func ts(day, hour, minute int) int64 {
	return time.Date(2025, time.March, day, hour, minute, 0, 0, time.Local).UnixMilli()
}

func f(v float64) *float64 { return &v }

// fullTrade builds a trade carrying every optional field.
func fullTrade(t int64, side models.Side, asset string, pnl, entry, exit, hold float64) models.Trade {
	qty := 10.0
	balance := 10000.0
	return models.Trade{
		ID:             "t",
		Timestamp:      t,
		Side:           side,
		Asset:          asset,
		PnL:            pnl,
		EntryPrice:     f(entry),
		ExitPrice:      f(exit),
		AccountBalance: f(balance),
		Qty:            f(qty),
		HoldMinutes:    f(hold),
	}
}

// referenceBatch is two sessions over consecutive days with every aggregate
// hand-computed in the assertions below.
func referenceBatch() []models.Trade {
	return []models.Trade{
		fullTrade(ts(3, 9, 0), models.SideBuy, "AAPL", 50, 100, 105, 5),
		fullTrade(ts(3, 9, 10), models.SideBuy, "AAPL", -100, 100, 90, 20),
		fullTrade(ts(3, 9, 25), models.SideSell, "TSLA", -50, 100, 105, 30),
		fullTrade(ts(3, 9, 40), models.SideBuy, "AAPL", 30, 100, 103, 10),
		fullTrade(ts(4, 10, 0), models.SideBuy, "AAPL", 0, 100, 100, 8),
		fullTrade(ts(4, 10, 30), models.SideBuy, "AAPL", 20, 100, 102, 15),
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestComputeEmptyBatch(t *testing.T) {
	_, err := Compute(nil)
	if !errors.Is(err, errors.ErrNoTrades) {
		t.Fatalf("expected ErrNoTrades, got %v", err)
	}
}

func TestComputeReferenceBatch(t *testing.T) {
	m, err := Compute(referenceBatch())
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	if m.TradingWindow != "2025-03-03 to 2025-03-04" {
		t.Errorf("TradingWindow = %q", m.TradingWindow)
	}
	if m.TotalTrades != 6 || m.ActiveDays != 2 {
		t.Errorf("TotalTrades=%d ActiveDays=%d, want 6 and 2", m.TotalTrades, m.ActiveDays)
	}
	if !almostEqual(m.TradesPerDayAvg, 3) || m.TradesPerDayMax != 4 {
		t.Errorf("TradesPerDayAvg=%v TradesPerDayMax=%d, want 3 and 4", m.TradesPerDayAvg, m.TradesPerDayMax)
	}

	// Gaps 10, 15, 15, 30; the overnight gap is excluded.
	if !almostEqual(m.AvgMinutesBetweenTrades, 17.5) {
		t.Errorf("AvgMinutesBetweenTrades = %v, want 17.5", m.AvgMinutesBetweenTrades)
	}

	// The zero-pnl trade counts toward the denominator only.
	if !almostEqual(m.WinRate, 0.5) {
		t.Errorf("WinRate = %v, want 0.5", m.WinRate)
	}
	if !almostEqual(m.AvgWin, 33.33) {
		t.Errorf("AvgWin = %v, want 33.33", m.AvgWin)
	}
	if !almostEqual(m.AvgLoss, -75) {
		t.Errorf("AvgLoss = %v, want -75", m.AvgLoss)
	}
	if !almostEqual(m.ProfitFactor, 0.67) {
		t.Errorf("ProfitFactor = %v, want 0.67", m.ProfitFactor)
	}

	if m.AvgHoldMinutesWins == nil || !almostEqual(*m.AvgHoldMinutesWins, 10) {
		t.Errorf("AvgHoldMinutesWins = %v, want 10", m.AvgHoldMinutesWins)
	}
	if m.AvgHoldMinutesLosses == nil || !almostEqual(*m.AvgHoldMinutesLosses, 25) {
		t.Errorf("AvgHoldMinutesLosses = %v, want 25", m.AvgHoldMinutesLosses)
	}

	// Two losses; follow-ups within 30 min: 2 after the first, 1 after the
	// second, 2 of the 3 are wins.
	if !almostEqual(m.PostLossTradesWithin30MinAvg, 1.5) {
		t.Errorf("PostLossTradesWithin30MinAvg = %v, want 1.5", m.PostLossTradesWithin30MinAvg)
	}
	if !almostEqual(m.PostLossWinRate, 0.67) {
		t.Errorf("PostLossWinRate = %v, want 0.67", m.PostLossWinRate)
	}

	if m.AvgAccountBalance == nil || !almostEqual(*m.AvgAccountBalance, 10000) {
		t.Errorf("AvgAccountBalance = %v, want 10000", m.AvgAccountBalance)
	}
	if m.AvgTradeSize == nil || !almostEqual(*m.AvgTradeSize, 1000) {
		t.Errorf("AvgTradeSize = %v, want 1000", m.AvgTradeSize)
	}
	if m.BalanceTurnover == nil || !almostEqual(*m.BalanceTurnover, 0.6) {
		t.Errorf("BalanceTurnover = %v, want 0.6", m.BalanceTurnover)
	}

	if !almostEqual(m.AssetSwitchRate, 0.4) || !almostEqual(m.SideFlipRate, 0.4) {
		t.Errorf("AssetSwitchRate=%v SideFlipRate=%v, want 0.4 each", m.AssetSwitchRate, m.SideFlipRate)
	}

	if m.HourlyTradeCounts[9] != 4 || m.HourlyTradeCounts[10] != 2 {
		t.Errorf("HourlyTradeCounts = %v", m.HourlyTradeCounts)
	}
	if !almostEqual(m.MaxHourlyTradeShare, 0.67) {
		t.Errorf("MaxHourlyTradeShare = %v, want 0.67", m.MaxHourlyTradeShare)
	}

	// Balance is known, so the large-win cutoff is 1% of the average balance.
	if m.LargeWinThreshold == nil || !almostEqual(*m.LargeWinThreshold, 100) {
		t.Errorf("LargeWinThreshold = %v, want 100", m.LargeWinThreshold)
	}
	if !almostEqual(m.PostWinTradesWithin30MinAvg, 0) {
		t.Errorf("PostWinTradesWithin30MinAvg = %v, want 0", m.PostWinTradesWithin30MinAvg)
	}

	if m.AvgWinReturnPct == nil || !almostEqual(*m.AvgWinReturnPct, 0.0333) {
		t.Errorf("AvgWinReturnPct = %v, want 0.0333", m.AvgWinReturnPct)
	}
	if m.AvgLossReturnPct == nil || !almostEqual(*m.AvgLossReturnPct, 0.075) {
		t.Errorf("AvgLossReturnPct = %v, want 0.075", m.AvgLossReturnPct)
	}
	if m.RiskRewardRatio == nil || !almostEqual(*m.RiskRewardRatio, 0.44) {
		t.Errorf("RiskRewardRatio = %v, want 0.44", m.RiskRewardRatio)
	}
	if m.SmallWinThreshold == nil || !almostEqual(*m.SmallWinThreshold, 0.02) {
		t.Errorf("SmallWinThreshold = %v, want 0.02", m.SmallWinThreshold)
	}
	if m.SmallWinRate == nil || !almostEqual(*m.SmallWinRate, 0.33) {
		t.Errorf("SmallWinRate = %v, want 0.33", m.SmallWinRate)
	}

	if m.AvgTradeSizeAfterLoss == nil || !almostEqual(*m.AvgTradeSizeAfterLoss, 1000) {
		t.Errorf("AvgTradeSizeAfterLoss = %v, want 1000", m.AvgTradeSizeAfterLoss)
	}
	if m.SizeAfterLossRatio == nil || !almostEqual(*m.SizeAfterLossRatio, 1) {
		t.Errorf("SizeAfterLossRatio = %v, want 1", m.SizeAfterLossRatio)
	}
	if m.AvgTradeSizeAfterStreak == nil || !almostEqual(*m.AvgTradeSizeAfterStreak, 1000) {
		t.Errorf("AvgTradeSizeAfterStreak = %v, want 1000", m.AvgTradeSizeAfterStreak)
	}
	if m.AvgMinutesBetweenTradesAfterStreak == nil || !almostEqual(*m.AvgMinutesBetweenTradesAfterStreak, 15) {
		t.Errorf("AvgMinutesBetweenTradesAfterStreak = %v, want 15", m.AvgMinutesBetweenTradesAfterStreak)
	}

	// Hour 9 nets -70, hour 10 nets +20.
	if len(m.WorstHours) != 1 || m.WorstHours[0] != "09:00-10:00" {
		t.Errorf("WorstHours = %v, want [09:00-10:00]", m.WorstHours)
	}

	dc := m.DataCompleteness
	if dc.EntryExitCoverage != 1 || dc.BalanceCoverage != 1 || dc.SizeCoverage != 1 {
		t.Errorf("coverage = %+v, want full", dc)
	}
	if len(dc.MissingFields) != 0 {
		t.Errorf("MissingFields = %v, want empty", dc.MissingFields)
	}

	if len(m.DetectedBiases) != 3 {
		t.Fatalf("DetectedBiases = %v, want all three detectors", m.DetectedBiases)
	}
	for _, b := range m.DetectedBiases {
		if _, ok := m.Severities[b]; !ok {
			t.Errorf("missing severity for %s", b)
		}
		if len(m.Evidence[b]) == 0 {
			t.Errorf("missing evidence for %s", b)
		}
	}
}

func TestComputeUnsortedInput(t *testing.T) {
	batch := referenceBatch()
	shuffled := []models.Trade{batch[4], batch[1], batch[5], batch[0], batch[3], batch[2]}

	a, err := Compute(batch)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Compute(shuffled)
	if err != nil {
		t.Fatal(err)
	}

	if a.TradingWindow != b.TradingWindow ||
		!almostEqual(a.AvgMinutesBetweenTrades, b.AvgMinutesBetweenTrades) ||
		!almostEqual(a.PostLossTradesWithin30MinAvg, b.PostLossTradesWithin30MinAvg) ||
		!almostEqual(a.AssetSwitchRate, b.AssetSwitchRate) {
		t.Errorf("order-dependent results: %+v vs %+v", a, b)
	}

	// The original slice must not be reordered.
	if shuffled[0].Timestamp != batch[4].Timestamp {
		t.Error("input slice was mutated")
	}
}

func TestComputeSingleTrade(t *testing.T) {
	m, err := Compute([]models.Trade{
		{ID: "1", Timestamp: ts(3, 9, 0), Side: models.SideBuy, Asset: "SPY", PnL: 25},
	})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if m.TotalTrades != 1 || m.ActiveDays != 1 {
		t.Errorf("TotalTrades=%d ActiveDays=%d", m.TotalTrades, m.ActiveDays)
	}
	if m.AvgMinutesBetweenTrades != 0 {
		t.Errorf("AvgMinutesBetweenTrades = %v, want 0", m.AvgMinutesBetweenTrades)
	}
	if m.WinRate != 1 || m.ProfitFactor != 999 {
		t.Errorf("WinRate=%v ProfitFactor=%v, want 1 and 999", m.WinRate, m.ProfitFactor)
	}
	if m.AvgHoldMinutesWins != nil || m.AvgAccountBalance != nil || m.RiskRewardRatio != nil {
		t.Error("extended aggregates should be nil without optional fields")
	}
}

func TestComputeAllLosses(t *testing.T) {
	m, err := Compute([]models.Trade{
		{ID: "1", Timestamp: ts(3, 9, 0), Side: models.SideBuy, Asset: "SPY", PnL: -10},
		{ID: "2", Timestamp: ts(3, 9, 5), Side: models.SideBuy, Asset: "SPY", PnL: -20},
	})
	if err != nil {
		t.Fatal(err)
	}
	if m.WinRate != 0 {
		t.Errorf("WinRate = %v, want 0", m.WinRate)
	}
	if m.ProfitFactor != 0 {
		t.Errorf("ProfitFactor = %v, want 0", m.ProfitFactor)
	}
	if m.AvgWin != 0 {
		t.Errorf("AvgWin = %v, want 0", m.AvgWin)
	}
}

func TestComputeZeroPnLNeitherBucket(t *testing.T) {
	m, err := Compute([]models.Trade{
		{ID: "1", Timestamp: ts(3, 9, 0), Side: models.SideBuy, Asset: "SPY", PnL: 0},
		{ID: "2", Timestamp: ts(3, 9, 5), Side: models.SideBuy, Asset: "SPY", PnL: 0},
	})
	if err != nil {
		t.Fatal(err)
	}
	if m.WinRate != 0 || m.AvgWin != 0 || m.AvgLoss != 0 || m.ProfitFactor != 0 {
		t.Errorf("zero-pnl trades leaked into a bucket: %+v", m)
	}
}

func TestComputeLegacyBatchMissingFields(t *testing.T) {
	var batch []models.Trade
	for i := 0; i < 10; i++ {
		batch = append(batch, models.Trade{
			ID: "x", Timestamp: ts(3, 9, i*10), Side: models.SideBuy, Asset: "SPY",
			PnL: float64(10 - i*3),
		})
	}
	m, err := Compute(batch)
	if err != nil {
		t.Fatal(err)
	}

	dc := m.DataCompleteness
	want := []string{"entry_price/exit_price", "account_balance", "qty/position_size"}
	if len(dc.MissingFields) != len(want) {
		t.Fatalf("MissingFields = %v, want %v", dc.MissingFields, want)
	}
	for i, f := range want {
		if dc.MissingFields[i] != f {
			t.Errorf("MissingFields[%d] = %q, want %q", i, dc.MissingFields[i], f)
		}
	}

	if m.BalanceTurnover != nil || m.AvgTradeSize != nil || m.RiskRewardRatio != nil {
		t.Error("magnitude aggregates should be nil on a legacy batch")
	}
	// Without balances the large-win cutoff falls back to the win percentile.
	if m.LargeWinThreshold == nil {
		t.Error("LargeWinThreshold should still be derived from winning pnl")
	}
}

func TestComputeDayBoundaryGapExcluded(t *testing.T) {
	m, err := Compute([]models.Trade{
		{ID: "1", Timestamp: ts(3, 15, 0), Side: models.SideBuy, Asset: "SPY", PnL: 5},
		{ID: "2", Timestamp: ts(4, 9, 0), Side: models.SideBuy, Asset: "SPY", PnL: 5},
		{ID: "3", Timestamp: ts(4, 9, 20), Side: models.SideBuy, Asset: "SPY", PnL: 5},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(m.AvgMinutesBetweenTrades, 20) {
		t.Errorf("AvgMinutesBetweenTrades = %v, want 20 (overnight gap excluded)", m.AvgMinutesBetweenTrades)
	}
}

func TestComputeWorstHoursCapped(t *testing.T) {
	var batch []models.Trade
	// Five losing hours; only the three most negative should be reported.
	for h := 9; h < 14; h++ {
		batch = append(batch, models.Trade{
			ID: "x", Timestamp: ts(3, h, 0), Side: models.SideBuy, Asset: "SPY",
			PnL: -float64(h * 10),
		})
	}
	m, err := Compute(batch)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"13:00-14:00", "12:00-13:00", "11:00-12:00"}
	if len(m.WorstHours) != 3 {
		t.Fatalf("WorstHours = %v, want 3 entries", m.WorstHours)
	}
	for i, w := range want {
		if m.WorstHours[i] != w {
			t.Errorf("WorstHours[%d] = %q, want %q", i, m.WorstHours[i], w)
		}
	}
}
