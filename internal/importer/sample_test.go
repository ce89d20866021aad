package importer

import (
	"reflect"
	"testing"
	"time"

	"tradecoach/internal/metrics"
	"tradecoach/internal/models"
)

func TestSampleTradesDeterministic(t *testing.T) {
	a := SampleTrades()
	b := SampleTrades()
	if !reflect.DeepEqual(a, b) {
		t.Fatal("SampleTrades output differs between calls")
	}
}

func TestSampleTradesShape(t *testing.T) {
	trades := SampleTrades()
	if len(trades) < 100 || len(trades) > 200 {
		t.Fatalf("got %d trades, want 100-200", len(trades))
	}

	days := map[string]int{}
	for i, tr := range trades {
		day := time.UnixMilli(tr.Timestamp).Format("2006-01-02")
		days[day]++
		if days[day] > 40 {
			t.Fatalf("day %s has more than 40 trades", day)
		}

		if tr.Side != models.SideBuy && tr.Side != models.SideSell {
			t.Fatalf("trade %d has side %q", i, tr.Side)
		}
		if tr.PnL > 0 {
			if tr.PnL < 15 || tr.PnL > 65 {
				t.Fatalf("trade %d win pnl %f outside [15, 65]", i, tr.PnL)
			}
		} else if tr.PnL > -25 || tr.PnL < -115 {
			t.Fatalf("trade %d loss pnl %f outside [-115, -25]", i, tr.PnL)
		}
		if tr.Qty == nil || *tr.Qty < 10 || *tr.Qty > 99 {
			t.Fatalf("trade %d qty %v outside [10, 99]", i, tr.Qty)
		}
		if tr.HoldMinutes == nil {
			t.Fatalf("trade %d has no hold time", i)
		}
		if i > 0 && tr.Timestamp < trades[i-1].Timestamp {
			t.Fatalf("trades not in chronological order at %d", i)
		}
	}
	if len(days) != 5 {
		t.Fatalf("trades span %d days, want 5", len(days))
	}
}

func TestSampleTradesExhibitBiases(t *testing.T) {
	m, err := metrics.Compute(SampleTrades())
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	// Losers are held far longer than winners by construction, so loss
	// aversion always reads HIGH on this dataset.
	if sev := m.Severities[models.BiasLossAversion]; sev != models.SeverityHigh {
		t.Errorf("loss aversion = %s, want HIGH", sev)
	}
	// Dozens of trades per session with single-digit average gaps.
	if sev := m.Severities[models.BiasOvertrading]; sev == models.SeverityLow {
		t.Errorf("overtrading = %s, want MEDIUM or HIGH", sev)
	}
	if m.TradesPerDayAvg <= 20 {
		t.Errorf("trades/day = %f, want > 20", m.TradesPerDayAvg)
	}
}
