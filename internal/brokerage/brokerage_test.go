package brokerage

import (
	"strings"
	"testing"

	"tradecoach/internal/models"
)

func metricsAt(tradesPerDay float64) *models.SummaryMetrics {
	return &models.SummaryMetrics{TradesPerDayAvg: tradesPerDay}
}

func TestCompareAnnualCosts(t *testing.T) {
	// 10 trades/day over 252 trading days = 2520 trades/year.
	out := Compare(metricsAt(10), nil)
	if len(out) != 5 {
		t.Fatalf("got %d comparisons, want 5", len(out))
	}

	costs := map[string]int{}
	for _, c := range out {
		costs[c.Name] = c.EstimatedAnnualCost
	}

	tests := []struct {
		name string
		want int
	}{
		{"Brokerage A (Full-Service)", 25175},          // 9.99 * 2520
		{"Brokerage B (Discount)", 17514},              // 6.95 * 2520
		{"Brokerage C (Online)", 12474},                // 4.95 * 2520
		{"NBC Direct Brokerage (Illustrative)", 119},   // 9.95 * 12
		{"Brokerage D (Zero-Commission)", 0},
	}
	for _, tt := range tests {
		if got, ok := costs[tt.name]; !ok || got != tt.want {
			t.Errorf("%s annual cost = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestCompareSponsorHighlight(t *testing.T) {
	out := Compare(metricsAt(12.5), nil)
	for _, c := range out {
		if c.IsSponsor {
			if c.Highlight == "" || !strings.Contains(c.Highlight, "12.5 trades/day") {
				t.Errorf("sponsor highlight = %q", c.Highlight)
			}
		} else if c.Highlight != "" {
			t.Errorf("%s unexpectedly highlighted: %q", c.Name, c.Highlight)
		}
	}
}

func TestCompareOverrides(t *testing.T) {
	per := 1.0
	monthly := 100.0
	out := Compare(metricsAt(10), map[string]FeeOverride{
		"Brokerage A (Full-Service)":          {PerTrade: &per},
		"NBC Direct Brokerage (Illustrative)": {MonthlyFee: &monthly},
	})

	for _, c := range out {
		switch c.Name {
		case "Brokerage A (Full-Service)":
			if c.PerTrade != 1 || c.EstimatedAnnualCost != 2520 {
				t.Errorf("override not applied: %+v", c)
			}
		case "NBC Direct Brokerage (Illustrative)":
			if c.MonthlyFee != 100 || c.EstimatedAnnualCost != 1200 {
				t.Errorf("override not applied: %+v", c)
			}
		}
	}
}

func TestCompareOverridesCaseInsensitive(t *testing.T) {
	per := 2.0
	out := Compare(metricsAt(10), map[string]FeeOverride{
		"brokerage a (full-service)": {PerTrade: &per},
	})
	for _, c := range out {
		if c.Name == "Brokerage A (Full-Service)" && c.PerTrade != 2 {
			t.Errorf("lowercased override ignored: %+v", c)
		}
	}
}

func TestSavingsMessage(t *testing.T) {
	out := Compare(metricsAt(10), nil)
	msg := SavingsMessage(out)
	// Most expensive is Brokerage A at $25175; sponsor costs $119.
	want := "Compared to Brokerage A (Full-Service), a lower-cost model could save you ~$25056/year."
	if msg != want {
		t.Errorf("SavingsMessage = %q, want %q", msg, want)
	}
}

func TestSavingsMessageEdgeCases(t *testing.T) {
	if msg := SavingsMessage(nil); msg != "" {
		t.Errorf("empty input produced %q", msg)
	}

	// Sponsor already the most expensive: nothing to save.
	comparisons := []models.BrokerageComparison{
		{Name: "Sponsor", EstimatedAnnualCost: 500, IsSponsor: true},
		{Name: "Other", EstimatedAnnualCost: 100},
	}
	if msg := SavingsMessage(comparisons); msg != "" {
		t.Errorf("no-savings case produced %q", msg)
	}

	// No sponsor present at all.
	comparisons = []models.BrokerageComparison{
		{Name: "Other", EstimatedAnnualCost: 100},
	}
	if msg := SavingsMessage(comparisons); msg != "" {
		t.Errorf("sponsorless case produced %q", msg)
	}
}
