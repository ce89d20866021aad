// Package brokerage estimates annual trading costs across illustrative fee
// schedules. The schedules are mock numbers for demonstration, optionally
// overridden per brokerage from the config file.
package brokerage

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"tradecoach/internal/models"
)

const tradingDaysPerYear = 252

// FeeOverride replaces one or both components of a published schedule.
type FeeOverride struct {
	PerTrade   *float64
	MonthlyFee *float64
}

type schedule struct {
	name       string
	perTrade   float64
	monthlyFee float64
	isSponsor  bool
}

var schedules = []schedule{
	{name: "Brokerage A (Full-Service)", perTrade: 9.99},
	{name: "Brokerage B (Discount)", perTrade: 6.95},
	{name: "Brokerage C (Online)", perTrade: 4.95},
	{name: "NBC Direct Brokerage (Illustrative)", monthlyFee: 9.95, isSponsor: true},
	{name: "Brokerage D (Zero-Commission)"},
}

// Compare projects each schedule onto the user's observed pace. Annual trades
// are estimated as average trades/day over 252 trading days.
func Compare(m *models.SummaryMetrics, overrides map[string]FeeOverride) []models.BrokerageComparison {
	annualTrades := math.Round(m.TradesPerDayAvg * tradingDaysPerYear)

	// Config loading lowercases map keys, so match names case-insensitively.
	folded := make(map[string]FeeOverride, len(overrides))
	for name, ov := range overrides {
		folded[strings.ToLower(name)] = ov
	}

	out := make([]models.BrokerageComparison, 0, len(schedules))
	for _, b := range schedules {
		perTrade, monthly := b.perTrade, b.monthlyFee
		if ov, ok := folded[strings.ToLower(b.name)]; ok {
			if ov.PerTrade != nil {
				perTrade = *ov.PerTrade
			}
			if ov.MonthlyFee != nil {
				monthly = *ov.MonthlyFee
			}
		}

		c := models.BrokerageComparison{
			Name:                b.name,
			PerTrade:            perTrade,
			MonthlyFee:          monthly,
			EstimatedAnnualCost: int(math.Round(perTrade*annualTrades + monthly*12)),
			IsSponsor:           b.isSponsor,
		}
		if b.isSponsor {
			c.Highlight = fmt.Sprintf(
				"Based on your %v trades/day, a lower-cost commission structure could save you money.",
				m.TradesPerDayAvg)
		}
		out = append(out, c)
	}
	return out
}

// SavingsMessage compares the most expensive schedule against the sponsor
// option. Empty when there is nothing to save.
func SavingsMessage(comparisons []models.BrokerageComparison) string {
	if len(comparisons) == 0 {
		return ""
	}
	sorted := make([]models.BrokerageComparison, len(comparisons))
	copy(sorted, comparisons)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].EstimatedAnnualCost > sorted[j].EstimatedAnnualCost
	})
	highest := sorted[0]

	var sponsor *models.BrokerageComparison
	for i := range comparisons {
		if comparisons[i].IsSponsor {
			sponsor = &comparisons[i]
			break
		}
	}
	if sponsor == nil {
		return ""
	}

	savings := highest.EstimatedAnnualCost - sponsor.EstimatedAnnualCost
	if savings <= 0 {
		return ""
	}
	return fmt.Sprintf("Compared to %s, a lower-cost model could save you ~$%d/year.",
		highest.Name, savings)
}
