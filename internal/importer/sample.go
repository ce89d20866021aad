package importer

import (
	"fmt"
	"math"
	"time"

	"tradecoach/internal/models"
)

// lcg is a tiny deterministic generator so sample output is identical on
// every run and every platform.
type lcg struct {
	seed int64
}

func (g *lcg) next() float64 {
	g.seed = (g.seed*1664525 + 1013904223) & 0x7fffffff
	return float64(g.seed) / float64(0x7fffffff)
}

// SampleTrades generates ~200 trades over five trading sessions, shaped to
// exhibit all three bias patterns: high frequency with short gaps, winners
// cut early while losers run, and rapid size-ups after losses.
func SampleTrades() []models.Trade {
	g := &lcg{seed: 42}
	assets := []string{"AAPL", "TSLA", "NVDA", "AMD", "SPY", "QQQ", "MSFT", "AMZN"}

	days := []time.Time{
		time.Date(2025, time.January, 27, 9, 30, 0, 0, time.Local),
		time.Date(2025, time.January, 28, 9, 30, 0, 0, time.Local),
		time.Date(2025, time.January, 29, 9, 30, 0, 0, time.Local),
		time.Date(2025, time.January, 30, 9, 30, 0, 0, time.Local),
		time.Date(2025, time.January, 31, 9, 30, 0, 0, time.Local),
	}

	var trades []models.Trade
	for _, dayStart := range days {
		cursor := dayStart.UnixMilli()
		dayEnd := cursor + int64(6.5*60*60*1000)
		count := 0

		for cursor < dayEnd && count < 40 {
			isWin := g.next() < 0.42
			side := models.SideSell
			if g.next() < 0.6 {
				side = models.SideBuy
			}
			asset := assets[int(g.next()*float64(len(assets)))]

			var pnl, hold float64
			if isWin {
				pnl = roundTo(15+g.next()*50, 2)
				hold = roundTo(3+g.next()*15, 1)
			} else {
				pnl = -roundTo(25+g.next()*90, 2)
				hold = roundTo(10+g.next()*50, 1)
			}
			qty := 10 + math.Floor(g.next()*90)

			trades = append(trades, models.Trade{
				ID:          fmt.Sprintf("%d-%s-%d", cursor, asset, len(trades)),
				Timestamp:   cursor,
				Side:        side,
				Asset:       asset,
				PnL:         pnl,
				Qty:         &qty,
				HoldMinutes: &hold,
			})
			count++

			var gap float64
			if !isWin && g.next() < 0.65 {
				gap = 2 + g.next()*6
			} else {
				gap = 5 + g.next()*15
			}
			cursor += int64(gap * 60 * 1000)
		}
	}
	return trades
}

func roundTo(v float64, decimals int) float64 {
	f := math.Pow(10, float64(decimals))
	return math.Round(v*f) / f
}
