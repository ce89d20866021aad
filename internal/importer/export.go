package importer

import (
	"io"

	"github.com/gocarina/gocsv"

	apperrors "tradecoach/internal/errors"
	"tradecoach/internal/models"
)

// csvTrade is the canonical export layout. Optional columns stay blank for
// trades that never carried them, so a round-trip preserves nil fields.
type csvTrade struct {
	Timestamp      int64       `csv:"timestamp"`
	Side           models.Side `csv:"side"`
	Asset          string      `csv:"asset"`
	PnL            float64     `csv:"pnl"`
	EntryPrice     *float64    `csv:"entry_price"`
	ExitPrice      *float64    `csv:"exit_price"`
	AccountBalance *float64    `csv:"account_balance"`
	Qty            *float64    `csv:"qty"`
	PositionSize   *float64    `csv:"position_size"`
	HoldMinutes    *float64    `csv:"hold_minutes"`
}

// WriteCSV writes trades with canonical headers, one row per trade.
func WriteCSV(w io.Writer, trades []models.Trade) error {
	rows := make([]csvTrade, 0, len(trades))
	for _, t := range trades {
		rows = append(rows, csvTrade{
			Timestamp:      t.Timestamp,
			Side:           t.Side,
			Asset:          t.Asset,
			PnL:            t.PnL,
			EntryPrice:     t.EntryPrice,
			ExitPrice:      t.ExitPrice,
			AccountBalance: t.AccountBalance,
			Qty:            t.Qty,
			PositionSize:   t.PositionSize,
			HoldMinutes:    t.HoldMinutes,
		})
	}
	if err := gocsv.Marshal(&rows, w); err != nil {
		return apperrors.Wrap(err, "writing trades csv")
	}
	return nil
}
