// Package models provides domain models for the trading analysis application.
package models

import (
	"math"
	"time"
)

// Side represents the direction of an executed trade.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Trade represents one validated, normalized execution record.
// Timestamp, Side, Asset and PnL are always present; every other field is
// optional and nil when the source data does not carry it.
type Trade struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"timestamp"` // epoch millis
	Side      Side   `json:"side"`
	Asset     string `json:"asset"`
	PnL       float64 `json:"pnl"`

	Qty            *float64 `json:"qty,omitempty"`
	PositionSize   *float64 `json:"positionSize,omitempty"`
	HoldMinutes    *float64 `json:"holdMinutes,omitempty"`
	EntryPrice     *float64 `json:"entryPrice,omitempty"`
	ExitPrice      *float64 `json:"exitPrice,omitempty"`
	AccountBalance *float64 `json:"accountBalance,omitempty"`
}

// Time returns the trade timestamp as a time.Time in the local zone.
func (t Trade) Time() time.Time {
	return time.UnixMilli(t.Timestamp)
}

// Size returns the notional size of the trade: |position size| when present,
// else |qty × entry price|, else nil for legacy records.
func (t Trade) Size() *float64 {
	if t.PositionSize != nil {
		v := math.Abs(*t.PositionSize)
		return &v
	}
	if t.Qty != nil && t.EntryPrice != nil {
		v := math.Abs(*t.Qty * *t.EntryPrice)
		return &v
	}
	return nil
}

// ReturnPct returns the percentage price return of the trade, signed by side
// (BUY profits from a price increase, SELL from a decrease). Nil unless both
// entry and exit price are present.
func (t Trade) ReturnPct() *float64 {
	if t.EntryPrice == nil || t.ExitPrice == nil || *t.EntryPrice == 0 {
		return nil
	}
	diff := *t.ExitPrice - *t.EntryPrice
	if t.Side == SideSell {
		diff = *t.EntryPrice - *t.ExitPrice
	}
	v := diff / *t.EntryPrice
	return &v
}
