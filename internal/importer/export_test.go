package importer

import (
	"bytes"
	"strings"
	"testing"

	"tradecoach/internal/models"
)

func TestWriteCSVRoundTrip(t *testing.T) {
	in := []models.Trade{
		{
			Timestamp:      1740994200000,
			Side:           models.SideBuy,
			Asset:          "AAPL",
			PnL:            50,
			EntryPrice:     f(100),
			ExitPrice:      f(105),
			AccountBalance: f(10000),
			Qty:            f(10),
			PositionSize:   f(1000),
			HoldMinutes:    f(5),
		},
		{
			Timestamp: 1740997800000,
			Side:      models.SideSell,
			Asset:     "TSLA",
			PnL:       -20,
			// optional columns absent
		},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, in); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "timestamp,side,asset,pnl") {
		t.Fatalf("unexpected header: %q", strings.SplitN(buf.String(), "\n", 2)[0])
	}

	res, err := ParseCSV(&buf, Options{AllowLegacy: true})
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if len(res.Trades) != 2 {
		t.Fatalf("got %d trades, want 2", len(res.Trades))
	}

	got := res.Trades[0]
	if got.Timestamp != in[0].Timestamp || got.Side != in[0].Side ||
		got.Asset != in[0].Asset || got.PnL != in[0].PnL {
		t.Errorf("base fields changed: %+v", got)
	}
	if got.EntryPrice == nil || *got.EntryPrice != 100 ||
		got.HoldMinutes == nil || *got.HoldMinutes != 5 {
		t.Errorf("optional fields changed: %+v", got)
	}

	sparse := res.Trades[1]
	if sparse.EntryPrice != nil || sparse.AccountBalance != nil || sparse.Qty != nil {
		t.Errorf("blank columns should stay nil: %+v", sparse)
	}
}
