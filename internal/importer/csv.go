// Package importer reads trade history into the canonical Trade model. The
// CSV reader tolerates the header variants common across brokerage exports
// (synonym columns, mixed timestamp formats, currency-formatted numbers) so
// users can feed files straight from their broker.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	apperrors "tradecoach/internal/errors"
	"tradecoach/internal/models"
)

// Options controls import strictness.
type Options struct {
	// AllowLegacy accepts files missing the extended columns (entry_price,
	// exit_price, account_balance) and downgrades them to warnings.
	AllowLegacy bool
}

// Result is a parsed dataset plus everything the caller should surface.
type Result struct {
	Trades        []models.Trade
	Warnings      []string
	MissingFields []string
}

var (
	headerJunk = regexp.MustCompile(`[^a-z0-9]+`)
	numberJunk = regexp.MustCompile(`[^0-9.+-]`)
)

// Column synonyms, tried in order. The first non-empty cell wins.
var (
	timestampKeys = []string{"timestamp", "time", "date"}
	sideKeys      = []string{"side", "buy_sell", "action", "type"}
	assetKeys     = []string{"asset", "symbol", "ticker"}
	pnlKeys       = []string{"pnl", "p_l", "pl", "profit_loss"}
	entryKeys     = []string{"entry_price", "entry", "entryprice", "entry_px"}
	exitKeys      = []string{"exit_price", "exit", "exitprice", "exit_px"}
	balanceKeys   = []string{"account_balance", "balance", "acct_balance"}
	qtyKeys       = []string{"qty", "quantity", "shares"}
	sizeKeys      = []string{"position_size", "position", "size", "notional"}
	holdKeys      = []string{"hold_minutes", "hold_time", "hold"}
)

// extendedFields are the columns legacy mode may omit, in warning order.
var extendedFields = []string{"entry_price", "exit_price", "account_balance"}

// NormalizeHeader folds a raw header cell to snake_case so "Entry Price",
// "entry-price" and "ENTRY_PRICE" all read as entry_price.
func NormalizeHeader(h string) string {
	s := headerJunk.ReplaceAllString(strings.ToLower(strings.TrimSpace(h)), "_")
	return strings.Trim(s, "_")
}

// ParseCSV reads a headered CSV stream into sorted trades.
func ParseCSV(r io.Reader, opts Options) (*Result, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, apperrors.Wrap(apperrors.ErrNoTrades, "empty file")
	}
	if err != nil {
		return nil, apperrors.Wrap(err, "reading csv header")
	}

	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = NormalizeHeader(h)
	}
	for _, group := range [][]string{timestampKeys, sideKeys, assetKeys, pnlKeys} {
		if !containsAny(columns, group) {
			return nil, apperrors.Wrapf(apperrors.ErrUnsupportedFormat,
				"no column for %s (accepted: %s)", group[0], strings.Join(group, ", "))
		}
	}

	var rows []map[string]string
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.Wrapf(err, "reading csv row %d", len(rows)+1)
		}
		if isBlank(record) {
			continue
		}
		row := make(map[string]string, len(columns))
		for i, cell := range record {
			if i < len(columns) && columns[i] != "" {
				row[columns[i]] = strings.TrimSpace(cell)
			}
		}
		rows = append(rows, row)
	}

	return parseRows(rows, opts)
}

// parseRows validates normalized rows and assembles the dataset. Row numbers
// in errors are 1-based data rows.
func parseRows(rows []map[string]string, opts Options) (*Result, error) {
	res := &Result{}
	missing := map[string]bool{}

	for i, row := range rows {
		rowNum := i + 1

		tsRaw := pickField(row, timestampKeys)
		sideRaw := pickField(row, sideKeys)
		assetRaw := pickField(row, assetKeys)
		pnlRaw, pnlFound := pickFieldOK(row, pnlKeys)

		if tsRaw == "" || sideRaw == "" || assetRaw == "" || !pnlFound {
			return nil, apperrors.NewParseError(rowNum, "base",
				"missing required field(s); required: timestamp, side, asset, pnl", nil)
		}

		ts, ok := parseTimestamp(tsRaw)
		if !ok {
			return nil, apperrors.NewParseError(rowNum, "timestamp",
				fmt.Sprintf("invalid timestamp %q", tsRaw), nil)
		}

		side := models.Side(strings.ToUpper(strings.TrimSpace(sideRaw)))
		if side != models.SideBuy && side != models.SideSell {
			return nil, apperrors.NewParseError(rowNum, "side",
				fmt.Sprintf("side must be BUY or SELL, got %q", sideRaw), nil)
		}

		pnl := parseNumber(pnlRaw)
		if pnl == nil {
			return nil, apperrors.NewParseError(rowNum, "pnl",
				fmt.Sprintf("pnl must be a number, got %q", pnlRaw), nil)
		}

		entry := parseNumber(pickField(row, entryKeys))
		exit := parseNumber(pickField(row, exitKeys))
		balance := parseNumber(pickField(row, balanceKeys))

		if entry == nil {
			missing["entry_price"] = true
		}
		if exit == nil {
			missing["exit_price"] = true
		}
		if balance == nil {
			missing["account_balance"] = true
		}
		if !opts.AllowLegacy && (entry == nil || exit == nil || balance == nil) {
			return nil, apperrors.NewParseError(rowNum, "extended",
				"missing required extended fields; required: entry_price, exit_price, account_balance", nil)
		}

		asset := strings.TrimSpace(assetRaw)
		trade := models.Trade{
			ID:             fmt.Sprintf("%d-%s-%d", ts, asset, i),
			Timestamp:      ts,
			Side:           side,
			Asset:          asset,
			PnL:            *pnl,
			EntryPrice:     entry,
			ExitPrice:      exit,
			AccountBalance: balance,
			Qty:            parseNumber(pickField(row, qtyKeys)),
			PositionSize:   parseNumber(pickField(row, sizeKeys)),
			HoldMinutes:    parseNumber(pickField(row, holdKeys)),
		}
		res.Trades = append(res.Trades, trade)
	}

	if opts.AllowLegacy {
		for _, f := range extendedFields {
			if missing[f] {
				res.Warnings = append(res.Warnings, fmt.Sprintf(
					"Missing %s; analysis will be limited for some bias signals.",
					strings.ReplaceAll(f, "_", " ")))
			}
		}
	}

	for _, f := range extendedFields {
		if missing[f] {
			res.MissingFields = append(res.MissingFields, f)
		}
	}

	sort.SliceStable(res.Trades, func(a, b int) bool {
		return res.Trades[a].Timestamp < res.Trades[b].Timestamp
	})
	return res, nil
}

func pickField(row map[string]string, keys []string) string {
	v, _ := pickFieldOK(row, keys)
	return v
}

func pickFieldOK(row map[string]string, keys []string) (string, bool) {
	for _, k := range keys {
		if v, ok := row[k]; ok && v != "" {
			return v, true
		}
	}
	return "", false
}

// parseTimestamp accepts epoch millis, epoch seconds, Excel serial dates, and
// common date strings. Returns epoch millis.
func parseTimestamp(raw string) (int64, bool) {
	if n, err := strconv.ParseFloat(raw, 64); err == nil && !math.IsNaN(n) {
		// Excel serial dates land in a range epoch values never do.
		if n > 20000 && n < 60000 {
			excelEpoch := time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC).UnixMilli()
			return excelEpoch + int64(n*24*60*60*1000), true
		}
		if n < 10_000_000_000 {
			return int64(n) * 1000, true
		}
		return int64(n), true
	}
	for _, layout := range []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
		"2006-01-02",
		"01/02/2006 15:04:05",
		"01/02/2006 15:04",
		"01/02/2006",
	} {
		ref := time.UTC
		if !strings.Contains(layout, "Z07") {
			ref = time.Local
		}
		if t, err := time.ParseInLocation(layout, raw, ref); err == nil {
			return t.UnixMilli(), true
		}
	}
	return 0, false
}

// parseNumber strips currency symbols and thousands separators before
// parsing. Returns nil for blank or unparseable cells.
func parseNumber(raw string) *float64 {
	if raw == "" {
		return nil
	}
	cleaned := numberJunk.ReplaceAllString(raw, "")
	n, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(n) {
		return nil
	}
	return &n
}

func containsAny(columns, keys []string) bool {
	for _, c := range columns {
		for _, k := range keys {
			if c == k {
				return true
			}
		}
	}
	return false
}

func isBlank(record []string) bool {
	for _, c := range record {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
