package models

import "time"

// JournalEntry represents one trading journal note. Journaling is a
// peripheral collaborator of the analysis engine; the engine itself never
// reads or writes entries.
type JournalEntry struct {
	ID        string    `json:"id"`
	Date      time.Time `json:"date"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	Mood      string    `json:"mood"`
	CreatedAt time.Time `json:"createdAt"`
}

// ImportRecord logs one imported trade batch so later journal entries can
// reference the dataset they were written against.
type ImportRecord struct {
	ID         string    `json:"id"`
	Source     string    `json:"source"` // file path, "sample", "manual"
	TradeCount int       `json:"tradeCount"`
	FirstTrade time.Time `json:"firstTrade"`
	LastTrade  time.Time `json:"lastTrade"`
	RiskScore  int       `json:"riskScore"`
	ImportedAt time.Time `json:"importedAt"`
}
