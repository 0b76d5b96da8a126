package models

import "time"

// Deal is a single sales record fetched from the spreadsheet gateway.
type Deal struct {
	ID       string    `json:"id"`
	Pipeline string    `json:"pipeline"`
	Name     string    `json:"name"`
	Amount   float64   `json:"amount"`
	Stage    string    `json:"stage"`
	Owner    string    `json:"owner"`
	Date     time.Time `json:"date"`
}

// DealChangeEvent is emitted by the CRM sync whenever deals in a
// pipeline are created, updated, or removed.
type DealChangeEvent struct {
	Pipeline  string    `json:"pipeline"`
	ChangeID  string    `json:"change_id"`
	Kind      string    `json:"kind"` // "created", "updated", "deleted"
	Timestamp time.Time `json:"timestamp"`
}
