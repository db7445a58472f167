package domain

import "time"

// Table a physical table of the restaurant
type Table struct {
	ID        int64
	Capacity  int
	Location  string
	Active    bool // false after removal; reservations keep the reference
	CreatedAt time.Time
}

// Seats reports whether the table can seat a party of the given size
func (t *Table) Seats(partySize int) bool {
	return t.Active && t.Capacity >= partySize
}
