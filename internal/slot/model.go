package slot

import "github.com/nekogravitycat/court-booking-widget/internal/availability"

// Hours is the opening window of the slot grid, as whole hours of the day.
// Slots start from Open (inclusive) up to Close (exclusive).
type Hours struct {
	Open  int
	Close int
}

// DefaultHours matches the booking server's operating hours.
var DefaultHours = Hours{Open: 14, Close: 23}

// Valid reports whether the window yields at least one slot within a day.
func (h Hours) Valid() bool {
	return h.Open >= 0 && h.Close <= 24 && h.Open < h.Close
}

// Cell is one (time slot × resource) entry of the table.
type Cell struct {
	Start      string                  `json:"start"`
	End        string                  `json:"end"`
	ResourceID availability.ResourceID `json:"resource_id"`
	Available  bool                    `json:"available"`
}

// Row is one hour of the table, with one cell per resource in input order.
type Row struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Cells []Cell `json:"cells"`
}

// Label renders the row header, e.g. "15:00 - 16:00".
func (r Row) Label() string {
	return r.Start + " - " + r.End
}
