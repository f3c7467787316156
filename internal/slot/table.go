package slot

import (
	"fmt"

	"github.com/nekogravitycat/court-booking-widget/internal/availability"
)

// BuildTable lays out one row per hour of hours and one cell per resource.
// A cell is available when the resource lists a slot starting at the row's start.
// Resources missing from available have no free cells. Resource order is kept as given.
func BuildTable(resources []availability.Resource, available map[availability.ResourceID][]availability.Slot, hours Hours) []Row {
	if len(resources) == 0 || !hours.Valid() {
		return nil
	}

	rows := make([]Row, 0, hours.Close-hours.Open)
	for h := hours.Open; h < hours.Close; h++ {
		start := FormatHour(h)
		end := FormatHour(h + 1)

		cells := make([]Cell, len(resources))
		for i, res := range resources {
			cells[i] = Cell{
				Start:      start,
				End:        end,
				ResourceID: res.ID,
				Available:  hasStart(available[res.ID], start),
			}
		}
		rows = append(rows, Row{Start: start, End: end, Cells: cells})
	}
	return rows
}

// FormatHour renders a whole hour as "HH:00". Hour 24 wraps to "00:00".
func FormatHour(h int) string {
	return fmt.Sprintf("%02d:00", h%24)
}

// EndOf returns the end of the one-hour row starting at start, if rows contain it.
func EndOf(rows []Row, start string) (string, bool) {
	for _, r := range rows {
		if r.Start == start {
			return r.End, true
		}
	}
	return "", false
}

func hasStart(slots []availability.Slot, start string) bool {
	for _, s := range slots {
		if s.Start == start {
			return true
		}
	}
	return false
}
