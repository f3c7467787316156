package calendar

// Day is one numbered cell of a month grid.
// Grids are rebuilt wholesale whenever the visible month or the selected date changes.
type Day struct {
	ISODate      string `json:"iso_date"`
	DayOfMonth   int    `json:"day"`
	IsPast       bool   `json:"is_past"`
	IsToday      bool   `json:"is_today"`
	IsSelected   bool   `json:"is_selected"`
	IsSelectable bool   `json:"is_selectable"`
}

// monthNames are the header names shown above the grid.
var monthNames = [...]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}
