package http

import (
	"github.com/nekogravitycat/court-booking-widget/internal/availability"
	"github.com/nekogravitycat/court-booking-widget/internal/slot"
)

type TableResponse struct {
	Date        string                  `json:"date"`
	Resources   []availability.Resource `json:"resources"`
	Rows        []slot.Row              `json:"rows"`
	NoResources bool                    `json:"no_resources"`
}

func NewTableResponse(date string, resp *availability.Response, hours slot.Hours) TableResponse {
	resources := resp.Resources
	if resources == nil {
		resources = make([]availability.Resource, 0)
	}
	rows := slot.BuildTable(resp.Resources, resp.Available, hours)
	if rows == nil {
		rows = make([]slot.Row, 0)
	}

	return TableResponse{
		Date:        date,
		Resources:   resources,
		Rows:        rows,
		NoResources: len(resp.Resources) == 0,
	}
}
