package http

import (
	"time"

	"github.com/nekogravitycat/court-booking-widget/internal/calendar"
)

type MonthRequest struct {
	Year  int `uri:"year" binding:"required,min=1,max=9999"`
	Month int `uri:"month" binding:"required,min=1,max=12"`
}

type MonthQuery struct {
	Selected string `form:"selected" binding:"omitempty,datetime=2006-01-02"`
}

type MonthResponse struct {
	Title string          `json:"title"`
	Year  int             `json:"year"`
	Month time.Month      `json:"month"`
	Days  []*calendar.Day `json:"days"`
}
