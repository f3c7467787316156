package http

import (
	"time"

	"github.com/nekogravitycat/court-booking-widget/internal/booking"
)

const timeLayout = "15:04"

type SessionResponse struct {
	ID   string       `json:"id"`
	View booking.View `json:"view"`
}

// ActionResponse is returned by transitions that may be ignored (past dates, unavailable slots).
type ActionResponse struct {
	Applied bool         `json:"applied"`
	View    booking.View `json:"view"`
}

type ChangeMonthRequest struct {
	Delta int `json:"delta" binding:"required,oneof=-1 1"`
}

type SelectDateRequest struct {
	Date string `json:"date" binding:"required,datetime=2006-01-02"`
}

type SelectDateQuery struct {
	Wait bool `form:"wait"`
}

type SelectSlotRequest struct {
	ResourceID string `json:"resource_id" binding:"required"`
	Start      string `json:"start" binding:"required"`
	End        string `json:"end" binding:"required"`
}

// Validate performs custom validation for SelectSlotRequest.
func (r *SelectSlotRequest) Validate() error {
	if _, err := time.Parse(timeLayout, r.Start); err != nil {
		return ErrInvalidTime
	}
	if _, err := time.Parse(timeLayout, r.End); err != nil {
		return ErrInvalidTime
	}
	return nil
}
