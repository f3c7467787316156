package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/court-booking-widget/internal/calendar"
)

// Handler serves month grids without any session state.
type Handler struct {
	now func() time.Time
	loc *time.Location
}

func NewHandler(now func() time.Time, loc *time.Location) *Handler {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	return &Handler{now: now, loc: loc}
}

func (h *Handler) Month(c *gin.Context) {
	var uri MonthRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year or month", "details": err.Error()})
		return
	}
	var query MonthQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	month := time.Month(uri.Month)
	c.JSON(http.StatusOK, MonthResponse{
		Title: calendar.Title(uri.Year, month),
		Year:  uri.Year,
		Month: month,
		Days:  calendar.BuildMonthGrid(uri.Year, month, h.now().In(h.loc), query.Selected),
	})
}
