package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/court-booking-widget/internal/availability"
	"github.com/nekogravitycat/court-booking-widget/internal/pkg/request"
	"github.com/nekogravitycat/court-booking-widget/internal/pkg/response"
	"github.com/nekogravitycat/court-booking-widget/internal/slot"
)

// Handler serves slot tables for renderers that keep their own state.
type Handler struct {
	provider availability.Provider
	hours    slot.Hours
}

func NewHandler(provider availability.Provider, hours slot.Hours) *Handler {
	return &Handler{
		provider: provider,
		hours:    hours,
	}
}

func (h *Handler) Table(c *gin.Context) {
	var uri request.ByDateRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date", "details": err.Error()})
		return
	}

	ctx := availability.WithCookie(c.Request.Context(), c.GetHeader("Cookie"))
	resp, err := h.provider.Fetch(ctx, uri.Date)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewTableResponse(uri.Date, resp, h.hours))
}
