package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/court-booking-widget/internal/availability"
	"github.com/nekogravitycat/court-booking-widget/internal/booking"
	"github.com/nekogravitycat/court-booking-widget/internal/pkg/apperror"
	"github.com/nekogravitycat/court-booking-widget/internal/pkg/request"
	"github.com/nekogravitycat/court-booking-widget/internal/pkg/response"
)

var ErrInvalidTime = apperror.New(http.StatusBadRequest, "times must be formatted as HH:MM")

type Handler struct {
	registry     *booking.Registry
	flushTimeout time.Duration
}

func NewHandler(registry *booking.Registry, flushTimeout time.Duration) *Handler {
	if flushTimeout <= 0 {
		flushTimeout = 10 * time.Second
	}
	return &Handler{
		registry:     registry,
		flushTimeout: flushTimeout,
	}
}

// session resolves the :id path parameter. It writes the error response itself.
func (h *Handler) session(c *gin.Context) (*booking.Session, bool) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return nil, false
	}

	s, err := h.registry.Get(uri.ID)
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	s.SetCookie(c.GetHeader("Cookie"))
	return s, true
}

func (h *Handler) Create(c *gin.Context) {
	s := h.registry.Create()
	s.SetCookie(c.GetHeader("Cookie"))

	v, err := s.View()
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, SessionResponse{ID: s.ID(), View: v})
}

func (h *Handler) Get(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	v, err := s.View()
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, SessionResponse{ID: s.ID(), View: v})
}

func (h *Handler) ChangeMonth(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req ChangeMonthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	v, err := s.ChangeMonth(req.Delta)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, SessionResponse{ID: s.ID(), View: v})
}

// SelectDate starts loading the slots of a date. With ?wait=true the answer
// carries the loaded (or failed) table instead of the loading state.
func (h *Handler) SelectDate(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req SelectDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	var query SelectDateQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	v, applied, err := s.SelectDate(req.Date)
	if err != nil {
		response.Error(c, err)
		return
	}

	if applied && query.Wait {
		ctx, cancel := context.WithTimeout(c.Request.Context(), h.flushTimeout)
		defer cancel()
		if err := s.Flush(ctx); err != nil {
			response.Error(c, apperror.Wrap(err, http.StatusGatewayTimeout, availability.MsgConnection))
			return
		}
		if v, err = s.View(); err != nil {
			response.Error(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, ActionResponse{Applied: applied, View: v})
}

func (h *Handler) SelectSlot(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req SelectSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		response.Error(c, err)
		return
	}

	v, applied, err := s.SelectSlot(availability.ResourceID(req.ResourceID), req.Start, req.End)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, ActionResponse{Applied: applied, View: v})
}

// Confirm submits the selected slot. A rejected reservation still answers 200:
// the outcome is in the view's message.
func (h *Handler) Confirm(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	v, err := s.Confirm(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, SessionResponse{ID: s.ID(), View: v})
}

func (h *Handler) Delete(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	if err := h.registry.Delete(uri.ID); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
