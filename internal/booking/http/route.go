package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler) {
	group := g.Group("/sessions")
	{
		group.POST("", h.Create)
		group.GET("/:id", h.Get)
		group.DELETE("/:id", h.Delete)

		group.POST("/:id/month", h.ChangeMonth)
		group.POST("/:id/date", h.SelectDate)
		group.POST("/:id/slot", h.SelectSlot)
		group.POST("/:id/confirm", h.Confirm)
	}
}
