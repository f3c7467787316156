package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler) {
	group := g.Group("/availability")
	{
		group.GET("/:date", h.Table)
	}
}
