package http

import "github.com/gin-gonic/gin"

// Register attaches vault routes to the given router group. The POST
// variants of update and delete keep the form-post endpoints of the page working.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.list)
	rg.GET("/summary", h.summary)
	rg.POST("", h.create)
	rg.GET("/:id", h.get)
	rg.PATCH("/:id", h.update)
	rg.POST("/:id", h.update)
	rg.DELETE("/:id", h.delete)
	rg.POST("/:id/delete", h.delete)
}
