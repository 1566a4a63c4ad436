package file

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the file endpoints on the authenticated group. Every
// route requires a resolved tenant and user identity.
func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	files := r.Group("/files")
	{
		files.POST("", h.Upload)
		files.GET("", h.List)
		files.GET("/stats", h.Stats)
		files.GET("/:id", h.Get)
		files.GET("/:id/download", h.Download)
		files.GET("/:id/url", h.PresignedURL)
		files.POST("/:id/copy", h.Copy)
		files.DELETE("/:id", h.Delete)
	}
}
