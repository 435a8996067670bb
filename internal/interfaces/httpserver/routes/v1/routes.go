package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/framevault/framevault-server/internal/interfaces/httpserver/handlers"
)

// Routes encapsulates API route registration.
type Routes struct {
	handlers *handlers.Provider
}

func NewRoutes(provider *handlers.Provider) *Routes {
	return &Routes{handlers: provider}
}

// Register attaches every route under the /api prefix. Write routes go through
// protect, which enforces authentication when it is enabled.
func (r *Routes) Register(router gin.IRouter, protect gin.HandlerFunc) {
	api := router.Group("/api")

	uploads := api.Group("/upload", protect)
	uploads.POST("", r.handlers.Upload.Upload)
	uploads.POST("/presigned-url", r.handlers.Upload.PresignedURL)
	uploads.POST("/metadata", r.handlers.Upload.SaveMetadata)
	uploads.POST("/abandon", r.handlers.Upload.Abandon)

	api.GET("/assets", r.handlers.Assets.List)
	api.GET("/assets/:id", r.handlers.Assets.Get)
	api.DELETE("/assets/:id", protect, r.handlers.Assets.Delete)
	api.GET("/stats", r.handlers.Assets.Stats)
	api.POST("/download", r.handlers.Assets.Download)
	api.GET("/gallery", r.handlers.Gallery.Gallery)

	diagnostics := api.Group("/diagnostics")
	diagnostics.GET("/storage", r.handlers.Diagnostics.Storage)
	diagnostics.GET("/metadata", r.handlers.Diagnostics.Metadata)
	diagnostics.GET("/config", r.handlers.Diagnostics.Config)
}
