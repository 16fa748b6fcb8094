// Package api exposes internal/engine.Manager over HTTP with gin.
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/lexidex/internal/engine"
)

// API holds the dependencies shared by every handler.
type API struct {
	manager *engine.Manager
}

// NewAPI creates a new API handler structure.
func NewAPI(manager *engine.Manager) *API {
	return &API{manager: manager}
}

// maxRequestBodyBytes bounds a single request body (document bulk uploads
// are the largest payloads this service accepts).
const maxRequestBodyBytes = 32 << 20

// SetupRoutes registers every route this service exposes.
func SetupRoutes(router *gin.Engine, manager *engine.Manager) {
	h := NewAPI(manager)

	router.Use(CORSMiddleware(), RequestSizeLimitMiddleware(maxRequestBodyBytes))

	router.GET("/health", h.HealthCheckHandler)

	indexes := router.Group("/indexes")
	{
		indexes.POST("", h.CreateIndexHandler)
		indexes.GET("", h.ListIndexesHandler)
		indexes.GET("/:indexName", h.GetIndexHandler)
		indexes.DELETE("/:indexName", h.DeleteIndexHandler)
		indexes.PUT("/:indexName/rename", h.RenameIndexHandler)
		indexes.POST("/:indexName/_persist", h.PersistIndexHandler)
		indexes.POST("/:indexName/_vacuum", h.VacuumHandler)
		indexes.POST("/:indexName/_search", h.SearchHandler)
		indexes.POST("/:indexName/_autosuggest", h.AutoSuggestHandler)
		indexes.GET("/:indexName/_jobs", h.ListJobsHandler)

		docs := indexes.Group("/:indexName/documents")
		{
			docs.POST("", h.AddDocumentHandler)
			docs.POST("/_bulk", h.AddAllAsyncHandler)
			docs.POST("/_remove", h.RemoveDocumentHandler)
			docs.PUT("/:documentId", h.ReplaceDocumentHandler)
			docs.DELETE("/:documentId", h.DiscardDocumentHandler)
		}
	}

	router.GET("/jobs/:jobId", h.GetJobHandler)
}

// HealthCheckHandler provides a simple liveness probe.
func (h *API) HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "lexidex",
		"timestamp": time.Now().Unix(),
	})
}
