package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/lexidex/config"
	lexerrors "github.com/gcbaptista/lexidex/internal/errors"
)

// CreateIndexRequest is the wire shape of a new index's construction-time
// configuration. The injectable ExtractField/Tokenize/ProcessTerm hooks are
// Go-only and are not settable over HTTP; callers needing custom hooks use
// internal/engine.Manager directly.
type CreateIndexRequest struct {
	Name        string   `json:"name" binding:"required"`
	Fields      []string `json:"fields" binding:"required"`
	IDField     string   `json:"id_field"`
	StoreFields []string `json:"store_fields"`
}

// CreateIndexHandler creates a new, empty index.
func (h *API) CreateIndexHandler(c *gin.Context) {
	var req CreateIndexRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	_, err := h.manager.CreateIndex(config.Options{
		Name:        req.Name,
		Fields:      req.Fields,
		IDField:     req.IDField,
		StoreFields: req.StoreFields,
	})
	if err != nil {
		if errors.Is(err, lexerrors.ErrIndexAlreadyExists) {
			SendIndexExistsError(c, req.Name)
			return
		}
		SendValidationError(c, "fields", err.Error())
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "index '" + req.Name + "' created"})
}

// ListIndexesHandler lists every registered index's name.
func (h *API) ListIndexesHandler(c *gin.Context) {
	names := h.manager.ListIndexes()
	c.JSON(http.StatusOK, gin.H{"indexes": names, "count": len(names)})
}

// GetIndexHandler returns an index's configuration and live document count.
func (h *API) GetIndexHandler(c *gin.Context) {
	indexName := c.Param("indexName")
	idx, err := h.manager.GetIndex(indexName)
	if err != nil {
		SendIndexNotFoundError(c, indexName)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"name":           idx.Opts.Name,
		"fields":         idx.Opts.Fields,
		"id_field":       idx.Opts.IDField,
		"store_fields":   idx.Opts.StoreFields,
		"document_count": idx.DocumentsCount(),
		"dirty_count":    idx.DirtyCount(),
	})
}

// DeleteIndexHandler removes an index from memory and disk.
func (h *API) DeleteIndexHandler(c *gin.Context) {
	indexName := c.Param("indexName")
	if err := h.manager.DeleteIndex(indexName); err != nil {
		if errors.Is(err, lexerrors.ErrIndexNotFound) {
			SendIndexNotFoundError(c, indexName)
			return
		}
		SendInternalError(c, "delete index", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "index '" + indexName + "' deleted"})
}

// RenameIndexRequest carries the new name for RenameIndexHandler.
type RenameIndexRequest struct {
	Name string `json:"name" binding:"required"`
}

// RenameIndexHandler renames an index in place.
func (h *API) RenameIndexHandler(c *gin.Context) {
	indexName := c.Param("indexName")

	var req RenameIndexRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	if err := h.manager.RenameIndex(indexName, req.Name); err != nil {
		switch {
		case errors.Is(err, lexerrors.ErrIndexNotFound):
			SendIndexNotFoundError(c, indexName)
		case errors.Is(err, lexerrors.ErrIndexAlreadyExists):
			SendIndexExistsError(c, req.Name)
		case errors.Is(err, lexerrors.ErrSameName):
			SendSameNameError(c, req.Name)
		default:
			SendInternalError(c, "rename index", err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "index renamed from '" + indexName + "' to '" + req.Name + "'"})
}

// PersistIndexHandler forces an immediate snapshot write for an index.
func (h *API) PersistIndexHandler(c *gin.Context) {
	indexName := c.Param("indexName")
	if err := h.manager.Persist(indexName); err != nil {
		if errors.Is(err, lexerrors.ErrIndexNotFound) {
			SendIndexNotFoundError(c, indexName)
			return
		}
		SendError(c, http.StatusInternalServerError, ErrorCodePersistenceFailed, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "index '" + indexName + "' persisted"})
}

// VacuumHandler starts a tracked vacuum job for an index and returns its ID
// immediately; poll GET /jobs/:jobId for completion.
func (h *API) VacuumHandler(c *gin.Context) {
	indexName := c.Param("indexName")
	jobID, err := h.manager.VacuumJob(indexName)
	if err != nil {
		if errors.Is(err, lexerrors.ErrIndexNotFound) {
			SendIndexNotFoundError(c, indexName)
			return
		}
		SendJobExecutionError(c, "vacuum", err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"job_id": jobID})
}
