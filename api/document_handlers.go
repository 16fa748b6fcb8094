package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	lexerrors "github.com/gcbaptista/lexidex/internal/errors"
	"github.com/gcbaptista/lexidex/model"
)

// AddDocumentHandler indexes a single document synchronously.
func (h *API) AddDocumentHandler(c *gin.Context) {
	indexName := c.Param("indexName")
	idx, err := h.manager.GetIndex(indexName)
	if err != nil {
		SendIndexNotFoundError(c, indexName)
		return
	}

	var doc model.Document
	if err := c.ShouldBindJSON(&doc); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	if err := idx.Add(doc); err != nil {
		sendDocumentMutationError(c, indexName, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "document added to index '" + indexName + "'"})
}

// AddAllAsyncHandler starts a tracked background job that indexes a batch
// of documents in small, yielding steps and returns the job's ID
// immediately; poll GET /jobs/:jobId for completion.
func (h *API) AddAllAsyncHandler(c *gin.Context) {
	indexName := c.Param("indexName")

	var docs []model.Document
	if err := c.ShouldBindJSON(&docs); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	jobID, err := h.manager.AddAllAsyncJob(indexName, docs)
	if err != nil {
		if errors.Is(err, lexerrors.ErrIndexNotFound) {
			SendIndexNotFoundError(c, indexName)
			return
		}
		SendJobExecutionError(c, "add_all_async", err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"job_id": jobID, "document_count": len(docs)})
}

// RemoveDocumentHandler removes a previously indexed document, recomputing
// its terms from the document body the caller supplies.
func (h *API) RemoveDocumentHandler(c *gin.Context) {
	indexName := c.Param("indexName")
	idx, err := h.manager.GetIndex(indexName)
	if err != nil {
		SendIndexNotFoundError(c, indexName)
		return
	}

	var doc model.Document
	if err := c.ShouldBindJSON(&doc); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	if err := idx.Remove(doc); err != nil {
		sendDocumentMutationError(c, indexName, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "document removed from index '" + indexName + "'"})
}

// ReplaceDocumentHandler discards documentId, then re-adds the request
// body under the same ID.
func (h *API) ReplaceDocumentHandler(c *gin.Context) {
	indexName := c.Param("indexName")
	documentID := c.Param("documentId")

	idx, err := h.manager.GetIndex(indexName)
	if err != nil {
		SendIndexNotFoundError(c, indexName)
		return
	}

	var doc model.Document
	if err := c.ShouldBindJSON(&doc); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	if err := idx.Replace(documentID, doc); err != nil {
		sendDocumentMutationError(c, indexName, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "document '" + documentID + "' replaced in index '" + indexName + "'"})
}

// DiscardDocumentHandler drops documentId's mappings, leaving its postings
// for a later vacuum.
func (h *API) DiscardDocumentHandler(c *gin.Context) {
	indexName := c.Param("indexName")
	documentID := c.Param("documentId")

	idx, err := h.manager.GetIndex(indexName)
	if err != nil {
		SendIndexNotFoundError(c, indexName)
		return
	}

	if err := idx.Discard(documentID); err != nil {
		sendDocumentMutationError(c, indexName, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "document '" + documentID + "' discarded from index '" + indexName + "'"})
}

func sendDocumentMutationError(c *gin.Context, indexName string, err error) {
	switch {
	case errors.Is(err, lexerrors.ErrMissingID):
		SendValidationError(c, "id", err.Error())
	case errors.Is(err, lexerrors.ErrDuplicateID):
		SendError(c, http.StatusConflict, ErrorCodeValidationFailed, err.Error())
	case errors.Is(err, lexerrors.ErrNotIndexed):
		SendDocumentNotFoundError(c, "", indexName)
	default:
		SendIndexingError(c, "document mutation", err)
	}
}
