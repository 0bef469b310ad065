package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/soundprediction/forge/pkg/export"
	"github.com/soundprediction/forge/pkg/types"
)

// QueryHandler serves query, search, stats, and export requests.
type QueryHandler struct {
	forge Service
}

// NewQueryHandler creates a new query handler
func NewQueryHandler(svc Service) *QueryHandler {
	return &QueryHandler{forge: svc}
}

// QueryRequest is the body of POST /api/v1/query.
type QueryRequest struct {
	Query string `json:"query" binding:"required"`
}

// Query handles POST /api/v1/query
func (h *QueryHandler) Query(c *gin.Context) {
	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}

	answer, err := h.forge.Query(c.Request.Context(), req.Query)
	if err != nil {
		if errors.Is(err, types.ErrGenerationUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"answer": answer})
}

// SearchRequest is the body of POST /api/v1/search.
type SearchRequest struct {
	Query string `json:"query" binding:"required"`
	K     int    `json:"k"`
}

// Search handles POST /api/v1/search
func (h *QueryHandler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}
	if req.K <= 0 {
		req.K = 5
	}

	results, err := h.forge.Search(c.Request.Context(), req.Query, req.K)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}

// Stats handles GET /api/v1/graph/stats
func (h *QueryHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.forge.Graph().Stats())
}

// ExportGraphML handles GET /api/v1/export/graphml
func (h *QueryHandler) ExportGraphML(c *gin.Context) {
	c.Data(http.StatusOK, "application/xml", []byte(export.GraphML(h.forge.Graph())))
}
