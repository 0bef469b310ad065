package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// IndexHandler handles document ingestion requests
type IndexHandler struct {
	forge Service
}

// NewIndexHandler creates a new index handler
func NewIndexHandler(svc Service) *IndexHandler {
	return &IndexHandler{forge: svc}
}

// IndexRequest ingests either a server-side path or inline text.
type IndexRequest struct {
	Path   string `json:"path"`
	Text   string `json:"text"`
	Source string `json:"source"`
}

// Index handles POST /api/v1/index
func (h *IndexHandler) Index(c *gin.Context) {
	var req IndexRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ctx := c.Request.Context()
	switch {
	case req.Path != "":
		if err := h.forge.IndexDirectory(ctx, req.Path); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	case req.Text != "":
		source := req.Source
		if source == "" {
			source = "inline"
		}
		if err := h.forge.IndexText(ctx, req.Text, source); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "either path or text is required"})
		return
	}

	stats := h.forge.Graph().Stats()
	c.JSON(http.StatusOK, gin.H{
		"node_count": stats.NodeCount,
		"edge_count": stats.EdgeCount,
	})
}
