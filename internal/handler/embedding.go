package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"shopassist/internal/model"
	"shopassist/internal/service"
)

// EmbeddingHandler stores caller-computed product embeddings
type EmbeddingHandler struct {
	searchService *service.SearchService
	dimensions    int
	logger        zerolog.Logger
}

// NewEmbeddingHandler creates the handler; dimensions <= 0 accepts vectors of any length
func NewEmbeddingHandler(searchService *service.SearchService, dimensions int, logger zerolog.Logger) *EmbeddingHandler {
	return &EmbeddingHandler{
		searchService: searchService,
		dimensions:    dimensions,
		logger:        logger.With().Str("component", "embedding_handler").Logger(),
	}
}

// BatchUpdate handles POST /api/v1/embeddings/batch. The whole batch is
// rejected when any vector has the wrong length; per-product write failures
// are reported with 206.
func (h *EmbeddingHandler) BatchUpdate(c *gin.Context) {
	var req model.EmbeddingBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid batch: " + err.Error()})
		return
	}
	if len(req.Embeddings) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no embeddings provided"})
		return
	}
	if i, ok := h.wrongDimension(req.Embeddings); ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid embedding dimension",
			"index": i,
			"got":   len(req.Embeddings[i].Embedding),
			"want":  h.dimensions,
		})
		return
	}

	success, errs := h.searchService.UpdateEmbeddings(c.Request.Context(), req.RetailerID, req.Embeddings)
	resp := model.EmbeddingBatchResponse{
		Success: success,
		Failed:  len(req.Embeddings) - success,
		Errors:  errs,
	}

	status := http.StatusOK
	if len(errs) > 0 {
		status = http.StatusPartialContent
		h.logger.Warn().
			Str("retailer_id", req.RetailerID).
			Int("failed", resp.Failed).
			Msg("embedding batch partially applied")
	}
	c.JSON(status, resp)
}

func (h *EmbeddingHandler) wrongDimension(items []model.EmbeddingItem) (int, bool) {
	if h.dimensions <= 0 {
		return 0, false
	}
	for i, item := range items {
		if len(item.Embedding) != h.dimensions {
			return i, true
		}
	}
	return 0, false
}
