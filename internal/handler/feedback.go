package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"shopassist/internal/model"
	"shopassist/internal/service"
)

// FeedbackHandler records shopper actions against a previous search
type FeedbackHandler struct {
	searchService *service.SearchService
	logger        zerolog.Logger
}

func NewFeedbackHandler(searchService *service.SearchService, logger zerolog.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		searchService: searchService,
		logger:        logger.With().Str("component", "feedback_handler").Logger(),
	}
}

// Submit handles POST /api/v1/feedback. The action must be one of
// click, add_to_cart or view_details.
func (h *FeedbackHandler) Submit(c *gin.Context) {
	var req model.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid feedback: " + err.Error()})
		return
	}

	if err := h.searchService.LogFeedback(c.Request.Context(), req.SearchID, req.ProductID, req.Action); err != nil {
		h.logger.Error().Err(err).Str("search_id", req.SearchID).Msg("feedback write failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "feedback not recorded"})
		return
	}

	c.JSON(http.StatusOK, model.FeedbackResponse{Success: true, Message: "feedback recorded"})
}
