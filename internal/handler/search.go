package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"shopassist/internal/model"
	"shopassist/internal/service"
)

// ChatHandler handles chat-related HTTP requests
type ChatHandler struct {
	searchService *service.SearchService
	logger        zerolog.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(searchService *service.SearchService, logger zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		searchService: searchService,
		logger:        logger.With().Str("component", "chat_handler").Logger(),
	}
}

// Chat handles POST /api/v1/chat
func (h *ChatHandler) Chat(c *gin.Context) {
	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, invalidInput())
		return
	}

	response, err := h.searchService.Chat(c.Request.Context(), &req)
	if errors.Is(err, service.ErrEmptyMessage) {
		c.JSON(http.StatusBadRequest, response)
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Msg("chat failed")
		c.JSON(http.StatusInternalServerError, degraded())
		return
	}

	c.JSON(http.StatusOK, response)
}

// ChatStream handles POST /api/v1/chat/stream - SSE streaming chat
func (h *ChatHandler) ChatStream(c *gin.Context) {
	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, invalidInput())
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, invalidInput())
		return
	}

	c.Header("Content-Type", "text/event-stream; charset=utf-8")
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Streaming not supported"})
		return
	}

	ctx := c.Request.Context()
	response, err := h.searchService.ChatStream(ctx, &req, func(event string, data any) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		sendSSE(c, event, data)
		flusher.Flush()
		return nil
	})
	if err != nil {
		if ctx.Err() == nil {
			h.logger.Warn().Err(err).Msg("chat stream aborted")
			sendSSE(c, "error", degraded())
			flusher.Flush()
		}
		return
	}

	sendSSE(c, "response", response)
	flusher.Flush()
}

// sendSSE sends a Server-Sent Event
func sendSSE(c *gin.Context, event string, data any) {
	if data == nil {
		fmt.Fprintf(c.Writer, "event: %s\ndata: {}\n\n", event)
		return
	}
	jsonData, err := json.Marshal(data)
	if err != nil {
		fmt.Fprintf(c.Writer, "event: error\ndata: {\"error\": \"JSON marshal failed\"}\n\n")
		return
	}
	fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", event, jsonData)
}

// GetProduct handles GET /api/v1/retailers/:retailer_id/products/:id
func (h *ChatHandler) GetProduct(c *gin.Context) {
	product, err := h.searchService.GetProduct(c.Request.Context(), c.Param("retailer_id"), c.Param("id"))
	if err != nil {
		h.logger.Error().Err(err).Msg("product lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get product"})
		return
	}
	if product == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	c.JSON(http.StatusOK, product)
}

func invalidInput() *model.ChatResponse {
	return &model.ChatResponse{
		Message:    service.EmptyInputReply,
		Products:   []model.RankedProduct{},
		SearchTime: time.Now().UTC().Format(time.RFC3339),
		Error:      true,
	}
}

func degraded() *model.ChatResponse {
	return &model.ChatResponse{
		Message:    service.DegradedMessage,
		Products:   []model.RankedProduct{},
		SearchTime: time.Now().UTC().Format(time.RFC3339),
		Error:      true,
	}
}
