package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// QueryRequest represents a natural language query submission.
type QueryRequest struct {
	Query     string `json:"query" binding:"required"`
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail represents error details.
type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// handleHealth handles health check requests.
func (s *Server) handleHealth(c *gin.Context) {
	status := s.matcher.Status()
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks": gin.H{
			"orchestrator": "ok",
			"vector_index": map[bool]string{true: "ok", false: "empty"}[status.Initialized],
		},
	})
}

// handleSubmitQuery handles query submission. The pipeline always answers
// with a structured plan response; its status field carries the outcome.
func (s *Server) handleSubmitQuery(c *gin.Context) {
	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.logger.Error("invalid request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
		return
	}

	if req.UserID == "" {
		req.UserID = "default"
	}
	if req.SessionID == "" {
		req.SessionID = "default"
	}

	response := s.orchestrator.ProcessQuery(c.Request.Context(), req.Query, req.UserID, req.SessionID)
	c.JSON(http.StatusOK, response)
}

// handleGetPlan handles retrieving a finished plan response.
func (s *Server) handleGetPlan(c *gin.Context) {
	planID := c.Param("id")

	plan, err := s.orchestrator.GetPlan(c.Request.Context(), planID)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: ErrorDetail{
				Code:    "NOT_FOUND",
				Message: "Plan not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, plan)
}

// handleVectorStatus reports the state of the similarity index.
func (s *Server) handleVectorStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.matcher.Status())
}

// handleReindex forces a rebuild of the similarity index from the catalog.
func (s *Server) handleReindex(c *gin.Context) {
	if err := s.matcher.Rebuild(c.Request.Context()); err != nil {
		s.logger.Error("reindex failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: ErrorDetail{
				Code:    "REINDEX_FAILED",
				Message: err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, s.matcher.Status())
}
