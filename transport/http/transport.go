package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-kit/kit/endpoint"

	"github.com/bloommama/bloomrag"
	"github.com/bloommama/bloomrag/ai"
)

// statusOf maps service errors to HTTP statuses. Rate-limit and
// payment conditions keep their distinguished statuses, everything
// else is a generic failure.
func statusOf(err error) int {
	switch {
	case errors.Is(err, bloomrag.ErrURLRequired),
		errors.Is(err, bloomrag.ErrQuestionRequired):
		return http.StatusBadRequest

	case errors.Is(err, bloomrag.ErrDocumentNotFound):
		return http.StatusNotFound

	case errors.Is(err, ai.ErrRateLimited):
		return http.StatusTooManyRequests

	case errors.Is(err, ai.ErrPaymentRequired):
		return http.StatusPaymentRequired

	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	c.Error(err)
	c.AbortWithStatusJSON(statusOf(err), gin.H{
		"error": err.Error(),
	})
}

func IngestDocumentHandler(endpoint endpoint.Endpoint) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req bloomrag.IngestDocumentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, bloomrag.ErrURLRequired)
			return
		}

		ctx := c.Request.Context()
		resp, err := endpoint(ctx, req)
		if err != nil {
			abortWithError(c, err)
			return
		}

		c.JSON(http.StatusOK, &resp)
	}
}

func AnswerHandler(endpoint endpoint.Endpoint) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req bloomrag.AnswerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, bloomrag.ErrQuestionRequired)
			return
		}

		ctx := c.Request.Context()
		resp, err := endpoint(ctx, req)
		if err != nil {
			abortWithError(c, err)
			return
		}

		c.JSON(http.StatusOK, &resp)
	}
}

func ListDocumentsHandler(endpoint endpoint.Endpoint) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		resp, err := endpoint(ctx, nil)
		if err != nil {
			abortWithError(c, err)
			return
		}

		c.JSON(http.StatusOK, &resp)
	}
}

func DeleteDocumentHandler(endpoint endpoint.Endpoint) gin.HandlerFunc {
	return func(c *gin.Context) {
		documentID := c.Param("document_id")
		if documentID == "" {
			abortWithError(c, bloomrag.ErrDocumentNotFound)
			return
		}

		ctx := c.Request.Context()
		_, err := endpoint(ctx, documentID)
		if err != nil {
			abortWithError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
