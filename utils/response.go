package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
	Details string      `json:"details,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// Success responses

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, &Response{
		Success: true,
		Data:    data,
	})
}

func SuccessMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, &Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, &Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Error responses. details carries the underlying error text, if any.

func errorResponse(c *gin.Context, status int, message string, details ...string) {
	resp := &Response{Error: message}
	if len(details) > 0 {
		resp.Details = details[0]
	}
	c.AbortWithStatusJSON(status, resp)
}

func BadRequest(c *gin.Context, message string, details ...string) {
	errorResponse(c, http.StatusBadRequest, message, details...)
}

func Unauthorized(c *gin.Context, message string) {
	errorResponse(c, http.StatusUnauthorized, message)
}

func NotFound(c *gin.Context, message string) {
	errorResponse(c, http.StatusNotFound, message)
}

func InternalError(c *gin.Context, message string, details ...string) {
	errorResponse(c, http.StatusInternalServerError, message, details...)
}

func TooManyRequests(c *gin.Context, message string) {
	errorResponse(c, http.StatusTooManyRequests, message)
}

func ServiceUnavailable(c *gin.Context, message string, data interface{}) {
	c.AbortWithStatusJSON(http.StatusServiceUnavailable, &Response{
		Error: message,
		Data:  data,
	})
}
