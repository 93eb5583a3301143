package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/portfolio-site/core/internal/pkg/apperror"
)

// Pagination metadata returned with paginated responses.
type Pagination struct {
	Count int   `json:"count"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Pages int   `json:"pages"`
}

// pagedResponse is the envelope for paginated list responses.
type pagedResponse struct {
	Success bool        `json:"success"`
	Count   int         `json:"count"`
	Total   int64       `json:"total"`
	Page    int         `json:"page"`
	Pages   int         `json:"pages"`
	Data    interface{} `json:"data"`
}

// OK sends {success:true, data}.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

// List sends {success:true, count, data} for unpaginated collections.
func List(c *gin.Context, count int, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "count": count, "data": data})
}

// Paged sends a paginated response.
func Paged(c *gin.Context, data interface{}, p Pagination) {
	c.JSON(http.StatusOK, pagedResponse{
		Success: true,
		Count:   p.Count,
		Total:   p.Total,
		Page:    p.Page,
		Pages:   p.Pages,
		Data:    data,
	})
}

// Created sends a 201 response with a message and the stored document.
func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": message, "data": data})
}

// Saved sends a 200 response with a message and the stored document.
func Saved(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message, "data": data})
}

// Message sends {success:true, message}.
func Message(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": true, "message": message})
}

// Fail aborts with {success:false, message}.
func Fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": message})
}

// BadRequest sends a 400 error response.
func BadRequest(c *gin.Context, message string) {
	Fail(c, http.StatusBadRequest, message)
}

// BadBody answers a request whose JSON body could not be read or decoded.
func BadBody(c *gin.Context, err error) {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		Fail(c, http.StatusRequestEntityTooLarge, "Request body too large")
		return
	}
	BadRequest(c, "Invalid request body")
}

// ValidationFailed sends a 400 response listing every rejected field.
func ValidationFailed(c *gin.Context, fields []apperror.FieldError) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "errors": fields})
}

// Unauthorized sends a 401 error response.
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Not authorized to access this route. Please login."
	}
	Fail(c, http.StatusUnauthorized, message)
}

// Forbidden sends a 403 error response.
func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "Access denied."
	}
	Fail(c, http.StatusForbidden, message)
}

// NotFound sends a 404 error response.
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "The requested resource was not found on this server."
	}
	Fail(c, http.StatusNotFound, message)
}

// Conflict sends a 409 error response.
func Conflict(c *gin.Context, message string) {
	Fail(c, http.StatusConflict, message)
}

// TooManyRequests sends a 429 error response.
func TooManyRequests(c *gin.Context, message string) {
	Fail(c, http.StatusTooManyRequests, message)
}

// ContextKeyExposeErrors is set by the error handler when 500 bodies may carry error detail.
const ContextKeyExposeErrors = "expose_errors"

// Error renders err with the status its kind maps to. Unexpected errors are
// recorded on the context for the error handler to log and answered with fallback.
func Error(c *gin.Context, err error, fallback string) {
	if fields, ok := apperror.AsValidation(err); ok {
		ValidationFailed(c, fields)
		return
	}
	status := apperror.StatusOf(err)
	if status != http.StatusInternalServerError {
		Fail(c, status, err.Error())
		return
	}

	_ = c.Error(err).SetMeta(fallback)
	if fallback == "" {
		fallback = "Internal Server Error"
	}
	body := gin.H{"success": false, "message": fallback}
	if c.GetBool(ContextKeyExposeErrors) {
		body["error"] = err.Error()
	}
	c.AbortWithStatusJSON(status, body)
}
