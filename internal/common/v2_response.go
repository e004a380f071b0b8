package common

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// V2Response is the envelope every endpoint answers with
type V2Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *V2Meta     `json:"meta,omitempty"`
	Error   *V2Error    `json:"error,omitempty"`
}

// V2Meta pagination metadata
type V2Meta struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

// V2Error error payload
type V2Error struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// NewV2Meta builds page metadata; total_pages is zero when perPage is not positive
func NewV2Meta(page, perPage int, total int64) *V2Meta {
	meta := &V2Meta{Page: page, PerPage: perPage, Total: total}
	if perPage > 0 {
		meta.TotalPages = (total + int64(perPage) - 1) / int64(perPage)
	}
	return meta
}

// V2Success answers 200 with data
func V2Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, V2Response{Success: true, Data: data})
}

// V2SuccessWithMeta answers 200 with a page of data
func V2SuccessWithMeta(c *gin.Context, data interface{}, meta *V2Meta) {
	c.JSON(http.StatusOK, V2Response{Success: true, Data: data, Meta: meta})
}

// V2Created answers 201 with the created resource
func V2Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, V2Response{Success: true, Data: data})
}

// V2ErrorResponse answers with an error whose code follows the status.
// Prefer HandleError when an error value is at hand.
func V2ErrorResponse(c *gin.Context, status int, message string, details interface{}) {
	writeError(c, status, codeForStatus(status), message, details)
}

func writeError(c *gin.Context, status int, code, message string, details interface{}) {
	c.JSON(status, V2Response{
		Error: &V2Error{Code: code, Message: message, Details: details},
	})
}
