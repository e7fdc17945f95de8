package utils

import "github.com/gin-gonic/gin"

// Envelope is the uniform JSON wrapper returned by every endpoint.
type Envelope struct {
	Success     bool        `json:"success"`
	Data        interface{} `json:"data,omitempty"`
	Message     string      `json:"message,omitempty"`
	Errors      []string    `json:"errors,omitempty"`
	Count       *int        `json:"count,omitempty"`
	Total       *int64      `json:"total,omitempty"`
	CurrentPage *int        `json:"currentPage,omitempty"`
	TotalPages  *int        `json:"totalPages,omitempty"`
	Stack       string      `json:"stack,omitempty"`
}

// Success writes a success envelope with data.
func Success(ctx *gin.Context, status int, data interface{}) {
	ctx.JSON(status, Envelope{Success: true, Data: data})
}

// SuccessMessage writes a success envelope with a message and data.
func SuccessMessage(ctx *gin.Context, status int, message string, data interface{}) {
	ctx.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

// SuccessCount writes a success envelope for unpaginated collections.
func SuccessCount(ctx *gin.Context, status int, count int, data interface{}) {
	ctx.JSON(status, Envelope{Success: true, Count: &count, Data: data})
}

// SuccessPage writes a success envelope for paginated collections.
func SuccessPage(ctx *gin.Context, status int, data interface{}, total int64, page, totalPages int) {
	ctx.JSON(status, Envelope{
		Success:     true,
		Data:        data,
		Total:       &total,
		CurrentPage: &page,
		TotalPages:  &totalPages,
	})
}

// Fail writes an error envelope.
func Fail(ctx *gin.Context, status int, message string, errs []string) {
	ctx.JSON(status, Envelope{Success: false, Message: message, Errors: errs})
}
