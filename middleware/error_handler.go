package middleware

import (
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"contenthub/config"
	"contenthub/utils"
)

// ErrorHandler is the single place service errors become HTTP
// responses. Controllers push errors into the gin context; after the
// chain runs, the last error is mapped to the response envelope and
// logged. Stack detail is included only outside production.
func ErrorHandler() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Next()

		ginErr := ctx.Errors.Last()
		if ginErr == nil || ctx.Writer.Written() {
			return
		}
		err := ginErr.Err

		status := http.StatusInternalServerError
		message := "Server Error"
		var fieldErrs []string

		var appErr *utils.AppError
		if errors.As(err, &appErr) {
			status = appErr.Status
			message = appErr.Message
			fieldErrs = appErr.Errors
		}

		if status >= http.StatusInternalServerError {
			utils.Sugar.Errorw("request failed",
				"path", ctx.Request.URL.Path,
				"status", status,
				"error", err.Error(),
			)
		} else {
			utils.Sugar.Infow("request rejected",
				"path", ctx.Request.URL.Path,
				"status", status,
				"error", err.Error(),
			)
		}

		envelope := utils.Envelope{Success: false, Message: message, Errors: fieldErrs}
		if !config.Get().IsProduction() && status >= http.StatusInternalServerError {
			envelope.Stack = string(debug.Stack())
		}
		ctx.JSON(status, envelope)
	}
}
