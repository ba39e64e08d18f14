package middleware

import (
	"net/http"

	"github.com/dlsystem/blogbackend/apperr"
	"github.com/dlsystem/blogbackend/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AbortWithError writes err as a JSON error body and stops the chain.
// Errors that are not an *apperr.AppError become a generic 500.
func AbortWithError(c *gin.Context, err error) {
	appErr, ok := apperr.As(err)
	if !ok {
		appErr = apperr.Internal("internal server error").WithCause(err)
	}

	if appErr.HTTPStatus >= http.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("request_id", RequestIDFrom(c)),
			zap.String("path", c.FullPath()),
			zap.Error(appErr),
		)
	}

	body := gin.H{
		"msg":  appErr.Message,
		"code": appErr.Code,
	}
	if len(appErr.Missing) > 0 {
		body["missing"] = appErr.Missing
	}
	c.AbortWithStatusJSON(appErr.HTTPStatus, body)
}
