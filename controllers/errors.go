package controllers

import (
	"github.com/dlsystem/blogbackend/middleware"
	"github.com/gin-gonic/gin"
)

// renderError answers with the error's status and {"msg", "code", "missing"}.
func renderError(c *gin.Context, err error) {
	middleware.AbortWithError(c, err)
}
