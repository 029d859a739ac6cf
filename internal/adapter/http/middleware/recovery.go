package middleware

import (
	"net/http"
	"runtime/debug"

	"saas_billing/pkg"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var errInternal = pkg.NewDomainErrorSimple("INTERNAL_ERROR", "An internal error occurred", http.StatusInternalServerError)

// Recovery turns a handler panic into a 500 and logs it with the stack.
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered",
					zap.Any("error", r),
					zap.String("stacktrace", string(debug.Stack())),
					zap.String("path", c.Request.URL.Path),
					zap.String("method", c.Request.Method),
				)
				if !c.Writer.Written() {
					c.JSON(errInternal.HTTPStatus, errInternal.ToHTTPError())
				}
				c.Abort()
			}
		}()
		c.Next()
	}
}
