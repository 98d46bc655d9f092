package ginmw

import (
	"github.com/gin-gonic/gin"
	formskema "github.com/reoring/formskema"
	"github.com/reoring/formskema/middleware"
)

// Validate parses the request (JSON, YAML, form or query) using schema s,
// stores the parsed value in the context, and on failure aborts with the
// status and issue payload from middleware.Validate.
func Validate[T any](s formskema.Schema[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, fail := middleware.Validate(c.Request, s)
		if fail != nil {
			c.AbortWithStatusJSON(fail.Status, fail.Body)
			return
		}
		// store parsed value in request context
		c.Request = c.Request.WithContext(middleware.ContextWithParsed(c.Request.Context(), v))
		c.Next()
	}
}

// GetParsed fetches the parsed value from gin.Context.
func GetParsed[T any](c *gin.Context) (T, bool) {
	return middleware.ParsedFromContext[T](c.Request.Context())
}
