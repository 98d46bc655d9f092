package echomw

import (
	"github.com/labstack/echo/v4"
	formskema "github.com/reoring/formskema"
	"github.com/reoring/formskema/middleware"
)

// Validate parses the request (JSON, YAML, form or query) via schema s,
// stores the parsed value in the request context on success, or responds 422
// with the issue payload when validation fails.
func Validate[T any](s formskema.Schema[T]) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			v, fail := middleware.Validate(c.Request(), s)
			if fail != nil {
				return c.JSON(fail.Status, fail.Body)
			}
			ctx := middleware.ContextWithParsed(c.Request().Context(), v)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// GetParsed fetches the parsed value from echo.Context.
func GetParsed[T any](c echo.Context) (T, bool) {
	return middleware.ParsedFromContext[T](c.Request().Context())
}
