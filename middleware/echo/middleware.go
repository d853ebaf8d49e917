package echomw

import (
	"github.com/labstack/echo/v4"

	"github.com/reoring/shapegen/middleware"
)

// ValidateJSON parses the request body with parse, stores the input in the
// request context on success, or responds 400 with the rejection's issues.
func ValidateJSON[T any](parse middleware.Parser[T]) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			in, err := middleware.Decode(c.Request(), parse)
			if err != nil {
				return c.JSON(middleware.Status(err), middleware.Payload(err))
			}
			ctx := middleware.ContextWithInput(c.Request().Context(), in)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// Input fetches the parsed input from echo.Context.
func Input[T any](c echo.Context) (T, bool) {
	return middleware.InputFromContext[T](c.Request().Context())
}
