package ginmw

import (
	"github.com/gin-gonic/gin"

	"github.com/reoring/shapegen/middleware"
)

// ValidateJSON parses the request body with parse and stores the input in
// the request context. Rejected requests are aborted with the issues payload.
func ValidateJSON[T any](parse middleware.Parser[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		in, err := middleware.Decode(c.Request, parse)
		if err != nil {
			c.AbortWithStatusJSON(middleware.Status(err), middleware.Payload(err))
			return
		}
		c.Request = c.Request.WithContext(middleware.ContextWithInput(c.Request.Context(), in))
		c.Next()
	}
}

// Input fetches the parsed input from gin.Context.
func Input[T any](c *gin.Context) (T, bool) {
	return middleware.InputFromContext[T](c.Request.Context())
}
