package httpapi

import (
	"maps"

	"github.com/tomaszdurka/prismarest"

	"github.com/gin-gonic/gin"
)

// WithSystemValues returns middleware exposing vals to generated
// services for the lifetime of each request.
func WithSystemValues(vals prismarest.SystemValues) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(prismarest.NewSystemContext(c.Request.Context(), vals))
		c.Next()
	}
}

// WithSystemValue returns middleware deriving one system value per
// request, typically from authentication state. Values set by earlier
// middleware are kept.
func WithSystemValue(field string, fn func(c *gin.Context) any) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		merged := prismarest.SystemValues{}
		if prev, ok := prismarest.SystemFromContext(ctx); ok {
			maps.Copy(merged, prev)
		}
		merged[field] = fn(c)
		c.Request = c.Request.WithContext(prismarest.NewSystemContext(ctx, merged))
		c.Next()
	}
}

// SystemString reads a request-scoped system value as a string. It
// returns "" when the value is absent or not a string.
func SystemString(c *gin.Context, field string) string {
	vals, ok := prismarest.SystemFromContext(c.Request.Context())
	if !ok {
		return ""
	}
	s, _ := vals[field].(string)
	return s
}
