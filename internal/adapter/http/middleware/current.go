package middleware

import (
	ct "usuariosapi/pkg/context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CurrentMiddleware attaches request scoped metadata to the context.
// The request id comes from X-Request-ID when the caller sends one.
func CurrentMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		current := ct.NewCurrent()

		current.Set("request_id", c.GetHeader("X-Request-ID"))

		if requestID, _ := current.GetString("request_id"); requestID == "" {
			current.Set("request_id", uuid.New().String())
		}

		current.Set("user_agent", c.Request.UserAgent())
		current.Set("ip_address", c.ClientIP())
		current.Set("method", c.Request.Method)
		current.Set("path", c.Request.URL.Path)

		ctx := ct.SetCurrent(c.Request.Context(), current)
		c.Request = c.Request.WithContext(ctx)

		c.Set("current", current)

		if requestID, ok := current.GetString("request_id"); ok {
			c.Header("X-Request-ID", requestID)
		}

		c.Next()
	}
}

func GetCurrent(c *gin.Context) *ct.Current {
	if current, ok := c.Get("current"); ok {
		if curr, ok := current.(*ct.Current); ok {
			return curr
		}
	}

	if current, ok := ct.FromContext(c.Request.Context()); ok {
		return current
	}

	return ct.NewCurrent()
}
