package middleware

import (
	"strconv"

	"Grana/internal/observability"

	"github.com/gin-gonic/gin"
)

// Metrics conta cada requisição atendida, rotulada por método, rota e status.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		observability.RecordHTTPRequest(c.Request.Method, route, strconv.Itoa(c.Writer.Status()))
	}
}
