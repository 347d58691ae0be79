package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
)

type CorsHandler struct {
	allowedOrigins []string
}

func NewCorsHandler(allowedOrigins []string) *CorsHandler {
	return &CorsHandler{allowedOrigins: allowedOrigins}
}

func (h *CorsHandler) CorsMiddleware(c *gin.Context) {
	origin := c.Request.Header.Get("Origin")
	c.Writer.Header().Set("Access-Control-Allow-Origin", h.resolveOrigin(origin))
	c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

	if c.Request.Method == "OPTIONS" {
		c.AbortWithStatus(200)
		return
	}
	c.Next()
}

func (h *CorsHandler) resolveOrigin(origin string) string {
	if len(h.allowedOrigins) == 0 {
		return "*"
	}
	for _, allowed := range h.allowedOrigins {
		if allowed == "*" {
			if origin == "" {
				return "*"
			}
			return origin
		}
		if strings.EqualFold(allowed, origin) {
			return origin
		}
	}
	return h.allowedOrigins[0]
}
