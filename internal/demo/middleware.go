// Package demo implements read-only demo mode: every write is refused
// so a public instance seeded by cmd/generate_demo stays intact.
package demo

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Middleware blocks write operations in demo mode.
// Safe methods are always allowed, and so is logging in.
type Middleware struct {
	enabled bool
}

// NewMiddleware creates a demo mode middleware.
func NewMiddleware(enabled bool) *Middleware {
	return &Middleware{enabled: enabled}
}

// IsEnabled returns whether demo mode is active.
func (m *Middleware) IsEnabled() bool {
	return m.enabled
}

// Handler returns a Gin middleware that blocks write operations.
func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.enabled {
			c.Next()
			return
		}

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		if isAllowedPath(c.Request.URL.Path) {
			c.Next()
			return
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":     "This action is disabled in demo mode",
			"code":      "demo_mode",
			"demo_mode": true,
		})
	}
}

// isAllowedPath reports whether a write to path is allowed in demo mode.
// Registration stays blocked since it creates a user.
func isAllowedPath(path string) bool {
	return path == "/auth/login"
}
