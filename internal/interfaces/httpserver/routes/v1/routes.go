// Package v1 wires the versioned API routes.
package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/exiluzrg-design/tempochat-landing/internal/interfaces/httpserver/handlers"
)

// Register mounts the v1 routes on the engine.
func Register(engine *gin.Engine, p *handlers.Provider) {
	v1 := engine.Group("/v1")

	v1.POST("/chat", p.Chat.HandleTurn)
	v1.POST("/session", p.Session.IssueToken)
	v1.GET("/env-check", p.Diagnostics.EnvCheck)
	v1.GET("/debug/ttl", p.Diagnostics.DebugTTL)
}
