package api

import (
	"github.com/gin-gonic/gin"
	"github.com/yourname/wellnesstracker/internal/auth"
)

// NewRouter wires every route behind request IDs and bearer auth.
func NewRouter(app App) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestIDMiddleware(), RequestLogger(app.Logger()))

	r.GET("/healthz", func(c *gin.Context) { c.String(200, "ok") })

	g := r.Group("/api")
	g.Use(auth.AuthMiddleware(app.Auth(), app.Logger()))

	g.POST("/logs", PostLog(app))
	g.GET("/logs", GetLogs(app))
	g.GET("/logs/summary", GetSummary(app))
	g.GET("/logs/:id", GetLog(app))
	g.PUT("/logs/:id", PutLog(app))

	g.GET("/insights", GetInsights(app))
	g.GET("/insights/unread", GetUnreadInsights(app))
	g.PUT("/insights/:id/read", PutInsightRead(app))
	g.PUT("/insights/:id/action", PutInsightAction(app))

	g.GET("/profile", GetProfile(app))
	g.POST("/biometrics", PostBiometric(app))
	g.GET("/biometrics", GetBiometrics(app))

	return r
}
