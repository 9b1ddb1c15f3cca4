package api

import (
	"github.com/gin-gonic/gin"
	"github.com/yourname/wellnesstracker/internal/service"
)

func listInsights(app App, unreadOnly bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		insights, err := service.ListInsights(c.Request.Context(), app.InsightRepo(), user, unreadOnly)
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to fetch insights")
			return
		}
		HandleSuccess(c, app.Logger(), insights, map[string]any{"count": len(insights)})
	}
}

func GetInsights(app App) gin.HandlerFunc { return listInsights(app, false) }

func GetUnreadInsights(app App) gin.HandlerFunc { return listInsights(app, true) }

func PutInsightRead(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		in, err := service.MarkRead(c.Request.Context(), app.InsightRepo(), c.Param("id"), user.ID)
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to mark insight read")
			return
		}
		HandleSuccess(c, app.Logger(), in, nil)
	}
}

func PutInsightAction(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		in, err := service.MarkActionTaken(c.Request.Context(), app.InsightRepo(), c.Param("id"), user.ID)
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to mark insight action taken")
			return
		}
		HandleSuccess(c, app.Logger(), in, nil)
	}
}
