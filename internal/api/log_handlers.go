package api

import (
	"github.com/gin-gonic/gin"
	"github.com/yourname/wellnesstracker/internal/service"
)

// PostLog scores and stores a log, then hands the user to the follow-up worker.
// The response never waits for insights.
func PostLog(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		var req service.HealthLogRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), bindError(err), "Invalid JSON")
			return
		}

		log, err := service.CreateHealthLog(c.Request.Context(), app.LogRepo(), user, &req)
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to save health log")
			return
		}
		app.FollowUp().Enqueue(user.ID)

		HandleCreated(c, app.Logger(), log)
	}
}

func GetLogs(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		logs, err := app.LogRepo().ListHealthLogs(c.Request.Context(), user.ID)
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to fetch health logs")
			return
		}
		HandleSuccess(c, app.Logger(), logs, map[string]any{"count": len(logs)})
	}
}

func GetLog(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		log, err := service.GetHealthLog(c.Request.Context(), app.LogRepo(), user, c.Param("id"))
		if err != nil {
			HandleError(c, app.Logger(), err, "Health log not available")
			return
		}
		HandleSuccess(c, app.Logger(), log, nil)
	}
}

func PutLog(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		var req service.HealthLogRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), bindError(err), "Invalid JSON")
			return
		}

		log, err := service.UpdateHealthLog(c.Request.Context(), app.LogRepo(), user, c.Param("id"), &req)
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to update health log")
			return
		}
		app.FollowUp().Enqueue(user.ID)

		HandleSuccess(c, app.Logger(), log, nil)
	}
}

func GetSummary(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		summary, err := service.Summarize(c.Request.Context(), app.LogRepo(), user, app.SummaryDays())
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to build summary")
			return
		}
		HandleSuccess(c, app.Logger(), summary, map[string]any{"days": app.SummaryDays()})
	}
}
