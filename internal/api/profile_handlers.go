package api

import (
	"github.com/gin-gonic/gin"
	"github.com/yourname/wellnesstracker/internal/service"
)

// GetProfile re-reads the user so the health score reflects the latest follow-up.
func GetProfile(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := app.UserRepo().GetUser(c.Request.Context(), currentUser(c).ID)
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to fetch profile")
			return
		}
		HandleSuccess(c, app.Logger(), user, nil)
	}
}

func PostBiometric(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		var req service.BiometricRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), bindError(err), "Invalid JSON")
			return
		}

		reading, err := service.CreateBiometricReading(c.Request.Context(), app.BiometricRepo(), user, &req)
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to save biometric reading")
			return
		}
		HandleCreated(c, app.Logger(), reading)
	}
}

func GetBiometrics(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		readings, err := service.ListBiometricReadings(c.Request.Context(), app.BiometricRepo(), currentUser(c))
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to fetch biometric readings")
			return
		}
		HandleSuccess(c, app.Logger(), readings, map[string]any{"count": len(readings)})
	}
}
