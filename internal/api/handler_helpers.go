package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourname/wellnesstracker/internal"
	"github.com/yourname/wellnesstracker/internal/auth"
	"github.com/yourname/wellnesstracker/internal/response"
)

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	var appErr *internal.AppError
	switch {
	case errors.Is(err, internal.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, internal.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, internal.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &appErr):
		return appErr.Code
	default:
		return http.StatusInternalServerError
	}
}

// HandleError logs err and writes it in the response envelope. Internal
// failures do not leak their cause to the client.
func HandleError(c *gin.Context, logger internal.Logger, err error, msg string) {
	requestID := c.GetString("request_id")
	status := statusFor(err)
	var resp response.APIResponse
	switch status {
	case http.StatusBadRequest:
		logger.Warnf("[request_id=%s] %s: %v", requestID, msg, err)
		resp = response.BadRequest(msg + ": " + err.Error())
	case http.StatusUnauthorized:
		logger.Warnf("[request_id=%s] %s: %v", requestID, msg, err)
		resp = response.Unauthorized(msg)
	case http.StatusNotFound:
		logger.Infof("[request_id=%s] %s: %v", requestID, msg, err)
		resp = response.NotFound(msg)
	case http.StatusInternalServerError:
		logger.Errorf("[request_id=%s] %s: %v", requestID, msg, err)
		resp = response.InternalError(msg)
	default:
		logger.Errorf("[request_id=%s] %s: %v", requestID, msg, err)
		resp = response.NewAppError(status, msg)
	}
	c.JSON(status, resp)
}

// bindError wraps a JSON decoding failure so it renders as a 400.
func bindError(err error) error {
	return &internal.ValidationError{Err: err}
}

func HandleSuccess(c *gin.Context, logger internal.Logger, data interface{}, meta map[string]any) {
	requestID := c.GetString("request_id")
	logger.Debugf("[request_id=%s] Success", requestID)
	c.JSON(http.StatusOK, response.Success(data, meta))
}

func HandleCreated(c *gin.Context, logger internal.Logger, data interface{}) {
	requestID := c.GetString("request_id")
	logger.Infof("[request_id=%s] Created", requestID)
	c.JSON(http.StatusCreated, response.Success(data, nil))
}

func currentUser(c *gin.Context) *internal.User {
	return c.MustGet(auth.UserKey).(*internal.User)
}
