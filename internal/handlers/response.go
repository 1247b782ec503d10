package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lotterysystem/lottery-backend/internal/apperrors"
)

// respondError translates a service error into the {success:false, message}
// envelope with the status the error taxonomy calls for. Unknown errors are
// reported as internal without leaking details.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		status, message = http.StatusNotFound, err.Error()
	case errors.Is(err, apperrors.ErrUnauthenticated):
		status, message = http.StatusUnauthorized, err.Error()
	case errors.Is(err, apperrors.ErrUnauthorized):
		status, message = http.StatusForbidden, err.Error()
	case errors.Is(err, apperrors.ErrInvalidArgument):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, apperrors.ErrInsufficientBalance):
		status, message = http.StatusBadRequest, "Insufficient balance"
	case errors.Is(err, apperrors.ErrConflict):
		status, message = http.StatusConflict, err.Error()
	case errors.Is(err, apperrors.ErrNoActiveDraw):
		status, message = http.StatusConflict, "No active draw"
	}

	c.JSON(status, gin.H{"success": false, "message": message})
}

// respondBadRequest reports a binding/validation failure.
func respondBadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
}
