package handlers

import (
	"net/http"

	"coursemarket/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrAuthentication),
		errors.Is(err, domain.ErrInvalidRating),
		errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNotEnrolled):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrTransientProvider):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError hides internal error text behind a generic message for 5xx responses.
func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	message := err.Error()
	switch status {
	case http.StatusInternalServerError:
		message = "internal error"
	case http.StatusBadGateway:
		message = "payment provider unavailable, try again later"
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"success": false, "message": message})
}
