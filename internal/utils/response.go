package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Error writes a JSON error response in the API wire format.
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"error": message})
}

// HandleError maps a service error to its HTTP status and writes the
// response. Unrecognized errors are logged and reported as a generic 500 so
// internal details never leak to the caller.
func HandleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidAadhaar),
		errors.Is(err, ErrDuplicateAadhaar),
		errors.Is(err, ErrDuplicateEmail),
		errors.Is(err, ErrInvalidRole),
		errors.Is(err, ErrMissingFields),
		errors.Is(err, ErrInsufficientQuantity):
		Error(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrInvalidToken), errors.Is(err, ErrInvalidCredentials):
		Error(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrRoleCannotSell), errors.Is(err, ErrFarmerCannotPurchase):
		Error(c, http.StatusForbidden, err.Error())
	case errors.Is(err, ErrProfileNotFound), errors.Is(err, ErrProductNotFound):
		Error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrProductUnavailable), errors.Is(err, ErrVersionConflict):
		Error(c, http.StatusConflict, err.Error())
	default:
		log.Error().Err(err).
			Str("request_id", c.GetString("request_id")).
			Str("path", c.Request.URL.Path).
			Msg("internal error")
		Error(c, http.StatusInternalServerError, "internal server error")
	}
}
