package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/teerapatzza/travel-claim/internal/domain/entity"
)

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, entity.ErrSessionNotFound),
		errors.Is(err, entity.ErrPlaceNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrInvalidCoordinate),
		errors.Is(err, entity.ErrUnknownVehicleType),
		errors.Is(err, entity.ErrUnknownPointRole),
		errors.Is(err, entity.ErrNotAnImage),
		errors.Is(err, entity.ErrUnsupportedDocument):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrReceiptTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, entity.ErrClaimExported),
		errors.Is(err, entity.ErrClaimChanged):
		return http.StatusConflict
	case errors.Is(err, entity.ErrClaimIncomplete):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// writeError logs err and writes the error envelope. Server errors get a
// generic message; client errors carry the error text.
func (h *Handlers) writeError(c *gin.Context, msg string, err error) {
	status := statusFor(err)

	h.logger.Error(msg,
		"error", err,
		"status", status,
		"path", c.Request.URL.Path,
		"request_id", c.GetString(requestIDKey),
	)

	text := err.Error()
	if status == http.StatusInternalServerError {
		text = msg
	}

	c.JSON(status, Response{
		Success: false,
		Error:   text,
	})
}

// badRequest writes a 400 for malformed input
func (h *Handlers) badRequest(c *gin.Context, msg string, err error) {
	h.logger.Error(msg, "error", err, "path", c.Request.URL.Path)
	c.JSON(http.StatusBadRequest, Response{
		Success: false,
		Error:   msg + ": " + err.Error(),
	})
}
