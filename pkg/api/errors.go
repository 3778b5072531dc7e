package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/inonelg/housecheck/pkg/imagesource"
	"github.com/inonelg/housecheck/pkg/pipeline"
)

// respondError maps err to an HTTP status per the propagation policy:
// invalid input and an out-of-range simulation root are 400, a missing
// simulation directory is 404, everything else is a 500 with a short
// diagnostic. No partial result is ever returned alongside an error.
func respondError(c *gin.Context, err error) {
	status, message := classifyError(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "error", err, "path", c.FullPath())
	}
	c.JSON(status, errorResponse{Error: message})
}

func classifyError(err error) (int, string) {
	var validation *pipeline.ValidationError
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest, validation.Error()
	case errors.Is(err, pipeline.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, imagesource.ErrPathTraversal):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, imagesource.ErrSimulationNotFound),
		errors.Is(err, imagesource.ErrNoRoomDirectories),
		errors.Is(err, imagesource.ErrNoRoomsWithImages):
		return http.StatusNotFound, err.Error()
	default:
		return http.StatusInternalServerError, "internal error"
	}
}
