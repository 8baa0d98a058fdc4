package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/rosterdocs/internal/response"
	"github.com/stemsi/rosterdocs/internal/roster"
	"github.com/stemsi/rosterdocs/internal/service"
	"github.com/stemsi/rosterdocs/internal/workbook"
)

// ─── Service error mapping ──────────────────────────────────────────

var errorCodes = []struct {
	err    error
	status int
	code   response.ErrCode
}{
	{service.ErrImportNotFound, http.StatusNotFound, response.ErrImportNotFound},
	{service.ErrGroupOutOfRange, http.StatusNotFound, response.ErrGroupOutOfRange},
	{service.ErrStudentNotFound, http.StatusNotFound, response.ErrStudentNotFound},
	{service.ErrFileTooLarge, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge},
	{service.ErrNoPagesSelected, http.StatusUnprocessableEntity, response.ErrNoPagesSelected},
	{service.ErrRemarksUnavailable, http.StatusServiceUnavailable, response.ErrRemarksUnavailable},
	{service.ErrRemarksRunning, http.StatusConflict, response.ErrRemarksRunning},
	{workbook.ErrUnsupportedFile, http.StatusUnsupportedMediaType, response.ErrUnsupportedFile},
	{roster.ErrNoStudentData, http.StatusUnprocessableEntity, response.ErrNoStudentData},
}

// failService writes the response for err, falling back to a logged 500.
func failService(c *gin.Context, log zerolog.Logger, err error) {
	for _, e := range errorCodes {
		if errors.Is(err, e.err) {
			response.Fail(c, e.status, e.code)
			return
		}
	}
	log.Error().Err(err).Str("path", c.FullPath()).Msg("Request failed")
	response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
}
