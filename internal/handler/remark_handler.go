package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/rosterdocs/internal/model"
	"github.com/stemsi/rosterdocs/internal/response"
	"github.com/stemsi/rosterdocs/internal/validator"
)

type remarkService interface {
	Request(ctx context.Context, id uuid.UUID, performance string) (*model.RemarkJob, error)
}

type RemarkHandler struct {
	remarks remarkService
	log     zerolog.Logger
}

func NewRemarkHandler(remarks remarkService, log zerolog.Logger) *RemarkHandler {
	return &RemarkHandler{
		remarks: remarks,
		log:     log.With().Str("component", "remark_handler").Logger(),
	}
}

// Generate godoc
// POST /api/v1/imports/:id/remarks
// Queues a remark run for the active group; progress streams over the
// import's WebSocket.
func (h *RemarkHandler) Generate(c *gin.Context) {
	id, ok := importID(c)
	if !ok {
		return
	}

	var req model.GenerateRemarksRequest
	if c.Request.ContentLength != 0 {
		if fields := validator.Bind(c, &req); fields != nil {
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
			return
		}
	}

	job, err := h.remarks.Request(c.Request.Context(), id, req.Performance)
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusAccepted, gin.H{"job": job})
}
