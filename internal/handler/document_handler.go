package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/rosterdocs/internal/model"
	"github.com/stemsi/rosterdocs/internal/response"
	"github.com/stemsi/rosterdocs/internal/service"
	"github.com/stemsi/rosterdocs/internal/validator"
)

type documentService interface {
	Render(ctx context.Context, id uuid.UUID) (string, []byte, error)
	CurriculumFor(level model.Level, term model.Term) model.Curriculum
}

type DocumentHandler struct {
	docs documentService
	log  zerolog.Logger
}

func NewDocumentHandler(docs documentService, log zerolog.Logger) *DocumentHandler {
	return &DocumentHandler{
		docs: docs,
		log:  log.With().Str("component", "document_handler").Logger(),
	}
}

// Download godoc
// GET /api/v1/imports/:id/documents
func (h *DocumentHandler) Download(c *gin.Context) {
	id, ok := importID(c)
	if !ok {
		return
	}

	fileName, data, err := h.docs.Render(c.Request.Context(), id)
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Attachment(c, fileName, service.ContentTypeXLSX, data)
}

// Curriculum godoc
// GET /api/v1/curriculum/:level/:term
func (h *DocumentHandler) Curriculum(c *gin.Context) {
	var params model.CurriculumParams
	if fields := validator.BindURI(c, &params); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	cur := h.docs.CurriculumFor(model.Level(params.Level), model.Term(params.Term))
	response.Success(c, http.StatusOK, gin.H{"curriculum": cur})
}
