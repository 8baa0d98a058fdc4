package handler

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/rosterdocs/internal/model"
	"github.com/stemsi/rosterdocs/internal/response"
	"github.com/stemsi/rosterdocs/internal/validator"
)

type importService interface {
	Import(ctx context.Context, fileName string, size int64, r io.Reader) (*model.Import, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Import, error)
	List(ctx context.Context, page, perPage int) ([]model.ImportSummary, int, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SelectGroup(ctx context.Context, id uuid.UUID, index int) (*model.Import, error)
	SetPages(ctx context.Context, id uuid.UUID, pages model.SelectedPages) (*model.Import, error)
	ToggleExempt(ctx context.Context, id uuid.UUID, group, studentID int) (bool, error)
}

// ImportHandler handles workbook uploads and import state.
type ImportHandler struct {
	imports importService
	log     zerolog.Logger
}

func NewImportHandler(imports importService, log zerolog.Logger) *ImportHandler {
	return &ImportHandler{
		imports: imports,
		log:     log.With().Str("component", "import_handler").Logger(),
	}
}

// Upload godoc
// POST /api/v1/imports
func (h *ImportHandler) Upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}

	f, err := fh.Open()
	if err != nil {
		failService(c, h.log, err)
		return
	}
	defer f.Close()

	imp, err := h.imports.Import(c.Request.Context(), fh.Filename, fh.Size, f)
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"import": imp})
}

// List godoc
// GET /api/v1/imports?page=1&per_page=20
func (h *ImportHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	summaries, total, err := h.imports.List(c.Request.Context(), page, perPage)
	if err != nil {
		failService(c, h.log, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, summaries, &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: (total + perPage - 1) / perPage,
	})
}

// Get godoc
// GET /api/v1/imports/:id
func (h *ImportHandler) Get(c *gin.Context) {
	id, ok := importID(c)
	if !ok {
		return
	}
	imp, err := h.imports.Get(c.Request.Context(), id)
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"import": imp})
}

// Delete godoc
// DELETE /api/v1/imports/:id
func (h *ImportHandler) Delete(c *gin.Context) {
	id, ok := importID(c)
	if !ok {
		return
	}
	if err := h.imports.Delete(c.Request.Context(), id); err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "import cleared"})
}

// SelectGroup godoc
// PUT /api/v1/imports/:id/current-group
func (h *ImportHandler) SelectGroup(c *gin.Context) {
	id, ok := importID(c)
	if !ok {
		return
	}
	var req model.SelectGroupRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	imp, err := h.imports.SelectGroup(c.Request.Context(), id, *req.Index)
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"import": imp})
}

// SetPages godoc
// PUT /api/v1/imports/:id/pages
func (h *ImportHandler) SetPages(c *gin.Context) {
	id, ok := importID(c)
	if !ok {
		return
	}
	var req model.SelectedPages
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	imp, err := h.imports.SetPages(c.Request.Context(), id, req)
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"import": imp})
}

// ToggleExempt godoc
// POST /api/v1/imports/:id/groups/:group/students/:student/exempt
func (h *ImportHandler) ToggleExempt(c *gin.Context) {
	id, ok := importID(c)
	if !ok {
		return
	}
	group, err := strconv.Atoi(c.Param("group"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}
	student, err := strconv.Atoi(c.Param("student"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	exempt, err := h.imports.ToggleExempt(c.Request.Context(), id, group, student)
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"student_id": student, "is_exempt": exempt})
}

// importID parses the :id path parameter, writing a 400 when it is malformed.
func importID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return uuid.Nil, false
	}
	return id, true
}
