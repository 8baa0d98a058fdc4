package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/rosterdocs/internal/model"
	"github.com/stemsi/rosterdocs/internal/response"
	"github.com/stemsi/rosterdocs/internal/validator"
)

type settingService interface {
	Document(ctx context.Context) (model.DocumentSettings, error)
	UpdateDocument(ctx context.Context, ds model.DocumentSettings) error
}

type SettingHandler struct {
	settings settingService
	log      zerolog.Logger
}

func NewSettingHandler(settings settingService, log zerolog.Logger) *SettingHandler {
	return &SettingHandler{
		settings: settings,
		log:      log.With().Str("component", "setting_handler").Logger(),
	}
}

// GetSettings godoc
// GET /api/v1/settings
func (h *SettingHandler) GetSettings(c *gin.Context) {
	ds, err := h.settings.Document(c.Request.Context())
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"settings": ds})
}

// UpdateSettings godoc
// PUT /api/v1/settings
func (h *SettingHandler) UpdateSettings(c *gin.Context) {
	var req model.DocumentSettings
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.settings.UpdateDocument(c.Request.Context(), req); err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"settings": req})
}
