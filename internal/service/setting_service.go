package service

import (
	"context"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/stemsi/rosterdocs/internal/model"
)

// SettingStore persists key-value application settings.
type SettingStore interface {
	GetAll(ctx context.Context) ([]model.AppSetting, error)
	UpsertMany(ctx context.Context, values map[string]string) error
}

type SettingService struct {
	store    SettingStore
	defaults model.DocumentSettings
	log      zerolog.Logger
}

// NewSettingService creates a SettingService. defaults apply to every key
// that has not been saved yet.
func NewSettingService(store SettingStore, defaults model.DocumentSettings, log zerolog.Logger) *SettingService {
	return &SettingService{
		store:    store,
		defaults: defaults,
		log:      log.With().Str("component", "setting_service").Logger(),
	}
}

func (s *SettingService) GetAllSettings(ctx context.Context) (map[string]string, error) {
	settingsList, err := s.store.GetAll(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to get all settings")
		return nil, err
	}

	settingsMap := make(map[string]string, len(settingsList))
	for _, setting := range settingsList {
		settingsMap[setting.Key] = setting.Value
	}
	return settingsMap, nil
}

// Document returns the document settings with stored values laid over the
// configured defaults.
func (s *SettingService) Document(ctx context.Context) (model.DocumentSettings, error) {
	stored, err := s.GetAllSettings(ctx)
	if err != nil {
		return model.DocumentSettings{}, err
	}

	ds := s.defaults
	if v, ok := stored[model.SettingTeacherName]; ok {
		ds.TeacherName = v
	}
	if v, ok := stored[model.SettingSubjectName]; ok && v != "" {
		ds.SubjectName = v
	}
	s.margin(stored, model.SettingMarginTop, &ds.Margins.Top)
	s.margin(stored, model.SettingMarginBottom, &ds.Margins.Bottom)
	s.margin(stored, model.SettingMarginLeft, &ds.Margins.Left)
	s.margin(stored, model.SettingMarginRight, &ds.Margins.Right)
	return ds, nil
}

// UpdateDocument stores all document settings at once.
func (s *SettingService) UpdateDocument(ctx context.Context, ds model.DocumentSettings) error {
	values := map[string]string{
		model.SettingTeacherName:  ds.TeacherName,
		model.SettingSubjectName:  ds.SubjectName,
		model.SettingMarginTop:    formatMM(ds.Margins.Top),
		model.SettingMarginBottom: formatMM(ds.Margins.Bottom),
		model.SettingMarginLeft:   formatMM(ds.Margins.Left),
		model.SettingMarginRight:  formatMM(ds.Margins.Right),
	}
	if err := s.store.UpsertMany(ctx, values); err != nil {
		s.log.Error().Err(err).Msg("failed to update document settings")
		return err
	}
	return nil
}

func (s *SettingService) margin(stored map[string]string, key string, dst *float64) {
	raw, ok := stored[key]
	if !ok {
		return
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		s.log.Warn().Str("key", key).Str("value", raw).Msg("Ignoring invalid stored margin")
		return
	}
	*dst = v
}

func formatMM(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
