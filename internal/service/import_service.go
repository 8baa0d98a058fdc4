package service

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/rosterdocs/internal/model"
	"github.com/stemsi/rosterdocs/internal/roster"
	"github.com/stemsi/rosterdocs/internal/workbook"
)

// ImportStore persists imports and their mutable state.
type ImportStore interface {
	Create(ctx context.Context, imp *model.Import) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Import, error)
	List(ctx context.Context, limit, offset int) ([]model.ImportSummary, int, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetCurrentGroup(ctx context.Context, id uuid.UUID, index int) error
	SetSelectedPages(ctx context.Context, id uuid.UUID, pages model.SelectedPages) error
	SetRemarkStatus(ctx context.Context, id uuid.UUID, status model.RemarkStatus) error
	ToggleExempt(ctx context.Context, id uuid.UUID, group, studentID int) (bool, error)
	ReplaceRemarks(ctx context.Context, id uuid.UUID, group int, remarks map[int]string) error
}

// ImportService turns uploaded workbooks into persisted imports and manages
// their working state.
type ImportService struct {
	store     ImportStore
	extractor *roster.Extractor
	maxBytes  int64
	log       zerolog.Logger
}

func NewImportService(store ImportStore, extractor *roster.Extractor, maxBytes int64, log zerolog.Logger) *ImportService {
	return &ImportService{
		store:     store,
		extractor: extractor,
		maxBytes:  maxBytes,
		log:       log.With().Str("component", "import_service").Logger(),
	}
}

// Import decodes, extracts and stores one uploaded workbook.
func (s *ImportService) Import(ctx context.Context, fileName string, size int64, r io.Reader) (*model.Import, error) {
	if err := workbook.CheckFileName(fileName); err != nil {
		return nil, err
	}
	if s.maxBytes > 0 && size > s.maxBytes {
		return nil, ErrFileTooLarge
	}

	sheets, err := workbook.Decode(r)
	if err != nil {
		return nil, err
	}

	groups, err := s.extractor.ExtractSheets(sheets)
	if err != nil {
		return nil, err
	}

	imp := &model.Import{
		ID:            uuid.New(),
		FileName:      fileName,
		SelectedPages: model.DefaultSelectedPages(),
		RemarkStatus:  model.RemarkIdle,
		Groups:        groups,
	}
	if err := s.store.Create(ctx, imp); err != nil {
		return nil, fmt.Errorf("store import: %w", err)
	}

	s.log.Info().
		Str("import_id", imp.ID.String()).
		Str("file", fileName).
		Int("sheets", len(sheets)).
		Int("groups", len(groups)).
		Msg("Workbook imported")
	return imp, nil
}

func (s *ImportService) Get(ctx context.Context, id uuid.UUID) (*model.Import, error) {
	imp, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, importErr(err)
	}
	return imp, nil
}

// List returns one page of recent imports and the total count.
func (s *ImportService) List(ctx context.Context, page, perPage int) ([]model.ImportSummary, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}
	summaries, total, err := s.store.List(ctx, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, err
	}
	if summaries == nil {
		summaries = []model.ImportSummary{}
	}
	return summaries, total, nil
}

func (s *ImportService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return importErr(err)
	}
	s.log.Info().Str("import_id", id.String()).Msg("Import cleared")
	return nil
}

// SelectGroup makes the group at index the active one.
func (s *ImportService) SelectGroup(ctx context.Context, id uuid.UUID, index int) (*model.Import, error) {
	imp, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(imp.Groups) {
		return nil, ErrGroupOutOfRange
	}
	if err := s.store.SetCurrentGroup(ctx, id, index); err != nil {
		return nil, importErr(err)
	}
	imp.CurrentGroupIndex = index
	return imp, nil
}

func (s *ImportService) SetPages(ctx context.Context, id uuid.UUID, pages model.SelectedPages) (*model.Import, error) {
	imp, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.store.SetSelectedPages(ctx, id, pages); err != nil {
		return nil, importErr(err)
	}
	imp.SelectedPages = pages
	return imp, nil
}

// ToggleExempt flips one student's exempt flag and returns the new value.
func (s *ImportService) ToggleExempt(ctx context.Context, id uuid.UUID, group, studentID int) (bool, error) {
	imp, err := s.Get(ctx, id)
	if err != nil {
		return false, err
	}
	if group < 0 || group >= len(imp.Groups) {
		return false, ErrGroupOutOfRange
	}
	if _, ok := imp.Groups[group].Student(studentID); !ok {
		return false, ErrStudentNotFound
	}

	exempt, err := s.store.ToggleExempt(ctx, id, group, studentID)
	if err != nil {
		return false, importErr(err)
	}
	return exempt, nil
}
