package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/rosterdocs/internal/curriculum"
	"github.com/stemsi/rosterdocs/internal/model"
	"github.com/stemsi/rosterdocs/internal/render"
)

// ContentTypeXLSX is the media type of rendered documents.
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type importReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Import, error)
}

type documentSettings interface {
	Document(ctx context.Context) (model.DocumentSettings, error)
}

// DocumentService renders the printable workbook of an import's active group.
type DocumentService struct {
	imports  importReader
	catalog  *curriculum.Catalog
	settings documentSettings
	log      zerolog.Logger
}

func NewDocumentService(imports importReader, catalog *curriculum.Catalog, settings documentSettings, log zerolog.Logger) *DocumentService {
	return &DocumentService{
		imports:  imports,
		catalog:  catalog,
		settings: settings,
		log:      log.With().Str("component", "document_service").Logger(),
	}
}

// Render returns the download file name and workbook bytes for the selected
// pages of the active group.
func (s *DocumentService) Render(ctx context.Context, id uuid.UUID) (string, []byte, error) {
	imp, err := s.imports.GetByID(ctx, id)
	if err != nil {
		return "", nil, importErr(err)
	}
	g := imp.ActiveGroup()
	if g == nil {
		return "", nil, ErrGroupOutOfRange
	}
	pages := imp.SelectedPages.Ordered()
	if len(pages) == 0 {
		return "", nil, ErrNoPagesSelected
	}

	settings, err := s.settings.Document(ctx)
	if err != nil {
		return "", nil, fmt.Errorf("load document settings: %w", err)
	}

	data, err := render.Render(render.Document{
		Group:      *g,
		Curriculum: s.catalog.Lookup(g.Level, g.Term),
		Settings:   settings,
		Pages:      pages,
	})
	if err != nil {
		if errors.Is(err, render.ErrNoPages) {
			return "", nil, ErrNoPagesSelected
		}
		return "", nil, fmt.Errorf("render documents: %w", err)
	}

	s.log.Info().
		Str("import_id", id.String()).
		Str("sheet", g.SheetName).
		Int("pages", len(pages)).
		Int("bytes", len(data)).
		Msg("Documents rendered")
	return DocumentFileName(g), data, nil
}

// CurriculumFor returns the curriculum entry shown for a level and term.
func (s *DocumentService) CurriculumFor(level model.Level, term model.Term) model.Curriculum {
	return s.catalog.Lookup(level, term)
}

var fileNameUnsafe = strings.NewReplacer("/", "-", "\\", "-", ":", "-", "*", "", "?", "", "\"", "", "<", "", ">", "", "|", "")

// DocumentFileName names the downloaded workbook after the group.
func DocumentFileName(g *model.Group) string {
	name := strings.Join([]string{g.Section, string(g.Term), g.AcademicYear}, " - ")
	return fileNameUnsafe.Replace(name) + ".xlsx"
}
