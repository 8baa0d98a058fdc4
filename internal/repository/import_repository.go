package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/rosterdocs/internal/model"
)

// ImportRepository handles import, group and student data access.
type ImportRepository struct {
	pool *pgxpool.Pool
}

// NewImportRepository creates a new ImportRepository.
func NewImportRepository(pool *pgxpool.Pool) *ImportRepository {
	return &ImportRepository{pool: pool}
}

// Create stores an import with all its groups and students in one transaction.
func (r *ImportRepository) Create(ctx context.Context, imp *model.Import) error {
	pages, err := json.Marshal(imp.SelectedPages)
	if err != nil {
		return fmt.Errorf("marshal selected pages: %w", err)
	}

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO imports (id, file_name, current_group_index, selected_pages, remark_status)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING created_at, updated_at`,
			imp.ID, imp.FileName, imp.CurrentGroupIndex, pages, imp.RemarkStatus,
		).Scan(&imp.CreatedAt, &imp.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert import: %w", err)
		}

		batch := &pgx.Batch{}
		for pos, g := range imp.Groups {
			batch.Queue(
				`INSERT INTO roster_groups (import_id, position, sheet_name, school_name, academic_year, term, section, level)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
				imp.ID, pos, g.SheetName, g.SchoolName, g.AcademicYear, g.Term, g.Section, g.Level,
			)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert groups: %w", err)
		}

		var rows [][]interface{}
		for pos, g := range imp.Groups {
			for _, s := range g.Students {
				var remark *string
				if text, ok := g.Remarks[s.ID]; ok {
					remark = &text
				}
				rows = append(rows, []interface{}{imp.ID, pos, s.ID, s.Name, s.IsExempt, remark})
			}
		}
		_, err = tx.CopyFrom(ctx,
			pgx.Identifier{"roster_students"},
			[]string{"import_id", "group_position", "student_id", "name", "is_exempt", "remark"},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return fmt.Errorf("copy students: %w", err)
		}
		return nil
	})
}

// GetByID loads a full import: state, groups in order, students and remarks.
func (r *ImportRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Import, error) {
	imp := &model.Import{}
	var pages []byte
	err := r.pool.QueryRow(ctx,
		`SELECT id, file_name, current_group_index, selected_pages, remark_status, created_at, updated_at
		 FROM imports WHERE id = $1`, id,
	).Scan(&imp.ID, &imp.FileName, &imp.CurrentGroupIndex, &pages, &imp.RemarkStatus, &imp.CreatedAt, &imp.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	if err := json.Unmarshal(pages, &imp.SelectedPages); err != nil {
		return nil, fmt.Errorf("unmarshal selected pages: %w", err)
	}

	groupRows, err := r.pool.Query(ctx,
		`SELECT sheet_name, school_name, academic_year, term, section, level
		 FROM roster_groups WHERE import_id = $1 ORDER BY position ASC`, id)
	if err != nil {
		return nil, err
	}
	defer groupRows.Close()

	for groupRows.Next() {
		var g model.Group
		if err := groupRows.Scan(&g.SheetName, &g.SchoolName, &g.AcademicYear, &g.Term, &g.Section, &g.Level); err != nil {
			return nil, err
		}
		imp.Groups = append(imp.Groups, g)
	}
	if err := groupRows.Err(); err != nil {
		return nil, err
	}

	studentRows, err := r.pool.Query(ctx,
		`SELECT group_position, student_id, name, is_exempt, remark
		 FROM roster_students WHERE import_id = $1
		 ORDER BY group_position ASC, student_id ASC`, id)
	if err != nil {
		return nil, err
	}
	defer studentRows.Close()

	for studentRows.Next() {
		var (
			pos    int
			s      model.Student
			remark *string
		)
		if err := studentRows.Scan(&pos, &s.ID, &s.Name, &s.IsExempt, &remark); err != nil {
			return nil, err
		}
		if pos < 0 || pos >= len(imp.Groups) {
			continue
		}
		g := &imp.Groups[pos]
		g.Students = append(g.Students, s)
		if remark != nil {
			if g.Remarks == nil {
				g.Remarks = make(map[int]string)
			}
			g.Remarks[s.ID] = *remark
		}
	}
	return imp, studentRows.Err()
}

// List returns import summaries, newest first, with the total count.
func (r *ImportRepository) List(ctx context.Context, limit, offset int) ([]model.ImportSummary, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM imports`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT i.id, i.file_name, i.created_at,
		        (SELECT COUNT(*) FROM roster_groups g WHERE g.import_id = i.id)
		 FROM imports i
		 ORDER BY i.created_at DESC
		 LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var summaries []model.ImportSummary
	for rows.Next() {
		var s model.ImportSummary
		if err := rows.Scan(&s.ID, &s.FileName, &s.CreatedAt, &s.GroupCount); err != nil {
			return nil, 0, err
		}
		summaries = append(summaries, s)
	}
	return summaries, total, rows.Err()
}

// Delete removes an import; groups and students cascade.
func (r *ImportRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM imports WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetCurrentGroup stores the active group index.
func (r *ImportRepository) SetCurrentGroup(ctx context.Context, id uuid.UUID, index int) error {
	return r.updateImport(ctx, `UPDATE imports SET current_group_index = $2, updated_at = NOW() WHERE id = $1`, id, index)
}

// SetSelectedPages stores the page selection.
func (r *ImportRepository) SetSelectedPages(ctx context.Context, id uuid.UUID, pages model.SelectedPages) error {
	raw, err := json.Marshal(pages)
	if err != nil {
		return fmt.Errorf("marshal selected pages: %w", err)
	}
	return r.updateImport(ctx, `UPDATE imports SET selected_pages = $2, updated_at = NOW() WHERE id = $1`, id, raw)
}

// SetRemarkStatus stores the state of the import's remark run.
func (r *ImportRepository) SetRemarkStatus(ctx context.Context, id uuid.UUID, status model.RemarkStatus) error {
	return r.updateImport(ctx, `UPDATE imports SET remark_status = $2, updated_at = NOW() WHERE id = $1`, id, status)
}

// ToggleExempt flips a student's exempt flag and returns the new value.
func (r *ImportRepository) ToggleExempt(ctx context.Context, id uuid.UUID, group, studentID int) (bool, error) {
	var exempt bool
	err := r.pool.QueryRow(ctx,
		`UPDATE roster_students SET is_exempt = NOT is_exempt
		 WHERE import_id = $1 AND group_position = $2 AND student_id = $3
		 RETURNING is_exempt`, id, group, studentID,
	).Scan(&exempt)
	if err != nil {
		return false, notFound(err)
	}
	return exempt, nil
}

// ReplaceRemarks clears a group's remarks and stores the new set.
func (r *ImportRepository) ReplaceRemarks(ctx context.Context, id uuid.UUID, group int, remarks map[int]string) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`UPDATE roster_students SET remark = NULL WHERE import_id = $1 AND group_position = $2`,
			id, group,
		); err != nil {
			return fmt.Errorf("clear remarks: %w", err)
		}

		batch := &pgx.Batch{}
		for studentID, text := range remarks {
			batch.Queue(
				`UPDATE roster_students SET remark = $4
				 WHERE import_id = $1 AND group_position = $2 AND student_id = $3`,
				id, group, studentID, text,
			)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("store remarks: %w", err)
		}

		_, err := tx.Exec(ctx, `UPDATE imports SET updated_at = NOW() WHERE id = $1`, id)
		return err
	})
}

func (r *ImportRepository) updateImport(ctx context.Context, query string, id uuid.UUID, value interface{}) error {
	tag, err := r.pool.Exec(ctx, query, id, value)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
