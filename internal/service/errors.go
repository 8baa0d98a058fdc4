package service

import (
	"errors"

	"github.com/stemsi/rosterdocs/internal/repository"
)

var (
	ErrImportNotFound     = errors.New("import not found")
	ErrGroupOutOfRange    = errors.New("group index out of range")
	ErrStudentNotFound    = errors.New("student not found in group")
	ErrFileTooLarge       = errors.New("uploaded file exceeds the size limit")
	ErrNoPagesSelected    = errors.New("no pages selected for printing")
	ErrRemarksUnavailable = errors.New("remark generation is not configured")
	ErrRemarksRunning     = errors.New("a remark run is already queued for this import")
)

// importErr maps repository misses to the import sentinel.
func importErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrImportNotFound
	}
	return err
}
