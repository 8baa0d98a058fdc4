package model

import (
	"time"

	"github.com/google/uuid"
)

// RemarkStatus tracks the background remark run of an import.
type RemarkStatus string

const (
	RemarkIdle    RemarkStatus = "idle"
	RemarkQueued  RemarkStatus = "queued"
	RemarkRunning RemarkStatus = "running"
	RemarkDone    RemarkStatus = "done"
	RemarkFailed  RemarkStatus = "failed"
)

// InFlight reports whether a remark run is queued or running.
func (s RemarkStatus) InFlight() bool {
	return s == RemarkQueued || s == RemarkRunning
}

// Page identifies one printable document.
type Page string

const (
	PageSeparator   Page = "separator"
	PageDiagnostic  Page = "diagnostic"
	PageSummative   Page = "summative"
	PagePerformance Page = "performance"
	PageAttendance  Page = "attendance"
)

// SelectedPages records which documents go into the printable workbook.
type SelectedPages struct {
	Diagnostic  bool `json:"diagnostic"`
	Summative   bool `json:"summative"`
	Performance bool `json:"performance"`
	Attendance  bool `json:"attendance"`
	Separator   bool `json:"separator"`
}

// DefaultSelectedPages is the selection a fresh import starts with.
func DefaultSelectedPages() SelectedPages {
	return SelectedPages{
		Diagnostic:  true,
		Summative:   true,
		Performance: true,
		Attendance:  true,
	}
}

// Ordered returns the selected pages in print order.
func (p SelectedPages) Ordered() []Page {
	var pages []Page
	if p.Separator {
		pages = append(pages, PageSeparator)
	}
	if p.Diagnostic {
		pages = append(pages, PageDiagnostic)
	}
	if p.Summative {
		pages = append(pages, PageSummative)
	}
	if p.Performance {
		pages = append(pages, PagePerformance)
	}
	if p.Attendance {
		pages = append(pages, PageAttendance)
	}
	return pages
}

// Import is the working state of one uploaded workbook.
type Import struct {
	ID                uuid.UUID     `json:"id"`
	FileName          string        `json:"file_name"`
	CurrentGroupIndex int           `json:"current_group_index"`
	SelectedPages     SelectedPages `json:"selected_pages"`
	RemarkStatus      RemarkStatus  `json:"remark_status"`
	Groups            []Group       `json:"groups"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

// ActiveGroup returns the currently selected group, or nil when the import is empty.
func (i *Import) ActiveGroup() *Group {
	if i.CurrentGroupIndex < 0 || i.CurrentGroupIndex >= len(i.Groups) {
		return nil
	}
	return &i.Groups[i.CurrentGroupIndex]
}

// ImportSummary is a list row for recent imports.
type ImportSummary struct {
	ID         uuid.UUID `json:"id"`
	FileName   string    `json:"file_name"`
	GroupCount int       `json:"group_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// SelectGroupRequest is the payload for switching the active group.
type SelectGroupRequest struct {
	Index *int `json:"index" binding:"required,min=0"`
}

// GenerateRemarksRequest is the payload for starting a remark run.
type GenerateRemarksRequest struct {
	Performance string `json:"performance" binding:"omitempty,max=40"`
}

// RemarkJob is one queued remark run for a group of an import.
type RemarkJob struct {
	ImportID    uuid.UUID `json:"import_id"`
	GroupIndex  int       `json:"group_index"`
	Performance string    `json:"performance"`
	RequestedAt time.Time `json:"requested_at"`
}
