package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stemsi/rosterdocs/internal/model"
	"github.com/stemsi/rosterdocs/internal/repository"
	ws "github.com/stemsi/rosterdocs/internal/websocket"
)

// memStore is an in-memory ImportStore.
type memStore struct {
	mu       sync.Mutex
	imports  map[uuid.UUID]*model.Import
	statuses []model.RemarkStatus
	failOn   string
}

func newMemStore() *memStore {
	return &memStore{imports: make(map[uuid.UUID]*model.Import)}
}

var errStore = errors.New("store failure")

func (m *memStore) fail(op string) error {
	if m.failOn == op {
		return errStore
	}
	return nil
}

func (m *memStore) get(id uuid.UUID) (*model.Import, error) {
	imp, ok := m.imports[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return imp, nil
}

func (m *memStore) Create(_ context.Context, imp *model.Import) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("create"); err != nil {
		return err
	}
	m.imports[imp.ID] = clone(imp)
	return nil
}

func (m *memStore) GetByID(_ context.Context, id uuid.UUID) (*model.Import, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	imp, err := m.get(id)
	if err != nil {
		return nil, err
	}
	return clone(imp), nil
}

func (m *memStore) List(_ context.Context, limit, offset int) ([]model.ImportSummary, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []model.ImportSummary
	for _, imp := range m.imports {
		all = append(all, model.ImportSummary{ID: imp.ID, FileName: imp.FileName, GroupCount: len(imp.Groups), CreatedAt: imp.CreatedAt})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].FileName < all[j].FileName })
	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (m *memStore) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.get(id); err != nil {
		return err
	}
	delete(m.imports, id)
	return nil
}

func (m *memStore) SetCurrentGroup(_ context.Context, id uuid.UUID, index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	imp, err := m.get(id)
	if err != nil {
		return err
	}
	imp.CurrentGroupIndex = index
	return nil
}

func (m *memStore) SetSelectedPages(_ context.Context, id uuid.UUID, pages model.SelectedPages) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	imp, err := m.get(id)
	if err != nil {
		return err
	}
	imp.SelectedPages = pages
	return nil
}

func (m *memStore) SetRemarkStatus(_ context.Context, id uuid.UUID, status model.RemarkStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	imp, err := m.get(id)
	if err != nil {
		return err
	}
	imp.RemarkStatus = status
	m.statuses = append(m.statuses, status)
	return nil
}

func (m *memStore) ToggleExempt(_ context.Context, id uuid.UUID, group, studentID int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	imp, err := m.get(id)
	if err != nil {
		return false, err
	}
	s, ok := imp.Groups[group].Student(studentID)
	if !ok {
		return false, repository.ErrNotFound
	}
	s.IsExempt = !s.IsExempt
	return s.IsExempt, nil
}

func (m *memStore) ReplaceRemarks(_ context.Context, id uuid.UUID, group int, remarks map[int]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("remarks"); err != nil {
		return err
	}
	imp, err := m.get(id)
	if err != nil {
		return err
	}
	imp.Groups[group].Remarks = remarks
	return nil
}

func (m *memStore) status(id uuid.UUID) model.RemarkStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.imports[id].RemarkStatus
}

func clone(imp *model.Import) *model.Import {
	c := *imp
	c.Groups = make([]model.Group, len(imp.Groups))
	for i, g := range imp.Groups {
		g.Students = append([]model.Student(nil), g.Students...)
		if g.Remarks != nil {
			remarks := make(map[int]string, len(g.Remarks))
			for k, v := range g.Remarks {
				remarks[k] = v
			}
			g.Remarks = remarks
		}
		c.Groups[i] = g
	}
	return &c
}

type fakeQueue struct {
	jobs     []model.RemarkJob
	held     map[uuid.UUID]bool
	released []uuid.UUID
	pushErr  error
	// onPush runs a pushed job right away, like an idle worker would.
	onPush func(model.RemarkJob)
}

func newFakeQueue() *fakeQueue {
	return &fakeQueue{held: make(map[uuid.UUID]bool)}
}

func (q *fakeQueue) Reserve(_ context.Context, job model.RemarkJob) error {
	if q.held[job.ImportID] {
		return ErrRemarksRunning
	}
	q.held[job.ImportID] = true
	return nil
}

func (q *fakeQueue) Push(_ context.Context, job model.RemarkJob) error {
	if q.pushErr != nil {
		return q.pushErr
	}
	q.jobs = append(q.jobs, job)
	if q.onPush != nil {
		q.onPush(job)
	}
	return nil
}

func (q *fakeQueue) Release(_ context.Context, id uuid.UUID) error {
	delete(q.held, id)
	q.released = append(q.released, id)
	return nil
}

type fakeEvents struct {
	mu     sync.Mutex
	events []ws.RemarkEvent
}

func (p *fakeEvents) Publish(_ context.Context, ev ws.RemarkEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *fakeEvents) kinds() []ws.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	kinds := make([]ws.Event, len(p.events))
	for i, ev := range p.events {
		kinds[i] = ev.Event
	}
	return kinds
}

// echoModel answers every student with the performance label.
type echoModel struct {
	calls  int
	cancel func()
	after  int
}

func (m *echoModel) Remark(_ context.Context, _ model.Level, performance string) (string, error) {
	m.calls++
	if m.cancel != nil && m.calls == m.after {
		m.cancel()
	}
	return "أداء " + performance, nil
}

type fakeSettings struct {
	ds  model.DocumentSettings
	err error
}

func (f fakeSettings) Document(context.Context) (model.DocumentSettings, error) {
	return f.ds, f.err
}

type memSettingStore struct {
	values map[string]string
}

func (m *memSettingStore) GetAll(context.Context) ([]model.AppSetting, error) {
	var out []model.AppSetting
	for k, v := range m.values {
		out = append(out, model.AppSetting{Key: k, Value: v})
	}
	return out, nil
}

func (m *memSettingStore) UpsertMany(_ context.Context, values map[string]string) error {
	if m.values == nil {
		m.values = make(map[string]string)
	}
	for k, v := range values {
		m.values[k] = v
	}
	return nil
}

// seedImport stores an import with two groups and returns it.
func seedImport(t *testing.T, store *memStore) *model.Import {
	imp := &model.Import{
		ID:            uuid.New(),
		FileName:      "roster.xlsx",
		SelectedPages: model.DefaultSelectedPages(),
		RemarkStatus:  model.RemarkIdle,
		Groups: []model.Group{
			{
				SheetName: "أولى 1", SchoolName: "مدرسة الأمل", AcademicYear: "2024/2025",
				Term: model.TermFirst, Section: "أولى (أ)", Level: model.Level1,
				Students: []model.Student{{ID: 1, Name: "أحمد بن علي"}, {ID: 2, Name: "سارة قاسم", IsExempt: true}, {ID: 3, Name: "يوسف عمر"}},
			},
			{
				SheetName: "ثانية 2", SchoolName: "مدرسة الأمل", AcademicYear: "2024/2025",
				Term: model.TermSecond, Section: "ثانية (ب)", Level: model.Level2,
				Students: []model.Student{{ID: 1, Name: "ليلى حسن"}},
			},
		},
	}
	if err := store.Create(context.Background(), imp); err != nil {
		t.Fatalf("seed import: %v", err)
	}
	return imp
}
