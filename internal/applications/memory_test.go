package applications_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/applytrack/internal/applications"
)

// memoryRepo is an in-memory Repository with the same visibility and
// version rules as the SQL one. Each mutation serializes on mu the way a
// row lock serializes concurrent UPDATEs.
type memoryRepo struct {
	mu      sync.Mutex
	records map[uuid.UUID]*memoryRecord
	order   []uuid.UUID
	now     time.Time
	err     error
}

type memoryRecord struct {
	app    applications.Application
	active bool
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		records: make(map[uuid.UUID]*memoryRecord),
		now:     time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

// tick advances the clock so successive mutations get distinct timestamps.
func (m *memoryRepo) tick() time.Time {
	m.now = m.now.Add(time.Millisecond)
	return m.now
}

func (m *memoryRepo) lookup(id string) (*memoryRecord, bool) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, false
	}
	rec, ok := m.records[uid]
	if !ok || !rec.active {
		return nil, false
	}
	return rec, true
}

func (m *memoryRepo) ListActiveByPhone(_ context.Context, phone string) ([]applications.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}

	apps := make([]applications.Application, 0)
	for _, id := range m.order {
		rec := m.records[id]
		if rec.active && rec.app.PhoneNumber == phone {
			apps = append(apps, rec.app)
		}
	}
	return apps, nil
}

func (m *memoryRepo) Create(_ context.Context, f applications.Fields) (*applications.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}

	now := m.tick()
	a := applications.Application{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
	merge(&a, f)

	m.records[a.ID] = &memoryRecord{app: a, active: true}
	m.order = append(m.order, a.ID)
	return &a, nil
}

func (m *memoryRepo) FindActive(_ context.Context, id string) (*applications.Application, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, false, m.err
	}

	rec, ok := m.lookup(id)
	if !ok {
		return nil, false, nil
	}
	a := rec.app
	return &a, true, nil
}

func (m *memoryRepo) Update(_ context.Context, id string, f applications.Fields) (*applications.Application, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, false, m.err
	}

	rec, ok := m.lookup(id)
	if !ok || f.Empty() {
		return nil, false, nil
	}

	merge(&rec.app, f)
	rec.app.UpdatedAt = m.tick()
	rec.app.Version++

	a := rec.app
	return &a, true, nil
}

func (m *memoryRepo) Deactivate(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}

	rec, ok := m.lookup(id)
	if !ok {
		return false, nil
	}

	rec.active = false
	rec.app.UpdatedAt = m.tick()
	rec.app.Version++
	return true, nil
}

// version returns the stored version regardless of the active flag.
func (m *memoryRepo) version(id string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.records[uuid.MustParse(id)].app.Version
}

func merge(a *applications.Application, f applications.Fields) {
	if f.Company != nil {
		a.Company = *f.Company
	}
	if f.Role != nil {
		a.Role = *f.Role
	}
	if f.Salary != nil {
		a.Salary = f.Salary
	}
	if f.Platform != nil {
		a.Platform = *f.Platform
	}
	if f.Status != nil {
		a.Status = *f.Status
	}
	if f.Contact != nil {
		a.Contact = f.Contact
	}
	if f.JobURL != nil {
		a.JobURL = *f.JobURL
	}
	if f.PhoneNumber != nil {
		a.PhoneNumber = *f.PhoneNumber
	}
	if f.Interview != nil {
		a.Interview = f.Interview
	}
	if f.Feedback != nil {
		a.Feedback = f.Feedback
	}
}
