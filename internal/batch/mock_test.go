package batch

import (
	"context"
	"sync"

	"github.com/rotisserie/eris"

	"github.com/brady-data/crimegun-cli/internal/model"
	"github.com/brady-data/crimegun-cli/internal/store"
)

// mockStore is an in-memory Store for coordinator tests.
type mockStore struct {
	mu sync.Mutex

	records   []model.Record
	persisted map[int64]*model.LocationResult

	failPersist map[int64]bool // ids whose persist reports no row
	persistErr  error          // forced error for every persist

	fetchCalls   int
	persistCalls int
}

func newMockStore(records ...model.Record) *mockStore {
	return &mockStore{
		records:     records,
		persisted:   map[int64]*model.LocationResult{},
		failPersist: map[int64]bool{},
	}
}

func (m *mockStore) FetchUnclassified(_ context.Context, limit int) ([]model.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetchCalls++

	var out []model.Record
	for _, rec := range m.records {
		if _, done := m.persisted[rec.ID()]; done {
			continue
		}
		out = append(out, rec)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *mockStore) FetchByID(_ context.Context, id int64) (model.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rec := range m.records {
		if rec.ID() == id {
			return rec, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *mockStore) Persist(_ context.Context, id int64, res *model.LocationResult) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.persistCalls++

	if m.persistErr != nil {
		return false, m.persistErr
	}
	if m.failPersist[id] {
		return false, nil
	}
	m.persisted[id] = res
	return true, nil
}

func (m *mockStore) CountUnclassified(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records) - len(m.persisted), nil
}

func (m *mockStore) CountTotal(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records), nil
}

func (m *mockStore) ZIPDistribution(context.Context) ([]store.ZIPCount, error) {
	return nil, nil
}

func (m *mockStore) InsertEvents(context.Context, []model.Event) (int, error) {
	return 0, eris.New("not implemented")
}

func (m *mockStore) UpsertEvents(context.Context, []model.Event) (int, error) {
	return 0, eris.New("not implemented")
}

func (m *mockStore) ReplaceDataset(context.Context, string, []model.Event) (int, error) {
	return 0, eris.New("not implemented")
}

func (m *mockStore) Migrate(context.Context) error { return nil }
func (m *mockStore) Close() error                  { return nil }
