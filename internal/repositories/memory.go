package repositories

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/spinonoir/housing-map-project/internal/constants"
	"github.com/spinonoir/housing-map-project/internal/models"
	"github.com/spinonoir/housing-map-project/internal/utils"
)

/*
In-memory store backend. Used for local development (STORE_BACKEND=memory)
and as the substitute store in tests. Semantics match the Postgres
backend: last write wins per document, partial updates are field merges,
bulk clear works in groups of at most 500.
*/

type MemoryUnitRepository struct {
	mu    sync.RWMutex
	units map[string]models.Document
}

func NewMemoryUnitRepository() *MemoryUnitRepository {
	return &MemoryUnitRepository{units: make(map[string]models.Document)}
}

func (r *MemoryUnitRepository) Get(_ context.Context, id string) (models.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.units[id]
	if !ok {
		return nil, nil
	}
	return doc.Clone(), nil
}

func (r *MemoryUnitRepository) Set(_ context.Context, id string, doc models.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.units[id] = doc.Clone()
	return nil
}

func (r *MemoryUnitRepository) Update(_ context.Context, id string, partial models.Document) error {
	if len(partial) == 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.units[id]
	if !ok {
		return utils.ErrUnitNotFound
	}
	doc.Merge(partial)
	return nil
}

func (r *MemoryUnitRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.units, id)
	return nil
}

func (r *MemoryUnitRepository) ListAll(_ context.Context) ([]models.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshotLocked(func(models.Document) bool { return true }), nil
}

func (r *MemoryUnitRepository) QueryEqual(_ context.Context, field string, value any) ([]models.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshotLocked(func(doc models.Document) bool {
		return doc[field] == value
	}), nil
}

func (r *MemoryUnitRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.units), nil
}

func (r *MemoryUnitRepository) DeleteAll(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.units))
	for id := range r.units {
		ids = append(ids, id)
	}
	for start := 0; start < len(ids); start += constants.StoreBatchLimit {
		end := start + constants.StoreBatchLimit
		if end > len(ids) {
			end = len(ids)
		}
		for _, id := range ids[start:end] {
			delete(r.units, id)
		}
	}
	return len(ids), nil
}

// snapshotLocked returns cloned matches in stable id order. Caller holds
// at least a read lock.
func (r *MemoryUnitRepository) snapshotLocked(match func(models.Document) bool) []models.Document {
	ids := make([]string, 0, len(r.units))
	for id, doc := range r.units {
		if match(doc) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	out := make([]models.Document, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.units[id].Clone())
	}
	return out
}

/* ───────────── failures ───────────── */

type MemoryFailureRepository struct {
	mu       sync.RWMutex
	failures map[string]*models.GeocodingFailure
}

func NewMemoryFailureRepository() *MemoryFailureRepository {
	return &MemoryFailureRepository{failures: make(map[string]*models.GeocodingFailure)}
}

func (r *MemoryFailureRepository) Add(_ context.Context, f *models.GeocodingFailure) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	cp := *f
	r.failures[f.ID] = &cp
	return nil
}

func (r *MemoryFailureRepository) ListAll(_ context.Context) ([]*models.GeocodingFailure, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*models.GeocodingFailure, 0, len(r.failures))
	for _, f := range r.failures {
		cp := *f
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (r *MemoryFailureRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.failures), nil
}

func (r *MemoryFailureRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.failures[id]; !ok {
		return utils.ErrFailureNotFound
	}
	delete(r.failures, id)
	return nil
}

func (r *MemoryFailureRepository) DeleteAll(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.failures)
	r.failures = make(map[string]*models.GeocodingFailure)
	return n, nil
}
