package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"bess-colocation/internal/store"
)

// RunStore is an in-memory implementation of store.RunStore.
type RunStore struct {
	mu   sync.RWMutex
	data map[uuid.UUID]*store.ComparisonRun
}

// NewRunStore creates a new in-memory run store.
func NewRunStore() *RunStore {
	return &RunStore{
		data: make(map[uuid.UUID]*store.ComparisonRun),
	}
}

// Insert adds a new run. Returns ErrDuplicateKey if the run ID exists.
func (s *RunStore) Insert(_ context.Context, run *store.ComparisonRun) error {
	if run == nil || run.ID == uuid.Nil || len(run.Summaries) == 0 {
		return store.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[run.ID]; exists {
		return store.ErrDuplicateKey
	}

	s.data[run.ID] = copyRun(run)
	return nil
}

// GetByID retrieves a run by its ID. Returns ErrNotFound if not exists.
func (s *RunStore) GetByID(_ context.Context, id uuid.UUID) (*store.ComparisonRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, exists := s.data[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	return copyRun(run), nil
}

// ListRecent retrieves up to limit runs, newest first.
func (s *RunStore) ListRecent(_ context.Context, limit int) ([]*store.ComparisonRun, error) {
	if limit <= 0 {
		return nil, store.ErrInvalidInput
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*store.ComparisonRun, 0, len(s.data))
	for _, run := range s.data {
		result = append(result, copyRun(run))
	}

	// Newest first, run ID as the tie break
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID.String() < result[j].ID.String()
	})

	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// copyRun clones a run, including the summaries document, so callers
// cannot mutate stored state.
func copyRun(run *store.ComparisonRun) *store.ComparisonRun {
	out := *run
	if run.Summaries != nil {
		out.Summaries = append([]byte(nil), run.Summaries...)
	}
	return &out
}

// Verify interface compliance at compile time.
var _ store.RunStore = (*RunStore)(nil)
