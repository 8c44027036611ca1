package services

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"

	"faktoteka/internal/catalog"
	"faktoteka/internal/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	factsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "faktoteka_facts_created_total",
		Help: "Number of user facts created and persisted.",
	})
	factsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "faktoteka_facts_deleted_total",
		Help: "Number of user facts deleted.",
	})
)

// FactStore is the slice of the persistence port the facts service
// needs: load the user subset once, replace it durably on mutation.
type FactStore interface {
	UserFacts() []models.Fact
	SaveUserFacts(facts []models.Fact) error
}

// FactsService owns the merged base+user collection and the current
// query state. Every command derives a fresh view through the catalog
// pipeline; display order is never stored.
//
// Mutations are write-through: the persisted user subset is replaced
// before the in-memory one, so a storage failure leaves memory exactly
// as it was.
type FactsService struct {
	mu      sync.RWMutex
	store   FactStore
	dataset *DatasetService

	base    []models.Fact
	user    []models.Fact
	query   catalog.Query
	loadErr error
}

// NewFactsService creates a facts service with the default query state
// (all categories, no search, newest first).
func NewFactsService(store FactStore, dataset *DatasetService) *FactsService {
	return &FactsService{
		store:   store,
		dataset: dataset,
		base:    []models.Fact{},
		user:    []models.Fact{},
		query:   catalog.DefaultQuery(),
	}
}

// Initialize loads the base dataset and the persisted user facts. A
// dataset failure degrades to an empty base set and is kept around for
// the health endpoint; it never aborts startup.
func (s *FactsService) Initialize(ctx context.Context) {
	base, err := s.dataset.Load(ctx)
	if err != nil {
		slog.Error("base dataset unavailable, starting with empty set", "error", err)
	}

	user := s.store.UserFacts()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.base = base
	s.user = user
	s.loadErr = err

	slog.Info("facts service initialized", "base", len(base), "user", len(user))
}

// merged returns the merged collection, user facts first. Callers must
// hold at least a read lock.
func (s *FactsService) merged() []models.Fact {
	return catalog.Merge(s.base, s.user)
}

// All returns the merged collection in storage order.
func (s *FactsService) All() []models.Fact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.merged()
}

// Query returns the current filter/search/sort state.
func (s *FactsService) Query() catalog.Query {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query
}

// CurrentView derives the view for the current query state.
func (s *FactsService) CurrentView() catalog.View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return catalog.BuildView(s.merged(), s.query)
}

// ViewFor derives a view for an explicit query without touching the
// current state. Used by stateless API listings.
func (s *FactsService) ViewFor(q catalog.Query) catalog.View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return catalog.BuildView(s.merged(), q)
}

// ApplyFilter sets the category filter and returns the new view.
func (s *FactsService) ApplyFilter(category string) catalog.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query.Category = category
	return catalog.BuildView(s.merged(), s.query)
}

// ApplySearch sets the search text and returns the new view.
func (s *FactsService) ApplySearch(text string) catalog.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query.SearchText = text
	return catalog.BuildView(s.merged(), s.query)
}

// ApplySort sets the sort key and returns the new view.
func (s *FactsService) ApplySort(key string) catalog.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query.SortKey = key
	return catalog.BuildView(s.merged(), s.query)
}

// AddFact validates the request, stamps a fresh id against the whole
// merged collection, persists the new user subset and only then admits
// the fact into memory. On validation failure it returns a
// *catalog.ValidationError carrying every violated rule.
func (s *FactsService) AddFact(req models.CreateFactRequest) (models.Fact, catalog.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if violations := req.Validate(); len(violations) > 0 {
		return models.Fact{}, catalog.BuildView(s.merged(), s.query), &catalog.ValidationError{Violations: violations}
	}

	fact := req.ToFact(catalog.NextID(s.merged()))

	// Newest first in storage order, so the empty-filters view shows
	// user content on top.
	next := append([]models.Fact{fact}, s.user...)
	if err := s.store.SaveUserFacts(next); err != nil {
		slog.Error("failed to persist new fact, rolling back", "id", fact.ID, "error", err)
		return models.Fact{}, catalog.BuildView(s.merged(), s.query), fmt.Errorf("failed to persist fact: %w", err)
	}

	s.user = next
	factsCreated.Inc()
	slog.Info("fact added", "id", fact.ID, "category", fact.Category)

	return fact, catalog.BuildView(s.merged(), s.query), nil
}

// DeleteFact removes a user fact. Unknown ids return
// catalog.ErrNotFound, base-origin ids catalog.ErrNotDeletable; in both
// cases nothing changes and nothing is written. The persisted subset is
// replaced before the in-memory one.
func (s *FactsService) DeleteFact(id int) (catalog.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := catalog.BuildView(s.merged(), s.query)

	fact, ok := catalog.FindByID(s.merged(), id)
	if !ok {
		return view, catalog.ErrNotFound
	}
	if !fact.IsUser() {
		return view, catalog.ErrNotDeletable
	}

	next := catalog.RemoveByID(s.user, id)
	if err := s.store.SaveUserFacts(next); err != nil {
		slog.Error("failed to persist deletion, rolling back", "id", id, "error", err)
		return view, fmt.Errorf("failed to persist deletion: %w", err)
	}

	s.user = next
	factsDeleted.Inc()
	slog.Info("fact deleted", "id", id)

	return catalog.BuildView(s.merged(), s.query), nil
}

// ClearUserFacts removes every user fact in one write-through step.
// Returns the number of facts removed.
func (s *FactsService) ClearUserFacts() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := len(s.user)
	if removed == 0 {
		return 0, nil
	}

	if err := s.store.SaveUserFacts([]models.Fact{}); err != nil {
		slog.Error("failed to persist clear, rolling back", "error", err)
		return 0, fmt.Errorf("failed to persist clear: %w", err)
	}

	s.user = []models.Fact{}
	slog.Info("user facts cleared", "removed", removed)
	return removed, nil
}

// RandomFact picks a uniformly random fact from the current filtered
// view. The second return is false when the view is empty.
func (s *FactsService) RandomFact() (models.Fact, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	view := catalog.BuildView(s.merged(), s.query)
	if len(view.Facts) == 0 {
		return models.Fact{}, false
	}
	return view.Facts[rand.IntN(len(view.Facts))], true
}

// Categories lists the distinct categories of the merged collection in
// first-seen storage order.
func (s *FactsService) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	var categories []string
	for _, f := range s.merged() {
		key := f.Category
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		categories = append(categories, key)
	}
	return categories
}

// ReloadBase re-fetches the base dataset and swaps it in. User facts
// and query state are untouched.
func (s *FactsService) ReloadBase(ctx context.Context) error {
	base, err := s.dataset.Reload(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadErr = err
	if err != nil {
		return err
	}
	s.base = base
	return nil
}

// LoadError reports the most recent base dataset failure, nil when the
// last load succeeded.
func (s *FactsService) LoadError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadErr
}

// Counts returns the merged, base and user record counts.
func (s *FactsService) Counts() (total, base, user int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.base) + len(s.user), len(s.base), len(s.user)
}
