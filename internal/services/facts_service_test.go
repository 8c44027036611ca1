package services

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"faktoteka/internal/catalog"
	"faktoteka/internal/models"
)

// stubStore implements FactStore in memory, with switchable write
// failures for the rollback tests.
type stubStore struct {
	facts      []models.Fact
	failWrites bool
	saves      int
}

func (s *stubStore) UserFacts() []models.Fact {
	return s.facts
}

func (s *stubStore) SaveUserFacts(facts []models.Fact) error {
	if s.failWrites {
		return errors.New("quota exceeded")
	}
	s.saves++
	s.facts = facts
	return nil
}

func writeDatasetFile(t *testing.T, facts []models.Fact) string {
	t.Helper()

	payload, err := json.Marshal(facts)
	if err != nil {
		t.Fatalf("Failed to marshal dataset: %v", err)
	}

	path := filepath.Join(t.TempDir(), "facts.json")
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("Failed to write dataset file: %v", err)
	}
	return path
}

func baseFact(id int, category, title, date string) models.Fact {
	return models.Fact{
		ID:          id,
		Category:    category,
		Title:       title,
		Description: "Opis bazowej ciekawostki o wystarczającej długości.",
		Date:        date,
	}
}

func newTestService(t *testing.T, base []models.Fact, store *stubStore) *FactsService {
	t.Helper()

	dataset := NewDatasetService("", writeDatasetFile(t, base), time.Minute)
	svc := NewFactsService(store, dataset)
	svc.Initialize(context.Background())
	return svc
}

func validCreateRequest() models.CreateFactRequest {
	return models.CreateFactRequest{
		Title:       "Nowa ciekawostka testowa",
		Category:    "Nauka",
		Description: "Wystarczająco długi opis nowej ciekawostki testowej.",
	}
}

func TestInitializeMergesUserFirst(t *testing.T) {
	store := &stubStore{facts: []models.Fact{
		{ID: 10, Category: "Nauka", Title: "Użytkownika", Date: "2024-01-01", Origin: models.OriginUser},
	}}
	svc := newTestService(t, []models.Fact{baseFact(1, "Nauka", "Bazowa", "2024-05-01")}, store)

	all := svc.All()
	if len(all) != 2 {
		t.Fatalf("Expected 2 facts, got %d", len(all))
	}
	if all[0].ID != 10 || all[1].ID != 1 {
		t.Errorf("Expected user fact first in storage order, got [%d %d]", all[0].ID, all[1].ID)
	}
	if all[1].Origin != models.OriginBase {
		t.Errorf("Expected dataset facts normalized to base origin, got %q", all[1].Origin)
	}
}

func TestInitializeMissingDatasetDegrades(t *testing.T) {
	store := &stubStore{}
	dataset := NewDatasetService("", filepath.Join(t.TempDir(), "missing.json"), time.Minute)
	svc := NewFactsService(store, dataset)
	svc.Initialize(context.Background())

	if len(svc.All()) != 0 {
		t.Error("Expected empty collection when dataset is missing")
	}
	if svc.LoadError() == nil {
		t.Error("Expected the load error to be surfaced")
	}
}

func TestApplyCommandsUpdateState(t *testing.T) {
	svc := newTestService(t, []models.Fact{
		baseFact(1, "Nauka", "Kot", "2024-01-01"),
		baseFact(2, "Historia", "Pies", "2024-02-01"),
	}, &stubStore{})

	view := svc.ApplyFilter("nauka")
	if view.Total != 1 || view.Facts[0].ID != 1 {
		t.Errorf("Expected only fact 1 after filter, got %+v", view.Facts)
	}

	view = svc.ApplyFilter(catalog.CategoryAll)
	view = svc.ApplySearch("pies")
	if view.Total != 1 || view.Facts[0].ID != 2 {
		t.Errorf("Expected only fact 2 after search, got %+v", view.Facts)
	}

	view = svc.ApplySearch("")
	view = svc.ApplySort(catalog.SortDateAsc)
	if view.Facts[0].ID != 1 {
		t.Errorf("Expected oldest first after sort change, got %d", view.Facts[0].ID)
	}

	// State persists across commands
	q := svc.Query()
	if q.SortKey != catalog.SortDateAsc || q.Category != catalog.CategoryAll {
		t.Errorf("Unexpected query state %+v", q)
	}
}

func TestAddFactStampsFreshID(t *testing.T) {
	store := &stubStore{facts: []models.Fact{
		{ID: 3, Category: "Nauka", Title: "Użytkownika", Date: "2024-01-01", Origin: models.OriginUser},
	}}
	svc := newTestService(t, []models.Fact{baseFact(7, "Nauka", "Bazowa", "2024-01-01")}, store)

	fact, _, err := svc.AddFact(validCreateRequest())
	if err != nil {
		t.Fatalf("AddFact failed: %v", err)
	}

	// max over BOTH subsets is 7
	if fact.ID != 8 {
		t.Errorf("Expected id 8, got %d", fact.ID)
	}
	if fact.Origin != models.OriginUser {
		t.Errorf("Expected user origin, got %q", fact.Origin)
	}
	if store.facts[0].ID != 8 {
		t.Errorf("Expected the new fact persisted first, got %+v", store.facts)
	}
}

func TestAddFactValidationFailurePersistsNothing(t *testing.T) {
	store := &stubStore{}
	svc := newTestService(t, nil, store)

	req := validCreateRequest()
	req.Title = "Kot" // too short

	_, _, err := svc.AddFact(req)

	var verr *catalog.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected a ValidationError, got %v", err)
	}
	if len(verr.Violations) != 1 {
		t.Errorf("Expected exactly 1 violation, got %v", verr.Violations)
	}
	if store.saves != 0 {
		t.Error("Validation failure must not touch storage")
	}
	if len(svc.All()) != 0 {
		t.Error("Validation failure must not touch the collection")
	}
}

func TestAddFactWriteFailureRollsBack(t *testing.T) {
	store := &stubStore{failWrites: true}
	svc := newTestService(t, nil, store)

	_, _, err := svc.AddFact(validCreateRequest())
	if err == nil {
		t.Fatal("Expected a storage write failure")
	}

	if len(svc.All()) != 0 {
		t.Error("A failed write must leave the in-memory collection unchanged")
	}
	if len(store.facts) != 0 {
		t.Error("A failed write must leave storage unchanged")
	}
}

// create followed by remove returns the user subset to its pre-create
// content, order and values included.
func TestAddThenDeleteRoundTrip(t *testing.T) {
	existing := models.Fact{
		ID: 2, Category: "Nauka", Title: "Istniejąca", Description: "Opis istniejącej ciekawostki użytkownika.",
		Date: "2024-01-01", Origin: models.OriginUser,
	}
	store := &stubStore{facts: []models.Fact{existing}}
	svc := newTestService(t, nil, store)

	fact, _, err := svc.AddFact(validCreateRequest())
	if err != nil {
		t.Fatalf("AddFact failed: %v", err)
	}

	if _, err := svc.DeleteFact(fact.ID); err != nil {
		t.Fatalf("DeleteFact failed: %v", err)
	}

	if len(store.facts) != 1 || store.facts[0] != existing {
		t.Errorf("Expected user subset restored to pre-create content, got %+v", store.facts)
	}
}

func TestDeleteFactBaseOriginIsRejected(t *testing.T) {
	store := &stubStore{}
	svc := newTestService(t, []models.Fact{baseFact(1, "Nauka", "Bazowa", "2024-01-01")}, store)

	_, err := svc.DeleteFact(1)
	if !errors.Is(err, catalog.ErrNotDeletable) {
		t.Fatalf("Expected ErrNotDeletable, got %v", err)
	}
	if store.saves != 0 {
		t.Error("Rejected deletion must not write to storage")
	}
	if len(svc.All()) != 1 {
		t.Error("Rejected deletion must not change the collection")
	}
}

func TestDeleteFactUnknownID(t *testing.T) {
	store := &stubStore{}
	svc := newTestService(t, nil, store)

	_, err := svc.DeleteFact(123)
	if !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
	if store.saves != 0 {
		t.Error("Unknown-id deletion must not write to storage")
	}
}

func TestDeleteFactWriteFailureRollsBack(t *testing.T) {
	store := &stubStore{facts: []models.Fact{
		{ID: 5, Category: "Nauka", Title: "Użytkownika", Description: "Opis ciekawostki użytkownika do testu.", Date: "2024-01-01", Origin: models.OriginUser},
	}}
	svc := newTestService(t, nil, store)

	store.failWrites = true
	if _, err := svc.DeleteFact(5); err == nil {
		t.Fatal("Expected a storage write failure")
	}

	if len(svc.All()) != 1 {
		t.Error("A failed delete write must leave the fact in memory")
	}
}

func TestRandomFactRespectsCurrentView(t *testing.T) {
	svc := newTestService(t, []models.Fact{
		baseFact(1, "Nauka", "Kot", "2024-01-01"),
		baseFact(2, "Historia", "Pies", "2024-02-01"),
	}, &stubStore{})

	svc.ApplyFilter("historia")

	for i := 0; i < 10; i++ {
		fact, ok := svc.RandomFact()
		if !ok {
			t.Fatal("Expected a random fact")
		}
		if fact.ID != 2 {
			t.Fatalf("Random fact must come from the filtered view, got id %d", fact.ID)
		}
	}

	svc.ApplySearch("niematakiego")
	if _, ok := svc.RandomFact(); ok {
		t.Error("Expected no random fact from an empty view")
	}
}

func TestCategoriesDistinctFirstSeen(t *testing.T) {
	store := &stubStore{facts: []models.Fact{
		{ID: 9, Category: "Kosmos", Title: "U", Date: "2024-01-01", Origin: models.OriginUser},
	}}
	svc := newTestService(t, []models.Fact{
		baseFact(1, "Nauka", "A", "2024-01-01"),
		baseFact(2, "Nauka", "B", "2024-01-02"),
		baseFact(3, "Historia", "C", "2024-01-03"),
	}, store)

	got := svc.Categories()
	want := []string{"Kosmos", "Nauka", "Historia"}
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Expected %v, got %v", want, got)
			break
		}
	}
}

func TestReloadBaseSwapsDataset(t *testing.T) {
	path := writeDatasetFile(t, []models.Fact{baseFact(1, "Nauka", "Stara", "2024-01-01")})
	dataset := NewDatasetService("", path, time.Minute)
	svc := NewFactsService(&stubStore{}, dataset)
	svc.Initialize(context.Background())

	payload, _ := json.Marshal([]models.Fact{
		baseFact(1, "Nauka", "Nowa", "2024-01-01"),
		baseFact(2, "Nauka", "Druga", "2024-02-01"),
	})
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("Failed to rewrite dataset: %v", err)
	}

	if err := svc.ReloadBase(context.Background()); err != nil {
		t.Fatalf("ReloadBase failed: %v", err)
	}

	total, base, _ := svc.Counts()
	if total != 2 || base != 2 {
		t.Errorf("Expected 2 base facts after reload, got total=%d base=%d", total, base)
	}
	if svc.LoadError() != nil {
		t.Errorf("Expected load error cleared, got %v", svc.LoadError())
	}
}

func TestClearUserFacts(t *testing.T) {
	store := &stubStore{facts: []models.Fact{
		{ID: 10, Category: "Nauka", Title: "Własna pierwsza", Description: "Opis własnej ciekawostki numer jeden.", Date: "2024-03-01", Origin: models.OriginUser},
		{ID: 11, Category: "Nauka", Title: "Własna druga", Description: "Opis własnej ciekawostki numer dwa.", Date: "2024-03-02", Origin: models.OriginUser},
	}}
	svc := newTestService(t, []models.Fact{baseFact(1, "Nauka", "Bazowa", "2024-01-01")}, store)

	removed, err := svc.ClearUserFacts()
	if err != nil {
		t.Fatalf("ClearUserFacts failed: %v", err)
	}
	if removed != 2 {
		t.Errorf("Expected 2 removed, got %d", removed)
	}
	if len(store.facts) != 0 {
		t.Errorf("Expected empty persisted subset, got %d", len(store.facts))
	}

	total, base, user := svc.Counts()
	if total != 1 || base != 1 || user != 0 {
		t.Errorf("Expected only the base fact left, got total=%d base=%d user=%d", total, base, user)
	}
}

func TestClearUserFactsWriteFailureRollsBack(t *testing.T) {
	store := &stubStore{facts: []models.Fact{
		{ID: 10, Category: "Nauka", Title: "Własna", Description: "Opis własnej ciekawostki do zachowania.", Date: "2024-03-01", Origin: models.OriginUser},
	}}
	svc := newTestService(t, nil, store)

	store.failWrites = true
	if _, err := svc.ClearUserFacts(); err == nil {
		t.Fatal("Expected error from failing store")
	}

	if _, _, user := svc.Counts(); user != 1 {
		t.Errorf("Expected user fact kept after failed clear, got %d", user)
	}
}

func TestClearUserFactsEmptyIsNoop(t *testing.T) {
	store := &stubStore{}
	svc := newTestService(t, nil, store)

	removed, err := svc.ClearUserFacts()
	if err != nil || removed != 0 {
		t.Errorf("Expected no-op, got removed=%d err=%v", removed, err)
	}
	if store.saves != 0 {
		t.Errorf("Expected no write for an empty subset, got %d", store.saves)
	}
}
