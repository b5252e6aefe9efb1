package app

import (
	"context"
	"fmt"

	"mealtrack/internal/domain"
)

// CategoryService manages the four meal-time lists. Lists store copies of
// catalog meals; unless snapshot is set, reads show the catalog's current
// values for entries that still exist there.
type CategoryService struct {
	l        *Ledger
	snapshot bool
}

// NewCategoryService creates a CategoryService.
func NewCategoryService(l *Ledger, snapshot bool) *CategoryService {
	return &CategoryService{l: l, snapshot: snapshot}
}

// List returns the meals assigned to c.
func (s *CategoryService) List(ctx context.Context, c domain.Category) ([]domain.Meal, error) {
	list, err := s.l.loadCategory(ctx, c)
	if err != nil {
		return nil, err
	}
	if s.snapshot {
		return list, nil
	}
	catalog, err := s.l.loadMeals(ctx)
	if err != nil {
		return nil, err
	}
	return domain.ResolveLive(list, catalog), nil
}

// All returns every category list, resolved like List.
func (s *CategoryService) All(ctx context.Context) (map[domain.Category][]domain.Meal, error) {
	lists, err := s.l.loadCategories(ctx)
	if err != nil {
		return nil, err
	}
	if s.snapshot {
		return lists, nil
	}
	catalog, err := s.l.loadMeals(ctx)
	if err != nil {
		return nil, err
	}
	for c, list := range lists {
		lists[c] = domain.ResolveLive(list, catalog)
	}
	return lists, nil
}

// IsMember reports whether a meal with mealID is assigned to c.
func (s *CategoryService) IsMember(ctx context.Context, c domain.Category, mealID int64) (bool, error) {
	list, err := s.l.loadCategory(ctx, c)
	if err != nil {
		return false, err
	}
	return domain.IsMember(list, mealID), nil
}

// Toggle adds a copy of meal to c, or removes it when already present.
// It reports whether the meal was added.
func (s *CategoryService) Toggle(ctx context.Context, c domain.Category, meal domain.Meal) (bool, error) {
	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	return s.toggle(ctx, c, meal)
}

// ToggleByID toggles the catalog meal with the given id.
func (s *CategoryService) ToggleByID(ctx context.Context, c domain.Category, mealID int64) (bool, error) {
	s.l.mu.Lock()
	defer s.l.mu.Unlock()

	catalog, err := s.l.loadMeals(ctx)
	if err != nil {
		return false, err
	}
	i := indexOfMeal(catalog, mealID)
	if i < 0 {
		return false, fmt.Errorf("meal %d: %w", mealID, domain.ErrNotFound)
	}
	return s.toggle(ctx, c, catalog[i])
}

func (s *CategoryService) toggle(ctx context.Context, c domain.Category, meal domain.Meal) (bool, error) {
	list, err := s.l.loadCategory(ctx, c)
	if err != nil {
		return false, err
	}
	out, added := domain.Toggle(list, meal)
	if err := s.l.save(ctx, c.Key(), out); err != nil {
		return false, err
	}
	return added, nil
}

// Clear empties one category.
func (s *CategoryService) Clear(ctx context.Context, c domain.Category) error {
	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	return s.l.store.Remove(ctx, c.Key())
}

// ClearAll empties all four categories.
func (s *CategoryService) ClearAll(ctx context.Context) error {
	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	return s.clearAll(ctx)
}

func (s *CategoryService) clearAll(ctx context.Context) error {
	return s.l.store.MultiRemove(ctx, domain.CategoryKeys())
}

// Reconcile drops category entries whose meal is no longer in the catalog.
// Only lists that changed are written back.
func (s *CategoryService) Reconcile(ctx context.Context) (bool, error) {
	s.l.mu.Lock()
	defer s.l.mu.Unlock()

	catalog, err := s.l.loadMeals(ctx)
	if err != nil {
		return false, err
	}
	lists, err := s.l.loadCategories(ctx)
	if err != nil {
		return false, err
	}
	changed := false
	for _, c := range domain.Categories {
		kept, removed := domain.Reconcile(lists[c], catalog)
		if !removed {
			continue
		}
		if err := s.l.save(ctx, c.Key(), kept); err != nil {
			return changed, err
		}
		changed = true
	}
	return changed, nil
}
