package app

import (
	"context"
	"fmt"
	"math/rand/v2"

	"mealtrack/internal/domain"
)

// IDStrategy selects how new meal ids are assigned.
type IDStrategy string

const (
	// IDSequential uses a persisted counter; ids are never reused.
	IDSequential IDStrategy = "sequential"
	// IDRandom draws ids from [0, randomIDRange), checked against the catalog.
	IDRandom IDStrategy = "random"
)

const (
	randomIDRange    = 10000
	randomIDAttempts = 32
)

// CatalogService manages the meal catalog.
type CatalogService struct {
	l        *Ledger
	strategy IDStrategy
	intn     func(n int64) int64
}

// NewCatalogService creates a CatalogService. An unknown strategy falls
// back to IDSequential.
func NewCatalogService(l *Ledger, strategy IDStrategy) *CatalogService {
	if strategy != IDRandom {
		strategy = IDSequential
	}
	return &CatalogService{l: l, strategy: strategy, intn: rand.Int64N}
}

// List returns every catalog meal in stored order.
func (s *CatalogService) List(ctx context.Context) ([]domain.Meal, error) {
	return s.l.loadMeals(ctx)
}

// Get returns the meal with the given id.
func (s *CatalogService) Get(ctx context.Context, id int64) (domain.Meal, error) {
	meals, err := s.l.loadMeals(ctx)
	if err != nil {
		return domain.Meal{}, err
	}
	i := indexOfMeal(meals, id)
	if i < 0 {
		return domain.Meal{}, fmt.Errorf("meal %d: %w", id, domain.ErrNotFound)
	}
	return meals[i], nil
}

// Add validates f, assigns an id and appends the meal to the catalog.
func (s *CatalogService) Add(ctx context.Context, f domain.MealFields) (domain.Meal, error) {
	added, err := s.AddMany(ctx, []domain.MealFields{f})
	if err != nil {
		return domain.Meal{}, err
	}
	return added[0], nil
}

// AddMany validates every entry first, then appends them all in one write.
func (s *CatalogService) AddMany(ctx context.Context, fields []domain.MealFields) ([]domain.Meal, error) {
	for _, f := range fields {
		if err := f.Validate(); err != nil {
			return nil, err
		}
	}
	if len(fields) == 0 {
		return []domain.Meal{}, nil
	}

	s.l.mu.Lock()
	defer s.l.mu.Unlock()

	meals, err := s.l.loadMeals(ctx)
	if err != nil {
		return nil, err
	}
	ids, err := s.allocate(ctx, meals, len(fields))
	if err != nil {
		return nil, err
	}
	added := make([]domain.Meal, len(fields))
	for i, f := range fields {
		added[i] = domain.Meal{ID: ids[i]}.WithFields(f)
	}
	if err := s.l.save(ctx, domain.KeyMeals, append(meals, added...)); err != nil {
		return nil, err
	}
	return added, nil
}

// Update replaces the fields of the meal with the given id. Category copies
// are left untouched.
func (s *CatalogService) Update(ctx context.Context, id int64, f domain.MealFields) (domain.Meal, error) {
	if err := f.Validate(); err != nil {
		return domain.Meal{}, err
	}

	s.l.mu.Lock()
	defer s.l.mu.Unlock()

	meals, err := s.l.loadMeals(ctx)
	if err != nil {
		return domain.Meal{}, err
	}
	i := indexOfMeal(meals, id)
	if i < 0 {
		return domain.Meal{}, fmt.Errorf("meal %d: %w", id, domain.ErrNotFound)
	}
	meals[i] = meals[i].WithFields(f)
	if err := s.l.save(ctx, domain.KeyMeals, meals); err != nil {
		return domain.Meal{}, err
	}
	return meals[i], nil
}

// Remove deletes the meal with the given id from the catalog. Category
// copies become orphans until reconciliation.
func (s *CatalogService) Remove(ctx context.Context, id int64) error {
	s.l.mu.Lock()
	defer s.l.mu.Unlock()

	meals, err := s.l.loadMeals(ctx)
	if err != nil {
		return err
	}
	i := indexOfMeal(meals, id)
	if i < 0 {
		return fmt.Errorf("meal %d: %w", id, domain.ErrNotFound)
	}
	out := make([]domain.Meal, 0, len(meals)-1)
	for _, m := range meals {
		if m.ID != id {
			out = append(out, m)
		}
	}
	return s.l.save(ctx, domain.KeyMeals, out)
}

// allocate returns n fresh ids. Caller holds l.mu.
func (s *CatalogService) allocate(ctx context.Context, meals []domain.Meal, n int) ([]int64, error) {
	var maxID int64
	taken := make(map[int64]bool, len(meals)+n)
	for _, m := range meals {
		taken[m.ID] = true
		maxID = max(maxID, m.ID)
	}

	ids := make([]int64, 0, n)
	if s.strategy == IDRandom {
		for range n {
			id, ok := s.randomID(taken)
			if !ok {
				id = maxID + 1
			}
			taken[id] = true
			maxID = max(maxID, id)
			ids = append(ids, id)
		}
		return ids, nil
	}

	var seq int64
	if _, err := s.l.load(ctx, domain.KeyMealSeq, &seq); err != nil {
		return nil, err
	}
	next := max(seq, maxID)
	for range n {
		next++
		ids = append(ids, next)
	}
	if err := s.l.save(ctx, domain.KeyMealSeq, next); err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *CatalogService) randomID(taken map[int64]bool) (int64, bool) {
	for range randomIDAttempts {
		id := s.intn(randomIDRange)
		if !taken[id] {
			return id, true
		}
	}
	return 0, false
}

func indexOfMeal(meals []domain.Meal, id int64) int {
	for i, m := range meals {
		if m.ID == id {
			return i
		}
	}
	return -1
}
