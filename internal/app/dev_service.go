package app

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"mealtrack/internal/domain"
)

//go:embed fixtures/meals.yaml
var sampleMealsYAML []byte

// seedHistoryDays is the number of days written by SeedHistory.
const seedHistoryDays = 7

type sampleMeal struct {
	Name     string `yaml:"name"`
	Calories int    `yaml:"calories"`
	Protein  int    `yaml:"protein"`
	Carbs    int    `yaml:"carbs"`
	Fats     int    `yaml:"fats"`
}

// SampleMeals returns the embedded sample meal definitions.
func SampleMeals() ([]domain.MealFields, error) {
	var raw []sampleMeal
	if err := yaml.Unmarshal(sampleMealsYAML, &raw); err != nil {
		return nil, fmt.Errorf("decode sample meals: %w", err)
	}
	out := make([]domain.MealFields, len(raw))
	for i, m := range raw {
		out[i] = domain.MealFields{Name: m.Name, Calories: m.Calories, Protein: m.Protein, Carbs: m.Carbs, Fats: m.Fats}
	}
	return out, nil
}

// DevService provides developer tooling: sample data, storage size and reset.
type DevService struct {
	l       *Ledger
	catalog *CatalogService
	history *HistoryService
	loc     *time.Location
}

// NewDevService creates a DevService.
func NewDevService(l *Ledger, catalog *CatalogService, history *HistoryService, loc *time.Location) *DevService {
	if loc == nil {
		loc = time.Local
	}
	return &DevService{l: l, catalog: catalog, history: history, loc: loc}
}

// SeedMeals appends the sample meals to the catalog.
func (s *DevService) SeedMeals(ctx context.Context) ([]domain.Meal, error) {
	fields, err := SampleMeals()
	if err != nil {
		return nil, err
	}
	return s.catalog.AddMany(ctx, fields)
}

// SeedHistory prepends one entry for today and each of the six previous
// days, newest first, with values that grow with the day offset.
func (s *DevService) SeedHistory(ctx context.Context, now time.Time) ([]domain.HistoryEntry, error) {
	now = now.In(s.loc)
	entries := make([]domain.HistoryEntry, 0, seedHistoryDays)
	for i := range seedHistoryDays {
		f := float64(i)
		entries = append(entries, domain.HistoryEntry{
			Date:     domain.FormatDate(now.AddDate(0, 0, -i)),
			Calories: 1800 + 50*f,
			Protein:  100 + 10*f,
			Carbs:    200 + 15*f,
			Fats:     60 + 5*f,
		})
	}
	if err := s.history.Prepend(ctx, entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// StorageSize returns the summed length of every stored value.
func (s *DevService) StorageSize(ctx context.Context) (int, error) {
	keys, err := s.l.store.Keys(ctx)
	if err != nil {
		return 0, err
	}
	values, err := s.l.store.MultiGet(ctx, keys)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, v := range values {
		total += len(v)
	}
	return total, nil
}

// ResetAll removes every stored key.
func (s *DevService) ResetAll(ctx context.Context) error {
	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	return s.l.store.Clear(ctx)
}
