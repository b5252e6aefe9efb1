// Package app holds the application services and business logic.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"mealtrack/internal/domain"
)

// Ledger is the shared state behind the ledger services: the store, the
// logger and the mutex that serializes read-modify-write cycles. Writers in
// other processes sharing the same store are not coordinated.
type Ledger struct {
	mu    sync.Mutex
	store domain.KVStore
	log   *zap.Logger
}

// NewLedger creates a Ledger over store. A nil logger is replaced by a no-op one.
func NewLedger(store domain.KVStore, log *zap.Logger) *Ledger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Ledger{store: store, log: log}
}

// Store returns the underlying key-value store.
func (l *Ledger) Store() domain.KVStore { return l.store }

// load decodes the JSON value under key into dst. A missing key reports
// false. A malformed value is logged and treated as missing.
func (l *Ledger) load(ctx context.Context, key string, dst any) (bool, error) {
	raw, ok, err := l.store.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	return l.decode(key, raw, dst), nil
}

func (l *Ledger) decode(key, raw string, dst any) bool {
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		l.log.Warn("malformed stored value, treating as absent",
			zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (l *Ledger) save(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return l.store.Set(ctx, key, string(b))
}

func (l *Ledger) loadMeals(ctx context.Context) ([]domain.Meal, error) {
	var meals []domain.Meal
	if ok, err := l.load(ctx, domain.KeyMeals, &meals); err != nil || !ok || meals == nil {
		return []domain.Meal{}, err
	}
	return meals, nil
}

func (l *Ledger) loadCategory(ctx context.Context, c domain.Category) ([]domain.Meal, error) {
	var list []domain.Meal
	if ok, err := l.load(ctx, c.Key(), &list); err != nil || !ok || list == nil {
		return []domain.Meal{}, err
	}
	return list, nil
}

// loadCategories reads all four lists with one MultiGet.
func (l *Ledger) loadCategories(ctx context.Context) (map[domain.Category][]domain.Meal, error) {
	raw, err := l.store.MultiGet(ctx, domain.CategoryKeys())
	if err != nil {
		return nil, err
	}
	out := make(map[domain.Category][]domain.Meal, len(domain.Categories))
	for _, c := range domain.Categories {
		list := []domain.Meal{}
		if v, ok := raw[c.Key()]; ok {
			var decoded []domain.Meal
			if l.decode(c.Key(), v, &decoded) && decoded != nil {
				list = decoded
			}
		}
		out[c] = list
	}
	return out, nil
}

func (l *Ledger) loadHistory(ctx context.Context) ([]domain.HistoryEntry, error) {
	var entries []domain.HistoryEntry
	if ok, err := l.load(ctx, domain.KeyHistory, &entries); err != nil || !ok || entries == nil {
		return []domain.HistoryEntry{}, err
	}
	return entries, nil
}

func (l *Ledger) loadDayState(ctx context.Context) (domain.DayState, error) {
	var st domain.DayState
	if ok, err := l.load(ctx, domain.KeyDayState, &st); err != nil || !ok {
		return domain.DayState{}, err
	}
	return st, nil
}
