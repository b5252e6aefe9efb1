package app

import (
	"context"
	"strings"
	"time"

	"mealtrack/internal/domain"
)

// DefaultRecentDays is the window used when Recent is called with n <= 0.
const DefaultRecentDays = 7

// HistoryService manages the closed-day history.
type HistoryService struct {
	l          *Ledger
	recentDays int
	loc        *time.Location
}

// NewHistoryService creates a HistoryService. recentDays <= 0 selects
// DefaultRecentDays.
func NewHistoryService(l *Ledger, recentDays int, loc *time.Location) *HistoryService {
	if recentDays <= 0 {
		recentDays = DefaultRecentDays
	}
	if loc == nil {
		loc = time.Local
	}
	return &HistoryService{l: l, recentDays: recentDays, loc: loc}
}

// CloseDay records totals for date, replacing any entry with the same date.
// Negative totals are rejected.
func (s *HistoryService) CloseDay(ctx context.Context, date string, t domain.Totals) (domain.HistoryEntry, error) {
	date = strings.TrimSpace(date)
	if _, err := domain.ParseDate(date, s.loc); err != nil {
		return domain.HistoryEntry{}, domain.NewValidationError("date", "must look like "+domain.DateLayout)
	}
	if err := t.Validate(); err != nil {
		return domain.HistoryEntry{}, err
	}

	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	return s.closeDay(ctx, date, t)
}

// closeDay upserts the entry. Caller holds l.mu.
func (s *HistoryService) closeDay(ctx context.Context, date string, t domain.Totals) (domain.HistoryEntry, error) {
	entries, err := s.l.loadHistory(ctx)
	if err != nil {
		return domain.HistoryEntry{}, err
	}
	e := domain.NewHistoryEntry(date, t)
	if err := s.l.save(ctx, domain.KeyHistory, domain.UpsertHistory(entries, e)); err != nil {
		return domain.HistoryEntry{}, err
	}
	return e, nil
}

// find returns the stored entry for date. Caller holds l.mu.
func (s *HistoryService) find(ctx context.Context, date string) (domain.HistoryEntry, bool, error) {
	entries, err := s.l.loadHistory(ctx)
	if err != nil {
		return domain.HistoryEntry{}, false, err
	}
	for _, e := range entries {
		if e.Date == date {
			return e, true, nil
		}
	}
	return domain.HistoryEntry{}, false, nil
}

// List returns the stored history. With aggregate set, duplicate dates are
// summed into one entry each.
func (s *HistoryService) List(ctx context.Context, aggregate bool) ([]domain.HistoryEntry, error) {
	entries, err := s.l.loadHistory(ctx)
	if err != nil {
		return nil, err
	}
	if aggregate {
		return domain.AggregateByDate(entries), nil
	}
	return entries, nil
}

// Recent returns the last n entries in storage order. With sorted set it
// returns the n latest dated entries in date order; entries whose date does
// not parse are left out. n <= 0 selects the configured window.
func (s *HistoryService) Recent(ctx context.Context, n int, sorted bool) ([]domain.HistoryEntry, error) {
	if n <= 0 {
		n = s.recentDays
	}
	entries, err := s.l.loadHistory(ctx)
	if err != nil {
		return nil, err
	}
	if !sorted {
		return domain.LastN(entries, n), nil
	}
	dated := make([]domain.HistoryEntry, 0, len(entries))
	for _, e := range entries {
		if _, err := domain.ParseDate(e.Date, s.loc); err == nil {
			dated = append(dated, e)
		}
	}
	return domain.LastN(domain.SortByDate(dated, s.loc), n), nil
}

// Clear removes all history.
func (s *HistoryService) Clear(ctx context.Context) error {
	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	return s.l.store.Remove(ctx, domain.KeyHistory)
}

// Prepend inserts entries ahead of the stored history.
func (s *HistoryService) Prepend(ctx context.Context, entries []domain.HistoryEntry) error {
	s.l.mu.Lock()
	defer s.l.mu.Unlock()

	existing, err := s.l.loadHistory(ctx)
	if err != nil {
		return err
	}
	out := make([]domain.HistoryEntry, 0, len(entries)+len(existing))
	out = append(out, entries...)
	out = append(out, existing...)
	return s.l.save(ctx, domain.KeyHistory, out)
}
