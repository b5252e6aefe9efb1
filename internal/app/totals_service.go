package app

import (
	"context"
	"time"

	"mealtrack/internal/domain"
)

// DailyTotals is the running total of the open day.
type DailyTotals struct {
	Date       string                            `json:"date"`
	Totals     domain.Totals                     `json:"totals"`
	ByCategory map[domain.Category]domain.Totals `json:"byCategory"`
}

// TotalsService computes the open day's totals.
type TotalsService struct {
	l    *Ledger
	cats *CategoryService
	loc  *time.Location
	now  func() time.Time
}

// NewTotalsService creates a TotalsService. Dates are rendered in loc.
func NewTotalsService(l *Ledger, cats *CategoryService, loc *time.Location) *TotalsService {
	if loc == nil {
		loc = time.Local
	}
	return &TotalsService{l: l, cats: cats, loc: loc, now: time.Now}
}

// Today sums the four category lists. Date is the open day recorded by the
// day closer, or the current date when none is recorded yet.
func (s *TotalsService) Today(ctx context.Context) (DailyTotals, error) {
	lists, err := s.cats.All(ctx)
	if err != nil {
		return DailyTotals{}, err
	}
	st, err := s.l.loadDayState(ctx)
	if err != nil {
		return DailyTotals{}, err
	}
	date := st.OpenDate
	if date == "" {
		date = domain.FormatDate(s.now().In(s.loc))
	}
	return summarize(date, lists), nil
}

func summarize(date string, lists map[domain.Category][]domain.Meal) DailyTotals {
	out := DailyTotals{Date: date, ByCategory: make(map[domain.Category]domain.Totals, len(domain.Categories))}
	all := make([][]domain.Meal, 0, len(domain.Categories))
	for _, c := range domain.Categories {
		out.ByCategory[c] = domain.SumTotals(lists[c])
		all = append(all, lists[c])
	}
	out.Totals = domain.SumTotals(all...)
	return out
}
