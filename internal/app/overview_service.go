package app

import (
	"context"
	"time"

	"mealtrack/internal/domain"
)

// DayPoint is one day of the weekly overview.
type DayPoint struct {
	Date    string        `json:"date"`
	Weekday string        `json:"weekday"`
	Totals  domain.Totals `json:"totals"`
}

// WeeklyOverview is the data behind the weekly chart: recent days plus the
// goal targets drawn as reference lines.
type WeeklyOverview struct {
	Days    []DayPoint    `json:"days"`
	Targets domain.Totals `json:"targets"`
}

// OverviewService assembles chart data from history and goals.
type OverviewService struct {
	history *HistoryService
	goals   *GoalsService
	loc     *time.Location
}

// NewOverviewService creates an OverviewService.
func NewOverviewService(history *HistoryService, goals *GoalsService, loc *time.Location) *OverviewService {
	if loc == nil {
		loc = time.Local
	}
	return &OverviewService{history: history, goals: goals, loc: loc}
}

// Weekly returns the last n history entries in storage order, each labelled
// with its short weekday name. Dates that do not parse get an empty label.
func (s *OverviewService) Weekly(ctx context.Context, n int) (WeeklyOverview, error) {
	entries, err := s.history.Recent(ctx, n, false)
	if err != nil {
		return WeeklyOverview{}, err
	}
	targets, err := s.goals.targets(ctx)
	if err != nil {
		return WeeklyOverview{}, err
	}

	days := make([]DayPoint, 0, len(entries))
	for _, e := range entries {
		var weekday string
		if t, err := domain.ParseDate(e.Date, s.loc); err == nil {
			weekday = t.Format("Mon")
		}
		days = append(days, DayPoint{Date: e.Date, Weekday: weekday, Totals: e.Totals()})
	}
	return WeeklyOverview{Days: days, Targets: targets}, nil
}
