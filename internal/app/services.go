package app

import (
	"go.uber.org/zap"

	"mealtrack/internal/config"
	"mealtrack/internal/domain"
)

// Services bundles every service built over one store.
type Services struct {
	Ledger     *Ledger
	Catalog    *CatalogService
	Categories *CategoryService
	Totals     *TotalsService
	History    *HistoryService
	Goals      *GoalsService
	Overview   *OverviewService
	DayCloser  *DayCloser
	Dev        *DevService
}

// NewServices wires the services from cfg. cfg must have been validated.
func NewServices(store domain.KVStore, cfg *config.Config, log *zap.Logger) *Services {
	loc := cfg.DayClose.Location
	l := NewLedger(store, log)

	cats := NewCategoryService(l, cfg.Categories.Snapshot)
	catalog := NewCatalogService(l, IDStrategy(cfg.Catalog.IDStrategy))
	history := NewHistoryService(l, cfg.History.RecentDays, loc)
	totals := NewTotalsService(l, cats, loc)
	goals := NewGoalsService(l, totals)

	return &Services{
		Ledger:     l,
		Catalog:    catalog,
		Categories: cats,
		Totals:     totals,
		History:    history,
		Goals:      goals,
		Overview:   NewOverviewService(history, goals, loc),
		DayCloser: NewDayCloser(l, cats, history, Schedule{
			Hour:     cfg.DayClose.Hour,
			Minute:   cfg.DayClose.Minute,
			Interval: cfg.DayClose.Interval,
			Location: loc,
		}),
		Dev: NewDevService(l, catalog, history, loc),
	}
}
