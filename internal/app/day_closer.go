package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"mealtrack/internal/domain"
)

// Schedule configures when and how often the day closer runs.
type Schedule struct {
	Hour, Minute int
	Interval     time.Duration
	Location     *time.Location
}

// DayCloser closes the open day on a schedule: it records the day's totals
// in history, clears the four category lists and opens the next day. State
// is persisted under domain.KeyDayState so a restart resumes where it left
// off and a day missed while stopped is closed on the next tick.
type DayCloser struct {
	l       *Ledger
	cats    *CategoryService
	history *HistoryService
	sched   Schedule
	now     func() time.Time
}

// DayCloserOption configures a DayCloser.
type DayCloserOption func(*DayCloser)

// WithClock overrides the clock used by Run.
func WithClock(now func() time.Time) DayCloserOption {
	return func(d *DayCloser) { d.now = now }
}

// NewDayCloser creates a DayCloser.
func NewDayCloser(l *Ledger, cats *CategoryService, history *HistoryService, sched Schedule, opts ...DayCloserOption) *DayCloser {
	if sched.Location == nil {
		sched.Location = time.Local
	}
	if sched.Interval <= 0 {
		sched.Interval = 30 * time.Second
	}
	d := &DayCloser{l: l, cats: cats, history: history, sched: sched, now: time.Now}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Tick advances the day state for now and reports whether a day was closed.
// Repeated ticks after a close are no-ops until the next close time.
func (d *DayCloser) Tick(ctx context.Context, now time.Time) (bool, error) {
	d.l.mu.Lock()
	defer d.l.mu.Unlock()

	now = now.In(d.sched.Location)
	today := midnight(now)

	st, err := d.l.loadDayState(ctx)
	if err != nil {
		return false, err
	}
	if st.OpenDate == "" {
		st.OpenDate = domain.FormatDate(today)
		return false, d.l.save(ctx, domain.KeyDayState, st)
	}
	open, err := domain.ParseDate(st.OpenDate, d.sched.Location)
	if err != nil {
		d.l.log.Warn("unparsable open date, reopening today",
			zap.String("open_date", st.OpenDate), zap.Error(err))
		st.OpenDate = domain.FormatDate(today)
		return false, d.l.save(ctx, domain.KeyDayState, st)
	}

	switch {
	case open.Before(today):
		_, err := d.closeLocked(ctx, st, st.OpenDate, today)
		return err == nil, err
	case open.Equal(today) && !now.Before(d.closeAt(today)):
		_, err := d.closeLocked(ctx, st, st.OpenDate, today.AddDate(0, 0, 1))
		return err == nil, err
	}
	return false, nil
}

// CloseNow closes the open day on request. It fails with
// domain.ErrNothingToClose unless every macro total is nonzero.
//
// A day left open from before today is closed under its own date. Otherwise
// the totals are recorded under today's date and today stays open, so later
// closes the same day, manual or scheduled, add to the same entry.
func (d *DayCloser) CloseNow(ctx context.Context, now time.Time) (domain.HistoryEntry, error) {
	d.l.mu.Lock()
	defer d.l.mu.Unlock()

	now = now.In(d.sched.Location)
	today := midnight(now)

	st, err := d.l.loadDayState(ctx)
	if err != nil {
		return domain.HistoryEntry{}, err
	}
	open, err := domain.ParseDate(st.OpenDate, d.sched.Location)
	if err != nil {
		open = today
	}
	date, next := domain.FormatDate(today), today
	switch {
	case open.Before(today):
		date = domain.FormatDate(open)
	case open.After(today):
		next = open
	}

	lists, err := d.cats.All(ctx)
	if err != nil {
		return domain.HistoryEntry{}, err
	}
	if !summarize(date, lists).Totals.AllNonZero() {
		return domain.HistoryEntry{}, domain.ErrNothingToClose
	}
	return d.closeLocked(ctx, st, date, next)
}

// closeLocked records the lists' totals under date, clears the lists and
// opens next. When date was already closed, the totals are added to its
// entry. Caller holds l.mu.
func (d *DayCloser) closeLocked(ctx context.Context, st domain.DayState, date string, next time.Time) (domain.HistoryEntry, error) {
	lists, err := d.cats.All(ctx)
	if err != nil {
		return domain.HistoryEntry{}, err
	}
	totals := summarize(date, lists).Totals
	if st.LastClosed == date {
		prior, ok, err := d.history.find(ctx, date)
		if err != nil {
			return domain.HistoryEntry{}, err
		}
		if ok {
			totals = totals.Add(prior.Totals())
		}
	}

	entry, err := d.history.closeDay(ctx, date, totals)
	if err != nil {
		return domain.HistoryEntry{}, err
	}
	if err := d.cats.clearAll(ctx); err != nil {
		return domain.HistoryEntry{}, err
	}
	st = domain.DayState{OpenDate: domain.FormatDate(next), LastClosed: date}
	if err := d.l.save(ctx, domain.KeyDayState, st); err != nil {
		return domain.HistoryEntry{}, err
	}
	d.l.log.Info("day closed",
		zap.String("date", entry.Date),
		zap.Float64("calories", entry.Calories),
		zap.String("next_open", st.OpenDate))
	return entry, nil
}

// State returns the persisted day state.
func (d *DayCloser) State(ctx context.Context) (domain.DayState, error) {
	return d.l.loadDayState(ctx)
}

// Run ticks immediately and then every Interval until ctx is done. Each
// tick also reconciles category lists against the catalog. Errors are
// logged and do not stop the loop.
func (d *DayCloser) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.sched.Interval)
	defer ticker.Stop()

	d.runOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			d.runOnce(ctx)
		}
	}
}

func (d *DayCloser) runOnce(ctx context.Context) {
	if _, err := d.Tick(ctx, d.now()); err != nil {
		d.l.log.Error("day close tick failed", zap.Error(err))
	}
	changed, err := d.cats.Reconcile(ctx)
	if err != nil {
		d.l.log.Error("category reconcile failed", zap.Error(err))
		return
	}
	if changed {
		d.l.log.Info("removed orphaned category entries")
	}
}

func (d *DayCloser) closeAt(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), d.sched.Hour, d.sched.Minute, 0, 0, d.sched.Location)
}

func midnight(t time.Time) time.Time {
	y, m, dd := t.Date()
	return time.Date(y, m, dd, 0, 0, 0, 0, t.Location())
}
