package app_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mealtrack/internal/adapter/memory"
	"mealtrack/internal/app"
	"mealtrack/internal/domain"
)

func seedBreakfast(t *testing.T, svc *app.Services) domain.Meal {
	t.Helper()
	ctx := context.Background()
	m, err := svc.Catalog.Add(ctx, egg())
	require.NoError(t, err)
	_, err = svc.Categories.Toggle(ctx, domain.Breakfast, m)
	require.NoError(t, err)
	return m
}

func TestDayCloser_FirstTickOpensToday(t *testing.T) {
	svc, _ := newServices(t)
	ctx := context.Background()

	closed, err := svc.DayCloser.Tick(ctx, at("2024-01-01 08:00"))
	require.NoError(t, err)
	assert.False(t, closed)

	st, err := svc.DayCloser.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1 Jan 2024", st.OpenDate)
}

func TestDayCloser_ClosesAtConfiguredTimeOnce(t *testing.T) {
	svc, _ := newServices(t)
	ctx := context.Background()
	seedBreakfast(t, svc)

	_, err := svc.DayCloser.Tick(ctx, at("2024-01-01 08:00"))
	require.NoError(t, err)

	closed, err := svc.DayCloser.Tick(ctx, at("2024-01-01 23:49"))
	require.NoError(t, err)
	assert.False(t, closed)

	closed, err = svc.DayCloser.Tick(ctx, at("2024-01-01 23:50"))
	require.NoError(t, err)
	assert.True(t, closed)

	for _, ts := range []string{"2024-01-01 23:51", "2024-01-01 23:59", "2024-01-02 00:01"} {
		closed, err = svc.DayCloser.Tick(ctx, at(ts))
		require.NoError(t, err)
		assert.False(t, closed, ts)
	}

	entries, err := svc.History.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.HistoryEntry{Date: "1 Jan 2024", Calories: 78, Protein: 6, Carbs: 1, Fats: 5}, entries[0])

	today, err := svc.Totals.Today(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Totals{}, today.Totals)
	assert.Equal(t, "2 Jan 2024", today.Date)

	st, _ := svc.DayCloser.State(ctx)
	assert.Equal(t, "1 Jan 2024", st.LastClosed)
}

func TestDayCloser_CatchUpAfterDowntime(t *testing.T) {
	svc, db := newServices(t)
	ctx := context.Background()
	seedBreakfast(t, svc)
	putJSON(t, db, domain.KeyDayState, domain.DayState{OpenDate: "1 Jan 2024"})

	closed, err := svc.DayCloser.Tick(ctx, at("2024-01-04 09:00"))
	require.NoError(t, err)
	assert.True(t, closed)

	entries, _ := svc.History.List(ctx, false)
	require.Len(t, entries, 1)
	assert.Equal(t, "1 Jan 2024", entries[0].Date)

	st, _ := svc.DayCloser.State(ctx)
	assert.Equal(t, "4 Jan 2024", st.OpenDate)
}

func TestDayCloser_AutomaticCloseRecordsEmptyDay(t *testing.T) {
	svc, _ := newServices(t)
	ctx := context.Background()
	_, _ = svc.DayCloser.Tick(ctx, at("2024-01-01 08:00"))

	closed, err := svc.DayCloser.Tick(ctx, at("2024-01-01 23:55"))
	require.NoError(t, err)
	assert.True(t, closed)

	entries, _ := svc.History.List(ctx, false)
	assert.Equal(t, []domain.HistoryEntry{{Date: "1 Jan 2024"}}, entries)
}

func TestDayCloser_CloseNowRejectsIncompleteTotals(t *testing.T) {
	svc, _ := newServices(t)
	ctx := context.Background()
	m, _ := svc.Catalog.Add(ctx, domain.MealFields{Name: "Water", Calories: 0})
	_, _ = svc.Categories.Toggle(ctx, domain.Snack, m)

	_, err := svc.DayCloser.CloseNow(ctx, at("2024-01-01 12:00"))
	assert.ErrorIs(t, err, domain.ErrNothingToClose)

	entries, _ := svc.History.List(ctx, false)
	assert.Empty(t, entries)
}

func TestDayCloser_CloseNowKeepsTodayOpen(t *testing.T) {
	svc, _ := newServices(t)
	ctx := context.Background()
	seedBreakfast(t, svc)
	_, _ = svc.DayCloser.Tick(ctx, at("2024-01-01 08:00"))

	e, err := svc.DayCloser.CloseNow(ctx, at("2024-01-01 12:00"))
	require.NoError(t, err)
	assert.Equal(t, "1 Jan 2024", e.Date)
	assert.Equal(t, 78.0, e.Calories)

	st, _ := svc.DayCloser.State(ctx)
	assert.Equal(t, domain.DayState{OpenDate: "1 Jan 2024", LastClosed: "1 Jan 2024"}, st)

	closed, err := svc.DayCloser.Tick(ctx, at("2024-01-01 23:50"))
	require.NoError(t, err)
	assert.True(t, closed)

	entries, _ := svc.History.List(ctx, false)
	assert.Equal(t, []domain.HistoryEntry{{Date: "1 Jan 2024", Calories: 78, Protein: 6, Carbs: 1, Fats: 5}}, entries,
		"scheduled close after a manual one keeps the day's totals")

	st, _ = svc.DayCloser.State(ctx)
	assert.Equal(t, "2 Jan 2024", st.OpenDate)
}

func TestDayCloser_RepeatedCloseNowSameDay(t *testing.T) {
	svc, _ := newServices(t)
	ctx := context.Background()
	m := seedBreakfast(t, svc)
	_, _ = svc.DayCloser.Tick(ctx, at("2024-01-01 08:00"))

	for i, ts := range []string{"2024-01-01 09:00", "2024-01-01 13:00", "2024-01-01 19:00"} {
		if i > 0 {
			_, err := svc.Categories.Toggle(ctx, domain.Lunch, m)
			require.NoError(t, err)
		}
		e, err := svc.DayCloser.CloseNow(ctx, at(ts))
		require.NoError(t, err, ts)
		assert.Equal(t, "1 Jan 2024", e.Date, ts)
		assert.Equal(t, 78.0*float64(i+1), e.Calories, ts)
	}

	entries, _ := svc.History.List(ctx, false)
	assert.Equal(t, []domain.HistoryEntry{{Date: "1 Jan 2024", Calories: 234, Protein: 18, Carbs: 3, Fats: 15}}, entries)

	today, err := svc.Totals.Today(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1 Jan 2024", today.Date)
	assert.Equal(t, domain.Totals{}, today.Totals)

	closed, err := svc.DayCloser.Tick(ctx, at("2024-01-01 23:50"))
	require.NoError(t, err)
	assert.True(t, closed)

	st, _ := svc.DayCloser.State(ctx)
	assert.Equal(t, domain.DayState{OpenDate: "2 Jan 2024", LastClosed: "1 Jan 2024"}, st)
	entries, _ = svc.History.List(ctx, false)
	require.Len(t, entries, 1)
	assert.Equal(t, 234.0, entries[0].Calories)
}

func TestDayCloser_CloseNowCatchesUpStaleDay(t *testing.T) {
	svc, db := newServices(t)
	ctx := context.Background()
	seedBreakfast(t, svc)
	putJSON(t, db, domain.KeyDayState, domain.DayState{OpenDate: "1 Jan 2024"})

	e, err := svc.DayCloser.CloseNow(ctx, at("2024-01-03 10:00"))
	require.NoError(t, err)
	assert.Equal(t, "1 Jan 2024", e.Date)

	st, _ := svc.DayCloser.State(ctx)
	assert.Equal(t, domain.DayState{OpenDate: "3 Jan 2024", LastClosed: "1 Jan 2024"}, st)
}

func TestDayCloser_RunStopsOnCancel(t *testing.T) {
	db := memory.New()
	l := app.NewLedger(db, zap.NewNop())
	cats := app.NewCategoryService(l, false)
	hist := app.NewHistoryService(l, 7, time.UTC)

	var mu sync.Mutex
	ticks := 0
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		ticks++
		return at("2024-01-01 10:00")
	}
	d := app.NewDayCloser(l, cats, hist, app.Schedule{Hour: 23, Minute: 50, Interval: time.Millisecond, Location: time.UTC}, app.WithClock(clock))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return ticks >= 3
	}, time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}

	st, err := d.State(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1 Jan 2024", st.OpenDate)
}
