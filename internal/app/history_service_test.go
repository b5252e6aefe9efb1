package app_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mealtrack/internal/domain"
)

func TestHistory_CloseDayTwiceKeepsLatest(t *testing.T) {
	svc, _ := newServices(t)
	ctx := context.Background()

	_, err := svc.History.CloseDay(ctx, "1 Jan 2024", domain.Totals{Calories: 2000, Protein: 100, Carbs: 250, Fats: 70})
	require.NoError(t, err)
	_, err = svc.History.CloseDay(ctx, "1 Jan 2024", domain.Totals{Calories: 2100, Protein: 110, Carbs: 260, Fats: 75})
	require.NoError(t, err)

	entries, err := svc.History.List(ctx, false)
	require.NoError(t, err)
	want := []domain.HistoryEntry{{Date: "1 Jan 2024", Calories: 2100, Protein: 110, Carbs: 260, Fats: 75}}
	if diff := cmp.Diff(want, entries); diff != "" {
		t.Errorf("history mismatch (-want +got):\n%s", diff)
	}
}

func TestHistory_CloseDayRejectsBadDate(t *testing.T) {
	svc, _ := newServices(t)
	_, err := svc.History.CloseDay(context.Background(), "2024-01-01", domain.Totals{})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestHistory_ListAggregatesDuplicates(t *testing.T) {
	svc, db := newServices(t)
	putJSON(t, db, domain.KeyHistory, []domain.HistoryEntry{
		{Date: "1 Jan 2024", Calories: 1000},
		{Date: "2 Jan 2024", Calories: 1500},
		{Date: "1 Jan 2024", Calories: 500},
	})

	entries, err := svc.History.List(context.Background(), true)
	require.NoError(t, err)
	want := []domain.HistoryEntry{
		{Date: "1 Jan 2024", Calories: 1500},
		{Date: "2 Jan 2024", Calories: 1500},
	}
	if diff := cmp.Diff(want, entries); diff != "" {
		t.Errorf("aggregate mismatch (-want +got):\n%s", diff)
	}
}

func TestHistory_RecentStorageOrderAndSorted(t *testing.T) {
	svc, db := newServices(t)
	putJSON(t, db, domain.KeyHistory, []domain.HistoryEntry{
		{Date: "1 Jan 2024"},
		{Date: "5 Jan 2024"},
		{Date: "3 Jan 2024"},
		{Date: "4 Jan 2024"},
	})
	ctx := context.Background()

	recent, err := svc.History.Recent(ctx, 3, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"5 Jan 2024", "3 Jan 2024", "4 Jan 2024"}, dates(recent))

	sorted, err := svc.History.Recent(ctx, 3, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"3 Jan 2024", "4 Jan 2024", "5 Jan 2024"}, dates(sorted))

	all, err := svc.History.Recent(ctx, 0, false)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestHistory_RecentSortedPicksLatestDates(t *testing.T) {
	svc, db := newServices(t)
	stored := []domain.HistoryEntry{{Date: "8 Jan 2024"}, {Date: "someday"}}
	for d := 1; d <= 7; d++ {
		stored = append(stored, domain.HistoryEntry{Date: fmt.Sprintf("%d Jan 2024", d)})
	}
	putJSON(t, db, domain.KeyHistory, stored)

	sorted, err := svc.History.Recent(context.Background(), 7, true)
	require.NoError(t, err)
	want := []string{"2 Jan 2024", "3 Jan 2024", "4 Jan 2024", "5 Jan 2024", "6 Jan 2024", "7 Jan 2024", "8 Jan 2024"}
	if diff := cmp.Diff(want, dates(sorted)); diff != "" {
		t.Errorf("Recent(7, true) mismatch (-want +got):\n%s", diff)
	}
}

func TestHistory_CloseDayRejectsNegativeTotals(t *testing.T) {
	svc, _ := newServices(t)
	ctx := context.Background()

	_, err := svc.History.CloseDay(ctx, "1 Jan 2024", domain.Totals{Calories: -100, Protein: 10})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "calories", ve.Errors[0].Field)

	entries, _ := svc.History.List(ctx, false)
	assert.Empty(t, entries)
}

func TestHistory_Clear(t *testing.T) {
	svc, _ := newServices(t)
	ctx := context.Background()
	_, _ = svc.History.CloseDay(ctx, "1 Jan 2024", domain.Totals{Calories: 1})

	require.NoError(t, svc.History.Clear(ctx))
	entries, err := svc.History.List(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func dates(entries []domain.HistoryEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Date
	}
	return out
}
