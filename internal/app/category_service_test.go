package app_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mealtrack/internal/config"
	"mealtrack/internal/domain"
)

func TestCategories_ToggleAddsThenRemoves(t *testing.T) {
	svc, _ := newServices(t)
	ctx := context.Background()
	m, _ := svc.Catalog.Add(ctx, egg())

	added, err := svc.Categories.Toggle(ctx, domain.Breakfast, m)
	require.NoError(t, err)
	assert.True(t, added)

	member, err := svc.Categories.IsMember(ctx, domain.Breakfast, m.ID)
	require.NoError(t, err)
	assert.True(t, member)

	added, err = svc.Categories.Toggle(ctx, domain.Breakfast, m)
	require.NoError(t, err)
	assert.False(t, added)

	list, err := svc.Categories.List(ctx, domain.Breakfast)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCategories_ToggleByIDUnknownMeal(t *testing.T) {
	svc, _ := newServices(t)
	_, err := svc.Categories.ToggleByID(context.Background(), domain.Lunch, 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCategories_ListResolvesLiveValues(t *testing.T) {
	svc, db := newServices(t)
	ctx := context.Background()
	m, _ := svc.Catalog.Add(ctx, egg())
	_, err := svc.Categories.ToggleByID(ctx, domain.Dinner, m.ID)
	require.NoError(t, err)

	_, err = svc.Catalog.Update(ctx, m.ID, domain.MealFields{Name: "Egg", Calories: 100, Protein: 6, Carbs: 1, Fats: 5})
	require.NoError(t, err)

	list, err := svc.Categories.List(ctx, domain.Dinner)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 100, list[0].Calories)

	var stored []domain.Meal
	require.True(t, getJSON(t, db, domain.Dinner.Key(), &stored))
	assert.Equal(t, 78, stored[0].Calories, "stored copy is not rewritten")
}

func TestCategories_SnapshotShowsStoredCopies(t *testing.T) {
	svc, _ := newServices(t, func(c *config.Config) { c.Categories.Snapshot = true })
	ctx := context.Background()
	m, _ := svc.Catalog.Add(ctx, egg())
	_, _ = svc.Categories.ToggleByID(ctx, domain.Dinner, m.ID)
	_, _ = svc.Catalog.Update(ctx, m.ID, domain.MealFields{Name: "Egg", Calories: 100})

	list, err := svc.Categories.List(ctx, domain.Dinner)
	require.NoError(t, err)
	assert.Equal(t, 78, list[0].Calories)
}

func TestCategories_ReconcileRemovesOrphans(t *testing.T) {
	svc, db := newServices(t)
	ctx := context.Background()
	keep, _ := svc.Catalog.Add(ctx, egg())
	drop, _ := svc.Catalog.Add(ctx, domain.MealFields{Name: "Cake", Calories: 400, Protein: 4, Carbs: 50, Fats: 20})
	_, _ = svc.Categories.Toggle(ctx, domain.Snack, keep)
	_, _ = svc.Categories.Toggle(ctx, domain.Snack, drop)
	_, _ = svc.Categories.Toggle(ctx, domain.Lunch, keep)

	require.NoError(t, svc.Catalog.Remove(ctx, drop.ID))

	changed, err := svc.Categories.Reconcile(ctx)
	require.NoError(t, err)
	assert.True(t, changed)

	var snack []domain.Meal
	require.True(t, getJSON(t, db, domain.Snack.Key(), &snack))
	assert.Equal(t, []domain.Meal{keep}, snack)

	changed, err = svc.Categories.Reconcile(ctx)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestCategories_ClearAndClearAll(t *testing.T) {
	svc, db := newServices(t)
	ctx := context.Background()
	m, _ := svc.Catalog.Add(ctx, egg())
	for _, c := range domain.Categories {
		_, err := svc.Categories.Toggle(ctx, c, m)
		require.NoError(t, err)
	}

	require.NoError(t, svc.Categories.Clear(ctx, domain.Breakfast))
	_, ok, _ := db.Get(ctx, domain.Breakfast.Key())
	assert.False(t, ok)

	require.NoError(t, svc.Categories.ClearAll(ctx))
	all, err := svc.Categories.All(ctx)
	require.NoError(t, err)
	for _, c := range domain.Categories {
		assert.Empty(t, all[c], c)
	}
}
