// Package domain contains the core nutrition-ledger entities, the pure
// aggregation rules and the storage port.
package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Meal is a user-defined meal with its macro-nutrient values. Category lists
// hold copies of Meal values taken at assignment time.
type Meal struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Calories int    `json:"calories"`
	Protein  int    `json:"protein"`
	Carbs    int    `json:"carbs"`
	Fats     int    `json:"fats"`
}

// MealFields is the editable part of a Meal.
type MealFields struct {
	Name     string `json:"name"`
	Calories int    `json:"calories"`
	Protein  int    `json:"protein"`
	Carbs    int    `json:"carbs"`
	Fats     int    `json:"fats"`
}

// Validate checks that the name is present and no macro is negative.
func (f MealFields) Validate() error {
	var v validator
	v.check(strings.TrimSpace(f.Name) != "", "name", "must not be empty")
	v.check(f.Calories >= 0, "calories", "must be >= 0")
	v.check(f.Protein >= 0, "protein", "must be >= 0")
	v.check(f.Carbs >= 0, "carbs", "must be >= 0")
	v.check(f.Fats >= 0, "fats", "must be >= 0")
	return v.err()
}

// WithFields returns a copy of m carrying the given fields.
func (m Meal) WithFields(f MealFields) Meal {
	return Meal{
		ID:       m.ID,
		Name:     strings.TrimSpace(f.Name),
		Calories: f.Calories,
		Protein:  f.Protein,
		Carbs:    f.Carbs,
		Fats:     f.Fats,
	}
}

// UnmarshalJSON decodes a meal leniently: absent or malformed macro values
// become 0 and a non-string name becomes "" instead of failing the whole list.
func (m *Meal) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID       any `json:"id"`
		Name     any `json:"name"`
		Calories any `json:"calories"`
		Protein  any `json:"protein"`
		Carbs    any `json:"carbs"`
		Fats     any `json:"fats"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = Meal{
		ID:       int64(lenientNumber(raw.ID)),
		Name:     lenientString(raw.Name),
		Calories: int(lenientNumber(raw.Calories)),
		Protein:  int(lenientNumber(raw.Protein)),
		Carbs:    int(lenientNumber(raw.Carbs)),
		Fats:     int(lenientNumber(raw.Fats)),
	}
	return nil
}

// lenientString returns v when it is a string and "" otherwise.
func lenientString(v any) string {
	s, _ := v.(string)
	return s
}

// lenientNumber converts a decoded JSON value to a finite number, yielding 0
// for anything that is not a number or a numeric string.
func lenientNumber(v any) float64 {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0
		}
		f = n
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// Category is one of the four meal-time buckets.
type Category string

const (
	Breakfast Category = "breakfast"
	Lunch     Category = "lunch"
	Snack     Category = "snack"
	Dinner    Category = "dinner"
)

// Categories lists every category in display order.
var Categories = []Category{Breakfast, Lunch, Snack, Dinner}

// ParseCategory validates a category name.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	switch c {
	case Breakfast, Lunch, Snack, Dinner:
		return c, nil
	}
	return "", ErrUnknownCategory
}

// Key returns the storage key holding the category list.
func (c Category) Key() string {
	return categoryKeyPrefix + string(c)
}

// CategoryKeys returns the storage keys of all four category lists.
func CategoryKeys() []string {
	keys := make([]string, len(Categories))
	for i, c := range Categories {
		keys[i] = c.Key()
	}
	return keys
}
