package domain_test

import (
	"encoding/json"
	"errors"
	"testing"

	"mealtrack/internal/domain"
)

func TestMeal_UnmarshalLenient(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want domain.Meal
	}{
		{"well formed", `{"id":7,"name":"Egg","calories":78,"protein":6,"carbs":1,"fats":5}`,
			domain.Meal{ID: 7, Name: "Egg", Calories: 78, Protein: 6, Carbs: 1, Fats: 5}},
		{"missing macros", `{"id":7,"name":"Egg"}`, domain.Meal{ID: 7, Name: "Egg"}},
		{"numeric strings", `{"id":"7","name":"Egg","calories":"78","protein":" 6 "}`,
			domain.Meal{ID: 7, Name: "Egg", Calories: 78, Protein: 6}},
		{"garbage values", `{"id":7,"name":"Egg","calories":"lots","protein":null,"carbs":true,"fats":[1]}`,
			domain.Meal{ID: 7, Name: "Egg"}},
		{"non-string name", `{"id":7,"name":123,"calories":78}`, domain.Meal{ID: 7, Calories: 78}},
		{"object name", `{"id":7,"name":{"en":"Egg"},"protein":6}`, domain.Meal{ID: 7, Protein: 6}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got domain.Meal
			if err := json.Unmarshal([]byte(tc.in), &got); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if got != tc.want {
				t.Errorf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestMealFields_Validate(t *testing.T) {
	if err := (domain.MealFields{Name: "Egg", Calories: 78}).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	err := domain.MealFields{Name: "  ", Protein: -1}.Validate()
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || len(ve.Errors) != 2 {
		t.Errorf("expected 2 field errors, got %v", err)
	}
}

func TestParseCategory(t *testing.T) {
	for _, s := range []string{"breakfast", "Lunch", " snack ", "DINNER"} {
		if _, err := domain.ParseCategory(s); err != nil {
			t.Errorf("ParseCategory(%q): %v", s, err)
		}
	}
	if _, err := domain.ParseCategory("brunch"); !errors.Is(err, domain.ErrUnknownCategory) {
		t.Errorf("expected ErrUnknownCategory, got %v", err)
	}
	if domain.Dinner.Key() != "meals_dinner" {
		t.Errorf("unexpected key %q", domain.Dinner.Key())
	}
}

func TestMeal_UnmarshalListWithBadName(t *testing.T) {
	var got []domain.Meal
	in := `[{"id":1,"name":"Egg","calories":78},{"id":2,"name":false,"calories":50}]`
	if err := json.Unmarshal([]byte(in), &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	want := []domain.Meal{{ID: 1, Name: "Egg", Calories: 78}, {ID: 2, Calories: 50}}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("got %+v, want %+v", got, want)
	}
}
