package domain

import (
	"encoding/json"
	"time"
)

// DateLayout is the calendar-day format used for history dates, e.g. "1 Jan 2024".
const DateLayout = "2 Jan 2006"

// FormatDate renders t as a history date in t's location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a history date as midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, loc)
}

// Totals holds summed macro values.
type Totals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
}

// AddMeal returns t plus the macros of m.
func (t Totals) AddMeal(m Meal) Totals {
	t.Calories += float64(m.Calories)
	t.Protein += float64(m.Protein)
	t.Carbs += float64(m.Carbs)
	t.Fats += float64(m.Fats)
	return t
}

// Add returns the field-wise sum of t and o.
func (t Totals) Add(o Totals) Totals {
	return Totals{
		Calories: t.Calories + o.Calories,
		Protein:  t.Protein + o.Protein,
		Carbs:    t.Carbs + o.Carbs,
		Fats:     t.Fats + o.Fats,
	}
}

// AllNonZero reports whether every macro is nonzero.
func (t Totals) AllNonZero() bool {
	return t.Calories != 0 && t.Protein != 0 && t.Carbs != 0 && t.Fats != 0
}

// HistoryEntry is one closed day's totals.
type HistoryEntry struct {
	Date     string  `json:"date"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
}

// NewHistoryEntry builds the entry recorded for date.
func NewHistoryEntry(date string, t Totals) HistoryEntry {
	return HistoryEntry{Date: date, Calories: t.Calories, Protein: t.Protein, Carbs: t.Carbs, Fats: t.Fats}
}

// Totals returns the macro part of the entry.
func (e HistoryEntry) Totals() Totals {
	return Totals{Calories: e.Calories, Protein: e.Protein, Carbs: e.Carbs, Fats: e.Fats}
}

// UnmarshalJSON decodes an entry leniently, like Meal.
func (e *HistoryEntry) UnmarshalJSON(data []byte) error {
	var raw struct {
		Date     any `json:"date"`
		Calories any `json:"calories"`
		Protein  any `json:"protein"`
		Carbs    any `json:"carbs"`
		Fats     any `json:"fats"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*e = HistoryEntry{
		Date:     lenientString(raw.Date),
		Calories: lenientNumber(raw.Calories),
		Protein:  lenientNumber(raw.Protein),
		Carbs:    lenientNumber(raw.Carbs),
		Fats:     lenientNumber(raw.Fats),
	}
	return nil
}

// Validate checks that no macro is negative.
func (t Totals) Validate() error {
	var v validator
	v.check(t.Calories >= 0, "calories", "must be >= 0")
	v.check(t.Protein >= 0, "protein", "must be >= 0")
	v.check(t.Carbs >= 0, "carbs", "must be >= 0")
	v.check(t.Fats >= 0, "fats", "must be >= 0")
	return v.err()
}

// DayState is the persisted state of the day-close job. OpenDate is the day
// currently accumulating; LastClosed is the last day written to history.
type DayState struct {
	OpenDate   string `json:"openDate"`
	LastClosed string `json:"lastClosed,omitempty"`
}
