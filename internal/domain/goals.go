package domain

import "strings"

// GoalsProfile holds the user's daily macro targets. Its presence in the
// store means onboarding is complete.
type GoalsProfile struct {
	Name     string  `json:"name"`
	Age      int     `json:"age"`
	Weight   float64 `json:"weight,omitempty"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
}

// Validate checks a profile before it is saved.
func (p GoalsProfile) Validate() error {
	var v validator
	v.check(strings.TrimSpace(p.Name) != "", "name", "must not be empty")
	v.check(p.Age > 0, "age", "must be > 0")
	v.check(p.Weight >= 0, "weight", "must be >= 0")
	v.check(p.Calories >= 0, "calories", "must be >= 0")
	v.check(p.Protein >= 0, "protein", "must be >= 0")
	v.check(p.Carbs >= 0, "carbs", "must be >= 0")
	v.check(p.Fats >= 0, "fats", "must be >= 0")
	return v.err()
}

// Targets returns the goal values as Totals.
func (p GoalsProfile) Targets() Totals {
	return Totals{Calories: p.Calories, Protein: p.Protein, Carbs: p.Carbs, Fats: p.Fats}
}

// ProgressRatio returns total/goal, or 0 when goal is not positive.
func ProgressRatio(total, goal float64) float64 {
	if goal <= 0 {
		return 0
	}
	return total / goal
}

// MacroProgress is the progress of one macro against its goal.
type MacroProgress struct {
	Total float64 `json:"total"`
	Goal  float64 `json:"goal"`
	Ratio float64 `json:"ratio"`
	Over  bool    `json:"over"`
}

// NewMacroProgress computes progress; Over is set when the ratio exceeds 1.
func NewMacroProgress(total, goal float64) MacroProgress {
	r := ProgressRatio(total, goal)
	return MacroProgress{Total: total, Goal: goal, Ratio: r, Over: r > 1}
}

// Progress is the per-macro progress of a day's totals.
type Progress struct {
	Calories MacroProgress `json:"calories"`
	Protein  MacroProgress `json:"protein"`
	Carbs    MacroProgress `json:"carbs"`
	Fats     MacroProgress `json:"fats"`
}

// ComputeProgress compares totals against targets.
func ComputeProgress(totals, targets Totals) Progress {
	return Progress{
		Calories: NewMacroProgress(totals.Calories, targets.Calories),
		Protein:  NewMacroProgress(totals.Protein, targets.Protein),
		Carbs:    NewMacroProgress(totals.Carbs, targets.Carbs),
		Fats:     NewMacroProgress(totals.Fats, targets.Fats),
	}
}
