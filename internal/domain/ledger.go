package domain

import (
	"slices"
	"time"
)

// SumTotals adds up the macros of every meal in every list.
func SumTotals(lists ...[]Meal) Totals {
	var t Totals
	for _, l := range lists {
		for _, m := range l {
			t = t.AddMeal(m)
		}
	}
	return t
}

// IsMember reports whether list contains a meal with the given id.
func IsMember(list []Meal, id int64) bool {
	return slices.ContainsFunc(list, func(m Meal) bool { return m.ID == id })
}

// Toggle removes every entry with meal's id when present, otherwise appends a
// copy of meal. The input slice is not modified.
func Toggle(list []Meal, meal Meal) (out []Meal, added bool) {
	if IsMember(list, meal.ID) {
		out = make([]Meal, 0, len(list))
		for _, m := range list {
			if m.ID != meal.ID {
				out = append(out, m)
			}
		}
		return out, false
	}
	out = make([]Meal, len(list), len(list)+1)
	copy(out, list)
	return append(out, meal), true
}

func catalogIndex(catalog []Meal) map[int64]Meal {
	idx := make(map[int64]Meal, len(catalog))
	for _, m := range catalog {
		if _, dup := idx[m.ID]; !dup {
			idx[m.ID] = m
		}
	}
	return idx
}

// Reconcile drops entries whose id is absent from catalog and reports
// whether anything was removed.
func Reconcile(list, catalog []Meal) ([]Meal, bool) {
	idx := catalogIndex(catalog)
	out := make([]Meal, 0, len(list))
	for _, m := range list {
		if _, ok := idx[m.ID]; ok {
			out = append(out, m)
		}
	}
	return out, len(out) != len(list)
}

// ResolveLive replaces each entry that still exists in catalog with the
// catalog's current values. Orphaned entries are returned as stored.
func ResolveLive(list, catalog []Meal) []Meal {
	idx := catalogIndex(catalog)
	out := make([]Meal, len(list))
	for i, m := range list {
		if live, ok := idx[m.ID]; ok {
			out[i] = live
			continue
		}
		out[i] = m
	}
	return out
}

// UpsertHistory replaces the entry with the same date in place, or appends.
func UpsertHistory(entries []HistoryEntry, e HistoryEntry) []HistoryEntry {
	out := slices.Clone(entries)
	for i := range out {
		if out[i].Date == e.Date {
			out[i] = e
			return out
		}
	}
	return append(out, e)
}

// AggregateByDate collapses duplicate dates by summing their macros. Dates
// keep the position of their first occurrence.
func AggregateByDate(entries []HistoryEntry) []HistoryEntry {
	pos := make(map[string]int, len(entries))
	out := make([]HistoryEntry, 0, len(entries))
	for _, e := range entries {
		i, seen := pos[e.Date]
		if !seen {
			pos[e.Date] = len(out)
			out = append(out, HistoryEntry{Date: e.Date})
			i = len(out) - 1
		}
		out[i] = NewHistoryEntry(e.Date, out[i].Totals().Add(e.Totals()))
	}
	return out
}

// LastN returns the last n entries in storage order.
func LastN(entries []HistoryEntry, n int) []HistoryEntry {
	if n <= 0 {
		return []HistoryEntry{}
	}
	if len(entries) > n {
		entries = entries[len(entries)-n:]
	}
	return slices.Clone(entries)
}

// SortByDate returns entries in chronological order. Entries whose date does
// not parse keep their relative order after the dated ones.
func SortByDate(entries []HistoryEntry, loc *time.Location) []HistoryEntry {
	type keyed struct {
		e  HistoryEntry
		t  time.Time
		ok bool
	}
	ks := make([]keyed, len(entries))
	for i, e := range entries {
		t, err := ParseDate(e.Date, loc)
		ks[i] = keyed{e: e, t: t, ok: err == nil}
	}
	slices.SortStableFunc(ks, func(a, b keyed) int {
		switch {
		case a.ok && !b.ok:
			return -1
		case !a.ok && b.ok:
			return 1
		case !a.ok && !b.ok:
			return 0
		}
		return a.t.Compare(b.t)
	})
	out := make([]HistoryEntry, len(ks))
	for i, k := range ks {
		out[i] = k.e
	}
	return out
}
