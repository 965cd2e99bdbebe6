package service

import (
	"math"
	"sort"

	"github.com/avogt/rxminder/internal/domain"
)

// ProjectActive derives the active-prescription view from the raw prescription
// list and the term table. It is a pure function: it re-derives the date-range
// test from today rather than trusting the stored Active flag, so its output
// is correct even when the daily recompute has not yet run for the current
// date.
//
// The result contains exactly the prescriptions whose [StartDate, EndDate]
// interval contains today (inclusive both ends), ordered ascending by the
// referenced term's sort order. Prescriptions whose term id has no entry in
// the term table sort after all mapped entries, keeping their relative input
// order; the sort is stable throughout, so equal-term entries also keep input
// order.
func ProjectActive(prescriptions []domain.Prescription, terms []domain.ScheduleTerm, today string) []domain.Prescription {
	sortOrder := make(map[int]int, len(terms))
	for _, t := range terms {
		sortOrder[t.ID] = t.SortOrder
	}

	active := []domain.Prescription{}
	for _, p := range prescriptions {
		if domain.DateInRange(p.StartDate, p.EndDate, today) {
			active = append(active, p)
		}
	}

	rank := func(p domain.Prescription) int {
		if v, ok := sortOrder[p.TermID]; ok {
			return v
		}
		return math.MaxInt // unmapped terms sort last
	}
	sort.SliceStable(active, func(i, j int) bool {
		return rank(active[i]) < rank(active[j])
	})

	return active
}
