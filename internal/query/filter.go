// Package query implements the filter engine and the chart aggregates.
// Everything here is a pure function of (records, selection); handlers
// recompute on every request and no state is shared between calls.
package query

import (
	"accidentdash/internal/domain"
)

// Selection is one user interaction's worth of filter state. It is rebuilt
// from query parameters on every request; nothing here survives between
// interactions.
//
// Severity semantics are strict: a nil slice means "no severity predicate",
// while an explicitly empty slice matches no records. The UI expresses
// "all severities" by selecting every level or omitting the parameter.
type Selection struct {
	State      string `validate:"omitempty,len=2,alpha"`
	Severities []int  `validate:"omitempty,dive,min=1,max=4"`
	YearMin    int    `validate:"omitempty,min=1,max=9999"`
	YearMax    int    `validate:"omitempty,min=1,max=9999"`
	Metric     domain.WeatherMetric
}

// Normalized clamps the year range to the dataset's actual bounds,
// swapping an inverted range instead of rejecting it. Zero on either side
// means "unbounded", which clamps to the corresponding dataset bound.
func (s Selection) Normalized(minYear, maxYear int) Selection {
	if s.YearMin == 0 {
		s.YearMin = minYear
	}
	if s.YearMax == 0 {
		s.YearMax = maxYear
	}
	if s.YearMin > s.YearMax {
		s.YearMin, s.YearMax = s.YearMax, s.YearMin
	}
	s.YearMin = clampYear(s.YearMin, minYear, maxYear)
	s.YearMax = clampYear(s.YearMax, minYear, maxYear)
	return s
}

func clampYear(y, lo, hi int) int {
	if y < lo {
		return lo
	}
	if y > hi {
		return hi
	}
	return y
}

// Filter returns the records satisfying every active predicate, ANDed.
// The result preserves input order, so the same selection always yields
// an identical view.
func Filter(records []domain.Record, sel Selection) []domain.Record {
	// Explicitly empty severity set: nothing can match.
	if sel.Severities != nil && len(sel.Severities) == 0 {
		return []domain.Record{}
	}

	var sevSet map[int]struct{}
	if sel.Severities != nil {
		sevSet = make(map[int]struct{}, len(sel.Severities))
		for _, s := range sel.Severities {
			sevSet[s] = struct{}{}
		}
	}

	out := make([]domain.Record, 0, len(records))
	for _, r := range records {
		if sel.State != "" && r.State != sel.State {
			continue
		}
		if sevSet != nil {
			if _, ok := sevSet[r.Severity]; !ok {
				continue
			}
		}
		if sel.YearMin != 0 || sel.YearMax != 0 {
			year := r.Year()
			if sel.YearMin != 0 && year < sel.YearMin {
				continue
			}
			if sel.YearMax != 0 && year > sel.YearMax {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}
