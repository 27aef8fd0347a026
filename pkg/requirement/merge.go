package requirement

import (
	"slices"

	"github.com/samber/lo"
)

const DefaultTotalCourses = 8

// Rules is a program's base requirement declaration or a specialization overlay.
// Nil TotalCourses and Electives mean "not declared", which differs from declared-empty.
type Rules struct {
	TotalCourses *int
	Compulsory   []string
	Choices      []Clause
	Electives    []Clause
	Max500Level  *int
	Minimums     []SubjectMinimum
	Notes        []string
}

// Merge combines base rules with a specialization overlay:
//   - compulsory courses: union, base order first
//   - choice groups: concatenated, each satisfied independently
//   - elective rules: overlay replaces base when declared, otherwise inherited
//   - total courses: overlay, else base, else DefaultTotalCourses
//   - level and departmental constraints: base only
func Merge(base, overlay Rules) Set {
	set := Set{
		TotalCourses:   DefaultTotalCourses,
		Clauses:        make([]Clause, 0),
		MinFromSubject: slices.Clone(base.Minimums),
		Notes:          slices.Clone(base.Notes),
	}
	if base.Max500Level != nil {
		limit := *base.Max500Level
		set.Max500Level = &limit
	}

	switch {
	case overlay.TotalCourses != nil:
		set.TotalCourses = *overlay.TotalCourses
	case base.TotalCourses != nil:
		set.TotalCourses = *base.TotalCourses
	}

	compulsory := lo.Uniq(append(slices.Clone(base.Compulsory), overlay.Compulsory...))
	if len(compulsory) > 0 {
		set.Clauses = append(set.Clauses, Clause{Kind: Compulsory, Courses: compulsory})
	}

	for _, choice := range append(slices.Clone(base.Choices), overlay.Choices...) {
		clause := choice.clone()
		clause.Kind = ChoiceGroup
		set.Clauses = append(set.Clauses, clause)
	}

	electives := base.Electives
	if overlay.Electives != nil {
		electives = overlay.Electives
	}
	for _, elective := range electives {
		clause := elective.clone()
		clause.Kind = Elective
		set.Clauses = append(set.Clauses, clause)
	}

	return set
}
