package planner

import (
	"fmt"
	"slices"

	"github.com/limaJavier/courseplanner/pkg/requirement"
	"github.com/onsi/gomega/matchers/support/goraph/bipartitegraph"
	"github.com/samber/lo"
)

type ClauseStatus struct {
	Clause    requirement.Clause `json:"clause"`
	Required  int                `json:"required"`
	Satisfied int                `json:"satisfied"`
	Courses   []string           `json:"courses"` // Scheduled courses counted towards the clause
}

func (status ClauseStatus) Met() bool {
	return status.Satisfied >= status.Required
}

type AuditReport struct {
	Program        string         `json:"program"`
	Specialization string         `json:"specialization,omitempty"`
	Complete       bool           `json:"complete"`
	Scheduled      int            `json:"scheduled"`
	Counted        int            `json:"counted"`
	TotalCourses   int            `json:"total_courses"`
	Clauses        []ClauseStatus `json:"clauses"`
	Unmet          []ClauseStatus `json:"unmet"`
	Uncounted      []string       `json:"uncounted"` // Scheduled courses no requirement slot could use
	Violations     []string       `json:"violations"`
}

// slot is one course position of a requirement clause; clause -1 is a generic filler
type slot struct {
	clause int
	accept func(code string) bool
}

// Audit matches scheduled courses to requirement slots with a maximum bipartite matching,
// so a course counts towards at most one clause and every clause gets the best possible fill
func Audit(set requirement.Set, schedule Schedule, courses Catalog) (AuditReport, error) {
	scheduled := schedule.normalized().Courses()
	report := AuditReport{
		Program:        set.Program,
		Specialization: set.Specialization,
		Scheduled:      len(scheduled),
		TotalCourses:   set.TotalCourses,
		Clauses:        make([]ClauseStatus, 0, len(set.Clauses)),
		Unmet:          make([]ClauseStatus, 0),
		Uncounted:      make([]string, 0),
		Violations:     make([]string, 0),
	}

	graduate := func(code string) bool {
		course, ok := courses.Lookup(code)
		return ok && course.IsGraduateRelevant()
	}

	//** Build slots
	slots := make([]slot, 0, set.TotalCourses)
	for i, clause := range set.Clauses {
		report.Clauses = append(report.Clauses, ClauseStatus{Clause: clause, Required: clause.Slots(), Courses: make([]string, 0)})

		switch {
		case clause.Kind == requirement.Compulsory:
			for _, code := range clause.Courses {
				slots = append(slots, slot{clause: i, accept: equals(code)})
			}
		case clause.Kind == requirement.Elective && clause.Elective == requirement.ElectiveGeneric:
			for range clause.Choose {
				slots = append(slots, slot{clause: i, accept: graduate})
			}
		default:
			candidates := clause.Candidates()
			for range clause.Choose {
				slots = append(slots, slot{clause: i, accept: func(code string) bool { return slices.Contains(candidates, code) }})
			}
		}
	}
	for len(slots) < set.TotalCourses {
		slots = append(slots, slot{clause: -1, accept: graduate})
	}

	//** Match
	counted := make(map[string]bool)
	if len(scheduled) > 0 && len(slots) > 0 {
		left := lo.Map(scheduled, func(code string, _ int) any { return code })
		right := lo.Map(slots, func(_ slot, i int) any { return i })
		neighbors := func(courseAny any, slotAny any) (bool, error) {
			return slots[slotAny.(int)].accept(courseAny.(string)), nil
		}

		graph, err := bipartitegraph.NewBipartiteGraph(left, right, neighbors)
		if err != nil {
			return AuditReport{}, err
		}
		for _, edge := range graph.LargestMatching() {
			code, matched := scheduled[edge.Node1], slots[edge.Node2-len(left)]
			counted[code] = true
			report.Counted++
			if matched.clause >= 0 {
				status := &report.Clauses[matched.clause]
				status.Satisfied++
				status.Courses = append(status.Courses, code)
			}
		}
	}

	for _, status := range report.Clauses {
		if !status.Met() {
			report.Unmet = append(report.Unmet, status)
		}
	}
	report.Uncounted = lo.Filter(scheduled, func(code string, _ int) bool { return !counted[code] })

	//** Aggregate constraints
	if set.Max500Level != nil {
		count := lo.CountBy(scheduled, func(code string) bool {
			course, ok := courses.Lookup(code)
			return ok && course.Level() == 5
		})
		if count > *set.Max500Level {
			report.Violations = append(report.Violations, fmt.Sprintf("%d 500-level course(s) scheduled, at most %d allowed", count, *set.Max500Level))
		}
	}
	for _, minimum := range set.MinFromSubject {
		if count := countSubject(scheduled, minimum.Subject); count < minimum.Min {
			report.Violations = append(report.Violations, fmt.Sprintf("Minimum %d %s course(s) required, %d scheduled", minimum.Min, minimum.Subject, count))
		}
	}

	report.Complete = len(report.Unmet) == 0 && len(report.Violations) == 0 && report.Counted >= set.TotalCourses
	return report, nil
}

func equals(code string) func(string) bool {
	return func(candidate string) bool { return candidate == code }
}
