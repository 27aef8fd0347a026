package requirement

import (
	"fmt"
	"slices"

	"github.com/samber/lo"
)

type ClauseKind int

const (
	Compulsory ClauseKind = iota
	ChoiceGroup
	Elective
)

var clauseKindNames = map[ClauseKind]string{
	Compulsory:  "compulsory",
	ChoiceGroup: "compulsory_choice",
	Elective:    "elective",
}

func (kind ClauseKind) String() string {
	if name, ok := clauseKindNames[kind]; ok {
		return name
	}
	return fmt.Sprintf("ClauseKind(%d)", int(kind))
}

func (kind ClauseKind) MarshalText() ([]byte, error) {
	return []byte(kind.String()), nil
}

type ElectiveKind string

const (
	ElectiveList    ElectiveKind = "choose_n_from_list"
	ElectiveComplex ElectiveKind = "complex"
	ElectiveGeneric ElectiveKind = "generic_graduate"
)

// Clause is one requirement of a program. Kind selects which fields are meaningful:
//   - Compulsory: Courses
//   - ChoiceGroup: Name, Choose, Courses
//   - Elective: Name, Choose, Elective and either Courses (list), Specified/Free (complex) or nothing (generic)
type Clause struct {
	Kind        ClauseKind   `json:"kind"`
	Name        string       `json:"name,omitempty"`
	Choose      int          `json:"n_to_choose,omitempty"`
	Courses     []string     `json:"courses,omitempty"`
	Elective    ElectiveKind `json:"elective_kind,omitempty"`
	Specified   []string     `json:"specified_list,omitempty"`
	Free        []string     `json:"elective_list,omitempty"`
	Description string       `json:"description,omitempty"`
}

// Candidates returns every course that can satisfy the clause; generic electives have none
func (clause Clause) Candidates() []string {
	if clause.Kind == Elective && clause.Elective == ElectiveComplex {
		return lo.Uniq(append(slices.Clone(clause.Specified), clause.Free...))
	}
	return slices.Clone(clause.Courses)
}

// Slots is the number of courses the clause consumes from a plan
func (clause Clause) Slots() int {
	if clause.Kind == Compulsory {
		return len(clause.Courses)
	}
	return clause.Choose
}

func (clause Clause) clone() Clause {
	clause.Courses = slices.Clone(clause.Courses)
	clause.Specified = slices.Clone(clause.Specified)
	clause.Free = slices.Clone(clause.Free)
	return clause
}

type SubjectMinimum struct {
	Subject string `json:"subject"`
	Min     int    `json:"min"`
}

// Set is a resolved, ordered requirement set: the compulsory clause first, then choice groups,
// then elective rules
type Set struct {
	Program        string           `json:"program"`
	Specialization string           `json:"specialization,omitempty"`
	TotalCourses   int              `json:"total_courses"`
	Clauses        []Clause         `json:"clauses"`
	Max500Level    *int             `json:"max_500_level,omitempty"`
	MinFromSubject []SubjectMinimum `json:"min_from_subject,omitempty"`
	Notes          []string         `json:"notes,omitempty"`
}

func (set Set) Compulsory() []string {
	compulsory := make([]string, 0)
	for _, clause := range set.Clauses {
		if clause.Kind == Compulsory {
			compulsory = append(compulsory, clause.Courses...)
		}
	}
	return compulsory
}

func (set Set) ChoiceGroups() []Clause {
	return set.ofKind(ChoiceGroup)
}

func (set Set) Electives() []Clause {
	return set.ofKind(Elective)
}

func (set Set) ofKind(kind ClauseKind) []Clause {
	return lo.Filter(set.Clauses, func(clause Clause, _ int) bool { return clause.Kind == kind })
}
