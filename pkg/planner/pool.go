package planner

import (
	"fmt"
	"slices"

	"github.com/limaJavier/courseplanner/pkg/catalog"
	"github.com/limaJavier/courseplanner/pkg/requirement"
	"github.com/limaJavier/courseplanner/pkg/term"
	"github.com/samber/lo"
)

// Rank orders pool entries; lower ranks are allocated first
type Rank int

const (
	RankCompulsory Rank = iota
	RankChoice
	RankListElective
	RankComplexSpecified
	RankComplexFree
	RankGeneric
)

var rankCategories = map[Rank]string{
	RankCompulsory:       "compulsory",
	RankChoice:           "compulsory_choice",
	RankListElective:     "specified_elective",
	RankComplexSpecified: "complex_specified_list",
	RankComplexFree:      "complex_elective_list",
	RankGeneric:          "general_elective",
}

// Category is the tag shown next to a course in the pool
func (rank Rank) Category() string {
	if category, ok := rankCategories[rank]; ok {
		return category
	}
	return fmt.Sprintf("Rank(%d)", int(rank))
}

func (rank Rank) MarshalText() ([]byte, error) {
	return []byte(rank.Category()), nil
}

// Catalog is the read-only course source the engine plans against
type Catalog interface {
	Lookup(code string) (catalog.Course, bool)
	HasOfferings(code string) bool
	Offerings(code string) []catalog.Offering
	AvailabilityFor(terms []term.Code, courses []string) map[string][]catalog.Offering
	GraduateCourses() []catalog.Course
}

type Entry struct {
	Code   string              `json:"code"`
	Course catalog.Course      `json:"course"`
	Rank   Rank                `json:"category"`
	Clause *requirement.Clause `json:"clause,omitempty"` // Owning clause, nil for compulsory courses
}

type Pool struct {
	Entries []Entry  `json:"entries"`
	Missing []string `json:"missing,omitempty"` // Required courses absent from the catalog
}

// BuildPool ranks every course that can count towards the set. A course reachable through several
// clauses keeps only its best rank.
func BuildPool(set requirement.Set, courses Catalog) Pool {
	pool := Pool{Entries: make([]Entry, 0), Missing: make([]string, 0)}
	seen := make(map[string]bool)

	add := func(code string, rank Rank, clause *requirement.Clause) {
		course, ok := courses.Lookup(code)
		if !ok {
			if !slices.Contains(pool.Missing, code) {
				pool.Missing = append(pool.Missing, code)
			}
			return
		}
		code = course.Code()
		if seen[code] {
			return
		}
		seen[code] = true
		pool.Entries = append(pool.Entries, Entry{Code: code, Course: course, Rank: rank, Clause: clause})
	}

	// Clauses are copied so that entries can point at them without aliasing the caller's set
	clauses := slices.Clone(set.Clauses)
	visit := func(rank Rank, codes func(clause requirement.Clause) []string) {
		for i := range clauses {
			if rankOf(clauses[i]) != rank {
				continue
			}
			var owner *requirement.Clause
			if clauses[i].Kind != requirement.Compulsory {
				owner = &clauses[i]
			}
			for _, code := range codes(clauses[i]) {
				add(code, rank, owner)
			}
		}
	}
	listed := func(clause requirement.Clause) []string { return clause.Courses }

	visit(RankCompulsory, listed)
	visit(RankChoice, listed)
	visit(RankListElective, listed)

	//** Complex electives, specified sub-list above the free one
	visit(RankComplexSpecified, func(clause requirement.Clause) []string { return clause.Specified })
	for i := range clauses {
		if rankOf(clauses[i]) == RankComplexSpecified {
			for _, code := range clauses[i].Free {
				add(code, RankComplexFree, &clauses[i])
			}
		}
	}

	//** Generic graduate electives fill whatever remains
	var generic *requirement.Clause
	for i := range clauses {
		if rankOf(clauses[i]) == RankGeneric {
			generic = &clauses[i]
			break
		}
	}
	for _, course := range courses.GraduateCourses() {
		add(course.Code(), RankGeneric, generic)
	}

	return pool
}

func rankOf(clause requirement.Clause) Rank {
	switch clause.Kind {
	case requirement.Compulsory:
		return RankCompulsory
	case requirement.ChoiceGroup:
		return RankChoice
	}
	switch clause.Elective {
	case requirement.ElectiveList:
		return RankListElective
	case requirement.ElectiveComplex:
		return RankComplexSpecified
	}
	return RankGeneric
}

func (pool Pool) Entry(code string) (Entry, bool) {
	return lo.Find(pool.Entries, func(entry Entry) bool { return entry.Code == code })
}

func (pool Pool) Count(rank Rank) int {
	return lo.CountBy(pool.Entries, func(entry Entry) bool { return entry.Rank == rank })
}
