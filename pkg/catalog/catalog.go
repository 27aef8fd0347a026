// Package catalog indexes per-term course snapshots and predicts offerings for terms
// that have no snapshot yet.
package catalog

import (
	"maps"
	"slices"
	"strings"

	"github.com/limaJavier/courseplanner/pkg/requisite"
	"github.com/limaJavier/courseplanner/pkg/term"
	"github.com/samber/lo"
)

// Snapshot is the list of courses observed for one term
type Snapshot struct {
	Term    term.Code
	Courses []Course
}

type snapshotEntry struct {
	code  string
	title string
}

// Catalog is immutable once built and safe for concurrent readers
type Catalog struct {
	courses      map[string]Course
	availability map[string][]Offering       // Confirmed offerings of graduate-relevant courses, ordered by term
	snapshots    map[term.Code][]snapshotEntry // Graduate-relevant entries per snapshot term, ordered by code
}

// Build indexes snapshots, keeping the most recent definition of every course
func Build(snapshots []Snapshot) *Catalog {
	catalog := &Catalog{
		courses:      make(map[string]Course),
		availability: make(map[string][]Offering),
		snapshots:    make(map[term.Code][]snapshotEntry),
	}

	ordered := slices.Clone(snapshots)
	slices.SortStableFunc(ordered, func(a, b Snapshot) int { return term.Compare(a.Term, b.Term) })

	for _, snapshot := range ordered {
		entries := make(map[string]snapshotEntry)
		if existing, ok := catalog.snapshots[snapshot.Term]; ok {
			for _, entry := range existing {
				entries[entry.code] = entry
			}
		}

		for _, course := range snapshot.Courses {
			if course.Subject == "" || course.CatalogNumber == "" {
				continue
			}
			if !course.Term.Valid() {
				course.Term = snapshot.Term
			}
			code := course.Code()

			//** Keep the most recent definition
			if current, ok := catalog.courses[code]; !ok || !course.Term.Before(current.Term) {
				catalog.courses[code] = course
			}

			//** Index graduate-relevant availability
			if !course.IsGraduateRelevant() {
				continue
			}
			if _, ok := entries[code]; !ok {
				entries[code] = snapshotEntry{code: code, title: course.Title}
			}
			alreadyListed := lo.ContainsBy(catalog.availability[code], func(offering Offering) bool {
				return offering.Term == snapshot.Term
			})
			if !alreadyListed {
				catalog.availability[code] = append(catalog.availability[code], Offering{
					Course: code,
					Term:   snapshot.Term,
					Status: Confirmed,
					Title:  course.Title,
				})
			}
		}

		catalog.snapshots[snapshot.Term] = lo.Map(slices.Sorted(maps.Keys(entries)), func(code string, _ int) snapshotEntry {
			return entries[code]
		})
	}

	return catalog
}

// Lookup never fails; callers must check the boolean
func (catalog *Catalog) Lookup(code string) (Course, bool) {
	if course, ok := catalog.courses[code]; ok {
		return course, true
	}
	if normalized, ok := requisite.NormalizeCode(code); ok {
		course, ok := catalog.courses[normalized]
		return course, ok
	}
	return Course{}, false
}

// Offerings returns the confirmed offering history of a course
func (catalog *Catalog) Offerings(code string) []Offering {
	return slices.Clone(catalog.availability[code])
}

// HasOfferings reports whether any snapshot ever listed the course as graduate-relevant
func (catalog *Catalog) HasOfferings(code string) bool {
	return len(catalog.availability[code]) > 0
}

func (catalog *Catalog) HasSnapshot(code term.Code) bool {
	_, ok := catalog.snapshots[code]
	return ok
}

// AvailabilityFor resolves every requested term to confirmed or predicted offerings.
// A term with neither its own snapshot nor one for the same season a year earlier is skipped.
// A nil courses slice selects every graduate-relevant course.
func (catalog *Catalog) AvailabilityFor(terms []term.Code, courses []string) map[string][]Offering {
	var wanted map[string]bool
	if courses != nil {
		wanted = lo.SliceToMap(courses, func(code string) (string, bool) { return code, true })
	}

	availability := make(map[string][]Offering)
	for _, code := range terms {
		status, source := Confirmed, code
		entries, ok := catalog.snapshots[code]
		if !ok {
			prior, err := term.PriorYear(code)
			if err != nil {
				continue
			}
			if entries, ok = catalog.snapshots[prior]; !ok {
				continue
			}
			status, source = Predicted, prior
		}

		for _, entry := range entries {
			if wanted != nil && !wanted[entry.code] {
				continue
			}
			offering := Offering{Course: entry.code, Term: code, Status: status, Title: entry.title}
			if status == Predicted {
				offering.PredictedFrom = source
			}
			availability[entry.code] = append(availability[entry.code], offering)
		}
	}
	return availability
}

// Terms returns the snapshot terms in chronological order
func (catalog *Catalog) Terms() []term.Code {
	return slices.SortedFunc(maps.Keys(catalog.snapshots), term.Compare)
}

// Courses returns every known course ordered by code
func (catalog *Catalog) Courses() []Course {
	return lo.Map(slices.Sorted(maps.Keys(catalog.courses)), func(code string, _ int) Course {
		return catalog.courses[code]
	})
}

func (catalog *Catalog) GraduateCourses() []Course {
	return lo.Filter(catalog.Courses(), func(course Course, _ int) bool {
		return course.IsGraduateRelevant()
	})
}

// Subjects returns the distinct subject codes in the catalog
func (catalog *Catalog) Subjects() []string {
	subjects := lo.Uniq(lo.Map(catalog.Courses(), func(course Course, _ int) string {
		return strings.ToUpper(course.Subject)
	}))
	slices.Sort(subjects)
	return subjects
}

func (catalog *Catalog) Len() int {
	return len(catalog.courses)
}
