package planner

import (
	"maps"
	"slices"

	"github.com/limaJavier/courseplanner/pkg/requisite"
	"github.com/limaJavier/courseplanner/pkg/term"
)

// Schedule is a caller-held partial plan: course codes per term
type Schedule map[term.Code][]string

// normalized returns a copy with canonical course codes and no duplicates
func (schedule Schedule) normalized() Schedule {
	result := make(Schedule, len(schedule))
	seen := make(map[string]bool)
	for _, code := range schedule.Terms() {
		courses := make([]string, 0, len(schedule[code]))
		for _, course := range schedule[code] {
			if normalized, ok := requisite.NormalizeCode(course); ok {
				course = normalized
			}
			if seen[course] {
				continue
			}
			seen[course] = true
			courses = append(courses, course)
		}
		result[code] = courses
	}
	return result
}

// Terms returns the scheduled terms in chronological order
func (schedule Schedule) Terms() []term.Code {
	return slices.SortedFunc(maps.Keys(schedule), term.Compare)
}

func (schedule Schedule) TermOf(course string) (term.Code, bool) {
	for code, courses := range schedule {
		if slices.Contains(courses, course) {
			return code, true
		}
	}
	return "", false
}

// Courses lists every scheduled course in term order
func (schedule Schedule) Courses() []string {
	courses := make([]string, 0)
	for _, code := range schedule.Terms() {
		courses = append(courses, schedule[code]...)
	}
	return courses
}

func (schedule Schedule) without(course string) Schedule {
	result := make(Schedule, len(schedule))
	for code, courses := range schedule {
		result[code] = slices.DeleteFunc(slices.Clone(courses), func(scheduled string) bool { return scheduled == course })
	}
	return result
}

func (schedule Schedule) with(course string, code term.Code) Schedule {
	result := maps.Clone(schedule)
	result[code] = append(slices.Clone(schedule[code]), course)
	return result
}

// capacityAt returns the load limit of a term, counting pattern positions from start
func capacityAt(capacity []int, start, code term.Code) int {
	steps := term.Steps(start, code)
	if steps < 0 || len(capacity) == 0 {
		return 0
	}
	return capacity[steps%len(capacity)]
}
