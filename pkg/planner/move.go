package planner

import (
	"fmt"
	"slices"
	"strings"

	"github.com/limaJavier/courseplanner/pkg/apperrors"
	"github.com/limaJavier/courseplanner/pkg/catalog"
	"github.com/limaJavier/courseplanner/pkg/requirement"
	"github.com/limaJavier/courseplanner/pkg/requisite"
	"github.com/limaJavier/courseplanner/pkg/term"
	"github.com/samber/lo"
)

type MoveRequest struct {
	Course         string   `json:"course" mapstructure:"course_code"`
	Term           string   `json:"term" mapstructure:"term_code"`
	Schedule       Schedule `json:"current_plan" mapstructure:"current_plan"`
	StartTerm      string   `json:"start_term,omitempty" mapstructure:"start_term"` // First term of the plan; defaults to the earliest planned term
	Program        string   `json:"program,omitempty" mapstructure:"program"`
	Specialization string   `json:"specialization,omitempty" mapstructure:"specialization"`
}

// MoveResult is either an acceptance or a rejection carrying one structured reason
type MoveResult struct {
	Accepted bool                   `json:"accepted"`
	Course   string                 `json:"course"`
	Term     term.Code              `json:"term"`
	Reason   *apperrors.CustomError `json:"reason,omitempty"`
	Warnings []string               `json:"warnings"`
	Schedule Schedule               `json:"schedule,omitempty"` // The resulting plan when accepted
}

type moveValidator struct {
	courses  Catalog
	set      *requirement.Set
	capacity []int
	strict   bool
}

// planStart anchors the capacity pattern. Every term of the schedule counts, empty or not, and
// the course being moved still occupies its old term at this point.
func planStart(request MoveRequest, target term.Code) (term.Code, error) {
	if request.StartTerm != "" {
		start, err := term.Parse(request.StartTerm)
		if err != nil {
			return "", err
		}
		if target.Before(start) {
			return "", apperrors.New(apperrors.ErrInvalidTermCode, "term %s precedes the plan start %s", target, start).
				WithDetails(map[string]any{"term": target, "start_term": start})
		}
		return start, nil
	}

	start := target
	for code := range request.Schedule {
		if code.Before(start) {
			start = code
		}
	}
	return start, nil
}

func (validator moveValidator) validate(request MoveRequest, target, start term.Code) MoveResult {
	result := MoveResult{Course: request.Course, Term: target, Warnings: make([]string, 0)}
	reject := func(err *apperrors.CustomError) MoveResult {
		result.Reason = err
		return result
	}

	//** 1. The course must exist
	course, ok := validator.courses.Lookup(request.Course)
	if !ok {
		return reject(apperrors.New(apperrors.ErrCourseNotFound, "course %s not found", request.Course).
			WithDetails(map[string]any{"course": request.Course}))
	}
	code := course.Code()
	result.Course = code

	//** 2. It must be offered at the target term
	if !validator.courses.HasOfferings(code) {
		result.Warnings = append(result.Warnings, fmt.Sprintf("%s has no recorded offerings; availability in %s is unknown", code, humanized(target)))
	} else if offerings := validator.courses.AvailabilityFor([]term.Code{target}, []string{code})[code]; len(offerings) == 0 {
		notOffered := apperrors.New(apperrors.ErrCourseNotOffered, "%s is not offered in %s", code, humanized(target)).
			WithDetails(map[string]any{"course": code, "term": target})
		if validator.strict {
			return reject(notOffered)
		}
		result.Warnings = append(result.Warnings, notOffered.Message)
	} else if offerings[0].Status == catalog.Predicted {
		result.Warnings = append(result.Warnings, fmt.Sprintf("%s in %s: %s", code, humanized(target), offerings[0].Label()))
	}

	// A course already in the plan is moved rather than duplicated
	current := request.Schedule.normalized().without(code)
	requisites := course.Requisites()

	//** 3. Prerequisites must be placed strictly earlier
	for _, prerequisite := range requisites.Prerequisites() {
		placed, ok := current.TermOf(prerequisite)
		if !ok || !placed.Before(target) {
			return reject(apperrors.New(apperrors.ErrPrerequisiteUnmet, "%s requires %s in an earlier term", code, prerequisite).
				WithDetails(map[string]any{"course": code, "prerequisite": prerequisite, "term": target}))
		}
	}

	//** 4. Antirequisites may not appear anywhere
	for _, antirequisite := range requisites.Antirequisites() {
		if placed, ok := current.TermOf(antirequisite); ok {
			return reject(apperrors.New(apperrors.ErrAntirequisiteConflict, "%s cannot be taken with %s", code, antirequisite).
				WithDetails(map[string]any{"course": code, "antirequisite": antirequisite, "term": placed}))
		}
	}

	//** 5. Term capacity
	limit := capacityAt(validator.capacity, start, target)
	if len(current[target])+1 > limit {
		return reject(apperrors.New(apperrors.ErrCapacityExceeded, "%s already holds %d of %d course(s)", humanized(target), len(current[target]), limit).
			WithDetails(map[string]any{"term": target, "capacity": limit, "scheduled": len(current[target])}))
	}

	resulting := current.with(code, target)

	//** 6. Aggregate constraints across the resulting plan
	if validator.set != nil {
		if err := validator.checkLevels(resulting); err != nil {
			return reject(err)
		}
		result.Warnings = append(result.Warnings, validator.subjectShortfalls(resulting)...)
	}

	for _, corequisite := range requisites.Corequisites() {
		placed, ok := resulting.TermOf(corequisite)
		if !ok || target.Before(placed) {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s should be taken with or before %s", corequisite, code))
		}
	}
	for _, restriction := range requisites.Restrictions() {
		if validator.set == nil || !restrictionMatches(restriction, *validator.set) {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: %s", code, restriction.Description))
		}
	}

	//** 7. Accepted
	result.Accepted = true
	result.Schedule = resulting
	return result
}

func (validator moveValidator) checkLevels(schedule Schedule) *apperrors.CustomError {
	if validator.set.Max500Level == nil {
		return nil
	}
	count := 0
	for _, code := range schedule.Courses() {
		if course, ok := validator.courses.Lookup(code); ok && course.Level() == 5 {
			count++
		}
	}
	if limit := *validator.set.Max500Level; count > limit {
		return apperrors.New(apperrors.ErrConstraintViolation, "plan would hold %d 500-level course(s), at most %d allowed", count, limit).
			WithDetails(map[string]any{"constraint": "max_500_level", "limit": limit, "count": count})
	}
	return nil
}

// subjectShortfalls reports departmental minimums the plan does not meet yet
func (validator moveValidator) subjectShortfalls(schedule Schedule) []string {
	warnings := make([]string, 0)
	for _, minimum := range validator.set.MinFromSubject {
		count := countSubject(schedule.Courses(), minimum.Subject)
		if count < minimum.Min {
			warnings = append(warnings, fmt.Sprintf("Minimum %d %s course(s) required, %d scheduled", minimum.Min, minimum.Subject, count))
		}
	}
	return warnings
}

func countSubject(courses []string, subject string) int {
	count := 0
	for _, code := range courses {
		if courseSubject, _, ok := strings.Cut(code, " "); ok && strings.EqualFold(courseSubject, subject) {
			count++
		}
	}
	return count
}

// A restriction such as "SYDE MEng plans only" matches programs of that degree whose name carries
// the subject code or whose home subject it is
func restrictionMatches(restriction requisite.Clause, set requirement.Set) bool {
	words := strings.Fields(strings.ToUpper(set.Program))
	if !slices.Contains(words, strings.ToUpper(restriction.Degree)) {
		return false
	}
	subject := strings.ToUpper(restriction.Program)
	return slices.Contains(words, subject) || slices.Contains(homeSubjects(set), subject)
}

// homeSubjects are the subjects of the departmental minimums or, when there are none, of the
// compulsory courses
func homeSubjects(set requirement.Set) []string {
	if len(set.MinFromSubject) > 0 {
		return lo.Map(set.MinFromSubject, func(minimum requirement.SubjectMinimum, _ int) string {
			return strings.ToUpper(minimum.Subject)
		})
	}
	subjects := make([]string, 0)
	for _, code := range set.Compulsory() {
		if subject, _, ok := strings.Cut(code, " "); ok {
			subjects = append(subjects, strings.ToUpper(subject))
		}
	}
	return lo.Uniq(subjects)
}

func humanized(code term.Code) string {
	if name, err := term.Humanize(code); err == nil {
		return name
	}
	return string(code)
}
