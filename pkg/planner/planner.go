// Package planner builds multi-term course plans from resolved program requirements and
// validates single-course moves against a partial plan.
package planner

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/limaJavier/courseplanner/pkg/apperrors"
	"github.com/limaJavier/courseplanner/pkg/catalog"
	"github.com/limaJavier/courseplanner/pkg/requirement"
	"github.com/limaJavier/courseplanner/pkg/requisite"
	"github.com/limaJavier/courseplanner/pkg/term"
	"github.com/rs/zerolog"
)

// DefaultCapacity is the per-term course load pattern used when none is configured
var DefaultCapacity = []int{3, 3, 2}

// Registry resolves program rules
type Registry interface {
	Names() []string
	Specializations(program string) ([]string, error)
	Resolve(program, specialization string) (requirement.Set, error)
}

type Options struct {
	Capacity        []int
	StrictOfferings bool
	Logger          zerolog.Logger
}

type PlanRequest struct {
	Program        string `json:"program" mapstructure:"program"`
	Specialization string `json:"specialization,omitempty" mapstructure:"specialization"`
	StartTerm      string `json:"start_term" mapstructure:"start_term"`
	Semesters      int    `json:"semesters" mapstructure:"semesters"`
}

type Plan struct {
	ID              string          `json:"id"`
	Program         string          `json:"program"`
	Specialization  string          `json:"specialization,omitempty"`
	StartTerm       term.Code       `json:"start_term"`
	MinimumTerms    int             `json:"minimum_terms"`
	Requirements    requirement.Set `json:"requirements"`
	Pool            Pool            `json:"course_pool"`
	Terms           []TermSlot      `json:"semester_plan"`
	Unavailable     []Flag          `json:"unavailable"`
	Recommendations []string        `json:"recommendations"`
}

type CourseInfo struct {
	Course      catalog.Course       `json:"course"`
	Code        string               `json:"code"`
	Requisites  requisite.Requisites `json:"requisites"`
	Offerings   []catalog.Offering   `json:"offerings"`
	Graduate    bool                 `json:"graduate_relevant"`
	Predictions []catalog.Offering   `json:"predictions,omitempty"`
}

type RequirementsView struct {
	Requirements requirement.Set `json:"requirements"`
	MinimumTerms int             `json:"minimum_terms"`
	Lines        []string        `json:"display"`
}

// Planner holds the loaded catalog and program rules. It is read-only after New and safe for
// concurrent use; every call builds its result from scratch.
type Planner struct {
	catalog  Catalog
	registry Registry
	capacity []int
	strict   bool
	logger   zerolog.Logger
}

func New(courses Catalog, registry Registry, options Options) (*Planner, error) {
	capacity := options.Capacity
	if len(capacity) == 0 {
		capacity = DefaultCapacity
	}
	if err := requirement.ValidateCapacity(capacity); err != nil {
		return nil, err
	}

	return &Planner{
		catalog:  courses,
		registry: registry,
		capacity: slices.Clone(capacity),
		strict:   options.StrictOfferings,
		logger:   options.Logger,
	}, nil
}

func (planner *Planner) Capacity() []int {
	return slices.Clone(planner.capacity)
}

// Plan drafts a schedule of request.Semesters terms starting at request.StartTerm
func (planner *Planner) Plan(request PlanRequest) (*Plan, error) {
	set, err := planner.registry.Resolve(request.Program, request.Specialization)
	if err != nil {
		return nil, err
	}
	start, err := term.Parse(request.StartTerm)
	if err != nil {
		return nil, err
	}

	//** Feasibility
	minimum, err := requirement.MinimumTerms(set.TotalCourses, planner.capacity)
	if err != nil {
		return nil, err
	}
	if err := requirement.CheckHorizon(set.TotalCourses, planner.capacity, request.Semesters); err != nil {
		return nil, err
	}
	terms, err := term.Sequence(start, request.Semesters)
	if err != nil {
		return nil, err
	}

	//** Pool and allocation
	pool := BuildPool(set, planner.catalog)
	allocation := Allocate(pool, set.TotalCourses, terms, planner.capacity, planner.catalog)

	plan := &Plan{
		ID:              uuid.NewString(),
		Program:         set.Program,
		Specialization:  set.Specialization,
		StartTerm:       start,
		MinimumTerms:    minimum,
		Requirements:    set,
		Pool:            pool,
		Terms:           allocation.Terms,
		Unavailable:     allocation.Unavailable,
		Recommendations: recommend(pool, set),
	}

	planner.logger.Debug().
		Str("plan", plan.ID).
		Str("program", set.Program).
		Str("specialization", set.Specialization).
		Int("terms", len(terms)).
		Int("pool", len(pool.Entries)).
		Int("unavailable", len(allocation.Unavailable)).
		Msg("Plan drafted")

	return plan, nil
}

// ValidateMove checks whether request.Course can be placed in request.Term. A rejection is a
// result, not an error; errors are reserved for malformed requests.
func (planner *Planner) ValidateMove(request MoveRequest) (MoveResult, error) {
	target, err := term.Parse(request.Term)
	if err != nil {
		return MoveResult{}, err
	}
	for code := range request.Schedule {
		if !code.Valid() {
			return MoveResult{}, apperrors.New(apperrors.ErrInvalidTermCode, "invalid term code %q in plan", code).
				WithDetails(map[string]any{"term": code})
		}
	}
	start, err := planStart(request, target)
	if err != nil {
		return MoveResult{}, err
	}

	validator := moveValidator{courses: planner.catalog, capacity: planner.capacity, strict: planner.strict}
	if request.Program != "" {
		set, err := planner.registry.Resolve(request.Program, request.Specialization)
		if err != nil {
			return MoveResult{}, err
		}
		validator.set = &set
	}

	result := validator.validate(request, target, start)
	event := planner.logger.Debug().Str("course", result.Course).Str("term", string(target)).Bool("accepted", result.Accepted)
	if result.Reason != nil {
		event = event.Str("reason", string(result.Reason.Code))
	}
	event.Msg("Move validated")
	return result, nil
}

func (planner *Planner) Audit(program, specialization string, schedule Schedule) (AuditReport, error) {
	set, err := planner.registry.Resolve(program, specialization)
	if err != nil {
		return AuditReport{}, err
	}
	for code := range schedule {
		if !code.Valid() {
			return AuditReport{}, apperrors.New(apperrors.ErrInvalidTermCode, "invalid term code %q in plan", code).
				WithDetails(map[string]any{"term": code})
		}
	}
	return Audit(set, schedule, planner.catalog)
}

func (planner *Planner) ListPrograms() []string {
	return planner.registry.Names()
}

func (planner *Planner) ListSpecializations(program string) ([]string, error) {
	return planner.registry.Specializations(program)
}

// CourseInfo describes a course; terms, when given, adds the predicted availability for them
func (planner *Planner) CourseInfo(code string, terms ...term.Code) (CourseInfo, error) {
	course, ok := planner.catalog.Lookup(code)
	if !ok {
		return CourseInfo{}, apperrors.New(apperrors.ErrCourseNotFound, "course %s not found", code).
			WithDetails(map[string]any{"course": code})
	}

	info := CourseInfo{
		Course:     course,
		Code:       course.Code(),
		Requisites: course.Requisites(),
		Offerings:  planner.catalog.Offerings(course.Code()),
		Graduate:   course.IsGraduateRelevant(),
	}
	if len(terms) > 0 {
		info.Predictions = planner.catalog.AvailabilityFor(terms, []string{info.Code})[info.Code]
	}
	return info, nil
}

func (planner *Planner) Requirements(program, specialization string) (RequirementsView, error) {
	set, err := planner.registry.Resolve(program, specialization)
	if err != nil {
		return RequirementsView{}, err
	}
	minimum, err := requirement.MinimumTerms(set.TotalCourses, planner.capacity)
	if err != nil {
		return RequirementsView{}, err
	}
	return RequirementsView{Requirements: set, MinimumTerms: minimum, Lines: requirement.Describe(set)}, nil
}

func recommend(pool Pool, set requirement.Set) []string {
	recommendations := make([]string, 0)

	if compulsory := pool.Count(RankCompulsory); compulsory > 0 {
		recommendations = append(recommendations, fmt.Sprintf("Complete %d compulsory course(s) first", compulsory))
	}

	groups := make(map[*requirement.Clause]bool)
	for _, entry := range pool.Entries {
		if entry.Rank == RankChoice {
			groups[entry.Clause] = true
		}
	}
	if len(groups) > 0 {
		recommendations = append(recommendations, fmt.Sprintf("Select from %d required choice group(s)", len(groups)))
	}

	if set.Max500Level != nil {
		recommendations = append(recommendations, fmt.Sprintf("Maximum %d course(s) at 500-level allowed", *set.Max500Level))
	}
	for _, minimum := range set.MinFromSubject {
		recommendations = append(recommendations, fmt.Sprintf("Minimum %d %s course(s) required", minimum.Min, minimum.Subject))
	}
	if len(pool.Missing) > 0 {
		recommendations = append(recommendations, fmt.Sprintf("%d required course(s) are missing from the catalog", len(pool.Missing)))
	}
	return recommendations
}
