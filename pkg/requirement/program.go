package requirement

import (
	"slices"
	"strings"

	"github.com/limaJavier/courseplanner/pkg/apperrors"
	"github.com/samber/lo"
)

type Specialization struct {
	Name    string
	Overlay Rules
}

type Program struct {
	Name            string
	Rules           Rules
	Specializations []Specialization
}

// Registry is the read-only set of programs loaded at startup
type Registry struct {
	programs []Program
}

func NewRegistry(programs []Program) *Registry {
	return &Registry{programs: slices.Clone(programs)}
}

func (registry *Registry) Names() []string {
	return lo.Map(registry.programs, func(program Program, _ int) string { return program.Name })
}

func (registry *Registry) Find(name string) (Program, bool) {
	return lo.Find(registry.programs, func(program Program) bool { return sameName(program.Name, name) })
}

func (registry *Registry) Specializations(program string) ([]string, error) {
	found, ok := registry.Find(program)
	if !ok {
		return nil, programNotFound(program, registry.Names())
	}
	return lo.Map(found.Specializations, func(specialization Specialization, _ int) string {
		return specialization.Name
	}), nil
}

// Resolve merges a program's rules with one of its specializations; an empty specialization
// name resolves the base program alone
func (registry *Registry) Resolve(program, specialization string) (Set, error) {
	found, ok := registry.Find(program)
	if !ok {
		return Set{}, programNotFound(program, registry.Names())
	}

	overlay := Rules{}
	if specialization != "" {
		matched, ok := lo.Find(found.Specializations, func(candidate Specialization) bool {
			return sameName(candidate.Name, specialization)
		})
		if !ok {
			available := lo.Map(found.Specializations, func(candidate Specialization, _ int) string { return candidate.Name })
			return Set{}, apperrors.New(apperrors.ErrSpecializationNotFound, "specialization %q not found in program %q", specialization, found.Name).
				WithDetails(map[string]any{"program": found.Name, "specialization": specialization, "available": available})
		}
		overlay = matched.Overlay
		specialization = matched.Name
	}

	set := Merge(found.Rules, overlay)
	set.Program = found.Name
	set.Specialization = specialization
	return set, nil
}

func programNotFound(program string, available []string) error {
	return apperrors.New(apperrors.ErrProgramNotFound, "program %q not found", program).
		WithDetails(map[string]any{"program": program, "available": available})
}

// Names compare case-insensitively, with underscores standing for spaces
func sameName(a, b string) bool {
	normalize := func(name string) string {
		return strings.Join(strings.Fields(strings.ReplaceAll(name, "_", " ")), " ")
	}
	return strings.EqualFold(normalize(a), normalize(b))
}
