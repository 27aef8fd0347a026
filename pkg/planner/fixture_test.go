package planner

import (
	"testing"

	"github.com/limaJavier/courseplanner/pkg/catalog"
	"github.com/limaJavier/courseplanner/pkg/requirement"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const (
	systemsDesign = "Systems Design Engineering MEng"
	longProgram   = "Long Program MEng"
	flagged       = "Flagged Program MEng"
)

func graduate(subject, number, title, requirements string) catalog.Course {
	return catalog.Course{Subject: subject, CatalogNumber: number, Title: title, Requirements: requirements, Career: catalog.CareerGraduate, CreditWeight: 0.5}
}

func undergraduate(subject, number, title string) catalog.Course {
	return catalog.Course{Subject: subject, CatalogNumber: number, Title: title, Career: catalog.CareerUndergraduate, CreditWeight: 0.5}
}

func fixtureCatalog() *catalog.Catalog {
	return catalog.Build([]catalog.Snapshot{
		{Term: "1245", Courses: []catalog.Course{
			graduate("SYDE", "677", "Deep Learning", ""),
		}},
		{Term: "1249", Courses: []catalog.Course{
			graduate("SYDE", "600", "Design Methods", ""),
			graduate("SYDE", "660", "Special Topics", "Prereq: SYDE 600"),
			graduate("SYDE", "611", "Human Factors", "Coreq: SYDE 612"),
			{Subject: "SYDE", CatalogNumber: "552", Title: "Biomechanics", Requirements: "Antireq: SYDE 652", Career: catalog.CareerUndergraduate, CreditWeight: 0.5},
			graduate("SYDE", "652", "Advanced Biomechanics", ""),
			graduate("ECE", "602", "Optimization", ""),
			undergraduate("ME", "300", "Thermodynamics"),
		}},
		{Term: "1251", Courses: []catalog.Course{
			graduate("SYDE", "602", "Graduate Workshop", ""),
			graduate("SYDE", "660", "Special Topics", "Prereq: SYDE 600"),
			graduate("SYDE", "675", "Pattern Recognition", "Prereq/coreq: SYDE 660"),
			graduate("SYDE", "544", "Quantification", ""),
			graduate("ECE", "657", "Computational Intelligence", "ECE MEng plans only."),
		}},
	})
}

func intPointer(value int) *int {
	return &value
}

func fixtureRegistry() *requirement.Registry {
	return requirement.NewRegistry([]requirement.Program{
		{
			Name: systemsDesign,
			Rules: requirement.Rules{
				TotalCourses: intPointer(6),
				Compulsory:   []string{"SYDE 600"},
				Choices: []requirement.Clause{
					{Kind: requirement.ChoiceGroup, Name: "Workshop", Choose: 1, Courses: []string{"SYDE 602", "SYDE 603"}},
				},
				Electives: []requirement.Clause{
					{Kind: requirement.Elective, Name: "Specialist", Choose: 2, Elective: requirement.ElectiveList, Courses: []string{"SYDE 660", "SYDE 675"}},
					{Kind: requirement.Elective, Name: "Engineering graduate courses", Choose: 2, Elective: requirement.ElectiveGeneric},
				},
				Max500Level: intPointer(1),
				Minimums:    []requirement.SubjectMinimum{{Subject: "SYDE", Min: 4}},
			},
			Specializations: []requirement.Specialization{
				{Name: "Machine Learning", Overlay: requirement.Rules{
					Electives: []requirement.Clause{
						{Kind: requirement.Elective, Name: "ML", Choose: 1, Elective: requirement.ElectiveComplex, Specified: []string{"SYDE 675"}, Free: []string{"SYDE 677", "SYDE 660"}},
					},
				}},
			},
		},
		{Name: longProgram, Rules: requirement.Rules{TotalCourses: intPointer(8)}},
		{Name: flagged, Rules: requirement.Rules{TotalCourses: intPointer(4), Compulsory: []string{"SYDE 552", "ME 300"}}},
	})
}

func newFixturePlanner(t *testing.T, strict bool) *Planner {
	t.Helper()
	planner, err := New(fixtureCatalog(), fixtureRegistry(), Options{Capacity: []int{3, 3, 2}, StrictOfferings: strict, Logger: zerolog.Nop()})
	require.NoError(t, err)
	return planner
}

func resolve(t *testing.T, program, specialization string) requirement.Set {
	t.Helper()
	set, err := fixtureRegistry().Resolve(program, specialization)
	require.NoError(t, err)
	return set
}
