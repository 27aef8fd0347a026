package planner

import (
	"testing"

	"github.com/limaJavier/courseplanner/pkg/apperrors"
	"github.com/limaJavier/courseplanner/pkg/requirement"
	"github.com/limaJavier/courseplanner/pkg/requisite"
	"github.com/limaJavier/courseplanner/pkg/term"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validateMove(t *testing.T, planner *Planner, request MoveRequest) MoveResult {
	t.Helper()
	result, err := planner.ValidateMove(request)
	require.NoError(t, err)
	return result
}

func requireRejected(t *testing.T, result MoveResult, kind apperrors.Kind) {
	t.Helper()
	require.False(t, result.Accepted)
	require.NotNil(t, result.Reason)
	assert.Equal(t, kind, result.Reason.Code)
}

func TestValidateMove(t *testing.T) {
	planner := newFixturePlanner(t, true)

	t.Run("Unknown course", func(t *testing.T) {
		result := validateMove(t, planner, MoveRequest{Course: "SYDE 999", Term: "1249"})
		requireRejected(t, result, apperrors.KindCourseNotFound)
	})

	t.Run("Not offered in the target term", func(t *testing.T) {
		result := validateMove(t, planner, MoveRequest{Course: "SYDE 602", Term: "1249"})
		requireRejected(t, result, apperrors.KindCourseNotOffered)
	})

	t.Run("Unknown availability is allowed with a warning", func(t *testing.T) {
		result := validateMove(t, planner, MoveRequest{Course: "ME 300", Term: "1249"})
		require.True(t, result.Accepted)
		require.Len(t, result.Warnings, 1)
		assert.Contains(t, result.Warnings[0], "unknown")
	})

	t.Run("Prerequisite missing", func(t *testing.T) {
		result := validateMove(t, planner, MoveRequest{Course: "SYDE 660", Term: "1251", Schedule: Schedule{}})
		requireRejected(t, result, apperrors.KindPrerequisiteUnmet)
		assert.Equal(t, "SYDE 600", result.Reason.Details["prerequisite"])
	})

	t.Run("Prerequisite in the same term", func(t *testing.T) {
		result := validateMove(t, planner, MoveRequest{Course: "SYDE 660", Term: "1249", Schedule: Schedule{"1249": {"SYDE 600"}}})
		requireRejected(t, result, apperrors.KindPrerequisiteUnmet)
	})

	t.Run("Prerequisite strictly earlier", func(t *testing.T) {
		result := validateMove(t, planner, MoveRequest{Course: "syde660", Term: "1251", Schedule: Schedule{"1249": {"SYDE 600"}}})
		require.True(t, result.Accepted)
		assert.Equal(t, "SYDE 660", result.Course)
		assert.Equal(t, Schedule{"1249": {"SYDE 600"}, "1251": {"SYDE 660"}}, result.Schedule)
	})

	t.Run("Antirequisite in a later term", func(t *testing.T) {
		result := validateMove(t, planner, MoveRequest{Course: "SYDE 552", Term: "1249", Schedule: Schedule{"1251": {"SYDE 652"}}})
		requireRejected(t, result, apperrors.KindAntirequisiteConflict)
		assert.Equal(t, term.Code("1251"), result.Reason.Details["term"])
	})

	t.Run("Term at capacity", func(t *testing.T) {
		result := validateMove(t, planner, MoveRequest{Course: "SYDE 611", Term: "1249", Schedule: Schedule{"1249": {"SYDE 600", "SYDE 652", "ECE 602"}}})
		requireRejected(t, result, apperrors.KindCapacityExceeded)
		assert.Equal(t, 3, result.Reason.Details["capacity"])
	})

	t.Run("Capacity follows the pattern from the first planned term", func(t *testing.T) {
		schedule := Schedule{"1245": {"SYDE 677"}, "1251": {"SYDE 544", "SYDE 602"}}
		result := validateMove(t, planner, MoveRequest{Course: "SYDE 675", Term: "1251", Schedule: schedule.with("SYDE 660", "1249")})
		requireRejected(t, result, apperrors.KindCapacityExceeded)
		assert.Equal(t, 2, result.Reason.Details["capacity"])
	})

	t.Run("Moving a scheduled course frees its old slot", func(t *testing.T) {
		schedule := Schedule{"1249": {"SYDE 600", "SYDE 652", "SYDE 611"}}
		result := validateMove(t, planner, MoveRequest{Course: "SYDE 611", Term: "1249", Schedule: schedule})
		require.True(t, result.Accepted)
		assert.Len(t, result.Schedule["1249"], 3)
	})

	t.Run("Corequisite and restriction warnings", func(t *testing.T) {
		result := validateMove(t, planner, MoveRequest{Course: "SYDE 611", Term: "1249"})
		require.True(t, result.Accepted)
		assert.Contains(t, result.Warnings, "SYDE 612 should be taken with or before SYDE 611")

		result = validateMove(t, planner, MoveRequest{Course: "ECE 657", Term: "1251", Program: systemsDesign})
		require.True(t, result.Accepted)
		assert.Contains(t, result.Warnings, "ECE 657: ECE MEng plans only")
	})
}

func TestValidateMoveConstraints(t *testing.T) {
	planner := newFixturePlanner(t, true)

	t.Run("500-level limit is a rejection", func(t *testing.T) {
		result := validateMove(t, planner, MoveRequest{Course: "SYDE 544", Term: "1251", Schedule: Schedule{"1249": {"SYDE 552"}}, Program: systemsDesign})
		requireRejected(t, result, apperrors.KindConstraintViolation)
	})

	t.Run("500-level limit needs a program", func(t *testing.T) {
		result := validateMove(t, planner, MoveRequest{Course: "SYDE 544", Term: "1251", Schedule: Schedule{"1249": {"SYDE 552"}}})
		assert.True(t, result.Accepted)
	})

	t.Run("Departmental minimum is only a warning", func(t *testing.T) {
		result := validateMove(t, planner, MoveRequest{Course: "SYDE 660", Term: "1251", Schedule: Schedule{"1249": {"SYDE 600"}}, Program: systemsDesign})
		require.True(t, result.Accepted)
		assert.Contains(t, result.Warnings, "Minimum 4 SYDE course(s) required, 2 scheduled")
	})
}

func TestValidateMoveLenientOfferings(t *testing.T) {
	planner := newFixturePlanner(t, false)

	result := validateMove(t, planner, MoveRequest{Course: "SYDE 602", Term: "1249"})

	require.True(t, result.Accepted)
	assert.Contains(t, result.Warnings, "SYDE 602 is not offered in Fall 2024")
}

func TestValidateMoveMalformedRequests(t *testing.T) {
	planner := newFixturePlanner(t, true)

	_, err := planner.ValidateMove(MoveRequest{Course: "SYDE 600", Term: "1243"})
	assert.Equal(t, apperrors.KindInvalidTermCode, apperrors.KindOf(err))

	_, err = planner.ValidateMove(MoveRequest{Course: "SYDE 600", Term: "1249", Schedule: Schedule{"12x9": {"SYDE 600"}}})
	assert.Equal(t, apperrors.KindInvalidTermCode, apperrors.KindOf(err))

	_, err = planner.ValidateMove(MoveRequest{Course: "SYDE 600", Term: "1249", Program: "Unknown"})
	assert.Equal(t, apperrors.KindProgramNotFound, apperrors.KindOf(err))
}

func TestValidateMoveCapacityAnchor(t *testing.T) {
	planner := newFixturePlanner(t, false)

	t.Run("Empty first term still anchors the pattern", func(t *testing.T) {
		//** Arrange
		schedule := Schedule{
			"1249": {},
			"1251": {"SYDE 602", "SYDE 544", "ECE 657"},
			"1255": {"SYDE 660", "SYDE 675"},
		}

		//** Act
		result := validateMove(t, planner, MoveRequest{Course: "SYDE 677", Term: "1255", Schedule: schedule})

		//** Assert
		requireRejected(t, result, apperrors.KindCapacityExceeded)
		assert.Equal(t, 2, result.Reason.Details["capacity"])
		assert.Equal(t, 2, result.Reason.Details["scheduled"])
	})

	t.Run("Moved course keeps its old term in the pattern", func(t *testing.T) {
		//** Arrange
		schedule := Schedule{
			"1245": {"SYDE 677"},
			"1249": {"SYDE 600", "SYDE 652"},
			"1251": {"SYDE 602", "SYDE 544"},
		}

		//** Act
		moved := validateMove(t, planner, MoveRequest{Course: "SYDE 677", Term: "1251", Schedule: schedule})
		added := validateMove(t, planner, MoveRequest{Course: "ECE 657", Term: "1251", Schedule: schedule})

		//** Assert
		requireRejected(t, moved, apperrors.KindCapacityExceeded)
		requireRejected(t, added, apperrors.KindCapacityExceeded)
		assert.Equal(t, moved.Reason.Details["capacity"], added.Reason.Details["capacity"])
	})

	t.Run("Explicit start term", func(t *testing.T) {
		schedule := Schedule{"1251": {"SYDE 602", "SYDE 544"}}

		anchored := validateMove(t, planner, MoveRequest{Course: "ECE 657", Term: "1251", Schedule: schedule, StartTerm: "1245"})
		requireRejected(t, anchored, apperrors.KindCapacityExceeded)
		assert.Equal(t, 2, anchored.Reason.Details["capacity"])

		inferred := validateMove(t, planner, MoveRequest{Course: "ECE 657", Term: "1251", Schedule: schedule})
		assert.True(t, inferred.Accepted)
	})

	t.Run("Target before the start term", func(t *testing.T) {
		_, err := planner.ValidateMove(MoveRequest{Course: "SYDE 600", Term: "1249", StartTerm: "1251"})
		assert.Equal(t, apperrors.KindInvalidTermCode, apperrors.KindOf(err))

		_, err = planner.ValidateMove(MoveRequest{Course: "SYDE 600", Term: "1249", StartTerm: "12x5"})
		assert.Equal(t, apperrors.KindInvalidTermCode, apperrors.KindOf(err))
	})
}

func TestRestrictionMatches(t *testing.T) {
	systems := resolve(t, systemsDesign, "")
	mechatronics := requirement.Set{
		Program: "Mechatronics Engineering MEng",
		Clauses: []requirement.Clause{{Kind: requirement.Compulsory, Courses: []string{"MTE 600"}}},
	}

	cases := []struct {
		name        string
		restriction requisite.Clause
		set         requirement.Set
		expected    bool
	}{
		{"Home subject from departmental minimum", requisite.Clause{Program: "SYDE", Degree: "MEng"}, systems, true},
		{"Home subject from compulsory courses", requisite.Clause{Program: "MTE", Degree: "MEng"}, mechatronics, true},
		{"Subject code in the program name", requisite.Clause{Program: "MTE", Degree: "MEng"}, requirement.Set{Program: "MTE MEng"}, true},
		{"Other subject", requisite.Clause{Program: "ECE", Degree: "MEng"}, systems, false},
		{"Other degree", requisite.Clause{Program: "SYDE", Degree: "MASc"}, systems, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, restrictionMatches(tc.restriction, tc.set))
		})
	}
}
