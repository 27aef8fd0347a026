package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/limaJavier/courseplanner/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func testConfig(t *testing.T) string {
	t.Helper()
	courses, err := filepath.Abs("../../pkg/catalog/testdata/snapshots")
	require.NoError(t, err)
	programs, err := filepath.Abs("../../pkg/requirement/testdata/programs.json")
	require.NoError(t, err)
	return writeFile(t, "config.yaml", "data:\n  courses_dir: "+courses+"\n  programs_file: "+programs+"\nlogging:\n  level: error\n")
}

func execute(t *testing.T, args ...string) (map[string]any, []byte, error) {
	t.Helper()
	var output bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&output)
	cmd.SetArgs(append([]string{"--config", testConfig(t)}, args...))

	err := cmd.Execute()
	var decoded map[string]any
	_ = json.Unmarshal(output.Bytes(), &decoded)
	return decoded, output.Bytes(), err
}

func TestVersion(t *testing.T) {
	decoded, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, Version, decoded["version"])
}

func TestPrograms(t *testing.T) {
	_, output, err := execute(t, "programs")
	require.NoError(t, err)

	var programs []string
	require.NoError(t, json.Unmarshal(output, &programs))
	assert.Contains(t, programs, "Systems Design Engineering MEng")
}

func TestPlanCommand(t *testing.T) {
	t.Run("Draft", func(t *testing.T) {
		decoded, _, err := execute(t, "plan", "--program", "Systems Design Engineering MEng", "--start", "1249", "--semesters", "3")
		require.NoError(t, err)
		assert.Len(t, decoded["semester_plan"], 3)
		assert.NotEmpty(t, decoded["id"])
	})

	t.Run("Horizon too short", func(t *testing.T) {
		_, _, err := execute(t, "plan", "--program", "Systems Design Engineering MEng", "--start", "1249", "--semesters", "2")

		var custom *apperrors.CustomError
		require.True(t, errors.As(err, &custom))
		assert.Equal(t, apperrors.KindInsufficientHorizon, custom.Code)
	})

	t.Run("Missing program flag", func(t *testing.T) {
		_, _, err := execute(t, "plan", "--start", "1249")
		assert.Error(t, err)
	})
}

func TestValidateCommand(t *testing.T) {
	plan := writeFile(t, "plan.json", `{"1239": ["SYDE 600"]}`)

	decoded, _, err := execute(t, "validate", "--course", "SYDE 660", "--term", "1249", "--plan", plan)

	require.NoError(t, err)
	assert.Equal(t, true, decoded["accepted"])

	decoded, _, err = execute(t, "validate", "--course", "SYDE 660", "--term", "1249")
	require.NoError(t, err)
	assert.Equal(t, false, decoded["accepted"])
	reason, ok := decoded["reason"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, string(apperrors.KindPrerequisiteUnmet), reason["kind"])

	_, _, err = execute(t, "validate", "--course", "SYDE 660", "--term", "1249", "--plan", plan, "--start", "1251")
	var custom *apperrors.CustomError
	require.True(t, errors.As(err, &custom))
	assert.Equal(t, apperrors.KindInvalidTermCode, custom.Code)
}

func TestAuditCommand(t *testing.T) {
	plan := writeFile(t, "plan.json", `{"1249": ["SYDE 600", "SYDE 660"]}`)

	decoded, _, err := execute(t, "audit", "--program", "Systems Design Engineering MEng", "--plan", plan)

	require.NoError(t, err)
	assert.Equal(t, false, decoded["complete"])
	assert.EqualValues(t, 2, decoded["scheduled"])
}

func TestCourseCommand(t *testing.T) {
	decoded, _, err := execute(t, "course", "syde660", "--terms", "1259")
	require.NoError(t, err)
	assert.Equal(t, "SYDE 660", decoded["code"])
	assert.Len(t, decoded["predictions"], 1)

	_, _, err = execute(t, "course", "SYDE 999")
	assert.Equal(t, apperrors.KindCourseNotFound, apperrors.KindOf(err))
}

func TestRequirementsAndSpecializations(t *testing.T) {
	decoded, _, err := execute(t, "requirements", "--program", "Systems Design Engineering MEng", "--specialization", "Human Factors")
	require.NoError(t, err)
	assert.EqualValues(t, 3, decoded["minimum_terms"])

	_, output, err := execute(t, "specializations", "Systems Design Engineering MEng")
	require.NoError(t, err)
	assert.Contains(t, string(output), "Thesis Option")
}

func TestOutputFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.json")

	_, output, err := execute(t, "--out", out, "version")

	require.NoError(t, err)
	assert.Empty(t, output)
	written, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(written), Version)
}
