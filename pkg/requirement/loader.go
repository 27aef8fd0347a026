package requirement

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
)

type rawChoice struct {
	GroupName string   `mapstructure:"group_name"`
	Choose    int      `mapstructure:"n_to_choose"`
	Courses   []string `mapstructure:"courses"`
}

type rawElective struct {
	Type        string   `mapstructure:"type"`
	GroupName   string   `mapstructure:"group_name"`
	Choose      int      `mapstructure:"n_to_choose"`
	Courses     []string `mapstructure:"courses"`
	Specified   []string `mapstructure:"specified_list"`
	Free        []string `mapstructure:"elective_list"`
	Description string   `mapstructure:"description"`
}

type rawRules struct {
	TotalCourses *int           `mapstructure:"total_courses"`
	Compulsory   []string       `mapstructure:"compulsory_courses"`
	Choices      []rawChoice    `mapstructure:"compulsory_choices"`
	Electives    *[]rawElective `mapstructure:"elective_rules"`
	Levels       map[string]any `mapstructure:"level_constraints"`
	Departments  map[string]any `mapstructure:"departmental_constraints"`
}

type rawSpecialization struct {
	Name         string   `mapstructure:"name"`
	Requirements rawRules `mapstructure:"requirements"`
}

type rawProgram struct {
	Name            string              `mapstructure:"program_name"`
	DegreeRules     rawRules            `mapstructure:"degree_rules"`
	Specializations []rawSpecialization `mapstructure:"specializations"`
}

var subjectMinimumKey = regexp.MustCompile(`^min_([a-z]+)_courses$`)

// LoadPrograms reads the program rules file; a missing or undecodable file is an error
func LoadPrograms(file string) (*Registry, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("cannot read programs file: %w", err)
	}
	programs, err := DecodePrograms(bytes)
	if err != nil {
		return nil, err
	}
	return NewRegistry(programs), nil
}

func DecodePrograms(bytes []byte) ([]Program, error) {
	var inputJson []map[string]any
	if err := json.Unmarshal(bytes, &inputJson); err != nil {
		return nil, fmt.Errorf("cannot parse programs file: %w", err)
	}

	var rawPrograms []rawProgram
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &rawPrograms,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(inputJson); err != nil {
		return nil, fmt.Errorf("cannot decode programs: %w", err)
	}

	programs := make([]Program, 0, len(rawPrograms))
	for _, raw := range rawPrograms {
		if strings.TrimSpace(raw.Name) == "" {
			return nil, fmt.Errorf("program without program_name at position %d", len(programs))
		}
		program := Program{
			Name:  raw.Name,
			Rules: raw.DegreeRules.rules(),
			Specializations: lo.Map(raw.Specializations, func(specialization rawSpecialization, _ int) Specialization {
				return Specialization{Name: specialization.Name, Overlay: specialization.Requirements.rules()}
			}),
		}
		programs = append(programs, program)
	}
	return programs, nil
}

func (raw rawRules) rules() Rules {
	rules := Rules{
		TotalCourses: raw.TotalCourses,
		Compulsory:   lo.Uniq(raw.Compulsory),
		Choices: lo.Map(raw.Choices, func(choice rawChoice, _ int) Clause {
			return Clause{
				Kind:    ChoiceGroup,
				Name:    choice.GroupName,
				Choose:  atLeastOne(choice.Choose),
				Courses: slices.Clone(choice.Courses),
			}
		}),
	}

	if raw.Electives != nil {
		rules.Electives = lo.Map(*raw.Electives, func(elective rawElective, _ int) Clause {
			return elective.clause()
		})
	}

	//** Level constraints
	if limit, ok := intValue(raw.Levels["max_500_level"]); ok {
		rules.Max500Level = &limit
	}
	if description, ok := raw.Levels["description"].(string); ok && description != "" {
		rules.Notes = append(rules.Notes, description)
	}

	//** Departmental constraints, keyed as min_<subject>_courses
	for _, key := range slices.Sorted(maps.Keys(raw.Departments)) {
		match := subjectMinimumKey.FindStringSubmatch(strings.ToLower(key))
		if match == nil {
			continue
		}
		if minimum, ok := intValue(raw.Departments[key]); ok {
			rules.Minimums = append(rules.Minimums, SubjectMinimum{Subject: strings.ToUpper(match[1]), Min: minimum})
		}
	}
	if description, ok := raw.Departments["description"].(string); ok && description != "" {
		rules.Notes = append(rules.Notes, description)
	}

	return rules
}

func (raw rawElective) clause() Clause {
	clause := Clause{
		Kind:        Elective,
		Name:        raw.GroupName,
		Choose:      atLeastOne(raw.Choose),
		Description: raw.Description,
	}

	switch {
	case raw.Type == string(ElectiveComplex) || len(raw.Specified) > 0 || len(raw.Free) > 0:
		clause.Elective = ElectiveComplex
		clause.Specified = slices.Clone(raw.Specified)
		clause.Free = slices.Clone(raw.Free)
	case len(raw.Courses) > 0:
		clause.Elective = ElectiveList
		clause.Courses = slices.Clone(raw.Courses)
	default:
		clause.Elective = ElectiveGeneric
	}
	return clause
}

func atLeastOne(n int) int {
	return max(n, 1)
}

func intValue(value any) (int, bool) {
	switch typed := value.(type) {
	case float64:
		return int(typed), true
	case int:
		return typed, true
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(typed))
		return parsed, err == nil
	}
	return 0, false
}
