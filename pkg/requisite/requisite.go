// Package requisite extracts structured course references from free-text requirement
// descriptions such as "Prereq: SYDE 600; Antireq: ECE 602.".
package requisite

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/samber/lo"
)

type ClauseKind int

const (
	Prerequisite ClauseKind = iota
	Antirequisite
	Corequisite
	ProgramRestriction
)

var clauseKindNames = map[ClauseKind]string{
	Prerequisite:       "prerequisite",
	Antirequisite:      "antirequisite",
	Corequisite:        "corequisite",
	ProgramRestriction: "program_restriction",
}

func (kind ClauseKind) String() string {
	if name, ok := clauseKindNames[kind]; ok {
		return name
	}
	return fmt.Sprintf("ClauseKind(%d)", int(kind))
}

func (kind ClauseKind) MarshalText() ([]byte, error) {
	return []byte(kind.String()), nil
}

type Clause struct {
	Kind    ClauseKind `json:"kind"`
	Courses []string   `json:"courses,omitempty"`

	// Program restriction fields
	Program     string `json:"program,omitempty"`
	Degree      string `json:"degree,omitempty"`
	Description string `json:"description,omitempty"`
}

type Requisites []Clause

var (
	coursePattern      = regexp.MustCompile(`\b([A-Z]{2,6})\s*(\d{3}[A-Z]?)\b`)
	restrictionPattern = regexp.MustCompile(`\b([A-Z]{2,6})\s+((?i:MEng|MASc|PhD))\s+(?i:plans?\s+only)`)
	canonicalDegrees   = map[string]string{"meng": "MEng", "masc": "MASc", "phd": "PhD"}
)

// Parse never fails: text without recognizable clauses yields an empty set
func Parse(text string) Requisites {
	requisites := make(Requisites, 0)
	if strings.TrimSpace(text) == "" {
		return requisites
	}

	tokens := Tokenize(text)
	for i := 0; i < len(tokens); i++ {
		if tokens[i].Type != TokenMarker {
			continue
		}

		//** Collect the clause body up to the next marker, terminator or end
		var body strings.Builder
		for j := i + 1; j < len(tokens) && tokens[j].Type == TokenText; j++ {
			body.WriteString(tokens[j].Value)
		}

		courses := CourseCodes(body.String())
		if len(courses) == 0 {
			continue
		}

		switch tokens[i].Marker {
		case MarkerPrerequisite:
			requisites = append(requisites, Clause{Kind: Prerequisite, Courses: courses})
		case MarkerAntirequisite:
			requisites = append(requisites, Clause{Kind: Antirequisite, Courses: courses})
		case MarkerCorequisite:
			requisites = append(requisites, Clause{Kind: Corequisite, Courses: courses})
		case MarkerCombined:
			// The same list is both a prerequisite and a corequisite
			requisites = append(requisites,
				Clause{Kind: Prerequisite, Courses: courses},
				Clause{Kind: Corequisite, Courses: slices.Clone(courses)},
			)
		}
	}

	for _, match := range restrictionPattern.FindAllStringSubmatch(text, -1) {
		requisites = append(requisites, Clause{
			Kind:        ProgramRestriction,
			Program:     match[1],
			Degree:      canonicalDegrees[strings.ToLower(match[2])],
			Description: match[0],
		})
	}

	return requisites
}

// CourseCodes returns the normalized, deduplicated course references found in text
func CourseCodes(text string) []string {
	matches := coursePattern.FindAllStringSubmatch(text, -1)
	return lo.Uniq(lo.Map(matches, func(match []string, _ int) string {
		return match[1] + " " + match[2]
	}))
}

// NormalizeCode turns user input such as "syde600" or "SYDE  600" into "SYDE 600"
func NormalizeCode(code string) (string, bool) {
	match := coursePattern.FindStringSubmatch(strings.ToUpper(strings.TrimSpace(code)))
	if match == nil {
		return code, false
	}
	return match[1] + " " + match[2], true
}

func (requisites Requisites) Prerequisites() []string {
	return requisites.courses(Prerequisite)
}

func (requisites Requisites) Antirequisites() []string {
	return requisites.courses(Antirequisite)
}

func (requisites Requisites) Corequisites() []string {
	return requisites.courses(Corequisite)
}

func (requisites Requisites) Restrictions() []Clause {
	return lo.Filter(requisites, func(clause Clause, _ int) bool {
		return clause.Kind == ProgramRestriction
	})
}

func (requisites Requisites) courses(kind ClauseKind) []string {
	courses := make([]string, 0)
	for _, clause := range requisites {
		if clause.Kind == kind {
			courses = append(courses, clause.Courses...)
		}
	}
	return lo.Uniq(courses)
}
