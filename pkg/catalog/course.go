package catalog

import (
	"strings"

	"github.com/limaJavier/courseplanner/pkg/requisite"
	"github.com/limaJavier/courseplanner/pkg/term"
)

const (
	CareerGraduate      = "GRD"
	CareerUndergraduate = "UGRD"
)

const defaultCreditWeight = 0.5

type Course struct {
	ID            string    `mapstructure:"courseId" json:"course_id"`
	Subject       string    `mapstructure:"subjectCode" json:"subject_code"`
	CatalogNumber string    `mapstructure:"catalogNumber" json:"catalog_number"`
	Title         string    `mapstructure:"title" json:"title"`
	Description   string    `mapstructure:"description" json:"description"`
	CreditWeight  float64   `mapstructure:"creditWeight" json:"credit_weight"`
	Requirements  string    `mapstructure:"requirementsDescription" json:"requirements_description"`
	Term          term.Code `mapstructure:"termCode" json:"term_code"`
	TermName      string    `mapstructure:"termName" json:"term_name"`
	Career        string    `mapstructure:"associatedAcademicCareer" json:"academic_career"`
}

// Code is the course identity across snapshots, e.g. "SYDE 600"
func (course Course) Code() string {
	return course.Subject + " " + course.CatalogNumber
}

// Level returns the leading digit of the catalog number (6 for "SYDE 600"), or -1
func (course Course) Level() int {
	if len(course.CatalogNumber) == 0 || course.CatalogNumber[0] < '0' || course.CatalogNumber[0] > '9' {
		return -1
	}
	return int(course.CatalogNumber[0] - '0')
}

// IsGraduateRelevant holds for graduate courses and for 500-level courses open to graduate students
func (course Course) IsGraduateRelevant() bool {
	return strings.EqualFold(course.Career, CareerGraduate) || strings.HasPrefix(course.CatalogNumber, "5")
}

func (course Course) Requisites() requisite.Requisites {
	return requisite.Parse(course.Requirements)
}
