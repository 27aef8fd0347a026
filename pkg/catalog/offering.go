package catalog

import (
	"fmt"

	"github.com/limaJavier/courseplanner/pkg/term"
)

type Status string

const (
	Confirmed Status = "Confirmed"
	Predicted Status = "Predicted"
)

type Offering struct {
	Course        string    `json:"course"`
	Term          term.Code `json:"term"`
	Status        Status    `json:"status"`
	PredictedFrom term.Code `json:"predicted_from,omitempty"`
	Title         string    `json:"title"`
}

// Label renders the status the way it is shown to students, e.g. "Predicted (from Fall 2023)"
func (offering Offering) Label() string {
	if offering.Status != Predicted {
		return string(offering.Status)
	}
	source, err := term.Humanize(offering.PredictedFrom)
	if err != nil {
		source = string(offering.PredictedFrom)
	}
	return fmt.Sprintf("Predicted (from %v)", source)
}
