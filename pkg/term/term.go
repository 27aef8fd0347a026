// Package term implements arithmetic over compact academic term codes.
//
// A code is a string of digits: all but the last digit are a year offset from 1900 and the
// last digit is the season marker (1 Winter, 5 Spring, 9 Fall). "1249" is Fall 2024.
package term

import (
	"fmt"
	"strconv"

	"github.com/limaJavier/courseplanner/pkg/apperrors"
)

type Code string

type Season int

const (
	Winter Season = 1
	Spring Season = 5
	Fall   Season = 9
)

const baseYear = 1900

var seasonNames = map[Season]string{
	Winter: "Winter",
	Spring: "Spring",
	Fall:   "Fall",
}

// Season index within a year, used to linearize codes
var seasonIndex = map[Season]int{
	Winter: 0,
	Spring: 1,
	Fall:   2,
}

func (season Season) String() string {
	if name, ok := seasonNames[season]; ok {
		return name
	}
	return fmt.Sprintf("Season(%d)", int(season))
}

func Parse(s string) (Code, error) {
	code := Code(s)
	if _, _, err := code.split(); err != nil {
		return "", err
	}
	return code, nil
}

// Must is Parse for literals known to be valid
func Must(s string) Code {
	code, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return code
}

func New(year int, season Season) (Code, error) {
	if _, ok := seasonNames[season]; !ok || year < 0 {
		return "", invalid(fmt.Sprintf("%d/%d", year, season))
	}
	return Code(strconv.Itoa(year) + strconv.Itoa(int(season))), nil
}

func (code Code) split() (year int, season Season, err error) {
	s := string(code)
	if len(s) < 2 {
		return 0, 0, invalid(s)
	}
	for _, char := range s {
		if char < '0' || char > '9' {
			return 0, 0, invalid(s)
		}
	}
	year, _ = strconv.Atoi(s[:len(s)-1])
	season = Season(s[len(s)-1] - '0')
	if _, ok := seasonNames[season]; !ok {
		return 0, 0, invalid(s)
	}
	return year, season, nil
}

func invalid(s string) error {
	return apperrors.New(apperrors.ErrInvalidTermCode, "invalid term code %q", s).
		WithDetails(map[string]any{"term": s})
}

func (code Code) Valid() bool {
	_, _, err := code.split()
	return err == nil
}

// Year returns the year offset encoded in the code
func (code Code) Year() int {
	year, _, _ := code.split()
	return year
}

func (code Code) Season() Season {
	_, season, _ := code.split()
	return season
}

// Ordinal maps valid codes onto consecutive integers: Successor(c).Ordinal() == c.Ordinal()+1
func (code Code) Ordinal() int {
	year, season, err := code.split()
	if err != nil {
		return -1
	}
	return year*3 + seasonIndex[season]
}

func (code Code) String() string {
	return string(code)
}

func Successor(code Code) (Code, error) {
	year, season, err := code.split()
	if err != nil {
		return "", err
	}
	if season == Fall {
		return New(year+1, Winter)
	}
	return New(year, season+4)
}

// Sequence returns n consecutive codes starting at start; n <= 0 yields an empty slice
func Sequence(start Code, n int) ([]Code, error) {
	if n <= 0 {
		return []Code{}, nil
	}
	if !start.Valid() {
		return nil, invalid(string(start))
	}

	sequence := make([]Code, 0, n)
	current := start
	for range n {
		sequence = append(sequence, current)
		next, err := Successor(current)
		if err != nil {
			return nil, err
		}
		current = next
	}
	return sequence, nil
}

func Humanize(code Code) (string, error) {
	year, season, err := code.split()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%v %d", season, baseYear+year), nil
}

// PriorYear returns the same season one year earlier
func PriorYear(code Code) (Code, error) {
	year, season, err := code.split()
	if err != nil {
		return "", err
	}
	return New(year-1, season)
}

// Steps returns how many successor steps separate from and to (negative if to precedes from)
func Steps(from, to Code) int {
	return to.Ordinal() - from.Ordinal()
}

func Compare(a, b Code) int {
	switch ordinalA, ordinalB := a.Ordinal(), b.Ordinal(); {
	case ordinalA < ordinalB:
		return -1
	case ordinalA > ordinalB:
		return 1
	}
	return 0
}

func (code Code) Before(other Code) bool {
	return Compare(code, other) < 0
}
