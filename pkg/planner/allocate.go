package planner

import (
	"fmt"
	"slices"

	"github.com/limaJavier/courseplanner/pkg/catalog"
	"github.com/limaJavier/courseplanner/pkg/requirement"
	"github.com/limaJavier/courseplanner/pkg/term"
	"github.com/samber/lo"
)

const heavyLoad = 3

const (
	noteCompulsory = "Includes required compulsory course(s)"
	noteChoice     = "Includes courses from required choice group"
	noteHeavy      = "Heavy course load - consider prerequisites and workload"
)

type TermSlot struct {
	Term     term.Code `json:"term"`
	Name     string    `json:"name"`
	Capacity int       `json:"capacity"`
	Courses  []string  `json:"courses"`
	Credits  float64   `json:"credits"`
	Notes    []string  `json:"notes"`
}

// Flag marks a required course that could not be placed anywhere in the horizon
type Flag struct {
	Course string `json:"course"`
	Rank   Rank   `json:"category"`
	Note   string `json:"note"`
}

type Allocation struct {
	Terms       []TermSlot `json:"terms"`
	Unavailable []Flag     `json:"unavailable"`
	Unfilled    int        `json:"unfilled"` // Slots no pool entry could fill
}

// Quotas spreads total evenly over the slots, earlier slots taking the remainder. A quota above
// its slot capacity is clamped and the excess goes to the next slots with room.
func Quotas(total int, capacities []int) []int {
	n := len(capacities)
	quotas := make([]int, n)
	if n == 0 || total <= 0 {
		return quotas
	}

	base, extra := total/n, total%n
	carry := 0
	for i := range n {
		quota := base + carry
		if i < extra {
			quota++
		}
		carry = max(quota-capacities[i], 0)
		quotas[i] = min(quota, capacities[i])
	}

	// Remaining excess wraps around to earlier slots that still have room
	for i := 0; carry > 0 && i < n; i++ {
		room := capacities[i] - quotas[i]
		moved := min(room, carry)
		quotas[i] += moved
		carry -= moved
	}
	return quotas
}

// Allocate greedily fills each term with the best ranked entries that can be taken in it.
// An entry is deferred while a later horizon term still offers it, and flagged once no term does.
// Courses the catalog has never seen offered are placed with an "offering unknown" note.
// Choice groups and listed electives stop receiving courses once their n_to_choose is met.
func Allocate(pool Pool, total int, terms []term.Code, capacity []int, courses Catalog) Allocation {
	allocation := Allocation{Terms: make([]TermSlot, 0, len(terms)), Unavailable: make([]Flag, 0)}

	capacities := lo.Map(terms, func(code term.Code, i int) int {
		if len(capacity) == 0 {
			return 0
		}
		return capacity[i%len(capacity)]
	})
	quotas := Quotas(total, capacities)

	codes := lo.Map(pool.Entries, func(entry Entry, _ int) string { return entry.Code })
	availability := courses.AvailabilityFor(terms, codes)

	entries := slices.Clone(pool.Entries)
	slices.SortStableFunc(entries, func(a, b Entry) int { return int(a.Rank) - int(b.Rank) })

	placed := make(map[string]bool)
	flagged := make(map[string]bool)
	filled := make(map[*requirement.Clause]int)

	for i, code := range terms {
		name, _ := term.Humanize(code)
		slot := TermSlot{Term: code, Name: name, Capacity: capacities[i], Courses: make([]string, 0), Notes: make([]string, 0)}
		categories := make(map[Rank]bool)
		notes := make([]string, 0)

		for _, entry := range entries {
			if len(slot.Courses) >= quotas[i] {
				break
			}
			if placed[entry.Code] || flagged[entry.Code] || clauseFull(entry, filled) {
				continue
			}

			offering, offered := offeringAt(availability[entry.Code], code)
			switch {
			case offered:
				if offering.Status == catalog.Predicted {
					notes = append(notes, fmt.Sprintf("%s: %s", entry.Code, offering.Label()))
				}
			case !courses.HasOfferings(entry.Code):
				notes = append(notes, fmt.Sprintf("%s: offering unknown", entry.Code))
			case offeredLater(availability[entry.Code], code):
				continue
			default:
				flagged[entry.Code] = true
				if entry.Rank != RankGeneric {
					allocation.Unavailable = append(allocation.Unavailable, Flag{
						Course: entry.Code,
						Rank:   entry.Rank,
						Note:   fmt.Sprintf("%s is not offered in any remaining term of the plan", entry.Code),
					})
				}
				continue
			}

			placed[entry.Code] = true
			if entry.Clause != nil {
				filled[entry.Clause]++
			}
			categories[entry.Rank] = true
			slot.Courses = append(slot.Courses, entry.Code)
			slot.Credits += entry.Course.CreditWeight
		}

		//** Notes
		if categories[RankCompulsory] {
			slot.Notes = append(slot.Notes, noteCompulsory)
		}
		if categories[RankChoice] {
			slot.Notes = append(slot.Notes, noteChoice)
		}
		if len(slot.Courses) > heavyLoad {
			slot.Notes = append(slot.Notes, noteHeavy)
		}
		slot.Notes = append(slot.Notes, notes...)

		allocation.Unfilled += quotas[i] - len(slot.Courses)
		allocation.Terms = append(allocation.Terms, slot)
	}

	// Required courses never reached because the horizon filled up
	for _, entry := range entries {
		if entry.Rank == RankCompulsory && !placed[entry.Code] && !flagged[entry.Code] {
			allocation.Unavailable = append(allocation.Unavailable, Flag{
				Course: entry.Code,
				Rank:   entry.Rank,
				Note:   fmt.Sprintf("%s did not fit in the plan", entry.Code),
			})
		}
	}

	return allocation
}

func clauseFull(entry Entry, filled map[*requirement.Clause]int) bool {
	if entry.Clause == nil || entry.Rank == RankGeneric {
		return false
	}
	return filled[entry.Clause] >= entry.Clause.Choose
}

func offeringAt(offerings []catalog.Offering, code term.Code) (catalog.Offering, bool) {
	return lo.Find(offerings, func(offering catalog.Offering) bool { return offering.Term == code })
}

func offeredLater(offerings []catalog.Offering, code term.Code) bool {
	return lo.ContainsBy(offerings, func(offering catalog.Offering) bool { return code.Before(offering.Term) })
}
