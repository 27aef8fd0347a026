package requirement

import (
	"fmt"
	"strings"
)

// Describe renders a resolved set as plain display lines, grouped in the order
// core courses, choice groups, elective rules, constraints
func Describe(set Set) []string {
	lines := []string{fmt.Sprintf("Program: %s", set.Program)}
	if set.Specialization != "" {
		lines = append(lines, fmt.Sprintf("Specialization: %s", set.Specialization))
	}
	lines = append(lines, fmt.Sprintf("Total courses required: %d", set.TotalCourses))

	if compulsory := set.Compulsory(); len(compulsory) > 0 {
		lines = append(lines, "", "Core requirements", fmt.Sprintf("  Required: %s", strings.Join(compulsory, ", ")))
	}

	if choices := set.ChoiceGroups(); len(choices) > 0 {
		lines = append(lines, "", "Choice groups")
		for _, choice := range choices {
			lines = append(lines, fmt.Sprintf("  %s (choose %d): %s", groupName(choice, "Choice group"), choice.Choose, strings.Join(choice.Courses, ", ")))
		}
	}

	if electives := set.Electives(); len(electives) > 0 {
		lines = append(lines, "", "Elective requirements")
		for _, elective := range electives {
			switch elective.Elective {
			case ElectiveComplex:
				lines = append(lines, fmt.Sprintf("  %s (choose %d)", groupName(elective, "Specialized courses"), elective.Choose))
				if len(elective.Specified) > 0 {
					lines = append(lines, fmt.Sprintf("    Specified: %s", strings.Join(elective.Specified, ", ")))
				}
				if len(elective.Free) > 0 {
					lines = append(lines, fmt.Sprintf("    Also accepted: %s", strings.Join(elective.Free, ", ")))
				}
			case ElectiveList:
				lines = append(lines, fmt.Sprintf("  %s (choose %d): %s", groupName(elective, "Specialization electives"), elective.Choose, strings.Join(elective.Courses, ", ")))
			default:
				lines = append(lines, fmt.Sprintf("  %s (choose %d): any graduate course", groupName(elective, "General graduate electives"), elective.Choose))
			}
			if elective.Description != "" {
				lines = append(lines, "    Note: "+elective.Description)
			}
		}
	}

	if set.Max500Level != nil || len(set.MinFromSubject) > 0 || len(set.Notes) > 0 {
		lines = append(lines, "", "Constraints")
		if set.Max500Level != nil {
			lines = append(lines, fmt.Sprintf("  Maximum %d course(s) at 500-level", *set.Max500Level))
		}
		for _, minimum := range set.MinFromSubject {
			lines = append(lines, fmt.Sprintf("  Minimum %d %s course(s)", minimum.Min, minimum.Subject))
		}
		for _, note := range set.Notes {
			lines = append(lines, "  "+note)
		}
	}

	return lines
}

// Group names such as "Choose at least 2 from: AI electives" keep only the meaningful part
func groupName(clause Clause, fallback string) string {
	name := strings.TrimSpace(clause.Name)
	if before, after, found := strings.Cut(name, ":"); found {
		if strings.HasPrefix(strings.ToLower(before), "choose") {
			name = strings.TrimSpace(after)
		} else {
			name = strings.TrimSpace(before)
		}
	}
	if name == "" {
		return fallback
	}
	return name
}
