// Package timeline filters, sorts and paginates EduPage timeline events.
// The pipeline is pure and is applied per account; callers that merge
// several accounts re-sort and page the merged stream themselves.
package timeline

import (
	"fmt"
	"sort"
	"strings"
)

// systemTypes are housekeeping events EduPage emits alongside the visible
// timeline (cache flushes, photo syncs, canteen bookkeeping). Hidden
// unless a caller opts in.
var systemTypes = map[string]struct{}{
	"h_attendance":    {},
	"h_vcelicka":      {},
	"h_clearcache":    {},
	"h_cleardbi":      {},
	"h_clearisicdata": {},
	"h_clearplany":    {},
	"h_contest":       {},
	"h_dailyplan":     {},
	"h_edusettings":   {},
	"h_financie":      {},
	"h_znamky":        {},
	"h_homework":      {},
	"h_igroups":       {},
	"h_process":       {},
	"h_processtypes":  {},
	"h_settings":      {},
	"h_substitution":  {},
	"h_timetable":     {},
	"h_userphoto":     {},
	"strava_kredit":   {},
	"strava_vydaj":    {},
	"h_stravamenu":    {},
	"pipnutie":        {},
}

// IsSystemType reports whether a raw event type is a system event.
func IsSystemType(eventType string) bool {
	_, ok := systemTypes[eventType]
	return ok
}

// categories groups raw event type values under human-friendly names.
// Static configuration, not derived data.
var categories = map[string][]string{
	"homework": {"homework", "etesthw"},
	"grades":   {"znamka", "znamkydoc"},
	"exams":    {"bexam", "sexam", "oexam", "rexam", "pexam", "testing"},
	"messages": {"sprava"},
	"absences": {"student_absent", "ospravedlnenka"},
	"events": {
		"event", "schoolevent", "excursion", "trip", "culture",
		"parentsevening", "meeting", "bmeeting",
	},
	"news": {"news"},
}

// CategoryNames returns the known category names, sorted.
func CategoryNames() []string {
	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ExpandCategory returns the raw event types grouped under a category.
func ExpandCategory(name string) ([]string, error) {
	types, ok := categories[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown category %q; valid categories: %s",
			name, strings.Join(CategoryNames(), ", "))
	}
	return types, nil
}
