package timeline

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/mhlavac/edupage-mcp/internal/edupage"
)

// Status filters events by their done flag.
type Status string

const (
	StatusAny    Status = ""
	StatusActive Status = "active"
	StatusDone   Status = "done"
)

// Starred filters events by their starred flag.
type Starred string

const (
	StarredAny Starred = ""
	StarredYes Starred = "yes"
	StarredNo  Starred = "no"
)

const dateLayout = "2006-01-02"

// Criteria selects, orders and paginates timeline events. Category and
// Types are mutually exclusive type filters; Category wins when both are
// set. DateFrom/DateTo are inclusive ISO dates compared against the
// event's date component; either side may be open. Limit <= 0 means no
// cap.
type Criteria struct {
	IncludeSystem bool
	Status        Status
	Starred       Starred
	Category      string
	Types         string
	DateFrom      string
	DateTo        string
	Limit         int
	Offset        int
}

// typeFilter expands Category (via the static table) or Types (an explicit
// comma-separated list) into the raw type set, or nil for no type filter.
func (c Criteria) typeFilter() (map[string]struct{}, error) {
	var raw []string
	switch {
	case c.Category != "":
		expanded, err := ExpandCategory(c.Category)
		if err != nil {
			return nil, err
		}
		raw = expanded
	case c.Types != "":
		for _, t := range strings.Split(c.Types, ",") {
			if t = strings.TrimSpace(t); t != "" {
				raw = append(raw, t)
			}
		}
	default:
		return nil, nil
	}
	filter := make(map[string]struct{}, len(raw))
	for _, t := range raw {
		filter[t] = struct{}{}
	}
	return filter, nil
}

// Filter applies the criteria to events in input order, sorts the
// survivors newest first (events without a timestamp sort oldest), and
// returns the [offset, offset+limit) page. Filtering is idempotent: a
// criteria-conforming input passes through with only ordering applied.
func Filter(events []edupage.TimelineEvent, criteria Criteria) ([]edupage.TimelineEvent, error) {
	typeFilter, err := criteria.typeFilter()
	if err != nil {
		return nil, err
	}
	from, to, err := criteria.dateBounds()
	if err != nil {
		return nil, err
	}

	var kept []edupage.TimelineEvent
	for _, event := range events {
		if event.Removed {
			continue
		}
		if !criteria.IncludeSystem && IsSystemType(event.Type) {
			continue
		}
		if criteria.Status == StatusActive && event.Done {
			continue
		}
		if criteria.Status == StatusDone && !event.Done {
			continue
		}
		if criteria.Starred == StarredYes && !event.Starred {
			continue
		}
		if criteria.Starred == StarredNo && event.Starred {
			continue
		}
		if typeFilter != nil {
			if _, ok := typeFilter[event.Type]; !ok {
				continue
			}
		}
		if !inDateRange(event.Timestamp, from, to) {
			continue
		}
		kept = append(kept, event)
	}

	slices.SortStableFunc(kept, func(a, b edupage.TimelineEvent) int {
		return b.Timestamp.Compare(a.Timestamp)
	})

	return page(kept, criteria.Offset, criteria.Limit), nil
}

func (c Criteria) dateBounds() (from, to time.Time, err error) {
	if c.DateFrom != "" {
		if from, err = time.Parse(dateLayout, c.DateFrom); err != nil {
			return from, to, fmt.Errorf("parse date_from: %w", err)
		}
	}
	if c.DateTo != "" {
		if to, err = time.Parse(dateLayout, c.DateTo); err != nil {
			return from, to, fmt.Errorf("parse date_to: %w", err)
		}
	}
	return from, to, nil
}

// inDateRange compares the event's date component against inclusive
// bounds; a zero bound is open. Events without a timestamp cannot be
// placed on either side of a bound and are kept.
func inDateRange(ts time.Time, from, to time.Time) bool {
	if ts.IsZero() {
		return true
	}
	day := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
	if !from.IsZero() && day.Before(from) {
		return false
	}
	if !to.IsZero() && day.After(to) {
		return false
	}
	return true
}

func page(events []edupage.TimelineEvent, offset, limit int) []edupage.TimelineEvent {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(events) {
		return nil
	}
	events = events[offset:]
	if limit > 0 && limit < len(events) {
		events = events[:limit]
	}
	return events
}
