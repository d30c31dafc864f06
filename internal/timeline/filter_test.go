package timeline

import (
	"strings"
	"testing"
	"time"

	"github.com/mhlavac/edupage-mcp/internal/edupage"
)

func ts(value string) time.Time {
	t, err := time.Parse("2006-01-02 15:04:05", value)
	if err != nil {
		panic(err)
	}
	return t
}

func eventIDs(events []edupage.TimelineEvent) []string {
	ids := make([]string, len(events))
	for i, e := range events {
		ids[i] = e.ID
	}
	return ids
}

func assertIDs(t *testing.T, events []edupage.TimelineEvent, want ...string) {
	t.Helper()
	got := eventIDs(events)
	if len(got) != len(want) {
		t.Fatalf("expected ids %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected ids %v, got %v", want, got)
		}
	}
}

func TestFilterDropsRemovedAndSystem(t *testing.T) {
	events := []edupage.TimelineEvent{
		{ID: "1", Type: "sprava", Timestamp: ts("2026-03-01 10:00:00")},
		{ID: "2", Type: "sprava", Timestamp: ts("2026-03-01 11:00:00"), Removed: true},
		{ID: "3", Type: "h_clearcache", Timestamp: ts("2026-03-01 12:00:00")},
	}

	got, err := Filter(events, Criteria{})
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	assertIDs(t, got, "1")

	got, err = Filter(events, Criteria{IncludeSystem: true})
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	// Removed events stay hidden even with system events included.
	assertIDs(t, got, "3", "1")
}

func TestFilterStatusAndStarred(t *testing.T) {
	events := []edupage.TimelineEvent{
		{ID: "open", Type: "homework", Timestamp: ts("2026-03-04 08:00:00")},
		{ID: "done", Type: "homework", Timestamp: ts("2026-03-03 08:00:00"), Done: true},
		{ID: "starred", Type: "sprava", Timestamp: ts("2026-03-02 08:00:00"), Starred: true},
	}

	got, err := Filter(events, Criteria{Status: StatusActive})
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	assertIDs(t, got, "open", "starred")

	got, err = Filter(events, Criteria{Status: StatusDone})
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	assertIDs(t, got, "done")

	got, err = Filter(events, Criteria{Starred: StarredYes})
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	assertIDs(t, got, "starred")

	got, err = Filter(events, Criteria{Starred: StarredNo})
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	assertIDs(t, got, "open", "done")
}

func TestFilterCategoryWinsOverTypes(t *testing.T) {
	events := []edupage.TimelineEvent{
		{ID: "hw", Type: "homework", Timestamp: ts("2026-03-04 08:00:00")},
		{ID: "msg", Type: "sprava", Timestamp: ts("2026-03-03 08:00:00")},
	}

	got, err := Filter(events, Criteria{Category: "messages", Types: "homework"})
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	assertIDs(t, got, "msg")
}

func TestFilterUnknownCategory(t *testing.T) {
	_, err := Filter(nil, Criteria{Category: "nonsense"})
	if err == nil {
		t.Fatal("expected error for unknown category")
	}
	if !strings.Contains(err.Error(), "homework") || !strings.Contains(err.Error(), "news") {
		t.Fatalf("expected valid categories listed, got %q", err.Error())
	}
}

func TestFilterDateRange(t *testing.T) {
	events := []edupage.TimelineEvent{
		{ID: "before", Type: "sprava", Timestamp: ts("2026-02-27 23:59:00")},
		{ID: "inside", Type: "sprava", Timestamp: ts("2026-03-01 00:00:00")},
		{ID: "edge", Type: "sprava", Timestamp: ts("2026-03-05 23:59:59")},
		{ID: "after", Type: "sprava", Timestamp: ts("2026-03-06 00:00:01")},
		{ID: "undated", Type: "sprava"},
	}

	got, err := Filter(events, Criteria{DateFrom: "2026-03-01", DateTo: "2026-03-05"})
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	// Bounds are inclusive on the date component; events without a
	// timestamp are kept and sort oldest.
	assertIDs(t, got, "edge", "inside", "undated")
}

func TestFilterSortsNewestFirst(t *testing.T) {
	events := []edupage.TimelineEvent{
		{ID: "old", Type: "sprava", Timestamp: ts("2026-01-01 08:00:00")},
		{ID: "undated", Type: "sprava"},
		{ID: "new", Type: "sprava", Timestamp: ts("2026-03-01 08:00:00")},
	}

	got, err := Filter(events, Criteria{})
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	assertIDs(t, got, "new", "old", "undated")
}

func TestFilterPagination(t *testing.T) {
	events := []edupage.TimelineEvent{
		{ID: "t1", Type: "sprava", Timestamp: ts("2026-03-03 08:00:00")},
		{ID: "t2", Type: "sprava", Timestamp: ts("2026-03-02 08:00:00")},
		{ID: "t3", Type: "sprava", Timestamp: ts("2026-03-01 08:00:00")},
	}

	got, err := Filter(events, Criteria{Limit: 2})
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	assertIDs(t, got, "t1", "t2")

	got, err = Filter(events, Criteria{Limit: 2, Offset: 1})
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	assertIDs(t, got, "t2", "t3")

	got, err = Filter(events, Criteria{Offset: 5})
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty page past the end, got %v", eventIDs(got))
	}

	got, err = Filter(events, Criteria{Limit: -1})
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	assertIDs(t, got, "t1", "t2", "t3")
}

func TestFilterIdempotent(t *testing.T) {
	events := []edupage.TimelineEvent{
		{ID: "a", Type: "homework", Timestamp: ts("2026-03-03 08:00:00")},
		{ID: "b", Type: "homework", Timestamp: ts("2026-03-01 08:00:00"), Done: true},
		{ID: "c", Type: "sprava", Timestamp: ts("2026-03-02 08:00:00")},
	}
	criteria := Criteria{Category: "homework"}

	once, err := Filter(events, criteria)
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	twice, err := Filter(once, criteria)
	if err != nil {
		t.Fatalf("filter twice: %v", err)
	}
	assertIDs(t, twice, eventIDs(once)...)
}

func TestExpandCategory(t *testing.T) {
	types, err := ExpandCategory("Exams")
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if len(types) != 6 {
		t.Fatalf("expected 6 exam types, got %v", types)
	}

	if _, err := ExpandCategory("holidays"); err == nil {
		t.Fatal("expected error for unknown category")
	}
}

func TestIsSystemType(t *testing.T) {
	if !IsSystemType("h_clearcache") {
		t.Fatal("expected h_clearcache to be a system type")
	}
	if IsSystemType("sprava") {
		t.Fatal("expected sprava not to be a system type")
	}
}
