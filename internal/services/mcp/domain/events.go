package domain

import (
	"context"
	"slices"
	"time"

	"github.com/mhlavac/edupage-mcp/internal/aggregate"
	"github.com/mhlavac/edupage-mcp/internal/edupage"
	"github.com/mhlavac/edupage-mcp/internal/lean"
	"github.com/mhlavac/edupage-mcp/internal/timeline"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	absenceTypes = "student_absent,ospravedlnenka"

	upcomingTypes = "event,schoolevent,excursion,trip,culture,parentsevening," +
		"meeting,bmeeting,bexam,sexam,oexam,rexam,pexam,testing"
	upcomingScanLimit = 500
)

// AbsencesInput targets the absence listing.
type AbsencesInput struct {
	SinceDays   int    `json:"since_days,omitempty" jsonschema:"how many days back to search (default 30)"`
	StudentName string `json:"student_name,omitempty" jsonschema:"student name; pins the account owning the student"`
	Account     string `json:"account,omitempty" jsonschema:"account id; omit to query every logged-in account"`
}

// AbsencesResult lists absence records.
type AbsencesResult struct {
	Absences        []lean.Absence `json:"absences"`
	DroppedAccounts []string       `json:"dropped_accounts,omitempty"`
}

// AbsencesTool defines the tool schema for listing absences.
func AbsencesTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_absences",
		Description: "Gets absence records from the last N days, classified as excused or absent.",
	}
}

// AbsencesHandler extracts absence events from the notification history.
// A student name narrows the search to the account owning the student.
func AbsencesHandler(registry *aggregate.Registry, resolver *aggregate.Resolver) mcp.ToolHandlerFor[AbsencesInput, AbsencesResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input AbsencesInput) (*mcp.CallToolResult, AbsencesResult, error) {
		account := input.Account
		if input.StudentName != "" {
			runCtx, cancel := callCtx(ctx)
			match, err := resolver.Resolve(runCtx, input.StudentName, input.Account)
			cancel()
			if err != nil {
				return nil, AbsencesResult{}, toolError("get_absences", err)
			}
			account = match.Session.ID
		}

		criteria := timeline.Criteria{Types: absenceTypes, Limit: assignmentScanLimit}
		result, err := fetchHistory(ctx, registry, account, input.SinceDays, 30, criteria)
		if err != nil {
			return nil, AbsencesResult{}, toolError("get_absences", err)
		}
		return nil, AbsencesResult{
			Absences:        projectItems[edupage.TimelineEvent, lean.Absence](result.Items, lean.FromAbsence),
			DroppedAccounts: droppedAccounts("get_absences", result.Dropped),
		}, nil
	}
}

// UpcomingEventsInput targets the upcoming-events listing.
type UpcomingEventsInput struct {
	DaysAhead int    `json:"days_ahead,omitempty" jsonschema:"how many days ahead to look (default 30)"`
	Account   string `json:"account,omitempty" jsonschema:"account id; omit to query every logged-in account"`
}

// UpcomingEventsResult lists future events, nearest first.
type UpcomingEventsResult struct {
	Events          []lean.UpcomingEvent `json:"events"`
	DroppedAccounts []string             `json:"dropped_accounts,omitempty"`
}

// UpcomingEventsTool defines the tool schema for listing upcoming
// events.
func UpcomingEventsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_upcoming_events",
		Description: "Gets upcoming events and exams within the next N days, sorted nearest first.",
	}
}

// UpcomingEventsHandler finds event and exam entries dated within the
// look-ahead window. The notification history of the last week is
// scanned so recently created future events are included.
func UpcomingEventsHandler(registry *aggregate.Registry) mcp.ToolHandlerFor[UpcomingEventsInput, UpcomingEventsResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input UpcomingEventsInput) (*mcp.CallToolResult, UpcomingEventsResult, error) {
		daysAhead := input.DaysAhead
		if daysAhead <= 0 {
			daysAhead = 30
		}
		now := time.Now()
		cutoff := now.AddDate(0, 0, daysAhead)

		criteria := timeline.Criteria{Types: upcomingTypes, Limit: upcomingScanLimit}
		result, err := fetchHistory(ctx, registry, input.Account, 7, 7, criteria)
		if err != nil {
			return nil, UpcomingEventsResult{}, toolError("get_upcoming_events", err)
		}

		future := result.Items[:0]
		for _, item := range result.Items {
			ts := item.Record.Timestamp
			if ts.IsZero() || ts.Before(now) || ts.After(cutoff) {
				continue
			}
			future = append(future, item)
		}
		slices.SortStableFunc(future, func(a, b aggregate.Item[edupage.TimelineEvent]) int {
			return a.Record.Timestamp.Compare(b.Record.Timestamp)
		})

		return nil, UpcomingEventsResult{
			Events:          projectItems[edupage.TimelineEvent, lean.UpcomingEvent](future, lean.FromUpcomingEvent),
			DroppedAccounts: droppedAccounts("get_upcoming_events", result.Dropped),
		}, nil
	}
}
