package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/mhlavac/edupage-mcp/internal/aggregate"
	"github.com/mhlavac/edupage-mcp/internal/edupage"
	"github.com/mhlavac/edupage-mcp/internal/lean"
	"github.com/mhlavac/edupage-mcp/internal/timeline"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	homeworkTypes   = "homework,etesthw"
	assignmentTypes = "homework,etesthw,bexam,sexam,oexam,rexam,pexam,testing"

	// Assignments are extracted from the notification history, which
	// grows unbounded; cap each account's slice before merging.
	assignmentScanLimit = 200
)

// HomeworkInput targets the homework listing.
type HomeworkInput struct {
	SinceDays int    `json:"since_days,omitempty" jsonschema:"how many days back to search (default 30)"`
	Status    string `json:"status,omitempty" jsonschema:"filter by status: active (not done) or done; omit for all"`
	Account   string `json:"account,omitempty" jsonschema:"account id; omit to query every logged-in account"`
}

// HomeworkResult lists homework extracted from the timeline.
type HomeworkResult struct {
	Homework        []lean.Homework `json:"homework"`
	DroppedAccounts []string        `json:"dropped_accounts,omitempty"`
}

// HomeworkTool defines the tool schema for listing homework.
func HomeworkTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_homework",
		Description: "Gets homework assignments from the last N days with title, subject and due date.",
	}
}

// HomeworkHandler extracts homework events from the notification history
// of the targeted account(s).
func HomeworkHandler(registry *aggregate.Registry) mcp.ToolHandlerFor[HomeworkInput, HomeworkResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input HomeworkInput) (*mcp.CallToolResult, HomeworkResult, error) {
		criteria, err := assignmentCriteria(homeworkTypes, input.Status)
		if err != nil {
			return nil, HomeworkResult{}, toolError("get_homework", err)
		}
		result, err := fetchHistory(ctx, registry, input.Account, input.SinceDays, 30, criteria)
		if err != nil {
			return nil, HomeworkResult{}, toolError("get_homework", err)
		}
		return nil, HomeworkResult{
			Homework:        projectItems[edupage.TimelineEvent, lean.Homework](result.Items, lean.FromHomework),
			DroppedAccounts: droppedAccounts("get_homework", result.Dropped),
		}, nil
	}
}

// AssignmentsInput targets the assignment listing.
type AssignmentsInput struct {
	SinceDays int    `json:"since_days,omitempty" jsonschema:"how many days back to search (default 30)"`
	Status    string `json:"status,omitempty" jsonschema:"filter by status: active (not done) or done; omit for all"`
	EventType string `json:"event_type,omitempty" jsonschema:"narrow to specific types (comma-separated): homework, etesthw, bexam, sexam, oexam, rexam, pexam, testing"`
	Account   string `json:"account,omitempty" jsonschema:"account id; omit to query every logged-in account"`
}

// AssignmentsResult lists assignments extracted from the timeline.
type AssignmentsResult struct {
	Assignments     []lean.Assignment `json:"assignments"`
	DroppedAccounts []string          `json:"dropped_accounts,omitempty"`
}

// AssignmentsTool defines the tool schema for listing assignments.
func AssignmentsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_assignments",
		Description: "Gets all assignments (homework, tests, exams, projects) from the last N days.",
	}
}

// AssignmentsHandler extracts homework and exam events from the
// notification history of the targeted account(s).
func AssignmentsHandler(registry *aggregate.Registry) mcp.ToolHandlerFor[AssignmentsInput, AssignmentsResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input AssignmentsInput) (*mcp.CallToolResult, AssignmentsResult, error) {
		types := input.EventType
		if types == "" {
			types = assignmentTypes
		}
		criteria, err := assignmentCriteria(types, input.Status)
		if err != nil {
			return nil, AssignmentsResult{}, toolError("get_assignments", err)
		}
		result, err := fetchHistory(ctx, registry, input.Account, input.SinceDays, 30, criteria)
		if err != nil {
			return nil, AssignmentsResult{}, toolError("get_assignments", err)
		}
		return nil, AssignmentsResult{
			Assignments:     projectItems[edupage.TimelineEvent, lean.Assignment](result.Items, lean.FromAssignment),
			DroppedAccounts: droppedAccounts("get_assignments", result.Dropped),
		}, nil
	}
}

func assignmentCriteria(types, status string) (timeline.Criteria, error) {
	criteria := timeline.Criteria{Types: types, Limit: assignmentScanLimit}
	switch status {
	case "":
		criteria.Status = timeline.StatusAny
	case "active":
		criteria.Status = timeline.StatusActive
	case "done":
		criteria.Status = timeline.StatusDone
	default:
		return criteria, fmt.Errorf("status must be active or done, got %q", status)
	}
	return criteria, nil
}

// fetchHistory fans the notification-history fetch out to the targeted
// accounts and filters each stream. sinceDays <= 0 falls back to the
// tool's default window.
func fetchHistory(
	ctx context.Context,
	registry *aggregate.Registry,
	account string,
	sinceDays, defaultDays int,
	criteria timeline.Criteria,
) (aggregate.Result[edupage.TimelineEvent], error) {
	if sinceDays <= 0 {
		sinceDays = defaultDays
	}
	since := time.Now().AddDate(0, 0, -sinceDays)

	runCtx, cancel := callCtx(ctx)
	defer cancel()
	return aggregate.FanOut(runCtx, registry, account,
		func(ctx context.Context, session *aggregate.Session) ([]edupage.TimelineEvent, error) {
			events, err := session.Client.NotificationHistory(ctx, since)
			if err != nil {
				return nil, err
			}
			return timeline.Filter(events, criteria)
		})
}
