package domain

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/mhlavac/edupage-mcp/internal/aggregate"
	"github.com/mhlavac/edupage-mcp/internal/edupage"
	"github.com/mhlavac/edupage-mcp/internal/lean"
	"github.com/mhlavac/edupage-mcp/internal/timeline"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const defaultEventLimit = 50

// EventFilterInput carries the filter arguments shared by the timeline
// tools. Category and EventType are mutually exclusive; Category wins.
type EventFilterInput struct {
	Status        string `json:"status,omitempty" jsonschema:"filter by status: active, done, or all"`
	Starred       string `json:"starred,omitempty" jsonschema:"filter by starred: yes or no; omit for all"`
	EventType     string `json:"event_type,omitempty" jsonschema:"raw type filter, comma-separated, e.g. 'sprava,znamka'"`
	Category      string `json:"category,omitempty" jsonschema:"category filter: homework, grades, exams, messages, absences, events, or news"`
	Limit         int    `json:"limit,omitempty" jsonschema:"max items to return (default 50)"`
	Offset        int    `json:"offset,omitempty" jsonschema:"items to skip for pagination"`
	IncludeSystem bool   `json:"include_system,omitempty" jsonschema:"include system events (H_* types), hidden by default"`
	Account       string `json:"account,omitempty" jsonschema:"account id; omit to query every logged-in account"`
}

// criteria translates the tool arguments into filter criteria, leaving
// pagination to the caller so pages cover the merged stream rather than
// one account's slice.
func (in EventFilterInput) criteria(defaultStatus string) (timeline.Criteria, error) {
	status := in.Status
	if status == "" {
		status = defaultStatus
	}
	var c timeline.Criteria
	switch status {
	case "", "all":
		c.Status = timeline.StatusAny
	case "active":
		c.Status = timeline.StatusActive
	case "done":
		c.Status = timeline.StatusDone
	default:
		return c, fmt.Errorf("status must be active, done, or all, got %q", in.Status)
	}
	switch in.Starred {
	case "":
		c.Starred = timeline.StarredAny
	case "yes":
		c.Starred = timeline.StarredYes
	case "no":
		c.Starred = timeline.StarredNo
	default:
		return c, fmt.Errorf("starred must be yes or no, got %q", in.Starred)
	}
	c.IncludeSystem = in.IncludeSystem
	c.Category = in.Category
	c.Types = in.EventType
	return c, nil
}

func (in EventFilterInput) pageBounds() (offset, limit int) {
	limit = in.Limit
	if limit == 0 {
		limit = defaultEventLimit
	}
	return in.Offset, limit
}

// EventsResult lists lean timeline events.
type EventsResult struct {
	Events          []lean.Event `json:"events"`
	DroppedAccounts []string     `json:"dropped_accounts,omitempty"`
}

// TimelineInput filters the visible timeline.
type TimelineInput struct {
	EventFilterInput
	DateFrom string `json:"date_from,omitempty" jsonschema:"start date (YYYY-MM-DD), inclusive"`
	DateTo   string `json:"date_to,omitempty" jsonschema:"end date (YYYY-MM-DD), inclusive"`
}

// TimelineTool defines the tool schema for the visible timeline.
func TimelineTool() *mcp.Tool {
	return &mcp.Tool{
		Name: "get_timeline",
		Description: "Gets the visible timeline (recent messages, assignments, grades). " +
			"Shows active items by default; pass status 'all' for everything.",
	}
}

// TimelineHandler filters the currently visible timeline of the targeted
// account(s). Status defaults to active.
func TimelineHandler(registry *aggregate.Registry) mcp.ToolHandlerFor[TimelineInput, EventsResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input TimelineInput) (*mcp.CallToolResult, EventsResult, error) {
		criteria, err := input.criteria("active")
		if err != nil {
			return nil, EventsResult{}, toolError("get_timeline", err)
		}
		criteria.DateFrom = input.DateFrom
		criteria.DateTo = input.DateTo
		offset, limit := input.pageBounds()
		result, err := fetchEvents(ctx, registry, input.Account, criteria, offset, limit,
			func(ctx context.Context, client edupage.Client) ([]edupage.TimelineEvent, error) {
				return client.Notifications(ctx)
			})
		if err != nil {
			return nil, EventsResult{}, toolError("get_timeline", err)
		}
		return nil, EventsResult{
			Events:          projectItems[edupage.TimelineEvent, lean.Event](result.Items, lean.FromEvent),
			DroppedAccounts: droppedAccounts("get_timeline", result.Dropped),
		}, nil
	}
}

// NotificationsInput filters recent notifications.
type NotificationsInput struct {
	EventFilterInput
}

// NotificationsTool defines the tool schema for recent notifications.
func NotificationsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_notifications",
		Description: "Gets recent notifications. System events are hidden by default.",
	}
}

// NotificationsHandler filters the recent notifications of the targeted
// account(s). Unlike get_timeline, status defaults to all.
func NotificationsHandler(registry *aggregate.Registry) mcp.ToolHandlerFor[NotificationsInput, EventsResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input NotificationsInput) (*mcp.CallToolResult, EventsResult, error) {
		criteria, err := input.criteria("")
		if err != nil {
			return nil, EventsResult{}, toolError("get_notifications", err)
		}
		offset, limit := input.pageBounds()
		result, err := fetchEvents(ctx, registry, input.Account, criteria, offset, limit,
			func(ctx context.Context, client edupage.Client) ([]edupage.TimelineEvent, error) {
				return client.Notifications(ctx)
			})
		if err != nil {
			return nil, EventsResult{}, toolError("get_notifications", err)
		}
		return nil, EventsResult{
			Events:          projectItems[edupage.TimelineEvent, lean.Event](result.Items, lean.FromEvent),
			DroppedAccounts: droppedAccounts("get_notifications", result.Dropped),
		}, nil
	}
}

// NotificationHistoryInput filters the notification history.
type NotificationHistoryInput struct {
	EventFilterInput
	SinceDate string `json:"since_date,omitempty" jsonschema:"start date in YYYY-MM-DD format; defaults to 7 days ago"`
}

// NotificationHistoryTool defines the tool schema for the notification
// history.
func NotificationHistoryTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_notification_history",
		Description: "Gets notification history since a date (defaults to the last 7 days).",
	}
}

// NotificationHistoryHandler filters the notification history of the
// targeted account(s) since a date.
func NotificationHistoryHandler(registry *aggregate.Registry) mcp.ToolHandlerFor[NotificationHistoryInput, EventsResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input NotificationHistoryInput) (*mcp.CallToolResult, EventsResult, error) {
		criteria, err := input.criteria("")
		if err != nil {
			return nil, EventsResult{}, toolError("get_notification_history", err)
		}
		since := time.Now().AddDate(0, 0, -7)
		if input.SinceDate != "" {
			if since, err = time.Parse(dateLayout, input.SinceDate); err != nil {
				return nil, EventsResult{}, toolError("get_notification_history",
					fmt.Errorf("since_date must be YYYY-MM-DD: %w", err))
			}
		}
		offset, limit := input.pageBounds()
		result, err := fetchEvents(ctx, registry, input.Account, criteria, offset, limit,
			func(ctx context.Context, client edupage.Client) ([]edupage.TimelineEvent, error) {
				return client.NotificationHistory(ctx, since)
			})
		if err != nil {
			return nil, EventsResult{}, toolError("get_notification_history", err)
		}
		return nil, EventsResult{
			Events:          projectItems[edupage.TimelineEvent, lean.Event](result.Items, lean.FromEvent),
			DroppedAccounts: droppedAccounts("get_notification_history", result.Dropped),
		}, nil
	}
}

// fetchEvents fans the event fetch out to the targeted accounts, filters
// each account's stream, then orders and pages the merged stream so one
// page spans every contributing account. Criteria errors (unknown
// category, bad dates) surface before any backend call.
func fetchEvents(
	ctx context.Context,
	registry *aggregate.Registry,
	account string,
	criteria timeline.Criteria,
	offset, limit int,
	fetch func(context.Context, edupage.Client) ([]edupage.TimelineEvent, error),
) (aggregate.Result[edupage.TimelineEvent], error) {
	if _, err := timeline.Filter(nil, criteria); err != nil {
		return aggregate.Result[edupage.TimelineEvent]{}, err
	}

	runCtx, cancel := callCtx(ctx)
	defer cancel()
	result, err := aggregate.FanOut(runCtx, registry, account,
		func(ctx context.Context, session *aggregate.Session) ([]edupage.TimelineEvent, error) {
			events, err := fetch(ctx, session.Client)
			if err != nil {
				return nil, err
			}
			return timeline.Filter(events, criteria)
		})
	if err != nil {
		return aggregate.Result[edupage.TimelineEvent]{}, err
	}

	slices.SortStableFunc(result.Items, func(a, b aggregate.Item[edupage.TimelineEvent]) int {
		return b.Record.Timestamp.Compare(a.Record.Timestamp)
	})
	result.Items = pageItems(result.Items, offset, limit)
	return result, nil
}

// pageItems slices the merged stream to [offset, offset+limit);
// limit <= 0 means no cap.
func pageItems[T any](items []aggregate.Item[T], offset, limit int) []aggregate.Item[T] {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
