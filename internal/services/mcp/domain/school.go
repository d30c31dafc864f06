package domain

import (
	"context"

	"github.com/mhlavac/edupage-mcp/internal/aggregate"
	"github.com/mhlavac/edupage-mcp/internal/edupage"
	"github.com/mhlavac/edupage-mcp/internal/lean"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SchoolInput targets one of the static school listings.
type SchoolInput struct {
	Account string `json:"account,omitempty" jsonschema:"account id; omit to query every logged-in account"`
}

// ClassesResult lists lean class records.
type ClassesResult struct {
	Classes         []lean.Class `json:"classes"`
	DroppedAccounts []string     `json:"dropped_accounts,omitempty"`
}

// ClassesTool defines the tool schema for listing classes.
func ClassesTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_classes",
		Description: "Gets all classes in the school.",
	}
}

// ClassesHandler lists the classes of the targeted school(s).
func ClassesHandler(registry *aggregate.Registry) mcp.ToolHandlerFor[SchoolInput, ClassesResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SchoolInput) (*mcp.CallToolResult, ClassesResult, error) {
		runCtx, cancel := callCtx(ctx)
		defer cancel()
		result, err := aggregate.FanOut(runCtx, registry, input.Account,
			func(ctx context.Context, session *aggregate.Session) ([]edupage.Class, error) {
				return session.Client.Classes(ctx)
			})
		if err != nil {
			return nil, ClassesResult{}, toolError("get_classes", err)
		}
		return nil, ClassesResult{
			Classes:         projectItems[edupage.Class, lean.Class](result.Items, lean.FromClass),
			DroppedAccounts: droppedAccounts("get_classes", result.Dropped),
		}, nil
	}
}

// ClassroomsResult lists lean classroom records.
type ClassroomsResult struct {
	Classrooms      []lean.Classroom `json:"classrooms"`
	DroppedAccounts []string         `json:"dropped_accounts,omitempty"`
}

// ClassroomsTool defines the tool schema for listing classrooms.
func ClassroomsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_classrooms",
		Description: "Gets all classrooms in the school.",
	}
}

// ClassroomsHandler lists the classrooms of the targeted school(s).
func ClassroomsHandler(registry *aggregate.Registry) mcp.ToolHandlerFor[SchoolInput, ClassroomsResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SchoolInput) (*mcp.CallToolResult, ClassroomsResult, error) {
		runCtx, cancel := callCtx(ctx)
		defer cancel()
		result, err := aggregate.FanOut(runCtx, registry, input.Account,
			func(ctx context.Context, session *aggregate.Session) ([]edupage.Classroom, error) {
				return session.Client.Classrooms(ctx)
			})
		if err != nil {
			return nil, ClassroomsResult{}, toolError("get_classrooms", err)
		}
		return nil, ClassroomsResult{
			Classrooms:      projectItems[edupage.Classroom, lean.Classroom](result.Items, lean.FromClassroom),
			DroppedAccounts: droppedAccounts("get_classrooms", result.Dropped),
		}, nil
	}
}

// SubjectsResult lists lean subject records.
type SubjectsResult struct {
	Subjects        []lean.Subject `json:"subjects"`
	DroppedAccounts []string       `json:"dropped_accounts,omitempty"`
}

// SubjectsTool defines the tool schema for listing subjects.
func SubjectsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_subjects",
		Description: "Gets all subjects taught at the school.",
	}
}

// SubjectsHandler lists the subjects of the targeted school(s).
func SubjectsHandler(registry *aggregate.Registry) mcp.ToolHandlerFor[SchoolInput, SubjectsResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SchoolInput) (*mcp.CallToolResult, SubjectsResult, error) {
		runCtx, cancel := callCtx(ctx)
		defer cancel()
		result, err := aggregate.FanOut(runCtx, registry, input.Account,
			func(ctx context.Context, session *aggregate.Session) ([]edupage.Subject, error) {
				return session.Client.Subjects(ctx)
			})
		if err != nil {
			return nil, SubjectsResult{}, toolError("get_subjects", err)
		}
		return nil, SubjectsResult{
			Subjects:        projectItems[edupage.Subject, lean.Subject](result.Items, lean.FromSubject),
			DroppedAccounts: droppedAccounts("get_subjects", result.Dropped),
		}, nil
	}
}

// PeriodsResult lists the bell schedule.
type PeriodsResult struct {
	Periods         []lean.Period `json:"periods"`
	DroppedAccounts []string      `json:"dropped_accounts,omitempty"`
}

// PeriodsTool defines the tool schema for the bell schedule.
func PeriodsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_periods",
		Description: "Gets the school period / bell schedule.",
	}
}

// PeriodsHandler returns the bell schedule of the targeted school(s).
func PeriodsHandler(registry *aggregate.Registry) mcp.ToolHandlerFor[SchoolInput, PeriodsResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SchoolInput) (*mcp.CallToolResult, PeriodsResult, error) {
		runCtx, cancel := callCtx(ctx)
		defer cancel()
		result, err := aggregate.FanOut(runCtx, registry, input.Account,
			func(ctx context.Context, session *aggregate.Session) ([]edupage.Period, error) {
				return session.Client.Periods(ctx)
			})
		if err != nil {
			return nil, PeriodsResult{}, toolError("get_periods", err)
		}
		return nil, PeriodsResult{
			Periods:         projectItems[edupage.Period, lean.Period](result.Items, lean.FromPeriod),
			DroppedAccounts: droppedAccounts("get_periods", result.Dropped),
		}, nil
	}
}
