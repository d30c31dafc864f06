package domain

import (
	"context"

	"github.com/mhlavac/edupage-mcp/internal/aggregate"
	"github.com/mhlavac/edupage-mcp/internal/edupage"
	"github.com/mhlavac/edupage-mcp/internal/lean"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// StudentsInput targets the visible-students listing.
type StudentsInput struct {
	Account string `json:"account,omitempty" jsonschema:"account id; omit to query every logged-in account"`
}

// StudentsResult lists lean student records, tagged with the originating
// account when several accounts contributed.
type StudentsResult struct {
	Students        []lean.Student `json:"students"`
	DroppedAccounts []string       `json:"dropped_accounts,omitempty" jsonschema:"accounts excluded from the merge because their fetch failed"`
}

// MyChildrenTool defines the tool schema for listing the account's
// children or classmates.
func MyChildrenTool() *mcp.Tool {
	return &mcp.Tool{
		Name: "get_my_children",
		Description: "Gets your children (parent accounts) or classmates (student accounts) " +
			"across all logged-in schools. Use it to find student names for tools taking student_name.",
	}
}

// StudentsTool defines the tool schema for listing students in the class.
func StudentsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_students",
		Description: "Gets students in your class.",
	}
}

// StudentsHandler lists the students visible to the targeted account(s).
// get_my_children and get_students share it: the backend exposes one
// visible-students listing whose meaning depends on the account role.
func StudentsHandler(action string, registry *aggregate.Registry) mcp.ToolHandlerFor[StudentsInput, StudentsResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input StudentsInput) (*mcp.CallToolResult, StudentsResult, error) {
		runCtx, cancel := callCtx(ctx)
		defer cancel()
		result, err := aggregate.FanOut(runCtx, registry, input.Account,
			func(ctx context.Context, session *aggregate.Session) ([]edupage.Student, error) {
				return session.Client.Students(ctx)
			})
		if err != nil {
			return nil, StudentsResult{}, toolError(action, err)
		}
		return nil, StudentsResult{
			Students:        projectItems[edupage.Student, lean.Student](result.Items, lean.FromStudent),
			DroppedAccounts: droppedAccounts(action, result.Dropped),
		}, nil
	}
}

// AllStudentsTool defines the tool schema for the whole-school listing.
func AllStudentsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_all_students",
		Description: "Gets all students in the school (name and class only).",
	}
}

// AllStudentsHandler lists every student in the targeted school(s).
func AllStudentsHandler(registry *aggregate.Registry) mcp.ToolHandlerFor[StudentsInput, StudentsResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input StudentsInput) (*mcp.CallToolResult, StudentsResult, error) {
		runCtx, cancel := callCtx(ctx)
		defer cancel()
		result, err := aggregate.FanOut(runCtx, registry, input.Account,
			func(ctx context.Context, session *aggregate.Session) ([]edupage.Student, error) {
				return session.Client.AllStudents(ctx)
			})
		if err != nil {
			return nil, StudentsResult{}, toolError("get_all_students", err)
		}
		return nil, StudentsResult{
			Students:        projectItems[edupage.Student, lean.Student](result.Items, lean.FromStudent),
			DroppedAccounts: droppedAccounts("get_all_students", result.Dropped),
		}, nil
	}
}

// TeachersInput targets the teacher listing.
type TeachersInput struct {
	Account string `json:"account,omitempty" jsonschema:"account id; omit to query every logged-in account"`
}

// TeachersResult lists lean teacher records.
type TeachersResult struct {
	Teachers        []lean.Teacher `json:"teachers"`
	DroppedAccounts []string       `json:"dropped_accounts,omitempty"`
}

// TeachersTool defines the tool schema for listing teachers.
func TeachersTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_teachers",
		Description: "Gets all teachers in the school.",
	}
}

// TeachersHandler lists the teachers of the targeted school(s).
func TeachersHandler(registry *aggregate.Registry) mcp.ToolHandlerFor[TeachersInput, TeachersResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input TeachersInput) (*mcp.CallToolResult, TeachersResult, error) {
		runCtx, cancel := callCtx(ctx)
		defer cancel()
		result, err := aggregate.FanOut(runCtx, registry, input.Account,
			func(ctx context.Context, session *aggregate.Session) ([]edupage.Teacher, error) {
				return session.Client.Teachers(ctx)
			})
		if err != nil {
			return nil, TeachersResult{}, toolError("get_teachers", err)
		}
		return nil, TeachersResult{
			Teachers:        projectItems[edupage.Teacher, lean.Teacher](result.Items, lean.FromTeacher),
			DroppedAccounts: droppedAccounts("get_teachers", result.Dropped),
		}, nil
	}
}
