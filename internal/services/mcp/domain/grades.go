package domain

import (
	"context"
	"strings"

	"github.com/mhlavac/edupage-mcp/internal/aggregate"
	"github.com/mhlavac/edupage-mcp/internal/edupage"
	"github.com/mhlavac/edupage-mcp/internal/lean"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// GradesInput targets the grade listing.
type GradesInput struct {
	Subject string `json:"subject,omitempty" jsonschema:"subject name filter, matched as a substring; omit for all subjects"`
	Account string `json:"account,omitempty" jsonschema:"account id; omit to query every logged-in account"`
}

// GradesResult lists lean grade records.
type GradesResult struct {
	Grades          []lean.Grade `json:"grades"`
	DroppedAccounts []string     `json:"dropped_accounts,omitempty"`
}

// GradesTool defines the tool schema for listing grades.
func GradesTool() *mcp.Tool {
	return &mcp.Tool{
		Name: "get_grades",
		Description: "Gets grades/marks with percent and class average. Parent accounts " +
			"get the grades of the child linked to each account.",
	}
}

// GradesHandler lists the grades of the targeted account(s), optionally
// narrowed to one subject.
func GradesHandler(registry *aggregate.Registry) mcp.ToolHandlerFor[GradesInput, GradesResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GradesInput) (*mcp.CallToolResult, GradesResult, error) {
		runCtx, cancel := callCtx(ctx)
		defer cancel()
		result, err := aggregate.FanOut(runCtx, registry, input.Account,
			func(ctx context.Context, session *aggregate.Session) ([]edupage.Grade, error) {
				grades, err := session.Client.Grades(ctx)
				if err != nil {
					return nil, err
				}
				return filterGrades(grades, input.Subject), nil
			})
		if err != nil {
			return nil, GradesResult{}, toolError("get_grades", err)
		}
		return nil, GradesResult{
			Grades:          projectItems[edupage.Grade, lean.Grade](result.Items, lean.FromGrade),
			DroppedAccounts: droppedAccounts("get_grades", result.Dropped),
		}, nil
	}
}

func filterGrades(grades []edupage.Grade, subject string) []edupage.Grade {
	if subject == "" {
		return grades
	}
	needle := strings.ToLower(subject)
	kept := grades[:0]
	for _, grade := range grades {
		if strings.Contains(strings.ToLower(grade.Subject), needle) {
			kept = append(kept, grade)
		}
	}
	return kept
}
