package domain

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mhlavac/edupage-mcp/internal/aggregate"
	"github.com/mhlavac/edupage-mcp/internal/edupage"
	"github.com/mhlavac/edupage-mcp/internal/lean"
	"github.com/mhlavac/edupage-mcp/internal/timeline"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const examTypes = "bexam,sexam,oexam,rexam,pexam,testing"

// SummaryInput targets the student summary.
type SummaryInput struct {
	StudentName string `json:"student_name,omitempty" jsonschema:"student name; pins the account owning the student"`
	SinceDays   int    `json:"since_days,omitempty" jsonschema:"how many days back to include (default 14)"`
	Account     string `json:"account,omitempty" jsonschema:"account id; required when several accounts are logged in and no student name is given"`
}

// SummaryResult composes one student's recent activity in a single
// response: grades, homework, exams, absences and messages.
type SummaryResult struct {
	Account  string          `json:"account,omitempty"`
	Student  *lean.Student   `json:"student,omitempty"`
	Class    *lean.Class     `json:"class,omitempty"`
	Period   string          `json:"period"`
	Grades   []lean.Grade    `json:"grades"`
	Homework []lean.Homework `json:"homework"`
	Exams    []lean.Event    `json:"exams"`
	Absences []lean.Absence  `json:"absences"`
	Messages []lean.Event    `json:"messages"`
}

// SummaryTool defines the tool schema for the student summary.
func SummaryTool() *mcp.Tool {
	return &mcp.Tool{
		Name: "get_student_summary",
		Description: "Gets a comprehensive summary for a student: grades, homework, exams, " +
			"absences and messages in one call.",
	}
}

// SummaryHandler composes the summary from one account: the account
// owning the named student, or the sole/explicitly chosen account. The
// notification history is fetched once and partitioned by type.
func SummaryHandler(registry *aggregate.Registry, resolver *aggregate.Resolver) mcp.ToolHandlerFor[SummaryInput, SummaryResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SummaryInput) (*mcp.CallToolResult, SummaryResult, error) {
		runCtx, cancel := callCtx(ctx)
		defer cancel()

		sinceDays := input.SinceDays
		if sinceDays <= 0 {
			sinceDays = 14
		}
		since := time.Now().AddDate(0, 0, -sinceDays)

		out := SummaryResult{
			Period: fmt.Sprintf("last %d days (since %s)", sinceDays, since.Format(dateLayout)),
		}

		var session *aggregate.Session
		if input.StudentName != "" {
			match, err := resolver.Resolve(runCtx, input.StudentName, input.Account)
			if err != nil {
				return nil, SummaryResult{}, toolError("get_student_summary", err)
			}
			session = match.Session
			student := lean.FromStudent(match.Person)
			out.Student = &student
			if class, err := classForStudent(runCtx, session.Client, match.Person); err == nil {
				leanClass := lean.FromClass(*class)
				out.Class = &leanClass
			}
		} else {
			var err error
			session, err = registry.ResolveDefault(input.Account)
			if err != nil {
				return nil, SummaryResult{}, toolError("get_student_summary", err)
			}
		}
		out.Account = session.ID

		events, err := session.Client.NotificationHistory(runCtx, since)
		if err != nil {
			return nil, SummaryResult{}, toolError("get_student_summary", err)
		}

		partition := func(types string, limit int) []edupage.TimelineEvent {
			filtered, err := timeline.Filter(events, timeline.Criteria{Types: types, Limit: limit})
			if err != nil {
				return nil
			}
			return filtered
		}
		out.Homework = projectEvents(partition(homeworkTypes, 100), lean.FromHomework)
		out.Exams = projectEvents(partition(examTypes, 100), lean.FromEvent)
		out.Absences = projectEvents(partition(absenceTypes, 100), lean.FromAbsence)
		out.Messages = projectEvents(partition("sprava", 50), lean.FromEvent)

		// Grades come from their own endpoint for the richer record; a
		// failure there degrades the summary instead of failing it.
		grades, err := session.Client.Grades(runCtx)
		if err != nil {
			log.Printf("get_student_summary: account %s: grades unavailable: %v", session.ID, err)
		}
		out.Grades = make([]lean.Grade, 0, len(grades))
		for _, grade := range grades {
			if !grade.Date.IsZero() && grade.Date.Before(since) {
				continue
			}
			out.Grades = append(out.Grades, lean.FromGrade(grade))
		}

		return nil, out, nil
	}
}

func projectEvents[L any](events []edupage.TimelineEvent, project func(edupage.TimelineEvent) L) []L {
	out := make([]L, 0, len(events))
	for _, event := range events {
		out = append(out, project(event))
	}
	return out
}
