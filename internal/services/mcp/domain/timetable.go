package domain

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mhlavac/edupage-mcp/internal/aggregate"
	"github.com/mhlavac/edupage-mcp/internal/edupage"
	"github.com/mhlavac/edupage-mcp/internal/lean"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// TimetableInput selects whose timetable to fetch and for which day.
type TimetableInput struct {
	Date        string `json:"date,omitempty" jsonschema:"day in YYYY-MM-DD format; omit for today"`
	ClassName   string `json:"class_name,omitempty" jsonschema:"class name, e.g. '4.A'; omit to use the logged-in user's own timetable"`
	StudentName string `json:"student_name,omitempty" jsonschema:"student name; resolves the student's class automatically"`
	Account     string `json:"account,omitempty" jsonschema:"account id; omit to query every logged-in account"`
}

// TimetableResult lists the day's lessons.
type TimetableResult struct {
	Lessons         []lean.Lesson `json:"lessons"`
	DroppedAccounts []string      `json:"dropped_accounts,omitempty"`
}

// TimetableTool defines the tool schema for the daily timetable.
func TimetableTool() *mcp.Tool {
	return &mcp.Tool{
		Name: "get_timetable",
		Description: "Gets the timetable for a date (defaults to today). Accepts a class name " +
			"or a student name; with neither, returns the logged-in user's own timetable.",
	}
}

// TimetableHandler fetches one day of lessons. A student name pins the
// account owning the student and resolves their class; a class name is
// matched per account; with neither the account's own timetable is tried
// first, then the class of the account's first resolvable student.
func TimetableHandler(registry *aggregate.Registry, resolver *aggregate.Resolver) mcp.ToolHandlerFor[TimetableInput, TimetableResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input TimetableInput) (*mcp.CallToolResult, TimetableResult, error) {
		runCtx, cancel := callCtx(ctx)
		defer cancel()

		day, err := parseDate(input.Date)
		if err != nil {
			return nil, TimetableResult{}, toolError("get_timetable", err)
		}

		if input.StudentName != "" {
			match, err := resolver.Resolve(runCtx, input.StudentName, input.Account)
			if err != nil {
				return nil, TimetableResult{}, toolError("get_timetable", err)
			}
			class, err := classForStudent(runCtx, match.Session.Client, match.Person)
			if err != nil {
				return nil, TimetableResult{}, toolError("get_timetable", err)
			}
			lessons, err := match.Session.Client.Timetable(runCtx, class.ClassID, day)
			if err != nil {
				return nil, TimetableResult{}, toolError("get_timetable", err)
			}
			return nil, TimetableResult{Lessons: projectLessons(lessons, "")}, nil
		}

		result, err := aggregate.FanOut(runCtx, registry, input.Account,
			func(ctx context.Context, session *aggregate.Session) ([]edupage.Lesson, error) {
				return sessionLessons(ctx, session.Client, input.ClassName, day)
			})
		if err != nil {
			return nil, TimetableResult{}, toolError("get_timetable", err)
		}
		return nil, TimetableResult{
			Lessons:         projectItems[edupage.Lesson, lean.Lesson](result.Items, lean.FromLesson),
			DroppedAccounts: droppedAccounts("get_timetable", result.Dropped),
		}, nil
	}
}

// WeekTimetableInput selects whose timetable to fetch for next week.
type WeekTimetableInput struct {
	ClassName   string `json:"class_name,omitempty" jsonschema:"class name, e.g. '4.A'; omit to use the logged-in user's own timetable"`
	StudentName string `json:"student_name,omitempty" jsonschema:"student name; resolves the student's class automatically"`
	Account     string `json:"account,omitempty" jsonschema:"account id; required when several accounts are logged in and no student name is given"`
}

// DayLessons is one day of the weekly view. Error is set instead of
// Lessons when that day's fetch failed; the remaining days still load.
type DayLessons struct {
	Lessons []lean.Lesson `json:"lessons,omitempty"`
	Error   string        `json:"error,omitempty"`
}

// WeekTimetableResult maps ISO dates of next week's Monday through
// Friday to that day's lessons.
type WeekTimetableResult struct {
	Account string                `json:"account,omitempty"`
	Days    map[string]DayLessons `json:"days"`
}

// WeekTimetableTool defines the tool schema for the next-week timetable.
func WeekTimetableTool() *mcp.Tool {
	return &mcp.Tool{
		Name: "get_next_week_timetable",
		Description: "Gets the timetable for each day of the upcoming week (Mon-Fri), " +
			"keyed by date. Accepts a class name or a student name.",
	}
}

// WeekTimetableHandler fetches Monday through Friday of the upcoming
// week against a single account. Days that fail to load carry an error
// entry instead of failing the whole week.
func WeekTimetableHandler(registry *aggregate.Registry, resolver *aggregate.Resolver) mcp.ToolHandlerFor[WeekTimetableInput, WeekTimetableResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input WeekTimetableInput) (*mcp.CallToolResult, WeekTimetableResult, error) {
		runCtx, cancel := callCtx(ctx)
		defer cancel()

		var (
			session *aggregate.Session
			class   *edupage.Class
		)
		if input.StudentName != "" {
			match, err := resolver.Resolve(runCtx, input.StudentName, input.Account)
			if err != nil {
				return nil, WeekTimetableResult{}, toolError("get_next_week_timetable", err)
			}
			session = match.Session
			class, err = classForStudent(runCtx, session.Client, match.Person)
			if err != nil {
				return nil, WeekTimetableResult{}, toolError("get_next_week_timetable", err)
			}
		} else {
			var err error
			session, err = registry.ResolveDefault(input.Account)
			if err != nil {
				return nil, WeekTimetableResult{}, toolError("get_next_week_timetable", err)
			}
			if input.ClassName != "" {
				class, err = classByName(runCtx, session.Client, input.ClassName)
				if err != nil {
					return nil, WeekTimetableResult{}, toolError("get_next_week_timetable", err)
				}
			}
		}

		days := make(map[string]DayLessons, 5)
		for _, day := range nextWeekdays(time.Now()) {
			var (
				lessons []edupage.Lesson
				err     error
			)
			if class != nil {
				lessons, err = session.Client.Timetable(runCtx, class.ClassID, day)
			} else {
				lessons, err = session.Client.MyTimetable(runCtx, day)
			}
			key := day.Format(dateLayout)
			if err != nil {
				days[key] = DayLessons{Error: err.Error()}
				continue
			}
			days[key] = DayLessons{Lessons: projectLessons(lessons, "")}
		}
		return nil, WeekTimetableResult{Account: session.ID, Days: days}, nil
	}
}

// sessionLessons fetches one account's lessons for a day: by class name
// when given, otherwise the account's own timetable, falling back to the
// class of the account's first resolvable student.
func sessionLessons(ctx context.Context, client edupage.Client, className string, day time.Time) ([]edupage.Lesson, error) {
	if className != "" {
		class, err := classByName(ctx, client, className)
		if err != nil {
			return nil, err
		}
		return client.Timetable(ctx, class.ClassID, day)
	}

	lessons, err := client.MyTimetable(ctx, day)
	if err == nil {
		return lessons, nil
	}

	// Parent accounts have no own timetable. Walk the visible students
	// and use the first class that yields one.
	students, serr := client.Students(ctx)
	if serr != nil || len(students) == 0 {
		return nil, err
	}
	classes, cerr := client.Classes(ctx)
	if cerr != nil {
		return nil, err
	}
	byID := classIndex(classes)
	for _, student := range students {
		class, ok := byID[student.ClassID]
		if !ok {
			continue
		}
		if lessons, lerr := client.Timetable(ctx, class.ClassID, day); lerr == nil {
			return lessons, nil
		}
	}
	return nil, fmt.Errorf("could not fetch timetable; try specifying student_name or class_name: %w", err)
}

// classForStudent looks up the class record a student belongs to.
func classForStudent(ctx context.Context, client edupage.Client, student edupage.Student) (*edupage.Class, error) {
	if student.ClassID == 0 {
		return nil, fmt.Errorf("student %q has no class", student.Name)
	}
	classes, err := client.Classes(ctx)
	if err != nil {
		return nil, err
	}
	byID := classIndex(classes)
	if class, ok := byID[student.ClassID]; ok {
		return class, nil
	}
	return nil, fmt.Errorf("class %d not found for student %q", student.ClassID, student.Name)
}

// classByName matches a class by name, case-insensitively.
func classByName(ctx context.Context, client edupage.Client, name string) (*edupage.Class, error) {
	classes, err := client.Classes(ctx)
	if err != nil {
		return nil, err
	}
	for i := range classes {
		if strings.EqualFold(classes[i].Name, name) {
			return &classes[i], nil
		}
	}
	available := make([]string, 0, len(classes))
	for _, class := range classes {
		available = append(available, class.Name)
	}
	sort.Strings(available)
	return nil, fmt.Errorf("class %q not found; available classes: %s", name, strings.Join(available, ", "))
}

// classIndex maps class ids to class records. Timetable substitution
// pages report negated class ids, so both signs index the same class.
func classIndex(classes []edupage.Class) map[int]*edupage.Class {
	byID := make(map[int]*edupage.Class, len(classes))
	for i := range classes {
		byID[classes[i].ClassID] = &classes[i]
		if classes[i].ClassID < 0 {
			byID[-classes[i].ClassID] = &classes[i]
		}
	}
	return byID
}

// nextWeekdays returns Monday through Friday of the week after today.
func nextWeekdays(now time.Time) []time.Time {
	daysUntilMonday := (8 - int(now.Weekday())) % 7
	if daysUntilMonday == 0 {
		daysUntilMonday = 7
	}
	monday := now.AddDate(0, 0, daysUntilMonday)
	days := make([]time.Time, 5)
	for i := range days {
		days[i] = monday.AddDate(0, 0, i)
	}
	return days
}

// projectLessons lifts lessons into lean records with a fixed account
// tag (empty for single-account responses).
func projectLessons(lessons []edupage.Lesson, account string) []lean.Lesson {
	out := make([]lean.Lesson, 0, len(lessons))
	for _, lesson := range lessons {
		record := lean.FromLesson(lesson)
		if account != "" {
			record.SetAccount(account)
		}
		out = append(out, record)
	}
	return out
}
