package service

import (
	"github.com/mhlavac/edupage-mcp/internal/aggregate"
	"github.com/mhlavac/edupage-mcp/internal/edupage"
	"github.com/mhlavac/edupage-mcp/internal/services/mcp/domain"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// registrationModule groups related tool registrations so a wiring
// failure names the module it came from.
type registrationModule struct {
	name     string
	register func(*mcp.Server) error
}

const (
	authToolsModuleName      = "auth-tools"
	timetableToolsModuleName = "timetable-tools"
	peopleToolsModuleName    = "people-tools"
	schoolToolsModuleName    = "school-tools"
	timelineToolsModuleName  = "timeline-tools"
	homeworkToolsModuleName  = "homework-tools"
	eventToolsModuleName     = "event-tools"
	summaryToolsModuleName   = "summary-tools"
	mealToolsModuleName      = "meal-tools"
	messageToolsModuleName   = "message-tools"
)

func registrationModules(
	registry *aggregate.Registry,
	resolver *aggregate.Resolver,
	defaults edupage.Credentials,
	login domain.LoginFunc,
	autoLogin domain.AutoLoginFunc,
) []registrationModule {
	return []registrationModule{
		{name: authToolsModuleName, register: func(server *mcp.Server) error {
			mcp.AddTool(server, domain.LoginTool(), domain.LoginHandler(registry, login, defaults))
			mcp.AddTool(server, domain.LoginAutoTool(), domain.LoginAutoHandler(registry, autoLogin, defaults))
			mcp.AddTool(server, domain.ListAccountsTool(), domain.ListAccountsHandler(registry))
			return nil
		}},
		{name: timetableToolsModuleName, register: func(server *mcp.Server) error {
			mcp.AddTool(server, domain.TimetableTool(), domain.TimetableHandler(registry, resolver))
			mcp.AddTool(server, domain.WeekTimetableTool(), domain.WeekTimetableHandler(registry, resolver))
			return nil
		}},
		{name: peopleToolsModuleName, register: func(server *mcp.Server) error {
			mcp.AddTool(server, domain.MyChildrenTool(), domain.StudentsHandler("get_my_children", registry))
			mcp.AddTool(server, domain.StudentsTool(), domain.StudentsHandler("get_students", registry))
			mcp.AddTool(server, domain.AllStudentsTool(), domain.AllStudentsHandler(registry))
			mcp.AddTool(server, domain.TeachersTool(), domain.TeachersHandler(registry))
			return nil
		}},
		{name: schoolToolsModuleName, register: func(server *mcp.Server) error {
			mcp.AddTool(server, domain.ClassesTool(), domain.ClassesHandler(registry))
			mcp.AddTool(server, domain.ClassroomsTool(), domain.ClassroomsHandler(registry))
			mcp.AddTool(server, domain.SubjectsTool(), domain.SubjectsHandler(registry))
			mcp.AddTool(server, domain.PeriodsTool(), domain.PeriodsHandler(registry))
			mcp.AddTool(server, domain.GradesTool(), domain.GradesHandler(registry))
			return nil
		}},
		{name: timelineToolsModuleName, register: func(server *mcp.Server) error {
			mcp.AddTool(server, domain.TimelineTool(), domain.TimelineHandler(registry))
			mcp.AddTool(server, domain.NotificationsTool(), domain.NotificationsHandler(registry))
			mcp.AddTool(server, domain.NotificationHistoryTool(), domain.NotificationHistoryHandler(registry))
			return nil
		}},
		{name: homeworkToolsModuleName, register: func(server *mcp.Server) error {
			mcp.AddTool(server, domain.HomeworkTool(), domain.HomeworkHandler(registry))
			mcp.AddTool(server, domain.AssignmentsTool(), domain.AssignmentsHandler(registry))
			return nil
		}},
		{name: eventToolsModuleName, register: func(server *mcp.Server) error {
			mcp.AddTool(server, domain.AbsencesTool(), domain.AbsencesHandler(registry, resolver))
			mcp.AddTool(server, domain.UpcomingEventsTool(), domain.UpcomingEventsHandler(registry))
			return nil
		}},
		{name: summaryToolsModuleName, register: func(server *mcp.Server) error {
			mcp.AddTool(server, domain.SummaryTool(), domain.SummaryHandler(registry, resolver))
			return nil
		}},
		{name: mealToolsModuleName, register: func(server *mcp.Server) error {
			mcp.AddTool(server, domain.MealsTool(), domain.MealsHandler(registry))
			return nil
		}},
		{name: messageToolsModuleName, register: func(server *mcp.Server) error {
			mcp.AddTool(server, domain.SendMessageTool(), domain.SendMessageHandler(registry))
			return nil
		}},
	}
}
