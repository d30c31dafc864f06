package aggregate

import (
	"context"
	"time"

	"github.com/mhlavac/edupage-mcp/internal/edupage"
)

// fakeClient implements edupage.Client for registry, resolver and
// fan-out tests. Only the methods a test configures return data; the
// rest return empty results.
type fakeClient struct {
	subdomain   string
	students    []edupage.Student
	studentsErr error
}

func (f *fakeClient) Subdomain() string { return f.subdomain }

func (f *fakeClient) Students(ctx context.Context) ([]edupage.Student, error) {
	return f.students, f.studentsErr
}

func (f *fakeClient) AllStudents(ctx context.Context) ([]edupage.Student, error) {
	return f.students, f.studentsErr
}

func (f *fakeClient) Teachers(ctx context.Context) ([]edupage.Teacher, error)     { return nil, nil }
func (f *fakeClient) Classes(ctx context.Context) ([]edupage.Class, error)        { return nil, nil }
func (f *fakeClient) Classrooms(ctx context.Context) ([]edupage.Classroom, error) { return nil, nil }
func (f *fakeClient) Subjects(ctx context.Context) ([]edupage.Subject, error)     { return nil, nil }
func (f *fakeClient) Periods(ctx context.Context) ([]edupage.Period, error)       { return nil, nil }
func (f *fakeClient) Grades(ctx context.Context) ([]edupage.Grade, error)         { return nil, nil }

func (f *fakeClient) Timetable(ctx context.Context, classID int, day time.Time) ([]edupage.Lesson, error) {
	return nil, nil
}

func (f *fakeClient) MyTimetable(ctx context.Context, day time.Time) ([]edupage.Lesson, error) {
	return nil, nil
}

func (f *fakeClient) Notifications(ctx context.Context) ([]edupage.TimelineEvent, error) {
	return nil, nil
}

func (f *fakeClient) NotificationHistory(ctx context.Context, since time.Time) ([]edupage.TimelineEvent, error) {
	return nil, nil
}

func (f *fakeClient) Meals(ctx context.Context, day time.Time) (*edupage.Meals, error) {
	return nil, nil
}

func (f *fakeClient) SendMessage(ctx context.Context, recipients []edupage.Recipient, body string) error {
	return nil
}
