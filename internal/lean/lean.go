// Package lean flattens backend records into the concise, stable output
// shapes the MCP tools return. Every projection is total: absent source
// fields project to empty/omitted JSON fields, never an error.
package lean

import (
	"time"

	"github.com/mhlavac/edupage-mcp/internal/edupage"
)

// Account carries provenance on merged multi-account output. Empty (and
// omitted from JSON) when exactly one account was queried.
type Account struct {
	Account string `json:"account,omitempty"`
}

// SetAccount stamps the originating account id onto a projection.
func (a *Account) SetAccount(id string) {
	a.Account = id
}

// Lesson is the flat projection of a timetable slot.
type Lesson struct {
	Account
	Period           int      `json:"period,omitempty"`
	Start            string   `json:"start,omitempty"`
	End              string   `json:"end,omitempty"`
	Duration         int      `json:"duration,omitempty"`
	Subject          string   `json:"subject,omitempty"`
	SubjectName      string   `json:"subject_name,omitempty"`
	Teachers         []string `json:"teachers"`
	Classrooms       []string `json:"classrooms"`
	Groups           []string `json:"groups"`
	Cancelled        bool     `json:"cancelled"`
	IsEvent          bool     `json:"is_event"`
	Curriculum       string   `json:"curriculum,omitempty"`
	OnlineLessonLink string   `json:"online_lesson_link,omitempty"`
}

// FromLesson projects one timetable slot.
func FromLesson(lesson edupage.Lesson) Lesson {
	return Lesson{
		Period:           lesson.Period,
		Start:            lesson.Start,
		End:              lesson.End,
		Duration:         lesson.Duration,
		Subject:          lesson.SubjectShort,
		SubjectName:      lesson.SubjectName,
		Teachers:         emptyNotNil(lesson.Teachers),
		Classrooms:       emptyNotNil(lesson.Classrooms),
		Groups:           emptyNotNil(lesson.Groups),
		Cancelled:        lesson.Cancelled,
		IsEvent:          lesson.IsEvent,
		Curriculum:       lesson.Curriculum,
		OnlineLessonLink: lesson.OnlineLessonLink,
	}
}

// Grade is the flat projection of one grade entry.
type Grade struct {
	Account
	EventID    string  `json:"event_id,omitempty"`
	Title      string  `json:"title,omitempty"`
	Grade      string  `json:"grade,omitempty"`
	Comment    string  `json:"comment,omitempty"`
	Date       string  `json:"date,omitempty"`
	Subject    string  `json:"subject,omitempty"`
	SubjectID  int     `json:"subject_id,omitempty"`
	Teacher    string  `json:"teacher,omitempty"`
	MaxPoints  float64 `json:"max_points,omitempty"`
	Importance float64 `json:"importance,omitempty"`
	Verbal     bool    `json:"verbal,omitempty"`
	Percent    float64 `json:"percent,omitempty"`
	ClassAvg   float64 `json:"class_avg,omitempty"`
}

// FromGrade projects one grade entry.
func FromGrade(grade edupage.Grade) Grade {
	return Grade{
		EventID:    grade.EventID,
		Title:      grade.Title,
		Grade:      grade.Grade,
		Comment:    grade.Comment,
		Date:       formatDate(grade.Date),
		Subject:    grade.Subject,
		SubjectID:  grade.SubjectID,
		Teacher:    grade.Teacher,
		MaxPoints:  grade.MaxPoints,
		Importance: grade.Importance,
		Verbal:     grade.Verbal,
		Percent:    grade.Percent,
		ClassAvg:   grade.ClassAvg,
	}
}

// Student is the flat projection of a student record.
type Student struct {
	Account
	PersonID int    `json:"person_id,omitempty"`
	Name     string `json:"name,omitempty"`
	ClassID  int    `json:"class_id,omitempty"`
	Number   int    `json:"number,omitempty"`
}

// FromStudent projects one student record.
func FromStudent(student edupage.Student) Student {
	return Student{
		PersonID: student.PersonID,
		Name:     student.Name,
		ClassID:  student.ClassID,
		Number:   student.Number,
	}
}

// Teacher is the flat projection of a teacher record.
type Teacher struct {
	Account
	PersonID  int    `json:"person_id,omitempty"`
	Name      string `json:"name,omitempty"`
	Classroom string `json:"classroom,omitempty"`
}

// FromTeacher projects one teacher record.
func FromTeacher(teacher edupage.Teacher) Teacher {
	return Teacher{
		PersonID:  teacher.PersonID,
		Name:      teacher.Name,
		Classroom: teacher.Classroom,
	}
}

// Class is the flat projection of a class record.
type Class struct {
	Account
	ClassID          int      `json:"class_id,omitempty"`
	Name             string   `json:"name,omitempty"`
	Short            string   `json:"short,omitempty"`
	Grade            int      `json:"grade,omitempty"`
	HomeroomTeachers []string `json:"homeroom_teachers"`
}

// FromClass projects one class record.
func FromClass(class edupage.Class) Class {
	return Class{
		ClassID:          class.ClassID,
		Name:             class.Name,
		Short:            class.Short,
		Grade:            class.Grade,
		HomeroomTeachers: emptyNotNil(class.HomeroomTeachers),
	}
}

// Classroom is the flat projection of a classroom record.
type Classroom struct {
	Account
	ClassroomID int    `json:"classroom_id,omitempty"`
	Name        string `json:"name,omitempty"`
	Short       string `json:"short,omitempty"`
}

// FromClassroom projects one classroom record.
func FromClassroom(room edupage.Classroom) Classroom {
	return Classroom{ClassroomID: room.ClassroomID, Name: room.Name, Short: room.Short}
}

// Subject is the flat projection of a subject record.
type Subject struct {
	Account
	SubjectID int    `json:"subject_id,omitempty"`
	Name      string `json:"name,omitempty"`
	Short     string `json:"short,omitempty"`
}

// FromSubject projects one subject record.
func FromSubject(subject edupage.Subject) Subject {
	return Subject{SubjectID: subject.SubjectID, Name: subject.Name, Short: subject.Short}
}

// Period is the flat projection of a bell schedule slot.
type Period struct {
	Account
	Period int    `json:"period"`
	Start  string `json:"start,omitempty"`
	End    string `json:"end,omitempty"`
}

// FromPeriod projects one bell schedule slot.
func FromPeriod(period edupage.Period) Period {
	return Period{Period: period.Period, Start: period.Start, End: period.End}
}

func formatDate(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return ts.Format("2006-01-02")
}

func formatTimestamp(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return ts.Format(time.RFC3339)
}

// emptyNotNil keeps list fields as [] rather than null in JSON output.
func emptyNotNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
