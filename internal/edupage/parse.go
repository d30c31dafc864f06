package edupage

import (
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const timestampLayout = "2006-01-02 15:04:05"

// parseTimestamp reads EduPage's "YYYY-MM-DD HH:MM:SS" stamps, tolerating
// date-only values. A zero time means the field was absent or malformed.
func parseTimestamp(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	if ts, err := time.Parse(timestampLayout, value); err == nil {
		return ts
	}
	if ts, err := time.Parse(dateLayout, value); err == nil {
		return ts
	}
	return time.Time{}
}

// parseStudents reads a dbi students table. The table arrives either as an
// object keyed by person id or as an array, depending on the school's
// EduPage version.
func parseStudents(table gjson.Result) []Student {
	var students []Student
	table.ForEach(func(_, item gjson.Result) bool {
		students = append(students, Student{
			PersonID: int(item.Get("id").Int()),
			Name:     personName(item),
			ClassID:  int(item.Get("classid").Int()),
			Number:   int(item.Get("numberinclass").Int()),
		})
		return true
	})
	return students
}

func parseTeachers(table gjson.Result) []Teacher {
	var teachers []Teacher
	table.ForEach(func(_, item gjson.Result) bool {
		teachers = append(teachers, Teacher{
			PersonID:  int(item.Get("id").Int()),
			Name:      personName(item),
			Classroom: item.Get("classroomid").String(),
		})
		return true
	})
	return teachers
}

func parseClasses(table, teachers gjson.Result) []Class {
	var classes []Class
	table.ForEach(func(_, item gjson.Result) bool {
		cls := Class{
			ClassID: int(item.Get("id").Int()),
			Name:    item.Get("name").String(),
			Short:   item.Get("short").String(),
			Grade:   int(item.Get("grade").Int()),
		}
		for _, key := range []string{"teacherid", "teacher2id"} {
			id := item.Get(key).String()
			if id == "" || id == "0" {
				continue
			}
			if t := teachers.Get(id); t.Exists() {
				cls.HomeroomTeachers = append(cls.HomeroomTeachers, personName(t))
			}
		}
		classes = append(classes, cls)
		return true
	})
	return classes
}

func parseClassrooms(table gjson.Result) []Classroom {
	var rooms []Classroom
	table.ForEach(func(_, item gjson.Result) bool {
		rooms = append(rooms, Classroom{
			ClassroomID: int(item.Get("id").Int()),
			Name:        item.Get("name").String(),
			Short:       item.Get("short").String(),
		})
		return true
	})
	return rooms
}

func parseSubjects(table gjson.Result) []Subject {
	var subjects []Subject
	table.ForEach(func(_, item gjson.Result) bool {
		subjects = append(subjects, Subject{
			SubjectID: int(item.Get("id").Int()),
			Name:      item.Get("name").String(),
			Short:     item.Get("short").String(),
		})
		return true
	})
	return subjects
}

func parsePeriods(zvonenia gjson.Result) []Period {
	var periods []Period
	index := 0
	zvonenia.ForEach(func(_, item gjson.Result) bool {
		index++
		periods = append(periods, Period{
			Period: index,
			Start:  item.Get("starttime").String(),
			End:    item.Get("endtime").String(),
		})
		return true
	})
	return periods
}

// personName assembles a display name from whichever name fields the
// record carries.
func personName(item gjson.Result) string {
	first := item.Get("firstname").String()
	last := item.Get("lastname").String()
	if first != "" || last != "" {
		return strings.TrimSpace(first + " " + last)
	}
	return item.Get("name").String()
}

// parseGrades reads the znamkyStudentViewer payload: vsetkyZnamky holds
// grade entries, vsetkyUdalosti the grading events they reference.
func parseGrades(payload gjson.Result) []Grade {
	events := map[string]gjson.Result{}
	payload.Get("vsetkyUdalosti").ForEach(func(_, event gjson.Result) bool {
		events[event.Get("UdalostID").String()] = event
		return true
	})

	var grades []Grade
	payload.Get("vsetkyZnamky").ForEach(func(_, item gjson.Result) bool {
		grade := Grade{
			EventID:   item.Get("udalostid").String(),
			Grade:     item.Get("data").String(),
			Comment:   item.Get("poznamka").String(),
			Date:      parseTimestamp(item.Get("datum").String()),
			SubjectID: int(item.Get("predmetid").Int()),
		}
		if event, ok := events[grade.EventID]; ok {
			grade.Title = event.Get("p_meno").String()
			grade.Subject = event.Get("p_predmet_meno").String()
			grade.Teacher = event.Get("ucitel_meno").String()
			grade.MaxPoints = event.Get("p_vaha_body").Float()
			grade.Importance = event.Get("p_vaha").Float()
			grade.Verbal = event.Get("p_typ_udalosti").String() == "3"
			grade.Percent = item.Get("percent").Float()
			grade.ClassAvg = event.Get("priemer").Float()
		}
		grades = append(grades, grade)
		return true
	})
	return grades
}

// parseLessons reads timetable items, resolving subject/teacher/classroom
// ids against the dbi tables captured at login.
func parseLessons(items, dbi gjson.Result) []Lesson {
	var lessons []Lesson
	items.ForEach(func(_, item gjson.Result) bool {
		if item.Get("type").String() == "event" {
			lessons = append(lessons, Lesson{
				IsEvent: true,
				Start:   item.Get("starttime").String(),
				End:     item.Get("endtime").String(),
			})
			return true
		}
		lesson := Lesson{
			Period:           int(item.Get("uniperiod").Int()),
			Start:            item.Get("starttime").String(),
			End:              item.Get("endtime").String(),
			Duration:         int(item.Get("durationperiods").Int()),
			Cancelled:        item.Get("removed").Bool(),
			Curriculum:       item.Get("curriculum").String(),
			OnlineLessonLink: item.Get("ol_url").String(),
		}
		if subject := dbi.Get("subjects." + item.Get("subjectid").String()); subject.Exists() {
			lesson.SubjectShort = subject.Get("short").String()
			lesson.SubjectName = subject.Get("name").String()
		}
		item.Get("teacherids").ForEach(func(_, id gjson.Result) bool {
			if t := dbi.Get("teachers." + id.String()); t.Exists() {
				lesson.Teachers = append(lesson.Teachers, personName(t))
			}
			return true
		})
		item.Get("classroomids").ForEach(func(_, id gjson.Result) bool {
			if room := dbi.Get("classrooms." + id.String()); room.Exists() {
				short := room.Get("short").String()
				if short == "" {
					short = room.Get("name").String()
				}
				lesson.Classrooms = append(lesson.Classrooms, short)
			}
			return true
		})
		item.Get("groupnames").ForEach(func(_, group gjson.Result) bool {
			if group.String() != "" {
				lesson.Groups = append(lesson.Groups, group.String())
			}
			return true
		})
		lessons = append(lessons, lesson)
		return true
	})
	return lessons
}

// parseTimeline reads timeline items into TimelineEvent records. The
// nested "data" payload stays opaque; it varies per event type and school.
func parseTimeline(items gjson.Result) []TimelineEvent {
	var events []TimelineEvent
	items.ForEach(func(_, item gjson.Result) bool {
		event := TimelineEvent{
			ID:        item.Get("timelineid").String(),
			Type:      item.Get("typ").String(),
			Timestamp: parseTimestamp(item.Get("cas_udalosti").String()),
			Text:      item.Get("text").String(),
			Author:    item.Get("vlastnik_meno").String(),
			Done:      item.Get("splnene").String() == "1",
			Starred:   item.Get("oblubene").String() == "1",
			Removed:   item.Get("removed").String() != "" && item.Get("removed").String() != "0",
			CreatedAt: parseTimestamp(item.Get("cas_pridania").String()),
		}
		if event.Timestamp.IsZero() {
			event.Timestamp = event.CreatedAt
		}
		if data := item.Get("data"); data.Exists() {
			// The data field arrives as a JSON string on most schools and
			// as an inline object on some.
			parsed := data
			if data.Type == gjson.String {
				parsed = gjson.Parse(data.String())
			}
			if parsed.IsObject() {
				payload := map[string]any{}
				parsed.ForEach(func(key, value gjson.Result) bool {
					payload[key.String()] = value.Value()
					return true
				})
				event.Data = payload
			}
		}
		events = append(events, event)
		return true
	})
	return events
}

func parseMeals(menus gjson.Result) *Meals {
	meals := &Meals{}
	menus.Get("rows").ForEach(func(_, row gjson.Result) bool {
		meal := &Meal{
			Title:       row.Get("nazov").String(),
			Date:        row.Get("den").String(),
			ServedFrom:  row.Get("vydaj_od").String(),
			ServedTo:    row.Get("vydaj_do").String(),
			OrderedMeal: row.Get("evidencia.stav").String(),
		}
		row.Get("menus").ForEach(func(_, menu gjson.Result) bool {
			meal.Menus = append(meal.Menus, Menu{
				Name:      menu.Get("nazov").String(),
				Allergens: menu.Get("alergenyStr").String(),
				Weight:    menu.Get("hmotnostiStr").String(),
				Number:    menu.Get("menuStr").String(),
			})
			return true
		})
		switch row.Get("typ").String() {
		case "desiata":
			meals.Snack = meal
		case "obed":
			meals.Lunch = meal
		case "olovrant":
			meals.AfternoonSnack = meal
		}
		return true
	})
	if meals.Snack == nil && meals.Lunch == nil && meals.AfternoonSnack == nil {
		return nil
	}
	return meals
}
