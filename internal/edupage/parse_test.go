package edupage

import (
	"testing"
	"time"

	"github.com/tidwall/gjson"
)

func TestParseTimestamp(t *testing.T) {
	full := parseTimestamp("2026-03-04 08:30:00")
	if full != time.Date(2026, 3, 4, 8, 30, 0, 0, time.UTC) {
		t.Fatalf("unexpected timestamp %v", full)
	}
	dateOnly := parseTimestamp("2026-03-04")
	if dateOnly != time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC) {
		t.Fatalf("unexpected date-only timestamp %v", dateOnly)
	}
	if !parseTimestamp("").IsZero() {
		t.Fatal("expected zero time for empty value")
	}
	if !parseTimestamp("garbage").IsZero() {
		t.Fatal("expected zero time for malformed value")
	}
}

func TestParseStudentsObjectAndArrayShapes(t *testing.T) {
	object := gjson.Parse(`{
		"101": {"id": "101", "firstname": "Jan", "lastname": "Novak", "classid": "-12", "numberinclass": "3"},
		"102": {"id": "102", "name": "Eva Kovacova", "classid": "12"}
	}`)
	students := parseStudents(object)
	if len(students) != 2 {
		t.Fatalf("expected 2 students, got %d", len(students))
	}
	byID := map[int]Student{}
	for _, s := range students {
		byID[s.PersonID] = s
	}
	jan := byID[101]
	if jan.Name != "Jan Novak" || jan.ClassID != -12 || jan.Number != 3 {
		t.Fatalf("unexpected student: %+v", jan)
	}
	if byID[102].Name != "Eva Kovacova" {
		t.Fatalf("expected name fallback, got %+v", byID[102])
	}

	array := gjson.Parse(`[{"id": "7", "firstname": "Peter", "lastname": "Hruska"}]`)
	students = parseStudents(array)
	if len(students) != 1 || students[0].Name != "Peter Hruska" {
		t.Fatalf("unexpected array-shape parse: %+v", students)
	}
}

func TestParseClassesResolvesHomeroomTeachers(t *testing.T) {
	teachers := gjson.Parse(`{
		"5": {"id": "5", "firstname": "Maria", "lastname": "Siva"},
		"6": {"id": "6", "firstname": "Jozef", "lastname": "Kral"}
	}`)
	table := gjson.Parse(`{
		"12": {"id": "12", "name": "4.A", "short": "IV.A", "grade": "4", "teacherid": "5", "teacher2id": "6"},
		"13": {"id": "13", "name": "4.B", "short": "IV.B", "grade": "4", "teacherid": "0"}
	}`)

	classes := parseClasses(table, teachers)
	if len(classes) != 2 {
		t.Fatalf("expected 2 classes, got %d", len(classes))
	}
	byID := map[int]Class{}
	for _, c := range classes {
		byID[c.ClassID] = c
	}
	a := byID[12]
	if len(a.HomeroomTeachers) != 2 || a.HomeroomTeachers[0] != "Maria Siva" || a.HomeroomTeachers[1] != "Jozef Kral" {
		t.Fatalf("unexpected homeroom teachers: %v", a.HomeroomTeachers)
	}
	if len(byID[13].HomeroomTeachers) != 0 {
		t.Fatalf("expected no homeroom teachers for 4.B, got %v", byID[13].HomeroomTeachers)
	}
}

func TestParsePeriodsNumbersSequentially(t *testing.T) {
	zvonenia := gjson.Parse(`[
		{"starttime": "08:00", "endtime": "08:45"},
		{"starttime": "08:55", "endtime": "09:40"}
	]`)
	periods := parsePeriods(zvonenia)
	if len(periods) != 2 {
		t.Fatalf("expected 2 periods, got %d", len(periods))
	}
	if periods[0].Period != 1 || periods[1].Period != 2 {
		t.Fatalf("expected sequential numbering, got %+v", periods)
	}
	if periods[1].Start != "08:55" || periods[1].End != "09:40" {
		t.Fatalf("unexpected period times: %+v", periods[1])
	}
}

func TestParseGradesJoinsEvents(t *testing.T) {
	payload := gjson.Parse(`{
		"vsetkyZnamky": [
			{"udalostid": "900", "data": "1", "poznamka": "", "datum": "2026-03-02 10:00:00", "predmetid": "4", "percent": "92.5"},
			{"udalostid": "901", "data": "2", "datum": "2026-03-03"}
		],
		"vsetkyUdalosti": [
			{"UdalostID": "900", "p_meno": "Pisomka", "p_predmet_meno": "Matematika", "ucitel_meno": "Maria Siva", "p_vaha_body": "20", "p_vaha": "1", "p_typ_udalosti": "1", "priemer": "1.8"}
		]
	}`)

	grades := parseGrades(payload)
	if len(grades) != 2 {
		t.Fatalf("expected 2 grades, got %d", len(grades))
	}
	first := grades[0]
	if first.Title != "Pisomka" || first.Subject != "Matematika" || first.Teacher != "Maria Siva" {
		t.Fatalf("unexpected joined grade: %+v", first)
	}
	if first.MaxPoints != 20 || first.Percent != 92.5 || first.ClassAvg != 1.8 {
		t.Fatalf("unexpected numeric fields: %+v", first)
	}
	// Grade without a grading event keeps its own fields only.
	if grades[1].Title != "" || grades[1].Grade != "2" {
		t.Fatalf("unexpected orphan grade: %+v", grades[1])
	}
}

func TestParseLessonsResolvesDBI(t *testing.T) {
	dbi := gjson.Parse(`{
		"subjects": {"4": {"short": "MAT", "name": "Matematika"}},
		"teachers": {"5": {"firstname": "Maria", "lastname": "Siva"}},
		"classrooms": {"2": {"short": "U12"}}
	}`)
	items := gjson.Parse(`[
		{"uniperiod": "1", "starttime": "08:00", "endtime": "08:45", "durationperiods": 1,
		 "subjectid": "4", "teacherids": ["5"], "classroomids": ["2"], "groupnames": ["", "G1"]},
		{"type": "event", "starttime": "10:00", "endtime": "11:00"}
	]`)

	lessons := parseLessons(items, dbi)
	if len(lessons) != 2 {
		t.Fatalf("expected 2 lessons, got %d", len(lessons))
	}
	lesson := lessons[0]
	if lesson.SubjectShort != "MAT" || lesson.SubjectName != "Matematika" {
		t.Fatalf("unexpected subject: %+v", lesson)
	}
	if len(lesson.Teachers) != 1 || lesson.Teachers[0] != "Maria Siva" {
		t.Fatalf("unexpected teachers: %v", lesson.Teachers)
	}
	if len(lesson.Classrooms) != 1 || lesson.Classrooms[0] != "U12" {
		t.Fatalf("unexpected classrooms: %v", lesson.Classrooms)
	}
	if len(lesson.Groups) != 1 || lesson.Groups[0] != "G1" {
		t.Fatalf("expected empty group names dropped, got %v", lesson.Groups)
	}
	if !lessons[1].IsEvent {
		t.Fatal("expected second item to be an event")
	}
}

func TestParseTimeline(t *testing.T) {
	items := gjson.Parse(`[
		{"timelineid": "1", "typ": "homework", "cas_udalosti": "2026-03-04 08:00:00",
		 "text": "DU str. 12", "vlastnik_meno": "Maria Siva", "splnene": "0", "oblubene": "1",
		 "removed": "0", "data": "{\"nazov\": \"Zlomky\", \"dateto\": \"2026-03-10\"}"},
		{"timelineid": "2", "typ": "sprava", "cas_pridania": "2026-03-01 09:00:00",
		 "removed": "1", "data": {"title": "inline"}}
	]`)

	events := parseTimeline(items)
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}

	hw := events[0]
	if hw.ID != "1" || hw.Type != "homework" || hw.Done || !hw.Starred || hw.Removed {
		t.Fatalf("unexpected event: %+v", hw)
	}
	if hw.Data["nazov"] != "Zlomky" || hw.Data["dateto"] != "2026-03-10" {
		t.Fatalf("expected string payload decoded, got %v", hw.Data)
	}

	msg := events[1]
	if !msg.Removed {
		t.Fatal("expected removed flag")
	}
	if msg.Timestamp != msg.CreatedAt || msg.Timestamp.IsZero() {
		t.Fatalf("expected timestamp fallback to creation time, got %v", msg.Timestamp)
	}
	if msg.Data["title"] != "inline" {
		t.Fatalf("expected inline payload decoded, got %v", msg.Data)
	}
}

func TestParseMeals(t *testing.T) {
	menus := gjson.Parse(`{
		"rows": [
			{"typ": "obed", "nazov": "Obed", "den": "2026-03-04", "vydaj_od": "11:30", "vydaj_do": "13:30",
			 "evidencia": {"stav": "A"},
			 "menus": [{"nazov": "Kuracie rizoto", "alergenyStr": "1,3", "hmotnostiStr": "350g", "menuStr": "A"}]}
		]
	}`)

	meals := parseMeals(menus)
	if meals == nil || meals.Lunch == nil {
		t.Fatal("expected lunch slot")
	}
	if meals.Snack != nil || meals.AfternoonSnack != nil {
		t.Fatal("expected only lunch to be set")
	}
	if meals.Lunch.OrderedMeal != "A" || len(meals.Lunch.Menus) != 1 {
		t.Fatalf("unexpected lunch: %+v", meals.Lunch)
	}
	if meals.Lunch.Menus[0].Name != "Kuracie rizoto" {
		t.Fatalf("unexpected menu: %+v", meals.Lunch.Menus[0])
	}

	if parseMeals(gjson.Parse(`{"rows": []}`)) != nil {
		t.Fatal("expected nil for empty rows")
	}
}
