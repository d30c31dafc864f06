package edupage

import "time"

// TimelineEvent is one notification/timeline item as delivered by EduPage.
// Event IDs are unique within one account only; two events with the same ID
// from different accounts are unrelated.
type TimelineEvent struct {
	ID        string
	Type      string
	Timestamp time.Time
	Text      string
	Author    string
	Done      bool
	Starred   bool
	Removed   bool
	CreatedAt time.Time
	// Data carries the event's additional payload verbatim. Keys and value
	// shapes vary per event type and per school; consumers must treat it as
	// opaque and probe defensively.
	Data map[string]any
}

// Student is one student record visible to the logged-in account.
// Parent accounts see their children; student accounts see classmates.
type Student struct {
	PersonID int
	Name     string
	ClassID  int
	Number   int
}

// Teacher is one teacher record.
type Teacher struct {
	PersonID  int
	Name      string
	Classroom string
}

// Class is one class (e.g. "4.A").
type Class struct {
	ClassID          int
	Name             string
	Short            string
	Grade            int
	HomeroomTeachers []string
}

// Classroom is one physical classroom.
type Classroom struct {
	ClassroomID int
	Name        string
	Short       string
}

// Subject is one taught subject.
type Subject struct {
	SubjectID int
	Name      string
	Short     string
}

// Grade is one grade/mark entry.
type Grade struct {
	EventID    string
	Title      string
	Grade      string
	Comment    string
	Date       time.Time
	Subject    string
	SubjectID  int
	Teacher    string
	MaxPoints  float64
	Importance float64
	Verbal     bool
	Percent    float64
	ClassAvg   float64
}

// Lesson is one timetable slot.
type Lesson struct {
	Period           int
	Start            string
	End              string
	Duration         int
	SubjectShort     string
	SubjectName      string
	Teachers         []string
	Classrooms       []string
	Groups           []string
	Cancelled        bool
	IsEvent          bool
	Curriculum       string
	OnlineLessonLink string
}

// Meal is one meal slot (snack, lunch, afternoon snack) for a day.
type Meal struct {
	Title       string
	Date        string
	ServedFrom  string
	ServedTo    string
	OrderedMeal string
	Menus       []Menu
}

// Menu is one menu option within a meal slot.
type Menu struct {
	Name      string
	Allergens string
	Weight    string
	Number    string
}

// Meals groups the day's meal slots. Nil slots mean no data published.
type Meals struct {
	Snack          *Meal
	Lunch          *Meal
	AfternoonSnack *Meal
}

// Period is one slot of the school bell schedule.
type Period struct {
	Period int
	Start  string
	End    string
}

// Recipient addresses one person for message sending.
type Recipient struct {
	PersonID int
	Name     string
}
