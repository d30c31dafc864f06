package lean

import (
	"testing"
	"time"

	"github.com/mhlavac/edupage-mcp/internal/edupage"
)

func TestFromHomeworkKeyFallbacks(t *testing.T) {
	tests := []struct {
		name  string
		data  map[string]any
		text  string
		title string
		subj  string
		due   string
	}{
		{
			name: "slovak keys",
			data: map[string]any{
				"nazov":        "Zlomky",
				"predmetNazov": "Matematika",
				"dateto":       "2026-03-10",
			},
			title: "Zlomky",
			subj:  "Matematika",
			due:   "2026-03-10",
		},
		{
			name: "english aliases",
			data: map[string]any{
				"title":        "Fractions",
				"subject_name": "Math",
				"date_to":      "2026-03-10",
			},
			title: "Fractions",
			subj:  "Math",
			due:   "2026-03-10",
		},
		{
			name: "alias precedence",
			data: map[string]any{
				"nazov": "Zlomky",
				"title": "Fractions",
				"date":  "2026-03-09",
			},
			title: "Zlomky",
			due:   "2026-03-09",
		},
		{
			name:  "title falls back to event text",
			data:  map[string]any{},
			text:  "Precitat kapitolu 4",
			title: "Precitat kapitolu 4",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hw := FromHomework(edupage.TimelineEvent{Type: "homework", Text: tt.text, Data: tt.data})
			if hw.Title != tt.title {
				t.Fatalf("title: expected %q, got %q", tt.title, hw.Title)
			}
			if hw.Subject != tt.subj {
				t.Fatalf("subject: expected %q, got %q", tt.subj, hw.Subject)
			}
			if hw.DueDate != tt.due {
				t.Fatalf("due date: expected %q, got %q", tt.due, hw.DueDate)
			}
		})
	}
}

func TestFromAssignmentCoercesScalars(t *testing.T) {
	assignment := FromAssignment(edupage.TimelineEvent{
		Type: "bexam",
		Data: map[string]any{
			"maxPoints": float64(20),
			"popis":     "Pisomka z algebry",
		},
	})
	if assignment.MaxPoints != "20" {
		t.Fatalf("expected max points 20, got %q", assignment.MaxPoints)
	}
	if assignment.Description != "Pisomka z algebry" {
		t.Fatalf("unexpected description %q", assignment.Description)
	}
}

func TestFromAbsenceClassification(t *testing.T) {
	excused := FromAbsence(edupage.TimelineEvent{Type: "ospravedlnenka"})
	if excused.Type != "excused" {
		t.Fatalf("expected excused, got %q", excused.Type)
	}
	absent := FromAbsence(edupage.TimelineEvent{Type: "student_absent"})
	if absent.Type != "absent" {
		t.Fatalf("expected absent, got %q", absent.Type)
	}
}

func TestFromEventFormatsTimestamps(t *testing.T) {
	when := time.Date(2026, 3, 4, 8, 30, 0, 0, time.UTC)
	event := FromEvent(edupage.TimelineEvent{ID: "42", Timestamp: when})
	if event.Timestamp != "2026-03-04T08:30:00Z" {
		t.Fatalf("unexpected timestamp %q", event.Timestamp)
	}
	if event.CreatedAt != "" {
		t.Fatalf("expected empty created_at for zero time, got %q", event.CreatedAt)
	}
}

func TestFromMealNil(t *testing.T) {
	if FromMeal(nil) != nil {
		t.Fatal("expected nil projection for nil meal")
	}
	meal := FromMeal(&edupage.Meal{Title: "Obed"})
	if meal.Menus == nil {
		t.Fatal("expected empty menus slice, not nil")
	}
}

func TestSetAccount(t *testing.T) {
	var lesson Lesson
	lesson.SetAccount("gymba")
	if lesson.Account.Account != "gymba" {
		t.Fatalf("expected account tag, got %q", lesson.Account.Account)
	}
}
