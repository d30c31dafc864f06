package lean

import (
	"fmt"

	"github.com/mhlavac/edupage-mcp/internal/edupage"
)

// Event is the flat projection of one timeline event.
type Event struct {
	Account
	EventID   string `json:"event_id,omitempty"`
	Type      string `json:"type,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	Text      string `json:"text,omitempty"`
	Author    string `json:"author,omitempty"`
	IsDone    bool   `json:"is_done"`
	IsStarred bool   `json:"is_starred"`
	CreatedAt string `json:"created_at,omitempty"`
}

// FromEvent projects one timeline event.
func FromEvent(event edupage.TimelineEvent) Event {
	return Event{
		EventID:   event.ID,
		Type:      event.Type,
		Timestamp: formatTimestamp(event.Timestamp),
		Text:      event.Text,
		Author:    event.Author,
		IsDone:    event.Done,
		IsStarred: event.Starred,
		CreatedAt: formatTimestamp(event.CreatedAt),
	}
}

// Homework is an Event enriched with assignment fields extracted from the
// event's additional payload.
type Homework struct {
	Event
	Title   string `json:"title,omitempty"`
	Subject string `json:"subject,omitempty"`
	DueDate string `json:"due_date,omitempty"`
}

// FromHomework projects a homework event. The payload keys vary per school
// and EduPage version, so each field tries its known aliases in order.
func FromHomework(event edupage.TimelineEvent) Homework {
	hw := Homework{Event: FromEvent(event)}
	hw.Title = dataString(event.Data, "nazov", "title", "name")
	if hw.Title == "" {
		hw.Title = event.Text
	}
	hw.Subject = dataString(event.Data, "predmetNazov", "nazov_predmetu", "subject_name", "predmet")
	hw.DueDate = dataString(event.Data, "dateto", "date_to", "date")
	return hw
}

// Assignment is a Homework enriched with grading fields; it covers exams
// and projects in addition to plain homework.
type Assignment struct {
	Homework
	MaxPoints   string `json:"max_points,omitempty"`
	Description string `json:"description,omitempty"`
}

// FromAssignment projects an assignment event.
func FromAssignment(event edupage.TimelineEvent) Assignment {
	return Assignment{
		Homework:    FromHomework(event),
		MaxPoints:   dataString(event.Data, "maxPoints", "max_points"),
		Description: dataString(event.Data, "popis", "description"),
	}
}

// Absence is the flat projection of an absence-related timeline event.
type Absence struct {
	Account
	Date   string `json:"date,omitempty"`
	Type   string `json:"type"`
	Text   string `json:"text,omitempty"`
	Author string `json:"author,omitempty"`
}

// FromAbsence projects one absence event; "ospravedlnenka" items are
// excused absences, everything else a plain absence.
func FromAbsence(event edupage.TimelineEvent) Absence {
	kind := "absent"
	if event.Type == "ospravedlnenka" {
		kind = "excused"
	}
	return Absence{
		Date:   formatTimestamp(event.Timestamp),
		Type:   kind,
		Text:   event.Text,
		Author: event.Author,
	}
}

// UpcomingEvent is the flat projection of a future event or exam.
type UpcomingEvent struct {
	Account
	EventID string `json:"event_id,omitempty"`
	Type    string `json:"type,omitempty"`
	Date    string `json:"date,omitempty"`
	Title   string `json:"title,omitempty"`
	Text    string `json:"text,omitempty"`
	IsDone  bool   `json:"is_done"`
}

// FromUpcomingEvent projects one future event.
func FromUpcomingEvent(event edupage.TimelineEvent) UpcomingEvent {
	title := dataString(event.Data, "nazov", "title")
	if title == "" {
		title = event.Text
	}
	return UpcomingEvent{
		EventID: event.ID,
		Type:    event.Type,
		Date:    formatTimestamp(event.Timestamp),
		Title:   title,
		Text:    event.Text,
		IsDone:  event.Done,
	}
}

// Meal is the flat projection of one meal slot.
type Meal struct {
	Title       string     `json:"title,omitempty"`
	Date        string     `json:"date,omitempty"`
	ServedFrom  string     `json:"served_from,omitempty"`
	ServedTo    string     `json:"served_to,omitempty"`
	OrderedMeal string     `json:"ordered_meal,omitempty"`
	Menus       []MealMenu `json:"menus"`
}

// MealMenu is one menu option within a meal slot.
type MealMenu struct {
	Name      string `json:"name,omitempty"`
	Allergens string `json:"allergens,omitempty"`
	Weight    string `json:"weight,omitempty"`
	Number    string `json:"number,omitempty"`
}

// FromMeal projects one meal slot; nil input projects to nil.
func FromMeal(meal *edupage.Meal) *Meal {
	if meal == nil {
		return nil
	}
	out := &Meal{
		Title:       meal.Title,
		Date:        meal.Date,
		ServedFrom:  meal.ServedFrom,
		ServedTo:    meal.ServedTo,
		OrderedMeal: meal.OrderedMeal,
		Menus:       []MealMenu{},
	}
	for _, menu := range meal.Menus {
		out.Menus = append(out.Menus, MealMenu{
			Name:      menu.Name,
			Allergens: menu.Allergens,
			Weight:    menu.Weight,
			Number:    menu.Number,
		})
	}
	return out
}

// dataString probes an opaque event payload for the first present key,
// coercing scalar values to strings.
func dataString(data map[string]any, keys ...string) string {
	for _, key := range keys {
		value, ok := data[key]
		if !ok || value == nil {
			continue
		}
		switch v := value.(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return trimFloat(v)
		case bool:
			return fmt.Sprintf("%t", v)
		}
	}
	return ""
}

func trimFloat(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}
