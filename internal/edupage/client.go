// Package edupage talks to the EduPage school-information backend. It owns
// the wire protocol and authentication for one account; everything above it
// consumes the Client interface and stays transport-agnostic.
package edupage

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/tidwall/gjson"
)

// Client is one authenticated connection to one EduPage account. All
// methods return backend records already lifted into explicit structs;
// defensive probing of EduPage's loosely-typed JSON happens behind this
// boundary only.
type Client interface {
	// Subdomain returns the school subdomain this client is logged into.
	// It doubles as the session identifier in the registry.
	Subdomain() string

	// Students returns the students visible to the account: children for a
	// parent account, classmates for a student account.
	Students(ctx context.Context) ([]Student, error)
	// AllStudents returns every student in the school.
	AllStudents(ctx context.Context) ([]Student, error)
	Teachers(ctx context.Context) ([]Teacher, error)
	Classes(ctx context.Context) ([]Class, error)
	Classrooms(ctx context.Context) ([]Classroom, error)
	Subjects(ctx context.Context) ([]Subject, error)
	Periods(ctx context.Context) ([]Period, error)

	Grades(ctx context.Context) ([]Grade, error)
	// Timetable returns the lessons of a class on a day.
	Timetable(ctx context.Context, classID int, day time.Time) ([]Lesson, error)
	// MyTimetable returns the logged-in user's own lessons on a day.
	MyTimetable(ctx context.Context, day time.Time) ([]Lesson, error)

	// Notifications returns the currently visible timeline.
	Notifications(ctx context.Context) ([]TimelineEvent, error)
	// NotificationHistory returns timeline items created since a date.
	NotificationHistory(ctx context.Context, since time.Time) ([]TimelineEvent, error)

	// Meals returns the published meals for a day, or nil when the school
	// has no meal data for it.
	Meals(ctx context.Context, day time.Time) (*Meals, error)

	// SendMessage sends a timeline message to the given recipients.
	SendMessage(ctx context.Context, recipients []Recipient, body string) error
}

// Credentials identify one EduPage account. Subdomain may be empty when
// logging in through the portal (auto-detected school).
type Credentials struct {
	Username  string
	Password  string
	Subdomain string
}

// httpClient implements Client against {subdomain}.edupage.org. The login
// bootstrap payload (dbi tables, visible timeline, bell schedule) is kept
// for the life of the session, matching what the EduPage web client does;
// history, timetables and meals are fetched per call.
type httpClient struct {
	http      *http.Client
	subdomain string
	userID    string
	gsecHash  string
	bootstrap gjson.Result
}

// Login authenticates against a known school subdomain.
func Login(ctx context.Context, creds Credentials) (Client, error) {
	if creds.Subdomain == "" {
		return nil, newError(KindBadCredentials, "subdomain is required", nil)
	}
	c, err := newHTTPClient(creds.Subdomain)
	if err != nil {
		return nil, err
	}
	if err := c.login(ctx, creds.Username, creds.Password); err != nil {
		return nil, err
	}
	return c, nil
}

// LoginAuto authenticates through the EduPage portal, auto-detecting the
// school subdomain from the account.
func LoginAuto(ctx context.Context, username, password string) (Client, error) {
	subdomain, err := portalLookup(ctx, username, password)
	if err != nil {
		return nil, err
	}
	return Login(ctx, Credentials{Username: username, Password: password, Subdomain: subdomain})
}

func newHTTPClient(subdomain string) (*httpClient, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, newError(KindServer, "create cookie jar", err)
	}
	return &httpClient{
		http:      &http.Client{Jar: jar},
		subdomain: subdomain,
	}, nil
}

func (c *httpClient) Subdomain() string {
	return c.subdomain
}
