package edupage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const dateLayout = "2006-01-02"

// portalLookup resolves the school subdomain for a portal account via the
// mobile auth endpoint shared by all EduPage instances.
func portalLookup(ctx context.Context, username, password string) (string, error) {
	form := url.Values{"m": {username}, "h": {password}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		"https://login1.edupage.org/login/mauth", strings.NewReader(form.Encode()))
	if err != nil {
		return "", newError(KindServer, "build portal request", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", newError(KindServer, "portal login request", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", newError(KindServer, "read portal response", err)
	}

	parsed := gjson.ParseBytes(body)
	if parsed.Get("needEdupage").Bool() {
		return "", newError(KindCaptcha, "portal login requires interactive verification", nil)
	}
	users := parsed.Get("users")
	if !users.Exists() || len(users.Array()) == 0 {
		return "", newError(KindBadCredentials, "portal rejected the credentials", nil)
	}
	subdomain := users.Get("0.edupage").String()
	if subdomain == "" {
		return "", newError(KindServer, "portal response carries no school subdomain", nil)
	}
	return subdomain, nil
}

// login performs the two-step school login: fetch the CSRF token from the
// login page, then post credentials and capture the userhome bootstrap
// payload embedded in the landing page.
func (c *httpClient) login(ctx context.Context, username, password string) error {
	loginPage, err := c.get(ctx, "/login/index.php", nil)
	if err != nil {
		return err
	}
	csrf, ok := extractBetween(loginPage, `name="csrfauth" value="`, `"`)
	if !ok {
		return newError(KindServer, "login page carries no csrf token", nil)
	}

	form := url.Values{
		"username": {username},
		"password": {password},
		"csrfauth": {csrf},
	}
	landing, err := c.post(ctx, "/login/edubarLogin.php", form)
	if err != nil {
		return err
	}
	if strings.Contains(landing, "data-captcha") {
		return newError(KindCaptcha, "login requires a CAPTCHA", nil)
	}
	payload, ok := extractBetween(landing, "userhome(", ");")
	if !ok {
		// No bootstrap payload on the landing page means the credentials
		// were rejected and we were bounced back to the login form.
		return newError(KindBadCredentials, "login rejected", nil)
	}
	c.bootstrap = gjson.Parse(payload)
	c.userID = c.bootstrap.Get("userid").String()
	c.gsecHash = c.bootstrap.Get("gsechash").String()
	if c.userID == "" {
		return newError(KindServer, "bootstrap payload carries no user id", nil)
	}
	return nil
}

// loggedIn guards data calls that need the bootstrap payload.
func (c *httpClient) loggedIn() error {
	if !c.bootstrap.Exists() {
		return newError(KindNotLoggedIn, "no authenticated session", nil)
	}
	return nil
}

func (c *httpClient) baseURL() string {
	return fmt.Sprintf("https://%s.edupage.org", c.subdomain)
}

func (c *httpClient) get(ctx context.Context, path string, query url.Values) (string, error) {
	target := c.baseURL() + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", newError(KindServer, "build request", err)
	}
	return c.do(req)
}

func (c *httpClient) post(ctx context.Context, path string, form url.Values) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL()+path, strings.NewReader(form.Encode()))
	if err != nil {
		return "", newError(KindServer, "build request", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func (c *httpClient) do(req *http.Request) (string, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return "", newError(KindServer, fmt.Sprintf("%s %s", req.Method, req.URL.Path), err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return "", newError(KindServer,
			fmt.Sprintf("%s %s: unexpected status %d", req.Method, req.URL.Path, resp.StatusCode), nil)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", newError(KindServer, "read response body", err)
	}
	return string(body), nil
}

// extractBetween returns the substring of s between the first occurrence of
// open and the next occurrence of close after it.
func extractBetween(s, open, close string) (string, bool) {
	start := strings.Index(s, open)
	if start < 0 {
		return "", false
	}
	rest := s[start+len(open):]
	end := strings.Index(rest, close)
	if end < 0 {
		return "", false
	}
	return rest[:end], true
}

func (c *httpClient) Students(ctx context.Context) ([]Student, error) {
	if err := c.loggedIn(); err != nil {
		return nil, err
	}
	return parseStudents(c.bootstrap.Get("dbi.students")), nil
}

func (c *httpClient) AllStudents(ctx context.Context) ([]Student, error) {
	if err := c.loggedIn(); err != nil {
		return nil, err
	}
	body, err := c.get(ctx, "/dashboard/eb.php", url.Values{"barNoSkin": {"1"}, "mode": {"students"}})
	if err != nil {
		return nil, err
	}
	payload, ok := extractBetween(body, "studentsViewer(", ");")
	if !ok {
		// Not every account role may browse the whole school; fall back to
		// the students visible in the bootstrap payload.
		return parseStudents(c.bootstrap.Get("dbi.students")), nil
	}
	return parseStudents(gjson.Parse(payload).Get("students")), nil
}

func (c *httpClient) Teachers(ctx context.Context) ([]Teacher, error) {
	if err := c.loggedIn(); err != nil {
		return nil, err
	}
	return parseTeachers(c.bootstrap.Get("dbi.teachers")), nil
}

func (c *httpClient) Classes(ctx context.Context) ([]Class, error) {
	if err := c.loggedIn(); err != nil {
		return nil, err
	}
	return parseClasses(c.bootstrap.Get("dbi.classes"), c.bootstrap.Get("dbi.teachers")), nil
}

func (c *httpClient) Classrooms(ctx context.Context) ([]Classroom, error) {
	if err := c.loggedIn(); err != nil {
		return nil, err
	}
	return parseClassrooms(c.bootstrap.Get("dbi.classrooms")), nil
}

func (c *httpClient) Subjects(ctx context.Context) ([]Subject, error) {
	if err := c.loggedIn(); err != nil {
		return nil, err
	}
	return parseSubjects(c.bootstrap.Get("dbi.subjects")), nil
}

func (c *httpClient) Periods(ctx context.Context) ([]Period, error) {
	if err := c.loggedIn(); err != nil {
		return nil, err
	}
	return parsePeriods(c.bootstrap.Get("zvonenia")), nil
}

func (c *httpClient) Grades(ctx context.Context) ([]Grade, error) {
	if err := c.loggedIn(); err != nil {
		return nil, err
	}
	body, err := c.get(ctx, "/znamky/", url.Values{"barNoSkin": {"1"}})
	if err != nil {
		return nil, err
	}
	payload, ok := extractBetween(body, "znamkyStudentViewer(", ");")
	if !ok {
		return nil, newError(KindServer, "grades page carries no data payload", nil)
	}
	return parseGrades(gjson.Parse(payload)), nil
}

func (c *httpClient) Timetable(ctx context.Context, classID int, day time.Time) ([]Lesson, error) {
	if err := c.loggedIn(); err != nil {
		return nil, err
	}
	return c.fetchTimetable(ctx, "classes", fmt.Sprintf("%d", classID), day)
}

func (c *httpClient) MyTimetable(ctx context.Context, day time.Time) ([]Lesson, error) {
	if err := c.loggedIn(); err != nil {
		return nil, err
	}
	return c.fetchTimetable(ctx, "students", c.userID, day)
}

func (c *httpClient) fetchTimetable(ctx context.Context, table, id string, day time.Time) ([]Lesson, error) {
	date := day.Format(dateLayout)
	form := url.Values{
		"__func": {"currentttGetData"},
		"__gsh":  {c.gsecHash},
		"__args": {fmt.Sprintf(
			`[null,{"year":%d,"datefrom":%q,"dateto":%q,"table":%q,"id":%q,"showColors":false}]`,
			schoolYear(day), date, date, table, id)},
	}
	body, err := c.post(ctx, "/timetable/server/currenttt.js", form)
	if err != nil {
		return nil, err
	}
	parsed := gjson.Parse(body)
	if !parsed.Get("r").Exists() {
		return nil, newError(KindServer, "timetable response carries no data", nil)
	}
	return parseLessons(parsed.Get("r.ttitems"), c.bootstrap.Get("dbi")), nil
}

// schoolYear maps a calendar date onto the school year it belongs to; the
// year rolls over in August.
func schoolYear(day time.Time) int {
	if day.Month() >= time.August {
		return day.Year()
	}
	return day.Year() - 1
}

func (c *httpClient) Notifications(ctx context.Context) ([]TimelineEvent, error) {
	if err := c.loggedIn(); err != nil {
		return nil, err
	}
	return parseTimeline(c.bootstrap.Get("items")), nil
}

func (c *httpClient) NotificationHistory(ctx context.Context, since time.Time) ([]TimelineEvent, error) {
	if err := c.loggedIn(); err != nil {
		return nil, err
	}
	form := url.Values{
		"datefrom": {since.Format(dateLayout)},
		"dateto":   {time.Now().Format(dateLayout)},
	}
	body, err := c.post(ctx, "/timeline/?akcia=getData", form)
	if err != nil {
		return nil, err
	}
	return parseTimeline(gjson.Parse(body).Get("items")), nil
}

func (c *httpClient) Meals(ctx context.Context, day time.Time) (*Meals, error) {
	if err := c.loggedIn(); err != nil {
		return nil, err
	}
	body, err := c.get(ctx, "/menu/", nil)
	if err != nil {
		return nil, err
	}
	payload, ok := extractBetween(body, "edupageData: ", ",\n")
	if !ok {
		return nil, nil
	}
	menus := gjson.Parse(payload).Get(c.subdomain + ".novyListok." + day.Format(dateLayout))
	if !menus.Exists() {
		return nil, nil
	}
	return parseMeals(menus), nil
}

func (c *httpClient) SendMessage(ctx context.Context, recipients []Recipient, body string) error {
	if err := c.loggedIn(); err != nil {
		return err
	}
	ids := make([]string, 0, len(recipients))
	for _, r := range recipients {
		ids = append(ids, fmt.Sprintf("%d", r.PersonID))
	}
	form := url.Values{
		"akcia":          {"createItem"},
		"typ":            {"sprava"},
		"selectedUser":   {strings.Join(ids, ",")},
		"text":           {body},
		"receipt":        {"0"},
		"attachements":   {"{}"},
	}
	resp, err := c.post(ctx, "/timeline/?akcia=createItem", form)
	if err != nil {
		return err
	}
	if gjson.Parse(resp).Get("status").String() == "error" {
		return newError(KindServer, "message was rejected", nil)
	}
	return nil
}
