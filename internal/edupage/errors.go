package edupage

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Kind is a machine-readable classification of a backend failure.
type Kind string

const (
	// KindBadCredentials means the username or password was rejected.
	KindBadCredentials Kind = "BAD_CREDENTIALS"
	// KindCaptcha means EduPage is demanding a CAPTCHA before login.
	KindCaptcha Kind = "CAPTCHA"
	// KindNotLoggedIn means the handle has no live authenticated session.
	KindNotLoggedIn Kind = "NOT_LOGGED_IN"
	// KindConnection covers network-level failures reaching EduPage.
	KindConnection Kind = "CONNECTION"
	// KindTimeout means a request exceeded its deadline.
	KindTimeout Kind = "TIMEOUT"
	// KindServer covers unexpected responses from EduPage.
	KindServer Kind = "SERVER"
)

// hints maps failure kinds to actionable operator guidance, surfaced
// alongside tool errors.
var hints = map[Kind]string{
	KindBadCredentials: "Wrong username or password. Check EDUPAGE_USERNAME and EDUPAGE_PASSWORD.",
	KindCaptcha:        "EduPage is requesting a CAPTCHA. Log in via browser first, then retry.",
	KindNotLoggedIn:    "Not logged in. Call the 'login' tool first.",
	KindConnection:     "Network error. Check your internet connection.",
	KindTimeout:        "Request timed out. EduPage may be slow, try again.",
}

// Error is a backend failure with a kind-derived hint. The aggregation
// layer treats it opaquely: message plus kind string.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by kind.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// Hint returns operator guidance for e, or "" when none applies.
func (e *Error) Hint() string {
	return hints[e.Kind]
}

// newError builds an Error, classifying transport causes into timeout or
// connection kinds when kind is KindServer.
func newError(kind Kind, message string, cause error) *Error {
	if cause != nil && kind == KindServer {
		var netErr net.Error
		switch {
		case errors.Is(cause, context.DeadlineExceeded):
			kind = KindTimeout
		case errors.As(cause, &netErr) && netErr.Timeout():
			kind = KindTimeout
		case errors.As(cause, new(*net.OpError)):
			kind = KindConnection
		}
	}
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// HintFor returns the operator hint for err when it is a backend Error.
func HintFor(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Hint()
	}
	return ""
}
