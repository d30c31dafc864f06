package aggregate

import (
	"fmt"
	"sort"
	"strings"
)

// Code is a machine-readable error code for aggregation failures.
type Code string

const (
	// CodeNotAuthenticated means the registry holds no sessions at all.
	CodeNotAuthenticated Code = "NOT_AUTHENTICATED"
	// CodeSessionNotFound means an explicit account id matched no session.
	CodeSessionNotFound Code = "SESSION_NOT_FOUND"
	// CodeAmbiguousSession means the operation needs exactly one session
	// but several are registered and none was named.
	CodeAmbiguousSession Code = "AMBIGUOUS_SESSION"
	// CodeAmbiguousName means a name matched several people within one
	// session.
	CodeAmbiguousName Code = "AMBIGUOUS_NAME"
	// CodeAmbiguousNameAcrossSessions means a name resolved uniquely in
	// more than one session.
	CodeAmbiguousNameAcrossSessions Code = "AMBIGUOUS_NAME_ACROSS_SESSIONS"
	// CodeNameNotFound means a name resolved in no session.
	CodeNameNotFound Code = "NAME_NOT_FOUND"
	// CodeAllSessionsFailed means every session targeted by a fan-out
	// returned an error.
	CodeAllSessionsFailed Code = "ALL_SESSIONS_FAILED"
)

// Error is the aggregation-layer error type with structured context. Every
// instance carries enough metadata (offending name, available alternatives,
// per-session detail) to be actionable without re-querying.
type Error struct {
	Code     Code
	Message  string
	Metadata map[string]string
	Cause    error
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

func errNotAuthenticated() *Error {
	return &Error{
		Code:    CodeNotAuthenticated,
		Message: "not logged in to any account; call the 'login' tool first",
	}
}

func errSessionNotFound(id string, available []string) *Error {
	return &Error{
		Code:     CodeSessionNotFound,
		Message:  fmt.Sprintf("no session for account %q; available: %s", id, joinOrNone(available)),
		Metadata: map[string]string{"account": id, "available": strings.Join(available, ",")},
	}
}

func errAmbiguousSession(available []string) *Error {
	return &Error{
		Code:     CodeAmbiguousSession,
		Message:  fmt.Sprintf("several accounts are logged in; pass an explicit account. Available: %s", joinOrNone(available)),
		Metadata: map[string]string{"available": strings.Join(available, ",")},
	}
}

func errAmbiguousName(name string, matches []string) *Error {
	return &Error{
		Code:     CodeAmbiguousName,
		Message:  fmt.Sprintf("ambiguous name %q; matches: %s", name, strings.Join(matches, ", ")),
		Metadata: map[string]string{"name": name, "matches": strings.Join(matches, ",")},
	}
}

func errAmbiguousNameAcrossSessions(name string, sessionIDs []string) *Error {
	return &Error{
		Code:     CodeAmbiguousNameAcrossSessions,
		Message:  fmt.Sprintf("name %q exists in several accounts (%s); pass an explicit account", name, strings.Join(sessionIDs, ", ")),
		Metadata: map[string]string{"name": name, "accounts": strings.Join(sessionIDs, ",")},
	}
}

// Candidate is one (session, person name) pair included in not-found
// diagnostics.
type Candidate struct {
	SessionID string
	Name      string
}

func errNameNotFound(name string, available []Candidate) *Error {
	parts := make([]string, 0, len(available))
	for _, c := range available {
		parts = append(parts, fmt.Sprintf("%s (%s)", c.Name, c.SessionID))
	}
	return &Error{
		Code:     CodeNameNotFound,
		Message:  fmt.Sprintf("%q not found in any account; available: %s", name, joinOrNone(parts)),
		Metadata: map[string]string{"name": name, "available": strings.Join(parts, ",")},
	}
}

// SessionError pairs a session id with the error its fetch produced.
type SessionError struct {
	SessionID string
	Err       error
}

func errAllSessionsFailed(failures []SessionError) *Error {
	parts := make([]string, 0, len(failures))
	meta := map[string]string{}
	for _, f := range failures {
		parts = append(parts, fmt.Sprintf("%s: %v", f.SessionID, f.Err))
		meta[f.SessionID] = f.Err.Error()
	}
	sort.Strings(parts)
	err := &Error{
		Code:     CodeAllSessionsFailed,
		Message:  fmt.Sprintf("every account failed: %s", strings.Join(parts, "; ")),
		Metadata: meta,
	}
	if len(failures) == 1 {
		// Keep the sole backend error unwrappable so kind-derived hints
		// survive the aggregation.
		err.Cause = failures[0].Err
	}
	return err
}

func joinOrNone(parts []string) string {
	if len(parts) == 0 {
		return "(none)"
	}
	return strings.Join(parts, ", ")
}
