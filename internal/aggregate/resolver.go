package aggregate

import (
	"context"
	"strings"

	"github.com/mhlavac/edupage-mcp/internal/edupage"
)

// PersonLister fetches the people a name can resolve against within one
// session. Injected so tests and alternative person sources (teachers,
// whole-school listings) can reuse the resolver.
type PersonLister func(ctx context.Context, session *Session) ([]edupage.Student, error)

// Resolver disambiguates a free-text person name against one account's
// namespace or across every registered account.
type Resolver struct {
	registry *Registry
	list     PersonLister
}

// NewResolver builds a resolver over the registry. When list is nil the
// session's visible students are used.
func NewResolver(registry *Registry, list PersonLister) *Resolver {
	if list == nil {
		list = func(ctx context.Context, session *Session) ([]edupage.Student, error) {
			return session.Client.Students(ctx)
		}
	}
	return &Resolver{registry: registry, list: list}
}

// Match is a successful resolution: the person and the session that owns
// the record. The same display name in two accounts is two distinct
// people; a Match always pins exactly one.
type Match struct {
	Session *Session
	Person  edupage.Student
}

// Resolve finds exactly one person for name. With an explicit session id
// only that account is searched; otherwise every registered account is
// searched independently and the outcomes are ranked: a within-account
// ambiguity is reported first (scoped to that account), then a unique
// match in several accounts, then a single unique match, then not-found
// with every candidate name gathered for diagnostics.
func (r *Resolver) Resolve(ctx context.Context, name, explicitSessionID string) (*Match, error) {
	if explicitSessionID != "" {
		session, err := r.registry.Get(explicitSessionID)
		if err != nil {
			return nil, err
		}
		return r.resolveIn(ctx, session, name)
	}

	sessions := r.registry.All()
	if len(sessions) == 0 {
		return nil, errNotAuthenticated()
	}
	if len(sessions) == 1 {
		return r.resolveIn(ctx, sessions[0], name)
	}

	var (
		found     []*Match
		ambiguous error
		available []Candidate
	)
	for _, session := range sessions {
		people, err := r.list(ctx, session)
		if err != nil {
			// Backend failure listing one account: skip it, matching the
			// best-effort policy of the fan-out executor. The remaining
			// accounts can still produce a unique match.
			continue
		}
		person, names := matchPerson(people, name)
		switch {
		case person != nil:
			found = append(found, &Match{Session: session, Person: *person})
		case len(names) > 1:
			if ambiguous == nil {
				ambiguous = errAmbiguousName(name, names)
			}
		default:
			for _, p := range people {
				available = append(available, Candidate{SessionID: session.ID, Name: p.Name})
			}
		}
	}

	if ambiguous != nil {
		return nil, ambiguous
	}
	switch len(found) {
	case 1:
		return found[0], nil
	case 0:
		return nil, errNameNotFound(name, available)
	default:
		ids := make([]string, 0, len(found))
		for _, match := range found {
			ids = append(ids, match.Session.ID)
		}
		return nil, errAmbiguousNameAcrossSessions(name, ids)
	}
}

// resolveIn resolves within a single session, surfacing the per-session
// error taxonomy directly.
func (r *Resolver) resolveIn(ctx context.Context, session *Session, name string) (*Match, error) {
	people, err := r.list(ctx, session)
	if err != nil {
		return nil, err
	}
	person, names := matchPerson(people, name)
	switch {
	case person != nil:
		return &Match{Session: session, Person: *person}, nil
	case len(names) > 1:
		return nil, errAmbiguousName(name, names)
	default:
		available := make([]Candidate, 0, len(people))
		for _, p := range people {
			available = append(available, Candidate{SessionID: session.ID, Name: p.Name})
		}
		return nil, errNameNotFound(name, available)
	}
}

// matchPerson applies the matching policy to one account's people: a
// case-insensitive exact match on the full display name always wins (so a
// short common name cannot turn ambiguous when its exact owner exists);
// otherwise a sole substring match resolves. The returned names slice
// holds the substring matches when no unique resolution was possible.
func matchPerson(people []edupage.Student, name string) (*edupage.Student, []string) {
	needle := strings.ToLower(strings.TrimSpace(name))

	for i := range people {
		if strings.ToLower(people[i].Name) == needle {
			return &people[i], nil
		}
	}

	var matched []int
	for i := range people {
		if strings.Contains(strings.ToLower(people[i].Name), needle) {
			matched = append(matched, i)
		}
	}
	if len(matched) == 1 {
		return &people[matched[0]], nil
	}
	names := make([]string, 0, len(matched))
	for _, i := range matched {
		names = append(names, people[i].Name)
	}
	return nil, names
}
