package aggregate

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// FetchFunc runs one query against one session and returns its records.
type FetchFunc[T any] func(ctx context.Context, session *Session) ([]T, error)

// Item is one merged record with its provenance. SessionID is set only
// when more than one session contributed to the result, keeping
// single-account output shapes unchanged.
type Item[T any] struct {
	SessionID string
	Record    T
}

// Result is the merged outcome of a fan-out. Items preserve registration
// order of sessions and, within a session, the order the fetch produced;
// callers needing time-sorted output sort after the merge. Dropped lists
// the sessions whose fetch failed while at least one other succeeded,
// diagnostic metadata the best-effort merge would otherwise hide.
type Result[T any] struct {
	Items   []Item[T]
	Multi   bool
	Dropped []SessionError
}

// Records flattens the merged items, discarding provenance.
func (r Result[T]) Records() []T {
	records := make([]T, len(r.Items))
	for i, item := range r.Items {
		records[i] = item.Record
	}
	return records
}

// FanOut runs fetch against the session named by explicitID, or against
// every registered session when explicitID is empty. Fetches run
// concurrently (they address disjoint backend connections) but results are
// buffered per session and merged in registration order, never completion
// order. A failing session never aborts its siblings: it is dropped from
// the merge unless every targeted session failed, which is reported as
// ALL_SESSIONS_FAILED with per-session detail.
func FanOut[T any](ctx context.Context, registry *Registry, explicitID string, fetch FetchFunc[T]) (Result[T], error) {
	var targets []*Session
	if explicitID != "" {
		session, err := registry.Get(explicitID)
		if err != nil {
			return Result[T]{}, err
		}
		targets = []*Session{session}
	} else {
		targets = registry.All()
		if len(targets) == 0 {
			return Result[T]{}, errNotAuthenticated()
		}
	}

	perSession := make([][]T, len(targets))
	perErr := make([]error, len(targets))

	group, groupCtx := errgroup.WithContext(ctx)
	for i, session := range targets {
		group.Go(func() error {
			records, err := fetch(groupCtx, session)
			if err != nil {
				// Recorded, not returned: one account's failure must not
				// cancel the sibling fetches.
				perErr[i] = err
				return nil
			}
			perSession[i] = records
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return Result[T]{}, err
	}

	result := Result[T]{Multi: len(targets) > 1}
	var failures []SessionError
	for i, session := range targets {
		if perErr[i] != nil {
			failures = append(failures, SessionError{SessionID: session.ID, Err: perErr[i]})
			continue
		}
		for _, record := range perSession[i] {
			item := Item[T]{Record: record}
			if result.Multi {
				item.SessionID = session.ID
			}
			result.Items = append(result.Items, item)
		}
	}

	if len(failures) == len(targets) {
		return Result[T]{}, errAllSessionsFailed(failures)
	}
	result.Dropped = failures
	return result, nil
}
