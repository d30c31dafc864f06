package aggregate

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func fanoutRegistry(ids ...string) *Registry {
	registry := NewRegistry()
	for _, id := range ids {
		registry.Register(id, &fakeClient{subdomain: id})
	}
	return registry
}

func TestFanOutMergesInRegistrationOrder(t *testing.T) {
	registry := fanoutRegistry("c", "a", "b")

	result, err := FanOut(context.Background(), registry, "", func(_ context.Context, session *Session) ([]string, error) {
		return []string{session.ID + "-1", session.ID + "-2"}, nil
	})
	if err != nil {
		t.Fatalf("fan out: %v", err)
	}
	if !result.Multi {
		t.Fatal("expected multi result for three sessions")
	}
	want := []string{"c-1", "c-2", "a-1", "a-2", "b-1", "b-2"}
	records := result.Records()
	if len(records) != len(want) {
		t.Fatalf("expected %d records, got %d", len(want), len(records))
	}
	for i := range want {
		if records[i] != want[i] {
			t.Fatalf("position %d: expected %s, got %s", i, want[i], records[i])
		}
		if result.Items[i].SessionID == "" {
			t.Fatalf("position %d: expected provenance tag", i)
		}
	}
}

func TestFanOutSingleSessionHasNoProvenance(t *testing.T) {
	registry := fanoutRegistry("gymba")

	result, err := FanOut(context.Background(), registry, "", func(_ context.Context, session *Session) ([]int, error) {
		return []int{1, 2}, nil
	})
	if err != nil {
		t.Fatalf("fan out: %v", err)
	}
	if result.Multi {
		t.Fatal("expected single-session result")
	}
	for _, item := range result.Items {
		if item.SessionID != "" {
			t.Fatalf("expected no provenance tag, got %q", item.SessionID)
		}
	}
}

func TestFanOutDropsFailingSession(t *testing.T) {
	registry := fanoutRegistry("a", "b", "c")

	result, err := FanOut(context.Background(), registry, "", func(_ context.Context, session *Session) ([]string, error) {
		if session.ID == "b" {
			return nil, errors.New("timeout")
		}
		return []string{session.ID}, nil
	})
	if err != nil {
		t.Fatalf("expected best-effort merge, got %v", err)
	}
	records := result.Records()
	if len(records) != 2 || records[0] != "a" || records[1] != "c" {
		t.Fatalf("expected [a c], got %v", records)
	}
	if len(result.Dropped) != 1 || result.Dropped[0].SessionID != "b" {
		t.Fatalf("expected b dropped, got %+v", result.Dropped)
	}
}

func TestFanOutAllSessionsFailed(t *testing.T) {
	registry := fanoutRegistry("a", "b", "c")

	_, err := FanOut(context.Background(), registry, "", func(_ context.Context, session *Session) ([]string, error) {
		return nil, fmt.Errorf("%s is down", session.ID)
	})
	if !errors.Is(err, &Error{Code: CodeAllSessionsFailed}) {
		t.Fatalf("expected ALL_SESSIONS_FAILED, got %v", err)
	}
	var aggErr *Error
	if !errors.As(err, &aggErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if len(aggErr.Metadata) != 3 {
		t.Fatalf("expected per-session detail for 3 accounts, got %v", aggErr.Metadata)
	}
}

func TestFanOutSoleFailureStaysUnwrappable(t *testing.T) {
	registry := fanoutRegistry("gymba")
	backendErr := errors.New("bad gateway")

	_, err := FanOut(context.Background(), registry, "", func(_ context.Context, _ *Session) ([]string, error) {
		return nil, backendErr
	})
	if !errors.Is(err, &Error{Code: CodeAllSessionsFailed}) {
		t.Fatalf("expected ALL_SESSIONS_FAILED, got %v", err)
	}
	if !errors.Is(err, backendErr) {
		t.Fatal("expected the sole backend error to stay in the chain")
	}
}

func TestFanOutExplicitSession(t *testing.T) {
	registry := fanoutRegistry("a", "b")

	result, err := FanOut(context.Background(), registry, "b", func(_ context.Context, session *Session) ([]string, error) {
		return []string{session.ID}, nil
	})
	if err != nil {
		t.Fatalf("fan out: %v", err)
	}
	if result.Multi {
		t.Fatal("expected single-session result for explicit id")
	}
	if records := result.Records(); len(records) != 1 || records[0] != "b" {
		t.Fatalf("expected [b], got %v", records)
	}

	if _, err := FanOut(context.Background(), registry, "nope", func(_ context.Context, _ *Session) ([]string, error) {
		return nil, nil
	}); !errors.Is(err, &Error{Code: CodeSessionNotFound}) {
		t.Fatalf("expected SESSION_NOT_FOUND, got %v", err)
	}
}

func TestFanOutEmptyRegistry(t *testing.T) {
	registry := NewRegistry()
	_, err := FanOut(context.Background(), registry, "", func(_ context.Context, _ *Session) ([]string, error) {
		return nil, nil
	})
	if !errors.Is(err, &Error{Code: CodeNotAuthenticated}) {
		t.Fatalf("expected NOT_AUTHENTICATED, got %v", err)
	}
}
