// Package domain defines the MCP tool surface: input/output schemas, tool
// definitions, and handlers that run against the session registry and the
// aggregation core.
package domain

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mhlavac/edupage-mcp/internal/aggregate"
	"github.com/mhlavac/edupage-mcp/internal/edupage"
	"github.com/mhlavac/edupage-mcp/internal/platform/timeouts"
)

const dateLayout = "2006-01-02"

// LoginFunc authenticates one account and returns its backend client.
// Indirection over edupage.Login so tests can stub the backend.
type LoginFunc func(ctx context.Context, creds edupage.Credentials) (edupage.Client, error)

// AutoLoginFunc authenticates through the portal without a subdomain.
type AutoLoginFunc func(ctx context.Context, username, password string) (edupage.Client, error)

// toolError shapes a handler failure for the MCP client, attaching the
// operator hint derived from backend error kinds when one applies.
func toolError(action string, err error) error {
	if hint := edupage.HintFor(err); hint != "" {
		return fmt.Errorf("%s: %w. %s", action, err, hint)
	}
	return fmt.Errorf("%s: %w", action, err)
}

// parseDate reads an ISO date, defaulting to today when empty.
func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Now(), nil
	}
	day, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("date must be YYYY-MM-DD: %w", err)
	}
	return day, nil
}

// callCtx derives the per-request deadline for one backend data call.
func callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeouts.BackendCall)
}

// projectItems lifts merged fan-out items into lean projections, stamping
// account provenance on each record when more than one account
// contributed.
func projectItems[T any, L any, PL interface {
	*L
	SetAccount(string)
}](items []aggregate.Item[T], project func(T) L) []L {
	out := make([]L, 0, len(items))
	for _, item := range items {
		record := project(item.Record)
		if item.SessionID != "" {
			PL(&record).SetAccount(item.SessionID)
		}
		out = append(out, record)
	}
	return out
}

// droppedAccounts reports the accounts a best-effort merge excluded, for
// the diagnostic field on multi-account results. The per-account errors
// are logged here; the merged payload stays compatible with the
// single-account shape.
func droppedAccounts(action string, dropped []aggregate.SessionError) []string {
	if len(dropped) == 0 {
		return nil
	}
	accounts := make([]string, 0, len(dropped))
	for _, failure := range dropped {
		log.Printf("%s: account %s dropped from merge: %v", action, failure.SessionID, failure.Err)
		accounts = append(accounts, failure.SessionID)
	}
	return accounts
}
