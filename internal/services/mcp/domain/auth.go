package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/mhlavac/edupage-mcp/internal/aggregate"
	"github.com/mhlavac/edupage-mcp/internal/edupage"
	"github.com/mhlavac/edupage-mcp/internal/platform/timeouts"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// LoginInput represents the MCP tool input for logging in to a school.
type LoginInput struct {
	Username  string `json:"username,omitempty" jsonschema:"EduPage username (defaults to EDUPAGE_USERNAME)"`
	Password  string `json:"password,omitempty" jsonschema:"EduPage password (defaults to EDUPAGE_PASSWORD)"`
	Subdomain string `json:"subdomain,omitempty" jsonschema:"school subdomain (defaults to EDUPAGE_SUBDOMAIN)"`
}

// LoginResult represents the MCP tool output for a login.
type LoginResult struct {
	Account  string `json:"account" jsonschema:"account id the session was registered under"`
	Accounts int    `json:"accounts" jsonschema:"number of accounts now logged in"`
	Message  string `json:"message"`
}

// LoginTool defines the MCP tool schema for logging in.
func LoginTool() *mcp.Tool {
	return &mcp.Tool{
		Name: "login",
		Description: "Logs in to an EduPage school account. No arguments needed when " +
			"EDUPAGE_USERNAME, EDUPAGE_PASSWORD and EDUPAGE_SUBDOMAIN are set. " +
			"Call it once per account to aggregate several schools.",
	}
}

// LoginHandler executes a login and registers the session under the
// school subdomain, replacing any prior session for it.
func LoginHandler(registry *aggregate.Registry, login LoginFunc, defaults edupage.Credentials) mcp.ToolHandlerFor[LoginInput, LoginResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input LoginInput) (*mcp.CallToolResult, LoginResult, error) {
		creds := edupage.Credentials{
			Username:  orDefault(input.Username, defaults.Username),
			Password:  orDefault(input.Password, defaults.Password),
			Subdomain: orDefault(input.Subdomain, defaults.Subdomain),
		}
		if missing := missingCredentials(creds, true); len(missing) > 0 {
			return nil, LoginResult{}, fmt.Errorf("login: missing %v; pass them as arguments or set the environment variables before starting the server", missing)
		}

		runCtx, cancel := context.WithTimeout(ctx, timeouts.Login)
		defer cancel()
		client, err := login(runCtx, creds)
		if err != nil {
			return nil, LoginResult{}, toolError("login", err)
		}
		session := registry.Register(client.Subdomain(), client)
		return nil, LoginResult{
			Account:  session.ID,
			Accounts: registry.Len(),
			Message:  fmt.Sprintf("Logged in successfully on %s.edupage.org", session.ID),
		}, nil
	}
}

// LoginAutoInput represents the MCP tool input for a portal login.
type LoginAutoInput struct {
	Username string `json:"username,omitempty" jsonschema:"EduPage username or email (defaults to EDUPAGE_USERNAME)"`
	Password string `json:"password,omitempty" jsonschema:"EduPage password (defaults to EDUPAGE_PASSWORD)"`
}

// LoginAutoTool defines the MCP tool schema for the portal login.
func LoginAutoTool() *mcp.Tool {
	return &mcp.Tool{
		Name: "login_auto",
		Description: "Logs in through the EduPage portal, auto-detecting the school. " +
			"No arguments needed when EDUPAGE_USERNAME and EDUPAGE_PASSWORD are set.",
	}
}

// LoginAutoHandler executes a portal login.
func LoginAutoHandler(registry *aggregate.Registry, login AutoLoginFunc, defaults edupage.Credentials) mcp.ToolHandlerFor[LoginAutoInput, LoginResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input LoginAutoInput) (*mcp.CallToolResult, LoginResult, error) {
		creds := edupage.Credentials{
			Username: orDefault(input.Username, defaults.Username),
			Password: orDefault(input.Password, defaults.Password),
		}
		if missing := missingCredentials(creds, false); len(missing) > 0 {
			return nil, LoginResult{}, fmt.Errorf("login_auto: missing %v; pass them as arguments or set the environment variables before starting the server", missing)
		}

		runCtx, cancel := context.WithTimeout(ctx, timeouts.Login)
		defer cancel()
		client, err := login(runCtx, creds.Username, creds.Password)
		if err != nil {
			return nil, LoginResult{}, toolError("login_auto", err)
		}
		session := registry.Register(client.Subdomain(), client)
		return nil, LoginResult{
			Account:  session.ID,
			Accounts: registry.Len(),
			Message:  fmt.Sprintf("Logged in successfully via portal on %s.edupage.org", session.ID),
		}, nil
	}
}

// AccountEntry describes one live session.
type AccountEntry struct {
	Account   string `json:"account"`
	CreatedAt string `json:"created_at" jsonschema:"RFC3339 timestamp of the login"`
}

// ListAccountsInput represents the (empty) input of list_accounts.
type ListAccountsInput struct{}

// ListAccountsResult lists the registered sessions in login order.
type ListAccountsResult struct {
	Accounts []AccountEntry `json:"accounts"`
}

// ListAccountsTool defines the MCP tool schema for listing sessions.
func ListAccountsTool() *mcp.Tool {
	return &mcp.Tool{
		Name: "list_accounts",
		Description: "Lists the EduPage accounts currently logged in. Pass one of these " +
			"ids as 'account' to other tools to target a single school.",
	}
}

// ListAccountsHandler returns the registered sessions.
func ListAccountsHandler(registry *aggregate.Registry) mcp.ToolHandlerFor[ListAccountsInput, ListAccountsResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ ListAccountsInput) (*mcp.CallToolResult, ListAccountsResult, error) {
		result := ListAccountsResult{Accounts: []AccountEntry{}}
		for _, session := range registry.All() {
			result.Accounts = append(result.Accounts, AccountEntry{
				Account:   session.ID,
				CreatedAt: session.CreatedAt.Format(time.RFC3339),
			})
		}
		return nil, result, nil
	}
}

func orDefault(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}

func missingCredentials(creds edupage.Credentials, needSubdomain bool) []string {
	var missing []string
	if creds.Username == "" {
		missing = append(missing, "username")
	}
	if creds.Password == "" {
		missing = append(missing, "password")
	}
	if needSubdomain && creds.Subdomain == "" {
		missing = append(missing, "subdomain")
	}
	return missing
}
