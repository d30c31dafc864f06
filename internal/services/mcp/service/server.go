package service

import (
	"context"
	"fmt"
	"log"

	"github.com/mhlavac/edupage-mcp/internal/aggregate"
	"github.com/mhlavac/edupage-mcp/internal/edupage"
	"github.com/mhlavac/edupage-mcp/internal/platform/timeouts"
	"github.com/mhlavac/edupage-mcp/internal/services/mcp/conformance"
	"github.com/mhlavac/edupage-mcp/internal/services/mcp/domain"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	serverName = "edupage"
	// serverVersion identifies the MCP server version.
	serverVersion = "0.1.0"
)

const serverInstructions = "MCP server for EduPage, a school information system. " +
	"Authentication is handled automatically via environment variables " +
	"(EDUPAGE_USERNAME, EDUPAGE_PASSWORD, EDUPAGE_SUBDOMAIN, or EDUPAGE_ACCOUNTS " +
	"for several schools). If not already logged in, call the 'login' tool with no " +
	"arguments. Never ask the user for credentials. Tools expose timetables, grades, " +
	"homework, messages, students, teachers, classes, and more. Without an 'account' " +
	"argument, read tools query every logged-in school and tag each record with its " +
	"account. Use get_my_children to find student names, then pass student_name to " +
	"other tools for targeted lookups."

// Config configures the MCP server. Defaults are the credentials offered
// to the login tools when called without arguments; Accounts are logged
// in at startup.
type Config struct {
	Defaults edupage.Credentials
	Accounts []edupage.Credentials
}

// Server hosts the MCP server over one session registry.
type Server struct {
	mcpServer *mcp.Server
	registry  *aggregate.Registry
	cfg       Config
	login     domain.LoginFunc
	autoLogin domain.AutoLoginFunc
}

// New creates a configured MCP server with every tool registered.
// Login functions default to the live EduPage backend; tests inject
// fakes through them.
func New(cfg Config, login domain.LoginFunc, autoLogin domain.AutoLoginFunc) (*Server, error) {
	if login == nil {
		login = edupage.Login
	}
	if autoLogin == nil {
		autoLogin = edupage.LoginAuto
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{Name: serverName, Version: serverVersion},
		&mcp.ServerOptions{Instructions: serverInstructions},
	)

	registry := aggregate.NewRegistry()
	resolver := aggregate.NewResolver(registry, nil)

	server := &Server{
		mcpServer: mcpServer,
		registry:  registry,
		cfg:       cfg,
		login:     login,
		autoLogin: autoLogin,
	}
	for _, module := range registrationModules(registry, resolver, cfg.Defaults, login, autoLogin) {
		if err := module.register(mcpServer); err != nil {
			return nil, fmt.Errorf("register MCP module %q: %w", module.name, err)
		}
	}

	conformance.Register(mcpServer)

	return server, nil
}

// Registry exposes the session registry, primarily for startup wiring
// and tests.
func (s *Server) Registry() *aggregate.Registry {
	return s.registry
}

// AutoLogin logs in every configured account and registers its session.
// Individual login failures are logged and skipped so one school being
// down does not block the rest; the login tool can retry later.
func (s *Server) AutoLogin(ctx context.Context) {
	for _, creds := range s.cfg.Accounts {
		loginCtx, cancel := context.WithTimeout(ctx, timeouts.Login)
		client, err := loginAccount(loginCtx, creds, s.login, s.autoLogin)
		cancel()
		if err != nil {
			log.Printf("startup login failed for %s: %v", accountLabel(creds), err)
			continue
		}
		session := s.registry.Register(client.Subdomain(), client)
		log.Printf("logged in account %s", session.ID)
	}
}

// Run serves MCP over stdio until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	log.Printf("serving MCP over stdio with %d account(s)", s.registry.Len())
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

// loginAccount picks the login path for one configured account: direct
// when the subdomain is known, portal auto-detection otherwise.
func loginAccount(ctx context.Context, creds edupage.Credentials, login domain.LoginFunc, autoLogin domain.AutoLoginFunc) (edupage.Client, error) {
	if creds.Subdomain != "" {
		return login(ctx, creds)
	}
	return autoLogin(ctx, creds.Username, creds.Password)
}

func accountLabel(creds edupage.Credentials) string {
	if creds.Subdomain != "" {
		return creds.Subdomain
	}
	return creds.Username
}
