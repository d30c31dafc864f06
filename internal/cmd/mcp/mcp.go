// Package mcp parses MCP command flags and runs the stdio server.
package mcp

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/mhlavac/edupage-mcp/internal/edupage"
	"github.com/mhlavac/edupage-mcp/internal/platform/config"
	"github.com/mhlavac/edupage-mcp/internal/platform/otel"
	"github.com/mhlavac/edupage-mcp/internal/services/mcp/service"
)

// Config holds MCP command configuration. Username/Password/Subdomain
// are the single-account credentials; Accounts lists several schools as
// "subdomain=username:password" entries separated by commas (subdomain=
// may be omitted to auto-detect the school through the portal).
type Config struct {
	Username  string `env:"EDUPAGE_USERNAME"`
	Password  string `env:"EDUPAGE_PASSWORD"`
	Subdomain string `env:"EDUPAGE_SUBDOMAIN"`
	Accounts  string `env:"EDUPAGE_ACCOUNTS"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.Subdomain, "subdomain", cfg.Subdomain, "school subdomain for the default account")
	fs.StringVar(&cfg.Accounts, "accounts", cfg.Accounts, "additional accounts as subdomain=username:password, comma-separated")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the MCP server: it logs in every configured account and
// serves the protocol over stdio until ctx is cancelled.
func Run(ctx context.Context, cfg Config) error {
	shutdown, err := otel.Setup(ctx, "mcp")
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			log.Printf("otel shutdown: %v", err)
		}
	}()

	accounts, err := parseAccounts(cfg)
	if err != nil {
		return err
	}
	server, err := service.New(service.Config{
		Defaults: edupage.Credentials{
			Username:  cfg.Username,
			Password:  cfg.Password,
			Subdomain: cfg.Subdomain,
		},
		Accounts: accounts,
	}, nil, nil)
	if err != nil {
		return err
	}

	server.AutoLogin(ctx)
	return server.Run(ctx)
}

// parseAccounts expands the account list to log in at startup. The
// single-account env credentials count as one account when set; the
// EDUPAGE_ACCOUNTS list adds the rest.
func parseAccounts(cfg Config) ([]edupage.Credentials, error) {
	var accounts []edupage.Credentials
	if cfg.Username != "" && cfg.Password != "" {
		accounts = append(accounts, edupage.Credentials{
			Username:  cfg.Username,
			Password:  cfg.Password,
			Subdomain: cfg.Subdomain,
		})
	}
	if cfg.Accounts == "" {
		return accounts, nil
	}
	for _, entry := range strings.Split(cfg.Accounts, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		creds, err := parseAccount(entry)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, creds)
	}
	return accounts, nil
}

// parseAccount reads one "subdomain=username:password" entry. Without
// the "subdomain=" prefix the school is auto-detected at login.
func parseAccount(entry string) (edupage.Credentials, error) {
	var creds edupage.Credentials
	rest := entry
	if subdomain, after, ok := strings.Cut(entry, "="); ok {
		creds.Subdomain = strings.TrimSpace(subdomain)
		rest = after
	}
	username, password, ok := strings.Cut(rest, ":")
	if !ok || username == "" || password == "" {
		return creds, fmt.Errorf("account entry %q must be subdomain=username:password", entry)
	}
	creds.Username = strings.TrimSpace(username)
	creds.Password = password
	return creds, nil
}
