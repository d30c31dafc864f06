package mcp

import (
	"flag"
	"testing"
)

func TestParseConfigEnv(t *testing.T) {
	t.Setenv("EDUPAGE_USERNAME", "parent")
	t.Setenv("EDUPAGE_PASSWORD", "secret")
	t.Setenv("EDUPAGE_SUBDOMAIN", "gymba")

	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Username != "parent" {
		t.Fatalf("expected env username, got %q", cfg.Username)
	}
	if cfg.Subdomain != "gymba" {
		t.Fatalf("expected env subdomain, got %q", cfg.Subdomain)
	}
}

func TestParseConfigFlagOverridesEnv(t *testing.T) {
	t.Setenv("EDUPAGE_SUBDOMAIN", "env-school")
	t.Setenv("EDUPAGE_ACCOUNTS", "")

	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	args := []string{"-subdomain", "flag-school", "-accounts", "zsba=mom:pw"}
	cfg, err := ParseConfig(fs, args)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Subdomain != "flag-school" {
		t.Fatalf("expected flag subdomain, got %q", cfg.Subdomain)
	}
	if cfg.Accounts != "zsba=mom:pw" {
		t.Fatalf("expected flag accounts, got %q", cfg.Accounts)
	}
}

func TestParseAccounts(t *testing.T) {
	cfg := Config{
		Username:  "parent",
		Password:  "secret",
		Subdomain: "gymba",
		Accounts:  "zsba=mom:pw, dad@example.com:pw2",
	}
	accounts, err := parseAccounts(cfg)
	if err != nil {
		t.Fatalf("parse accounts: %v", err)
	}
	if len(accounts) != 3 {
		t.Fatalf("expected 3 accounts, got %d", len(accounts))
	}
	if accounts[0].Subdomain != "gymba" || accounts[0].Username != "parent" {
		t.Fatalf("unexpected default account: %+v", accounts[0])
	}
	if accounts[1].Subdomain != "zsba" || accounts[1].Username != "mom" || accounts[1].Password != "pw" {
		t.Fatalf("unexpected second account: %+v", accounts[1])
	}
	if accounts[2].Subdomain != "" || accounts[2].Username != "dad@example.com" {
		t.Fatalf("expected portal account without subdomain, got %+v", accounts[2])
	}
}

func TestParseAccountsRejectsMalformedEntry(t *testing.T) {
	_, err := parseAccounts(Config{Accounts: "zsba=momonly"})
	if err == nil {
		t.Fatal("expected error for entry without password")
	}
}

func TestParseAccountsEmpty(t *testing.T) {
	accounts, err := parseAccounts(Config{})
	if err != nil {
		t.Fatalf("parse accounts: %v", err)
	}
	if len(accounts) != 0 {
		t.Fatalf("expected no accounts, got %d", len(accounts))
	}
}
