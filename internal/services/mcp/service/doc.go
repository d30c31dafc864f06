// Package service hosts the MCP server: it owns server construction,
// tool registration, startup auto-login, and the stdio serve loop. Tool
// semantics live in the domain package.
package service
