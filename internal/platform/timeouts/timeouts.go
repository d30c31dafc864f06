// Package timeouts defines shared timeout constants used across the
// server. Centralizing these values prevents drift between tool handlers
// and makes the durations discoverable.
package timeouts

import "time"

// Login caps one EduPage login round-trip, which spans several HTTP
// requests (portal lookup, CSRF fetch, credential post).
const Login = 30 * time.Second

// BackendCall caps a single EduPage data request made by a tool handler.
const BackendCall = 20 * time.Second
