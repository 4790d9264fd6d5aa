// Package shared holds helpers used across packages. Its testutil subpackage
// provides sheet fixtures and a recording slog handler for tests.
package shared
