// Package cli provides terminal output helpers for the prefkeep commands:
// the user-facing outcome notifier and the status reporter.
package cli
