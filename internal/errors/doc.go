// Package errors provides error handling conventions for the prefkeep CLI.
//
// The package re-exports the wrapping helpers of
// github.com/cockroachdb/errors so that every package in the module builds
// error chains the same way, and adds an ExitError type plus exit code
// constants for the command layer.
//
// # Sentinel Errors
//
// Sentinel errors allow callers to check for specific error conditions
// using [Is]:
//
//	if errors.Is(err, errors.ErrNotFound) {
//	    // handle not found case
//	}
//
// Domain packages declare their own sentinels (see internal/backup) and
// attach them to OS causes with [Mark], so both the sentinel and the
// underlying cause remain visible in the chain.
//
// # Exit Codes
//
//   - ExitSuccess (0): Command completed successfully
//   - ExitUser (1): User-related error (no backup, invalid configuration)
//   - ExitSystem (2): System-related error (I/O, permissions)
//
// # ExitError
//
// [ExitError] wraps an underlying error with an exit code and optional suggestion:
//
//	err := errors.NewUserError(backup.ErrNoBackup, "Run: prefkeep backup")
//	os.Exit(errors.ExitCode(err))
package errors
