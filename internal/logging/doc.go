// Package logging provides structured logging for prefkeep using slog.
//
// Loggers are plain [*slog.Logger] values. The package builds them from a
// [Config], carries them through a context, and offers a TTY handler that
// colorizes levels when the output is a terminal.
//
// # Basic Usage
//
//	logger := logging.New(logging.Config{
//		Level:  slog.LevelInfo,
//		Format: logging.FormatText,
//		Output: os.Stderr,
//	})
//	logger.Info("backup complete", "root", root)
//
// # Testing
//
// For tests, use [ForTest] to capture log output via the testing framework:
//
//	engine := backup.NewEngine(root, layout, dir, backup.WithLogger(logging.ForTest(t)))
//
// # Log Files
//
// Setting [Config.File] mirrors every record to a second writer as JSON.
package logging
