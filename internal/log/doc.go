// Package log provides the slog setup used by the plotreport CLI.
//
// SecureHandler wraps any slog.Handler and rewrites attribute values before
// they reach it:
//   - Paths under the user's home directory are shortened to "~/..."
//   - Passwords in database DSNs and URLs are replaced with MaskValue
//   - Attributes whose key names a secret (password, token, ...) are masked
//
// Export logs name files, hashes and DSNs and are often pasted into bug
// reports, so the rewrite applies to every level, verbose mode included.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, verbose)
//	slog.SetDefault(logger)
//
//	logger.Info("export saved", "path", "/home/alice/report.pdf")
//	// path=~/report.pdf
package log
