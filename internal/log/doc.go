// Package log provides the freqdict logger, built on top of the standard
// slog package.
//
// This package extends slog to provide:
//   - Redaction of the user's home directory in path attributes
//   - Configurable log levels with verbose mode support
//   - Text or JSON output with the same handler chain
//
// Builds log many file paths (corpus, word list, intermediate file,
// output dictionary). PathHandler rewrites absolute paths below the home
// directory to "~/..." so that build logs can be pasted into bug reports
// without leaking user names.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, true) // verbose=true
//	logger.Info("corpus loaded", "path", "/home/alice/corpus/en.txt")
//	// path=~/corpus/en.txt
//
//	slog.SetDefault(logger)
package log
