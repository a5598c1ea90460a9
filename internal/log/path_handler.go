package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// HomePrefix replaces the home directory in redacted paths.
const HomePrefix = "~"

// PathHandler wraps an slog.Handler and rewrites string attribute values
// that start with the home directory to start with "~" instead.
//
// It is a handler wrapper rather than a custom logger so it works with
// any underlying handler (text, JSON) and the standard slog API.
type PathHandler struct {
	// handler is the underlying slog handler that receives redacted records.
	handler slog.Handler

	// home is the cleaned home directory. Empty disables redaction.
	home string
}

// NewPathHandler creates a PathHandler wrapping handler that redacts home.
// If handler is nil, slog.Default().Handler() is used. If home is empty
// or the filesystem root, nothing is redacted.
func NewPathHandler(handler slog.Handler, home string) *PathHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	if home != "" {
		home = filepath.Clean(home)
		if home == string(filepath.Separator) {
			home = ""
		}
	}
	return &PathHandler{handler: handler, home: home}
}

// Enabled reports whether the handler handles records at the given level.
func (h *PathHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle redacts the record's attributes and passes it on.
func (h *PathHandler) Handle(ctx context.Context, r slog.Record) error {
	redacted := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)

	r.Attrs(func(a slog.Attr) bool {
		redacted.AddAttrs(h.redactAttr(a))
		return true
	})

	return h.handler.Handle(ctx, redacted)
}

// WithAttrs returns a new handler with the given (redacted) attributes added.
func (h *PathHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redacted := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		redacted[i] = h.redactAttr(a)
	}
	return &PathHandler{handler: h.handler.WithAttrs(redacted), home: h.home}
}

// WithGroup returns a new handler with the given group name.
func (h *PathHandler) WithGroup(name string) slog.Handler {
	return &PathHandler{handler: h.handler.WithGroup(name), home: h.home}
}

// redactAttr redacts a single attribute, recursing into groups.
func (h *PathHandler) redactAttr(a slog.Attr) slog.Attr {
	if h.home == "" {
		return a
	}

	switch a.Value.Kind() {
	case slog.KindGroup:
		attrs := a.Value.Group()
		redacted := make([]slog.Attr, len(attrs))
		for i, ga := range attrs {
			redacted[i] = h.redactAttr(ga)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(redacted...)}
	case slog.KindString:
		return slog.String(a.Key, h.RedactPath(a.Value.String()))
	case slog.KindAny:
		switch v := a.Value.Any().(type) {
		case []string:
			redacted := make([]string, len(v))
			for i, s := range v {
				redacted[i] = h.RedactPath(s)
			}
			return slog.Any(a.Key, redacted)
		case error:
			// Wrapped errors carry paths in the middle of the message.
			return slog.String(a.Key, h.RedactText(v.Error()))
		}
	}

	return a
}

// RedactPath returns p with a leading home directory replaced by "~".
// Paths merely sharing a prefix with home ("/home/al" vs "/home/alice")
// are left alone.
func (h *PathHandler) RedactPath(p string) string {
	if h.home == "" {
		return p
	}
	if p == h.home {
		return HomePrefix
	}
	if rest, ok := strings.CutPrefix(p, h.home+string(filepath.Separator)); ok {
		return HomePrefix + string(filepath.Separator) + rest
	}
	return p
}

// RedactText replaces the home directory wherever it starts a path
// inside s, e.g. in "open /home/bob/c.txt: no such file".
func (h *PathHandler) RedactText(s string) string {
	if h.home == "" {
		return s
	}
	sep := string(filepath.Separator)
	return strings.ReplaceAll(s, h.home+sep, HomePrefix+sep)
}

// userHome returns the current user's home directory, or "" if unknown.
func userHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}

// level returns Debug when verbose and Warn otherwise.
func level(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}

// NewLogger creates a text slog.Logger that redacts the home directory.
//
// Parameters:
//   - w: The io.Writer to write log output to (typically os.Stderr)
//   - verbose: If true, sets log level to Debug; otherwise Warn
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level(verbose)}
	return slog.New(NewPathHandler(slog.NewTextHandler(w, opts), userHome()))
}

// NewJSONLogger creates a JSON slog.Logger that redacts the home directory.
// Useful when build logs are collected by CI systems.
func NewJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level(verbose)}
	return slog.New(NewPathHandler(slog.NewJSONHandler(w, opts), userHome()))
}
