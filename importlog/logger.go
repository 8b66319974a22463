// Package importlog adapts the ambient zerolog logger into the shapes
// the import engine's components need: a context-scoped logger and a
// few With* helpers for tagging job/source/import identifiers.
package importlog

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type ctxKey struct{}

var loggerKey = ctxKey{}

// Initialize configures the global logger at the given level with a
// console writer, matching the ambient convention used across the
// engine's commands.
func Initialize(level zerolog.Level) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(level)
	w := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
}

// FromContext extracts the scoped logger, falling back to the global
// logger when ctx carries none.
func FromContext(ctx context.Context) zerolog.Logger {
	if ctx == nil {
		return log.Logger
	}
	if l, ok := ctx.Value(loggerKey).(zerolog.Logger); ok {
		return l
	}
	return log.Logger
}

// WithContext stashes l into ctx for downstream FromContext calls.
func WithContext(ctx context.Context, l zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// WithSource tags the logger with a source identifier.
func WithSource(ctx context.Context, sourceID string) (context.Context, zerolog.Logger) {
	l := FromContext(ctx).With().Str("source", sourceID).Logger()
	return WithContext(ctx, l), l
}

// WithImport tags the logger with an import's identity tuple.
func WithImport(ctx context.Context, path string, mediaTypes string) (context.Context, zerolog.Logger) {
	l := FromContext(ctx).With().Str("import_path", path).Str("import_media_types", mediaTypes).Logger()
	return WithContext(ctx, l), l
}

// WithJob tags the logger with a processor job's name.
func WithJob(ctx context.Context, jobName string) (context.Context, zerolog.Logger) {
	l := FromContext(ctx).With().Str("job", jobName).Logger()
	return WithContext(ctx, l), l
}
