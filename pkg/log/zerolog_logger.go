package log

import (
	"context"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// extractStacktrace pulls the first cockroachdb/errors safe detail
// (the stack frame the error was created or wrapped at) off err, for
// attaching to a structured log record. Returns "" if err carries none
// — a plain fmt.Errorf or a sentinel comparison error, for instance.
func extractStacktrace(err error) string {
	safeDetails := errors.GetSafeDetails(err).SafeDetails
	if len(safeDetails) > 0 {
		return safeDetails[0]
	}
	return ""
}

// ZerologLogger adapts a github.com/rs/zerolog.Logger to the package's
// slog-compatible Logger interface, the concrete backend the interface
// in interface.go was designed to allow switching to.
type ZerologLogger struct {
	logger zerolog.Logger
	level  Level
}

// NewZerologLogger constructs a ZerologLogger writing to os.Stderr at
// the given minimum level.
func NewZerologLogger(level Level) *ZerologLogger {
	zl := zerolog.New(os.Stderr).With().Timestamp().Logger().Level(toZerologLevel(level))
	return &ZerologLogger{logger: zl, level: level}
}

func toZerologLevel(l Level) zerolog.Level {
	switch l {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func addFields(e *zerolog.Event, fields ...any) *zerolog.Event {
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		if err, ok := fields[i+1].(error); ok {
			e = e.AnErr(key, err)
			continue
		}
		e = e.Interface(key, fields[i+1])
	}
	return e
}

func (z *ZerologLogger) Debug(msg string, fields ...any) {
	addFields(z.logger.Debug(), fields...).Msg(msg)
}

func (z *ZerologLogger) Info(msg string, fields ...any) {
	addFields(z.logger.Info(), fields...).Msg(msg)
}

func (z *ZerologLogger) Warn(msg string, fields ...any) {
	addFields(z.logger.Warn(), fields...).Msg(msg)
}

// Error logs at error level. If any field value is an error, the first
// such error's cockroachdb/errors stack detail (if it has one) is
// attached under StacktraceKey, giving callers the frame an ebm.Engine
// error originated at without every call site having to dig it out
// itself.
func (z *ZerologLogger) Error(msg string, fields ...any) {
	event := z.logger.Error()
	for i := 0; i+1 < len(fields); i += 2 {
		if err, ok := fields[i+1].(error); ok {
			if trace := extractStacktrace(err); trace != "" {
				event = event.Str(StacktraceKey, trace)
			}
			break
		}
	}
	addFields(event, fields...).Msg(msg)
}

func (z *ZerologLogger) With(fields ...any) Logger {
	ctx := z.logger.With()
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		ctx = ctx.Interface(key, fields[i+1])
	}
	return &ZerologLogger{logger: ctx.Logger(), level: z.level}
}

func (z *ZerologLogger) Enabled(_ context.Context, level Level) bool {
	return level >= z.level
}

// ZerologLoggerProvider is the production LoggerProvider: every named
// logger it hands out is a ZerologLogger.With(ComponentKey, name), so
// ebm.CreateEngine's default logging backend and a caller-supplied
// LoggerProvider (e.g. log.NewTestLoggerProvider in a test) are
// interchangeable through the same interface.
type ZerologLoggerProvider struct {
	logger *ZerologLogger
}

// NewZerologLoggerProvider constructs a ZerologLoggerProvider at the
// given minimum level.
func NewZerologLoggerProvider(level Level) *ZerologLoggerProvider {
	return &ZerologLoggerProvider{logger: NewZerologLogger(level)}
}

func (p *ZerologLoggerProvider) GetLogger() Logger { return p.logger }

func (p *ZerologLoggerProvider) GetLoggerWithName(name string) Logger {
	return p.logger.With(ComponentKey, name)
}

func (p *ZerologLoggerProvider) SetLevel(level Level) {
	p.logger.level = level
	p.logger.logger = p.logger.logger.Level(toZerologLevel(level))
}
