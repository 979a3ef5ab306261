package logging

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type (
	impl struct {
		name  string
		level AtomicLevel
		inUTC bool

		appenders []Appender
	}

	// LogEntry embeds a zapcore Entry and slice of Fields.
	LogEntry struct {
		zapcore.Entry
		fields []zapcore.Field
	}
)

// Frames to skip to reach the user's call site: getCaller, newLogEntry, build, emit and the public
// logging method (Info etc).
const skipToLogCaller = 5

func (imp *impl) newLogEntry(level Level, msg string) *LogEntry {
	ret := &LogEntry{}
	ret.Time = time.Now()
	if imp.inUTC {
		ret.Time = ret.Time.UTC()
	}
	ret.Level = level.AsZap()
	ret.LoggerName = imp.name
	ret.Message = msg
	ret.Caller = getCaller(skipToLogCaller)
	return ret
}

func (imp *impl) AddAppender(appender Appender) {
	imp.appenders = append(imp.appenders, appender)
}

func (imp *impl) SetLevel(level Level) {
	imp.level.Set(level)
}

func (imp *impl) GetLevel() Level {
	return imp.level.Get()
}

func (imp *impl) Level() zapcore.Level {
	return imp.GetLevel().AsZap()
}

// Sublogger shares the parent's appenders but owns its level, so registry updates to one do not
// leak into the other.
func (imp *impl) Sublogger(subname string) Logger {
	newName := subname
	if imp.name != "" {
		newName = fmt.Sprintf("%s.%s", imp.name, subname)
	}

	return &impl{
		name:      newName,
		level:     NewAtomicLevelAt(imp.level.Get()),
		inUTC:     imp.inUTC,
		appenders: imp.appenders,
	}
}

func (imp *impl) Sync() error {
	var errs []error
	for _, appender := range imp.appenders {
		if err := appender.Sync(); err != nil {
			errs = append(errs, err)
		}
	}
	return multierr.Combine(errs...)
}

// AsZap builds a zap logger that writes to every appender which is also a `zapcore.Core`, e.g:
// the observer used by tests.
func (imp *impl) AsZap() *zap.SugaredLogger {
	config := NewZapLoggerConfig()
	config.Level = zap.NewAtomicLevelAt(imp.GetLevel().AsZap())
	ret := zap.Must(config.Build()).Sugar().Named(imp.name)
	for _, appender := range imp.appenders {
		core, ok := appender.(zapcore.Core)
		if !ok {
			continue
		}
		ret = ret.WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
			return zapcore.NewTee(c, core)
		}))
	}
	return ret
}

func (imp *impl) Desugar() *zap.Logger {
	return imp.AsZap().Desugar()
}

func (imp *impl) Named(name string) *zap.SugaredLogger {
	return imp.AsZap().Named(name)
}

func (imp *impl) With(args ...interface{}) *zap.SugaredLogger {
	return imp.AsZap().With(args...)
}

func (imp *impl) WithOptions(opts ...zap.Option) *zap.SugaredLogger {
	return imp.AsZap().WithOptions(opts...)
}

func (imp *impl) enabled(level Level) bool {
	return level >= imp.level.Get()
}

func (imp *impl) write(entry *LogEntry) {
	for _, appender := range imp.appenders {
		if err := appender.Write(entry.Entry, entry.fields); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
}

// build assembles the entry. Structured entries keep the template as the message and turn the
// args into fields. Otherwise a non-empty template goes through Sprintf and an empty one through Sprint.
func (imp *impl) build(level Level, template string, structured bool, args ...interface{}) *LogEntry {
	switch {
	case structured:
		entry := imp.newLogEntry(level, template)
		entry.fields = toFields(args)
		return entry
	case template != "":
		return imp.newLogEntry(level, fmt.Sprintf(template, args...))
	default:
		return imp.newLogEntry(level, fmt.Sprint(args...))
	}
}

func (imp *impl) emit(force bool, level Level, template string, structured bool, args ...interface{}) {
	if !force && !imp.enabled(level) {
		return
	}
	imp.write(imp.build(level, template, structured, args...))
}

// toFields pairs up `keysAndValues`: odd elements are keys, each followed by its value.
func toFields(keysAndValues []interface{}) []zapcore.Field {
	fields := make([]zapcore.Field, 0, len(keysAndValues)/2)
	for keyIdx := 0; keyIdx < len(keysAndValues); keyIdx += 2 {
		var keyStr string
		if stringer, ok := keysAndValues[keyIdx].(fmt.Stringer); ok {
			keyStr = stringer.String()
		} else {
			keyStr = fmt.Sprintf("%v", keysAndValues[keyIdx])
		}

		if keyIdx+1 < len(keysAndValues) {
			fields = append(fields, zap.Any(keyStr, keysAndValues[keyIdx+1]))
		} else {
			// Keep the dangling key visible instead of dropping it.
			fields = append(fields, zap.Any(keyStr, errors.New("unpaired log key")))
		}
	}
	return fields
}

func (imp *impl) Debug(args ...interface{}) {
	imp.emit(false, DEBUG, "", false, args...)
}

func (imp *impl) Debugf(template string, args ...interface{}) {
	imp.emit(false, DEBUG, template, false, args...)
}

func (imp *impl) Debugw(msg string, keysAndValues ...interface{}) {
	imp.emit(false, DEBUG, msg, true, keysAndValues...)
}

func (imp *impl) CDebug(ctx context.Context, args ...interface{}) {
	imp.emit(IsDebugMode(ctx), DEBUG, "", false, args...)
}

func (imp *impl) CDebugf(ctx context.Context, template string, args ...interface{}) {
	imp.emit(IsDebugMode(ctx), DEBUG, template, false, args...)
}

func (imp *impl) CDebugw(ctx context.Context, msg string, keysAndValues ...interface{}) {
	imp.emit(IsDebugMode(ctx), DEBUG, msg, true, keysAndValues...)
}

func (imp *impl) Info(args ...interface{}) {
	imp.emit(false, INFO, "", false, args...)
}

func (imp *impl) Infof(template string, args ...interface{}) {
	imp.emit(false, INFO, template, false, args...)
}

func (imp *impl) Infow(msg string, keysAndValues ...interface{}) {
	imp.emit(false, INFO, msg, true, keysAndValues...)
}

func (imp *impl) Warn(args ...interface{}) {
	imp.emit(false, WARN, "", false, args...)
}

func (imp *impl) Warnf(template string, args ...interface{}) {
	imp.emit(false, WARN, template, false, args...)
}

func (imp *impl) Warnw(msg string, keysAndValues ...interface{}) {
	imp.emit(false, WARN, msg, true, keysAndValues...)
}

func (imp *impl) Error(args ...interface{}) {
	imp.emit(false, ERROR, "", false, args...)
}

func (imp *impl) Errorf(template string, args ...interface{}) {
	imp.emit(false, ERROR, template, false, args...)
}

func (imp *impl) Errorw(msg string, keysAndValues ...interface{}) {
	imp.emit(false, ERROR, msg, true, keysAndValues...)
}

// These Fatal* methods log as errors then exit the process.
func (imp *impl) Fatal(args ...interface{}) {
	imp.emit(true, ERROR, "", false, args...)
	os.Exit(1)
}

func (imp *impl) Fatalf(template string, args ...interface{}) {
	imp.emit(true, ERROR, template, false, args...)
	os.Exit(1)
}

func (imp *impl) Fatalw(msg string, keysAndValues ...interface{}) {
	imp.emit(true, ERROR, msg, true, keysAndValues...)
	os.Exit(1)
}

func getCaller(skip int) zapcore.EntryCaller {
	var ok bool
	var entryCaller zapcore.EntryCaller
	entryCaller.PC, entryCaller.File, entryCaller.Line, ok = runtime.Caller(skip)
	if !ok {
		return entryCaller
	}
	entryCaller.Defined = true

	if runtimeFunc := runtime.FuncForPC(entryCaller.PC); runtimeFunc != nil {
		entryCaller.Function = runtimeFunc.Name()
	}
	return entryCaller
}
