package logging

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"go.uber.org/multierr"
)

// LoggerPatternConfig sets the level of every logger whose name matches Pattern.
type LoggerPatternConfig struct {
	Pattern string `json:"pattern"`
	Level   string `json:"level"`
}

const (
	// e.g. "foo" or "foo_bar-baz".
	validLoggerSectionName = `[a-zA-Z0-9]+([_-]*[a-zA-Z0-9]+)*`
	// e.g. "foo" or "*".
	validLoggerSectionNameWithWildcard = `(` + validLoggerSectionName + `|\*)`
	// e.g. "camxform.*.transform", anchored to the whole pattern.
	validLoggerName = `^` + validLoggerSectionNameWithWildcard + `(\.` + validLoggerSectionNameWithWildcard + `)*$`
)

var loggerPatternRegexp = regexp.MustCompile(validLoggerName)

// ValidatePattern reports whether the pattern is a dot separated list of logger name sections,
// where any section may be the `*` wildcard.
func ValidatePattern(pattern string) bool {
	return loggerPatternRegexp.MatchString(pattern)
}

func buildRegexFromPattern(pattern string) (*regexp.Regexp, error) {
	var matcher strings.Builder
	matcher.WriteRune('^')
	for _, ch := range pattern {
		switch ch {
		case '*':
			matcher.WriteString(`.*`)
		case '.':
			matcher.WriteString(`\.`)
		default:
			matcher.WriteRune(ch)
		}
	}
	matcher.WriteRune('$')
	return regexp.Compile(matcher.String())
}

// Validate checks the pattern and level of the config.
func (lpc LoggerPatternConfig) Validate(path string) error {
	if !ValidatePattern(lpc.Pattern) {
		return fmt.Errorf("%s: invalid logger pattern %q", path, lpc.Pattern)
	}
	if _, err := LevelFromString(lpc.Level); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Registry holds named loggers so their levels can be changed by pattern after creation.
type Registry struct {
	mu        sync.RWMutex
	loggers   map[string]Logger
	logConfig []LoggerPatternConfig
}

var globalRegistry = newRegistry()

func newRegistry() *Registry {
	return &Registry{
		loggers: make(map[string]Logger),
	}
}

func (lr *Registry) registerLogger(name string, logger Logger) {
	lr.mu.Lock()
	defer lr.mu.Unlock()
	lr.loggers[name] = logger
}

func (lr *Registry) deregisterLogger(name string) bool {
	lr.mu.Lock()
	defer lr.mu.Unlock()
	_, ok := lr.loggers[name]
	delete(lr.loggers, name)
	return ok
}

func (lr *Registry) loggerNamed(name string) (Logger, bool) {
	lr.mu.RLock()
	defer lr.mu.RUnlock()
	logger, ok := lr.loggers[name]
	return logger, ok
}

func (lr *Registry) registeredNames() []string {
	lr.mu.RLock()
	defer lr.mu.RUnlock()
	names := make([]string, 0, len(lr.loggers))
	for name := range lr.loggers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// levelFor returns the level of the last matching pattern, if any matches.
func levelFor(name string, logConfig []LoggerPatternConfig) (Level, bool, error) {
	var (
		level   Level
		matched bool
	)
	for _, lpc := range logConfig {
		r, err := buildRegexFromPattern(lpc.Pattern)
		if err != nil {
			return level, false, err
		}
		if !r.MatchString(name) {
			continue
		}
		if level, err = LevelFromString(lpc.Level); err != nil {
			return level, false, err
		}
		matched = true
	}
	return level, matched, nil
}

// UpdateConfig stores the pattern configs and applies them to every registered logger. Loggers no
// pattern matches are reset to INFO. Invalid patterns are skipped with a warning.
func (lr *Registry) UpdateConfig(logConfig []LoggerPatternConfig, warnLogger Logger) error {
	valid := make([]LoggerPatternConfig, 0, len(logConfig))
	for _, lpc := range logConfig {
		if !ValidatePattern(lpc.Pattern) {
			warnLogger.Warnw("failed to validate a pattern", "pattern", lpc.Pattern)
			continue
		}
		valid = append(valid, lpc)
	}

	lr.mu.Lock()
	lr.logConfig = valid
	lr.mu.Unlock()

	var errs error
	for _, name := range lr.registeredNames() {
		level, matched, err := levelFor(name, valid)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if !matched {
			level = INFO
		}
		if logger, ok := lr.loggerNamed(name); ok {
			logger.SetLevel(level)
		}
	}
	return errs
}

// getOrRegister returns the logger already registered under `name`, or registers `logger` and
// configures it from the stored patterns. Concurrent callers all get the winner's logger.
func (lr *Registry) getOrRegister(name string, logger Logger) Logger {
	lr.mu.Lock()
	defer lr.mu.Unlock()
	if existing, ok := lr.loggers[name]; ok {
		return existing
	}

	lr.loggers[name] = logger
	if level, matched, err := levelFor(name, lr.logConfig); err == nil && matched {
		logger.SetLevel(level)
	}
	return logger
}

// RegisterLogger registers a new logger with a given name.
func RegisterLogger(name string, logger Logger) {
	globalRegistry.registerLogger(name, logger)
}

// DeregisterLogger removes the logger with the given name. It reports whether one was removed.
func DeregisterLogger(name string) bool {
	return globalRegistry.deregisterLogger(name)
}

// LoggerNamed returns logger with specified name if exists.
func LoggerNamed(name string) (Logger, bool) {
	return globalRegistry.loggerNamed(name)
}

// UpdateLoggerLevel assigns level to appropriate logger in the registry.
func UpdateLoggerLevel(name string, level Level) error {
	logger, ok := globalRegistry.loggerNamed(name)
	if !ok {
		return fmt.Errorf("logger named %s not recognized", name)
	}
	logger.SetLevel(level)
	return nil
}

// GetRegisteredLoggerNames returns the sorted names of all loggers in the registry.
func GetRegisteredLoggerNames() []string {
	return globalRegistry.registeredNames()
}

// ApplyPatternConfigs applies the pattern configs to every registered logger and to loggers
// registered later through NewLogger.
func ApplyPatternConfigs(logConfig []LoggerPatternConfig, warnLogger Logger) error {
	return globalRegistry.UpdateConfig(logConfig, warnLogger)
}
