// Copyright The Power Tools Authors. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"k8s.io/klog/v2"
)

// Level describes the severity of a log message.
type Level int

const (
	// LevelDebug is the severity for debug messages.
	LevelDebug Level = iota
	// LevelInfo is the severity for informational messages.
	LevelInfo
	// LevelWarn is the severity for warnings.
	LevelWarn
	// LevelError is the severity for errors.
	LevelError
)

const (
	// DefaultLevel is the default logging severity level.
	DefaultLevel = LevelInfo
	// debugEnvVar is the environment variable used to seed debugging flags.
	debugEnvVar = "LOGGER_DEBUG"
)

// Logger is the interface for producing log messages for/from a source.
type Logger interface {
	// Debug formats and emits a debug message.
	Debug(format string, args ...interface{})
	// Info formats and emits an informational message.
	Info(format string, args ...interface{})
	// Warn formats and emits a warning message.
	Warn(format string, args ...interface{})
	// Error formats and emits an error message.
	Error(format string, args ...interface{})
	// Fatal formats and emits an error message and exits the process.
	Fatal(format string, args ...interface{})

	// DebugEnabled checks if debug messages are enabled for this logger.
	DebugEnabled() bool
	// EnableDebug enables/disables debug messages, returning the previous state.
	EnableDebug(enabled bool) bool
	// Source returns the source name of this logger.
	Source() string
}

// logging encapsulates the shared state of all loggers.
type logging struct {
	sync.RWMutex
	level   Level
	loggers map[string]logger
	debug   map[string]bool
}

// logger implements Logger for a single source.
type logger struct {
	source string
}

var log = &logging{
	level:   DefaultLevel,
	loggers: make(map[string]logger),
	debug:   parseDebugEnv(os.Getenv(debugEnvVar)),
}

// parseDebugEnv parses a comma-separated list of sources to debug. The
// special sources "all" and "*" turn debugging on for every source.
func parseDebugEnv(value string) map[string]bool {
	debug := make(map[string]bool)
	for _, src := range strings.Split(value, ",") {
		if src = strings.TrimSpace(src); src == "" {
			continue
		}
		if src == "all" {
			src = "*"
		}
		debug[src] = true
	}
	return debug
}

// NewLogger creates a logger for the given source.
func NewLogger(source string) Logger {
	return log.get(source)
}

// Get returns the logger for the given source, creating one if necessary.
func Get(source string) Logger {
	return log.get(source)
}

// Default returns the default logger.
func Default() Logger {
	return log.get("default")
}

// SetLevel sets the logging severity level.
func SetLevel(level Level) {
	log.Lock()
	defer log.Unlock()
	log.level = level
}

// Flush flushes any pending log messages.
func Flush() {
	klog.Flush()
}

func (l *logging) get(source string) logger {
	l.Lock()
	defer l.Unlock()
	lg, ok := l.loggers[source]
	if !ok {
		lg = logger{source: source}
		l.loggers[source] = lg
	}
	return lg
}

func (l *logging) debugging(source string) bool {
	l.RLock()
	defer l.RUnlock()
	if enabled, ok := l.debug[source]; ok {
		return enabled
	}
	return l.debug["*"]
}

func (l *logging) getLevel() Level {
	l.RLock()
	defer l.RUnlock()
	return l.level
}

func (l *logging) setDebug(source string, enabled bool) bool {
	l.Lock()
	defer l.Unlock()
	previous := l.debug[source]
	l.debug[source] = enabled
	return previous
}

func (l logger) format(format string, args ...interface{}) string {
	return l.source + ": " + fmt.Sprintf(format, args...)
}

func (l logger) Debug(format string, args ...interface{}) {
	if !log.debugging(l.source) {
		return
	}
	klog.InfoDepth(1, l.format(format, args...))
}

func (l logger) Info(format string, args ...interface{}) {
	if log.getLevel() > LevelInfo {
		return
	}
	klog.InfoDepth(1, l.format(format, args...))
}

func (l logger) Warn(format string, args ...interface{}) {
	if log.getLevel() > LevelWarn {
		return
	}
	klog.WarningDepth(1, l.format(format, args...))
}

func (l logger) Error(format string, args ...interface{}) {
	klog.ErrorDepth(1, l.format(format, args...))
}

func (l logger) Fatal(format string, args ...interface{}) {
	klog.ExitDepth(1, l.format(format, args...))
}

func (l logger) DebugEnabled() bool {
	return log.debugging(l.source)
}

func (l logger) EnableDebug(enabled bool) bool {
	return log.setDebug(l.source, enabled)
}

func (l logger) Source() string {
	return l.source
}
