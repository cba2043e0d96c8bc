// Package nlog provides the emulator's structured logging facility.
//
// It mirrors the shape of a typical component-gated emulator logger (one
// boolean toggle per subsystem, one global level) but is backed by logrus
// rather than hand-rolled timestamp formatting, so handlers, formatters and
// levels all come from the library instead of being reimplemented here.
package nlog

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

// Level mirrors logrus.Level but keeps emulator call sites free of a direct
// logrus import.
type Level = logrus.Level

const (
	LevelOff   Level = logrus.PanicLevel
	LevelError Level = logrus.ErrorLevel
	LevelWarn  Level = logrus.WarnLevel
	LevelInfo  Level = logrus.InfoLevel
	LevelDebug Level = logrus.DebugLevel
	LevelTrace Level = logrus.TraceLevel
)

// ParseLevel converts a CLI-friendly level name into a Level, defaulting to
// LevelInfo for unrecognized input.
func ParseLevel(name string) Level {
	lvl, err := logrus.ParseLevel(name)
	if err != nil {
		if name == "off" {
			return LevelOff
		}
		return LevelInfo
	}
	return lvl
}

type logger struct {
	entry      *logrus.Logger
	components map[string]bool
}

var global *logger

// Init sets up the global logger. An empty filePath logs to stdout.
func Init(level Level, filePath string) error {
	l := logrus.New()
	l.SetLevel(level)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	l.SetOutput(os.Stdout)

	if filePath != "" {
		f, err := os.Create(filePath)
		if err != nil {
			return fmt.Errorf("nlog: failed to create log file: %w", err)
		}
		l.SetOutput(f)
	}

	global = &logger{
		entry: l,
		components: map[string]bool{
			"cpu":    true,
			"ppu":    false,
			"bus":    false,
			"mapper": false,
		},
	}
	return nil
}

// SetComponent enables or disables logging for a named subsystem
// ("cpu", "ppu", "bus", "mapper").
func SetComponent(component string, enabled bool) {
	if global != nil {
		global.components[component] = enabled
	}
}

func logComponent(component string, format string, args ...interface{}) {
	if global == nil || !global.components[component] {
		return
	}
	global.entry.WithField("component", component).Debugf(format, args...)
}

// CPU logs a CPU-subsystem debug line when CPU logging is enabled.
func CPU(format string, args ...interface{}) { logComponent("cpu", format, args...) }

// PPU logs a PPU-subsystem debug line when PPU logging is enabled.
func PPU(format string, args ...interface{}) { logComponent("ppu", format, args...) }

// Bus logs a bus-subsystem debug line when bus logging is enabled.
func Bus(format string, args ...interface{}) { logComponent("bus", format, args...) }

// Mapper logs a mapper-subsystem debug line when mapper logging is enabled.
func Mapper(format string, args ...interface{}) { logComponent("mapper", format, args...) }

// Info logs an info-level line regardless of per-component gating.
func Info(format string, args ...interface{}) {
	if global == nil {
		return
	}
	global.entry.Infof(format, args...)
}

// Warn logs a warn-level line regardless of per-component gating.
func Warn(format string, args ...interface{}) {
	if global == nil {
		return
	}
	global.entry.Warnf(format, args...)
}

// Error logs an error-level line regardless of per-component gating.
func Error(format string, args ...interface{}) {
	if global == nil {
		return
	}
	global.entry.Errorf(format, args...)
}
