/*
 * MIT License
 *
 * Copyright (c) 2022-2024 Tochemey
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package log

import (
	golog "log"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultLogger writes to stderr at info level.
var DefaultLogger = NewLogger(os.Stderr, InfoLevel)

// DiscardLogger drops everything; used by tests. Components that were not
// given an explicit logger use DefaultLogger instead.
var DiscardLogger Logger = discardLogger{}

// Info logs to INFO level on DefaultLogger.
func Info(v ...any) { DefaultLogger.Info(v...) }

// Infof logs to INFO level on DefaultLogger.
func Infof(format string, v ...any) { DefaultLogger.Infof(format, v...) }

// Warning logs to the WARNING level on DefaultLogger.
func Warning(v ...any) { DefaultLogger.Warn(v...) }

// Warningf logs to the WARNING level on DefaultLogger.
func Warningf(format string, v ...any) { DefaultLogger.Warnf(format, v...) }

// Error logs to the ERROR level on DefaultLogger.
func Error(v ...any) { DefaultLogger.Error(v...) }

// Errorf logs to the ERROR level on DefaultLogger.
func Errorf(format string, v ...any) { DefaultLogger.Errorf(format, v...) }

// logger implements Logger with a zap SugaredLogger underneath, matching the
// teacher's zap.go sugared-logger idiom rather than zap's structured-field
// API, since spec call sites pass printf-style args.
type logger struct {
	level   Level
	outputs []io.Writer
	zap     *zap.SugaredLogger
	std     *golog.Logger
}

func zapLevel(level Level) zapcore.Level {
	switch level {
	case DebugLevel:
		return zapcore.DebugLevel
	case InfoLevel:
		return zapcore.InfoLevel
	case WarningLevel:
		return zapcore.WarnLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	case FatalLevel:
		return zapcore.FatalLevel
	case PanicLevel:
		return zapcore.PanicLevel
	default:
		return zapcore.InfoLevel
	}
}

// NewLogger creates a Logger writing to w at the given minimum level.
func NewLogger(w io.Writer, level Level) Logger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.AddSync(w),
		zapLevel(level),
	)
	zl := zap.New(core, zap.AddCaller())
	return &logger{
		level:   level,
		outputs: []io.Writer{w},
		zap:     zl.Sugar(),
		std:     golog.New(w, "", 0),
	}
}

func (l *logger) Debug(v ...any)                  { l.zap.Debug(v...) }
func (l *logger) Debugf(format string, v ...any)  { l.zap.Debugf(format, v...) }
func (l *logger) Info(v ...any)                   { l.zap.Info(v...) }
func (l *logger) Infof(format string, v ...any)   { l.zap.Infof(format, v...) }
func (l *logger) Warn(v ...any)                   { l.zap.Warn(v...) }
func (l *logger) Warnf(format string, v ...any)   { l.zap.Warnf(format, v...) }
func (l *logger) Error(v ...any)                  { l.zap.Error(v...) }
func (l *logger) Errorf(format string, v ...any)  { l.zap.Errorf(format, v...) }
func (l *logger) Fatal(v ...any)                  { l.zap.Fatal(v...) }
func (l *logger) Fatalf(format string, v ...any)  { l.zap.Fatalf(format, v...) }
func (l *logger) Panic(v ...any)                  { l.zap.Panic(v...) }
func (l *logger) Panicf(format string, v ...any)  { l.zap.Panicf(format, v...) }

func (l *logger) LogLevel() Level         { return l.level }
func (l *logger) LogOutput() []io.Writer  { return l.outputs }
func (l *logger) StdLogger() *golog.Logger { return l.std }

// With returns a Logger that prefixes every subsequent line with the given
// key/value pairs, for per-actor/per-supervisor context (actor address,
// supervisor id) without threading a struct-field API through call sites.
func (l *logger) With(keyValues ...any) Logger {
	return &logger{
		level:   l.level,
		outputs: l.outputs,
		zap:     l.zap.With(keyValues...),
		std:     l.std,
	}
}
