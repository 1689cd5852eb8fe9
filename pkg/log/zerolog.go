package log

import (
	"context"
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	hpmlerrors "github.com/YuminosukeSato/hpml/pkg/errors"
)

// ZerologProvider は zerolog をバックエンドとする LoggerProvider です。
// SetLevel は既に払い出したロガーにも反映されます。
type ZerologProvider struct {
	base  zerolog.Logger
	level atomic.Int64
}

// NewZerologProvider は標準エラー出力にJSONを書き出すプロバイダを作成します。
func NewZerologProvider(level Level) *ZerologProvider {
	return NewZerologProviderWithWriter(os.Stderr, level)
}

// NewConsoleProvider は w に人間向けの整形出力を行うプロバイダを作成します。
func NewConsoleProvider(w io.Writer, level Level) *ZerologProvider {
	return NewZerologProviderWithWriter(zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}, level)
}

// NewZerologProviderWithWriter は任意の出力先に書き出すプロバイダを作成します。
func NewZerologProviderWithWriter(w io.Writer, level Level) *ZerologProvider {
	p := &ZerologProvider{
		base: zerolog.New(w).Level(zerolog.TraceLevel).With().Timestamp().Logger(),
	}
	p.level.Store(int64(level))
	return p
}

// GetLogger implements LoggerProvider.
func (p *ZerologProvider) GetLogger() Logger {
	return &zerologLogger{zl: p.base, provider: p}
}

// GetLoggerWithName implements LoggerProvider.
func (p *ZerologProvider) GetLoggerWithName(name string) Logger {
	return &zerologLogger{zl: p.base.With().Str(ComponentKey, name).Logger(), provider: p}
}

// SetLevel implements LoggerProvider.
func (p *ZerologProvider) SetLevel(level Level) {
	p.level.Store(int64(level))
}

// RouteWarnings は errors.Warn をこのプロバイダの警告ログに流します。
// 警告が zerolog.LogObjectMarshaler を実装していれば構造化フィールドとして埋め込みます。
func (p *ZerologProvider) RouteWarnings() {
	zl := p.base.With().Str(ComponentKey, "warnings").Logger()
	hpmlerrors.SetZerologWarnFunc(func(w error) {
		if Level(p.level.Load()) > LevelWarn {
			return
		}
		ev := zl.Warn()
		if m, ok := w.(zerolog.LogObjectMarshaler); ok {
			ev = ev.EmbedObject(m)
		}
		ev.Msg(w.Error())
	})
}

type zerologLogger struct {
	zl       zerolog.Logger
	provider *ZerologProvider
}

func (l *zerologLogger) Debug(msg string, fields ...any) { l.emit(LevelDebug, msg, fields) }
func (l *zerologLogger) Info(msg string, fields ...any)  { l.emit(LevelInfo, msg, fields) }
func (l *zerologLogger) Warn(msg string, fields ...any)  { l.emit(LevelWarn, msg, fields) }
func (l *zerologLogger) Error(msg string, fields ...any) { l.emit(LevelError, msg, fields) }

func (l *zerologLogger) With(fields ...any) Logger {
	return &zerologLogger{zl: l.zl.With().Fields(fields).Logger(), provider: l.provider}
}

func (l *zerologLogger) Enabled(_ context.Context, level Level) bool {
	return level >= Level(l.provider.level.Load())
}

func (l *zerologLogger) emit(level Level, msg string, fields []any) {
	if !l.Enabled(context.Background(), level) {
		return
	}
	ev := l.zl.WithLevel(toZerologLevel(level))
	// 先頭が error の場合はスタックトレースを付与する
	if len(fields)%2 == 1 {
		if err, ok := fields[0].(error); ok {
			ev = ev.Err(err)
			if st := extractStacktrace(err); st != "" {
				ev = ev.Str(StacktraceKey, st)
			}
			fields = fields[1:]
		}
	}
	if len(fields) > 0 {
		ev = ev.Fields(fields)
	}
	ev.Msg(msg)
}

func toZerologLevel(level Level) zerolog.Level {
	switch {
	case level <= LevelDebug:
		return zerolog.DebugLevel
	case level <= LevelInfo:
		return zerolog.InfoLevel
	case level <= LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}
