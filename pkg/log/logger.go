package log

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// SetupLogger は slog のデフォルトロガーをJSON出力で設定します。
// 標準ライブラリや依存パッケージが slog.Default() 経由で出すログもこの形式になります。
func SetupLogger(loglevel string) {
	ops := slog.HandlerOptions{
		AddSource: true,
		Level:     ToLogLevel(loglevel),
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			switch attr.Key {
			case slog.LevelKey:
				attr = slog.Attr{Key: "severity", Value: attr.Value}
			case slog.MessageKey:
				attr = slog.Attr{Key: "message", Value: attr.Value}
			}
			return attr
		},
	}
	handler := slog.NewJSONHandler(os.Stderr, &ops)
	slog.SetDefault(slog.New(WrapByErrFmtHandler(handler)))
}

// ToLogLevel は文字列をログレベルに変換します。不正な値では panic します。
// 設定値の検証には ParseLevel を使ってください。
func ToLogLevel(level string) Level {
	l, err := ParseLevel(level)
	if err != nil {
		panic(err.Error())
	}
	return l
}

// ParseLevel は "debug", "info", "warn", "error" をログレベルに変換します。
func ParseLevel(level string) (Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("invalid log level :%s", level)
	}
}

// Level は slog.Leveler を実装します。
func (l Level) Level() slog.Level {
	return slog.Level(l)
}

const (
	ErrAttrKey        = "error"
	StacktraceAttrKey = "stacktrace"
)

// ErrAttr は err を slog に渡すためのラッパーです。
func ErrAttr(err error) slog.Attr {
	return slog.Any(ErrAttrKey, err)
}
