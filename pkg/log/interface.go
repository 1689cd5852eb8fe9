// Package log はhpmlの学習・推論処理向けの構造化ログインターフェースを提供します。
//
// Logger は log/slog 互換の最小インターフェースで、実装は zerolog バックエンド
// (NewZerologProvider) とテスト用のバッファ実装 (NewTestLogger) を切り替えられます。
//
//	logger := log.GetLoggerWithName("training").With(log.ModelNameKey, "Ridge")
//	logger.Info("Training started",
//	    log.OperationKey, log.OperationFit,
//	    log.SamplesKey, 1000,
//	    log.FeaturesKey, 7,
//	)
package log

import (
	"context"
)

// Logger は log/slog 互換の構造化ログインターフェースです。
//
// fields はキーと値を交互に並べたペアです。Error の場合、最初の要素に error を
// 渡すとスタックトレース付きで記録されます。
type Logger interface {
	Debug(msg string, fields ...any)
	Info(msg string, fields ...any)
	Warn(msg string, fields ...any)
	Error(msg string, fields ...any)

	// With は fields を常に含む新しい Logger を返します。
	With(fields ...any) Logger

	// Enabled は level のレコードが出力されるかどうかを返します。
	Enabled(ctx context.Context, level Level) bool
}

// Level はログレベルです。値は slog.Level と互換です。
type Level int

const (
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// LoggerProvider はロガーを生成・設定するインターフェースです。
type LoggerProvider interface {
	GetLogger() Logger
	GetLoggerWithName(name string) Logger
	SetLevel(level Level)
}
