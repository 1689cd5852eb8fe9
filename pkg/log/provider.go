package log

import "sync"

var (
	providerMu     sync.RWMutex
	globalProvider LoggerProvider = NewZerologProvider(LevelInfo)
)

// SetProvider はパッケージ全体で使うプロバイダを差し替えます。
func SetProvider(p LoggerProvider) {
	providerMu.Lock()
	defer providerMu.Unlock()
	globalProvider = p
}

// GetProvider は現在のプロバイダを返します。
func GetProvider() LoggerProvider {
	providerMu.RLock()
	defer providerMu.RUnlock()
	return globalProvider
}

// GetLogger は現在のプロバイダのデフォルトロガーを返します。
func GetLogger() Logger {
	return GetProvider().GetLogger()
}

// GetLoggerWithName はコンポーネント名付きのロガーを返します。
func GetLoggerWithName(name string) Logger {
	return GetProvider().GetLoggerWithName(name)
}
