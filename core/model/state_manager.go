package model

import (
	"sync"

	"github.com/YuminosukeSato/hpml/pkg/errors"
)

// StateManager はモデルの学習状態をスレッドセーフに管理します。
// gob でエンコードされるため、状態を表すフィールドは公開しています。
type StateManager struct {
	Fitted bool
	mu     sync.RWMutex

	NFeatures int
	NSamples  int
}

// NewStateManager は未学習状態の StateManager を作成します。
func NewStateManager() *StateManager {
	return &StateManager{}
}

// IsFitted はモデルが学習済みかどうかを返します。nil レシーバでは false です。
func (s *StateManager) IsFitted() bool {
	if s == nil {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Fitted
}

// SetFitted はモデルを学習済みにします。
func (s *StateManager) SetFitted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Fitted = true
}

// Reset は学習状態を初期化します。
func (s *StateManager) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Fitted = false
	s.NFeatures = 0
	s.NSamples = 0
}

// SetDimensions は学習時の特徴量数とサンプル数を記録します。
func (s *StateManager) SetDimensions(nFeatures, nSamples int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.NFeatures = nFeatures
	s.NSamples = nSamples
}

// GetDimensions は学習時の特徴量数とサンプル数を返します。
func (s *StateManager) GetDimensions() (nFeatures, nSamples int) {
	if s == nil {
		return 0, 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.NFeatures, s.NSamples
}

// RequireFitted は未学習なら NotFittedError を返します。
func (s *StateManager) RequireFitted(modelName, method string) error {
	if !s.IsFitted() {
		return errors.NewNotFittedError(modelName, method)
	}
	return nil
}

// RequireFeatures は学習時と列数が異なる場合に DimensionError を返します。
func (s *StateManager) RequireFeatures(op string, got int) error {
	nFeatures, _ := s.GetDimensions()
	if got != nFeatures {
		return errors.NewDimensionError(op, nFeatures, got, 1)
	}
	return nil
}
