// Package errors はプロジェクト全体のエラーハンドリングと警告システムを提供します。
// 学習・推論パイプラインの前提条件違反（行数不足、特徴量なし、列欠損）を
// 型付きエラーとして表現し、非致命的なガバナンス判断は警告として通知します。
package errors

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	グローバル警告ハンドリング
//
// ===========================================================================
var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		// デフォルトのハンドラは標準エラー出力にログを出す
		log.Printf("hpml-Warning: %v\n", w)
	}
	// zerologロガー（循環importを避けるため遅延初期化）
	zerologWarnFunc func(warning error)
)

// SetWarningHandler は警告ハンドラを設定します。
//
// 例:
//
//	errors.SetWarningHandler(func(w error) {
//	    // 警告を無視する
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc はzerolog警告関数を設定します（循環importを避けるため）。
// nil を渡すと従来のハンドラに戻ります。
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn は警告を発生させます。
// zerologが利用可能な場合は構造化ログとして出力し、そうでなければ従来のハンドラを使用します。
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}

	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	警告型
//
// ===========================================================================

// UndefinedMetricWarning は評価指標が計算できない場合に発生する警告です。
// 例えば、目的変数が定数でR²が定義できない場合など。
type UndefinedMetricWarning struct {
	Metric    string
	Condition string
	Result    float64 // この条件で返される値
}

func (w *UndefinedMetricWarning) Error() string {
	return fmt.Sprintf("'%s' is ill-defined and being set to %f due to %s.", w.Metric, w.Result, w.Condition)
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *UndefinedMetricWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("metric", w.Metric).
		Str("condition", w.Condition).
		Float64("result", w.Result).
		Str("type", "UndefinedMetricWarning")
}

// NewUndefinedMetricWarning は新しいUndefinedMetricWarningを作成します。
func NewUndefinedMetricWarning(metric, condition string, result float64) *UndefinedMetricWarning {
	return &UndefinedMetricWarning{Metric: metric, Condition: condition, Result: result}
}

// GovernanceWarning は列ガバナンスの非致命的な判断を表す警告です。
// 許可リストにあるがデータに存在しない列、または禁止パターンにより除外された列を通知します。
type GovernanceWarning struct {
	Kind    string // "missing_allowed" または "dropped_forbidden"
	Columns []string
}

const (
	// GovernanceMissingAllowed は許可リストの列がデータに存在しないことを示します。
	GovernanceMissingAllowed = "missing_allowed"
	// GovernanceDroppedForbidden は禁止パターンに一致した列が除外されたことを示します。
	GovernanceDroppedForbidden = "dropped_forbidden"
)

func (w *GovernanceWarning) Error() string {
	switch w.Kind {
	case GovernanceMissingAllowed:
		return fmt.Sprintf("these requested features are missing in data: [%s]", strings.Join(w.Columns, ", "))
	case GovernanceDroppedForbidden:
		return fmt.Sprintf("detected and auto-dropped forbidden columns: [%s]", strings.Join(w.Columns, ", "))
	default:
		return fmt.Sprintf("governance %s: [%s]", w.Kind, strings.Join(w.Columns, ", "))
	}
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *GovernanceWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("kind", w.Kind).
		Strs("columns", w.Columns).
		Str("type", "GovernanceWarning")
}

// NewGovernanceWarning は新しいGovernanceWarningを作成します。
func NewGovernanceWarning(kind string, columns []string) *GovernanceWarning {
	return &GovernanceWarning{Kind: kind, Columns: columns}
}

// ===========================================================================
//
//	構造化されたエラー型
//
// ===========================================================================

// NotFittedError はモデルが未学習の状態で `Predict` や `Transform` を呼び出した場合のエラーです。
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("hpml: %s: this model is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError は新しいNotFittedErrorを作成し、スタックトレースを付与します。
func NewNotFittedError(modelName, method string) error {
	err := &NotFittedError{ModelName: modelName, Method: method}
	return errors.WithStack(err)
}

// DimensionError は入力データの次元が期待値と異なる場合のエラーです。
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns/features
}

func (e *DimensionError) Error() string {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("hpml: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("axis_name", axisName).
		Str("type", "DimensionError")
}

// NewDimensionError は新しいDimensionErrorを作成し、スタックトレースを付与します。
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// ValidationError は入力パラメータの検証に失敗した場合のエラーです。
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("hpml: validation failed for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError は新しいValidationErrorを作成し、スタックトレースを付与します。
func NewValidationError(param, reason string, value interface{}) error {
	err := &ValidationError{ParamName: param, Reason: reason, Value: value}
	return errors.WithStack(err)
}

// ValueError は引数の値が不適切または不正な場合に発生するエラーです。
// 例えば、数値列に数値として解釈できないセルがある場合など。
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("hpml: %s: %s", e.Op, e.Message)
}

// NewValueError は新しいValueErrorを作成し、スタックトレースを付与します。
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// ModelError は機械学習モデルに関する一般的なエラーです。
type ModelError struct {
	Op   string
	Kind string
	Err  error
}

func (e *ModelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("hpml: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("hpml: %s: %s", e.Op, e.Kind)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// NewModelError は新しいModelErrorを作成し、スタックトレースを付与します。
func NewModelError(op, kind string, err error) error {
	modelErr := &ModelError{Op: op, Kind: kind, Err: err}
	return errors.WithStack(modelErr)
}

// ===========================================================================
//
//	パイプライン前提条件エラー
//
// ===========================================================================

// InsufficientDataError は学習データの行数が下限に満たない場合のエラーです。
type InsufficientDataError struct {
	Rows int
	Min  int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("hpml: dataset too small: need at least %d rows, got %d", e.Min, e.Rows)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *InsufficientDataError) MarshalZerologObject(event *zerolog.Event) {
	event.Int("rows", e.Rows).
		Int("min_rows", e.Min).
		Str("type", "InsufficientDataError")
}

// NewInsufficientDataError は新しいInsufficientDataErrorを作成し、スタックトレースを付与します。
func NewInsufficientDataError(rows, min int) error {
	return errors.WithStack(&InsufficientDataError{Rows: rows, Min: min})
}

// NoUsableFeaturesError はガバナンス後に利用可能な特徴量が残らない場合のエラーです。
type NoUsableFeaturesError struct {
	AllowList []string
	Dropped   []string
}

func (e *NoUsableFeaturesError) Error() string {
	msg := fmt.Sprintf("hpml: no allowed features found in dataset (allow-list: [%s])", strings.Join(e.AllowList, ", "))
	if len(e.Dropped) > 0 {
		msg += fmt.Sprintf("; dropped as forbidden: [%s]", strings.Join(e.Dropped, ", "))
	}
	return msg
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *NoUsableFeaturesError) MarshalZerologObject(event *zerolog.Event) {
	event.Strs("allow_list", e.AllowList).
		Strs("dropped", e.Dropped).
		Str("type", "NoUsableFeaturesError")
}

// NewNoUsableFeaturesError は新しいNoUsableFeaturesErrorを作成し、スタックトレースを付与します。
func NewNoUsableFeaturesError(allowList, dropped []string) error {
	return errors.WithStack(&NoUsableFeaturesError{AllowList: allowList, Dropped: dropped})
}

// MissingFeaturesError は推論データに学習時の特徴量列が欠けている場合のエラーです。
type MissingFeaturesError struct {
	Missing []string
}

func (e *MissingFeaturesError) Error() string {
	return fmt.Sprintf("hpml: scoring data is missing required feature columns: [%s]", strings.Join(e.Missing, ", "))
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *MissingFeaturesError) MarshalZerologObject(event *zerolog.Event) {
	event.Strs("missing", e.Missing).
		Str("type", "MissingFeaturesError")
}

// NewMissingFeaturesError は新しいMissingFeaturesErrorを作成し、スタックトレースを付与します。
func NewMissingFeaturesError(missing []string) error {
	return errors.WithStack(&MissingFeaturesError{Missing: missing})
}

// ===========================================================================
//
//	cockroachdb/errors ラッパー関数
//
// ===========================================================================

// Is はエラーが特定のターゲットエラーかどうかを判定します。
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As はエラーが特定の型にキャスト可能かどうかを判定します。
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap は既存のエラーをメッセージ付きでラップします。
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf は既存のエラーをフォーマット文字列でラップします。
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New は新しいエラーを作成します。
func New(message string) error {
	return errors.New(message)
}

// Newf は新しいフォーマット済みエラーを作成します。
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// Join は複数のエラーを1つにまとめます。nil は無視されます。
func Join(errs ...error) error {
	return errors.Join(errs...)
}

// WithStack はエラーにスタックトレースを付与します。
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	共通エラー変数
//
// ===========================================================================

var (
	// ErrEmptyData は空のデータが渡された場合のエラーです。
	ErrEmptyData = New("empty data")

	// ErrSingularMatrix は特異行列の場合のエラーです。
	ErrSingularMatrix = New("singular matrix")
)
