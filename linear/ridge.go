// Package linear は線形回帰モデルを提供します。
package linear

import (
	"fmt"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/hpml/core/model"
	"github.com/YuminosukeSato/hpml/core/parallel"
	"github.com/YuminosukeSato/hpml/pkg/errors"
)

// DefaultAlpha は Ridge の既定の正則化の強さ
const DefaultAlpha = 1.0

// Ridge はL2正則化付きの線形回帰モデル
// 切片は正則化しない。X と y を中心化してから (XᵀX + αI)w = Xᵀy をコレスキー分解で解く。
type Ridge struct {
	Alpha        float64
	FitIntercept bool

	Coef_      []float64 // 係数
	Intercept_ float64   // 切片

	State *model.StateManager
}

// NewRidge は新しい Ridge を作成する
//
//	reg := linear.NewRidge(linear.WithAlpha(1.0))
//	err := reg.Fit(X, y)
func NewRidge(opts ...Option) *Ridge {
	r := &Ridge{
		Alpha:        DefaultAlpha,
		FitIntercept: true,
		State:        model.NewStateManager(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// IsFitted は学習済みかどうかを返す
func (r *Ridge) IsFitted() bool {
	return r != nil && r.State.IsFitted()
}

// Fit はモデルを訓練データで学習させる。y は n×1 の列ベクトル。
func (r *Ridge) Fit(X, y mat.Matrix) error {
	rows, cols := X.Dims()
	ry, cy := y.Dims()
	if rows == 0 || cols == 0 {
		return errors.NewModelError("Ridge.Fit", "empty data", errors.ErrEmptyData)
	}
	if ry != rows {
		return errors.NewDimensionError("Ridge.Fit", rows, ry, 0)
	}
	if cy != 1 {
		return errors.NewValueError("Ridge.Fit", "y must be a column vector")
	}
	if r.Alpha < 0 {
		return errors.NewValidationError("alpha", "must be non-negative", r.Alpha)
	}
	if r.State == nil {
		r.State = model.NewStateManager()
	}
	// 再学習に失敗したら未学習に戻る
	r.State.Reset()

	xMean := make([]float64, cols)
	var yMean float64
	if r.FitIntercept {
		for j := 0; j < cols; j++ {
			var s float64
			for i := 0; i < rows; i++ {
				s += X.At(i, j)
			}
			xMean[j] = s / float64(rows)
		}
		for i := 0; i < rows; i++ {
			yMean += y.At(i, 0)
		}
		yMean /= float64(rows)
	}

	// 中心化した X と y
	Xc := mat.NewDense(rows, cols, nil)
	yc := mat.NewVecDense(rows, nil)
	parallel.ParallelizeWithThreshold(rows, 1000, func(start, end int) {
		for i := start; i < end; i++ {
			for j := 0; j < cols; j++ {
				Xc.Set(i, j, X.At(i, j)-xMean[j])
			}
			yc.SetVec(i, y.At(i, 0)-yMean)
		}
	})

	// A = XcᵀXc + αI
	var A mat.SymDense
	A.SymOuterK(1, Xc.T())
	for j := 0; j < cols; j++ {
		A.SetSym(j, j, A.At(j, j)+r.Alpha)
	}

	var b mat.VecDense
	b.MulVec(Xc.T(), yc)

	var chol mat.Cholesky
	if ok := chol.Factorize(&A); !ok {
		return errors.NewModelError("Ridge.Fit", "matrix is not positive definite", errors.ErrSingularMatrix)
	}
	var w mat.VecDense
	if err := chol.SolveVecTo(&w, &b); err != nil {
		return errors.NewModelError("Ridge.Fit", "cholesky solve failed", err)
	}

	r.Coef_ = make([]float64, cols)
	for j := 0; j < cols; j++ {
		r.Coef_[j] = w.AtVec(j)
	}
	if err := errors.CheckFinite("Ridge.Fit", r.Coef_); err != nil {
		return err
	}
	r.Intercept_ = 0
	if r.FitIntercept {
		r.Intercept_ = yMean
		for j := 0; j < cols; j++ {
			r.Intercept_ -= xMean[j] * r.Coef_[j]
		}
	}

	r.State.SetDimensions(cols, rows)
	r.State.SetFitted()
	return nil
}

// Predict は入力データに対する予測を n×1 の行列で返す
func (r *Ridge) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := r.State.RequireFitted("Ridge", "Predict"); err != nil {
		return nil, err
	}
	rows, cols := X.Dims()
	if err := r.State.RequireFeatures("Ridge.Predict", cols); err != nil {
		return nil, err
	}

	var pred mat.VecDense
	pred.MulVec(X, mat.NewVecDense(cols, r.Coef_))
	out := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		out.Set(i, 0, pred.AtVec(i)+r.Intercept_)
	}
	return out, nil
}

// Coefficients は学習された係数のコピーを返す
func (r *Ridge) Coefficients() []float64 {
	if !r.IsFitted() {
		return nil
	}
	out := make([]float64, len(r.Coef_))
	copy(out, r.Coef_)
	return out
}

// Intercept は学習された切片を返す
func (r *Ridge) Intercept() float64 {
	if !r.IsFitted() {
		return 0
	}
	return r.Intercept_
}

// String はモデル記述子 "Ridge(alpha=1.0)" を返す
func (r *Ridge) String() string {
	a := strconv.FormatFloat(r.Alpha, 'f', -1, 64)
	if r.Alpha == float64(int64(r.Alpha)) {
		a = fmt.Sprintf("%.1f", r.Alpha)
	}
	return fmt.Sprintf("Ridge(alpha=%s)", a)
}
