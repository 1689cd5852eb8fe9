// Package metrics は回帰モデルの評価指標を提供します。
package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/hpml/pkg/errors"
)

// ErrZeroVariance は目的変数が定数で R² が定義できない場合のエラーです。
var ErrZeroVariance = errors.New("total sum of squares is zero (no variance in yTrue)")

func validatePair(op string, yTrue, yPred *mat.VecDense) (int, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError(op, "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError(op, n, yPred.Len(), 0)
	}
	return n, nil
}

// MSE は平均二乗誤差（Mean Squared Error）を計算する
func MSE(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := validatePair("MSE", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	var sum float64
	for i := 0; i < n; i++ {
		diff := yTrue.AtVec(i) - yPred.AtVec(i)
		sum += diff * diff
	}
	return sum / float64(n), nil
}

// RMSE は平方根平均二乗誤差（Root Mean Squared Error）を計算する
func RMSE(yTrue, yPred *mat.VecDense) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE は平均絶対誤差（Mean Absolute Error）を計算する
func MAE(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := validatePair("MAE", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += math.Abs(yTrue.AtVec(i) - yPred.AtVec(i))
	}
	return sum / float64(n), nil
}

// R2Score は決定係数（R²）を計算する
// 目的変数が定数の場合は ErrZeroVariance をラップしたエラーを返す。
func R2Score(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := validatePair("R2Score", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	yMean := stat.Mean(mat.Col(nil, 0, yTrue), nil)

	var tss, rss float64
	for i := 0; i < n; i++ {
		t := yTrue.AtVec(i)
		p := yPred.AtVec(i)
		tss += (t - yMean) * (t - yMean)
		rss += (t - p) * (t - p)
	}
	if tss == 0 {
		return 0, errors.Wrap(ErrZeroVariance, "R2Score")
	}
	return 1 - rss/tss, nil
}

// NaiveMAE は常に yTrue の平均を予測するベースラインのMAEを計算する
func NaiveMAE(yTrue *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("NaiveMAE", "empty vector")
	}
	values := mat.Col(nil, 0, yTrue)
	mean := stat.Mean(values, nil)
	floats.AddConst(-mean, values)
	var sum float64
	for _, d := range values {
		sum += math.Abs(d)
	}
	return sum / float64(n), nil
}
