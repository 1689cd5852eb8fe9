package errors

import (
	"fmt"
	"math"
)

// CheckFinite は values に NaN または Inf が含まれていればエラーを返します。
// ソルバーの出力や予測値の検証に使います。
func CheckFinite(op string, values []float64) error {
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return NewValueError(op, fmt.Sprintf("non-finite value %v at position %d", v, i))
		}
	}
	return nil
}

// SafeDivide はゼロ除算を避けた除算を行います。分母がほぼ0なら0を返します。
func SafeDivide(numerator, denominator float64) float64 {
	if math.Abs(denominator) < 1e-10 {
		return 0
	}
	return numerator / denominator
}
