package linear

import (
	"math"
	"math/rand/v2"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/hpml/core/model"
)

func TestRidge_ZeroAlphaMatchesOLS(t *testing.T) {
	// y = 2x + 1
	X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	y := mat.NewDense(4, 1, []float64{3, 5, 7, 9})

	r := NewRidge(WithAlpha(0))
	if err := r.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}
	if math.Abs(r.Coef_[0]-2) > 1e-9 {
		t.Errorf("Expected coefficient 2.0, got %f", r.Coef_[0])
	}
	if math.Abs(r.Intercept_-1) > 1e-9 {
		t.Errorf("Expected intercept 1.0, got %f", r.Intercept_)
	}

	pred, err := r.Predict(mat.NewDense(2, 1, []float64{5, 6}))
	if err != nil {
		t.Fatalf("Failed to predict: %v", err)
	}
	for i, want := range []float64{11, 13} {
		if math.Abs(pred.At(i, 0)-want) > 1e-9 {
			t.Errorf("Expected prediction %f, got %f", want, pred.At(i, 0))
		}
	}
}

func TestRidge_ShrinksAndLeavesInterceptUnpenalised(t *testing.T) {
	// x は中心化済み: mean=0, Σx²=10, Σxy=20
	X := mat.NewDense(4, 1, []float64{-2, -1, 1, 2})
	y := mat.NewDense(4, 1, []float64{96, 98, 102, 104})

	r := NewRidge(WithAlpha(1.0))
	if err := r.Fit(X, y); err != nil {
		t.Fatal(err)
	}
	// w = Σxy / (Σx² + α) = 20/11
	if math.Abs(r.Coef_[0]-20.0/11.0) > 1e-9 {
		t.Errorf("coef = %v, want %v", r.Coef_[0], 20.0/11.0)
	}
	// 切片は正則化されず平均 100 のまま
	if math.Abs(r.Intercept_-100) > 1e-9 {
		t.Errorf("intercept = %v, want 100", r.Intercept_)
	}
}

func TestRidge_HandlesCollinearFeatures(t *testing.T) {
	// 2列目は1列目の複製。alpha>0 なら解ける
	X := mat.NewDense(4, 2, []float64{1, 1, 2, 2, 3, 3, 4, 4})
	y := mat.NewDense(4, 1, []float64{2, 4, 6, 8})

	r := NewRidge()
	if err := r.Fit(X, y); err != nil {
		t.Fatalf("collinear fit should succeed with alpha>0: %v", err)
	}
	if math.Abs(r.Coef_[0]-r.Coef_[1]) > 1e-9 {
		t.Errorf("duplicate columns should share weight: %v", r.Coef_)
	}
}

func TestRidge_Errors(t *testing.T) {
	tests := []struct {
		name string
		X    mat.Matrix
		y    mat.Matrix
		opts []Option
	}{
		{"row mismatch", mat.NewDense(3, 1, nil), mat.NewDense(2, 1, nil), nil},
		{"y not column", mat.NewDense(2, 1, nil), mat.NewDense(2, 2, nil), nil},
		{"negative alpha", mat.NewDense(2, 1, []float64{1, 2}), mat.NewDense(2, 1, []float64{1, 2}), []Option{WithAlpha(-1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := NewRidge(tt.opts...).Fit(tt.X, tt.y); err == nil {
				t.Error("expected error")
			}
		})
	}

	r := NewRidge()
	if _, err := r.Predict(mat.NewDense(1, 1, nil)); err == nil {
		t.Error("expected NotFittedError")
	}
	if r.Coefficients() != nil {
		t.Error("unfitted model should have no coefficients")
	}
}

func TestRidge_NoIntercept(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{1, 2, 3})
	y := mat.NewDense(3, 1, []float64{2, 4, 6})
	r := NewRidge(WithAlpha(0), WithFitIntercept(false))
	if err := r.Fit(X, y); err != nil {
		t.Fatal(err)
	}
	if r.Intercept() != 0 || math.Abs(r.Coefficients()[0]-2) > 1e-9 {
		t.Errorf("got coef=%v intercept=%v", r.Coefficients(), r.Intercept())
	}
}

func TestRidge_String(t *testing.T) {
	if got := NewRidge().String(); got != "Ridge(alpha=1.0)" {
		t.Errorf("String() = %q", got)
	}
	if got := NewRidge(WithAlpha(0.5)).String(); got != "Ridge(alpha=0.5)" {
		t.Errorf("String() = %q", got)
	}
}

func TestRidge_ImplementsInterfaces(t *testing.T) {
	var _ model.Regressor = NewRidge()
	var _ model.LinearModel = NewRidge()
}

// createBenchmarkData はベンチマーク用のデータを生成する
func createBenchmarkData(rows, cols int) (*mat.Dense, *mat.Dense) {
	rng := rand.New(rand.NewPCG(42, 42))
	X := mat.NewDense(rows, cols, nil)
	y := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		sum := 1.0
		for j := 0; j < cols; j++ {
			v := rng.Float64()*2.0 - 1.0
			X.Set(i, j, v)
			sum += v * float64(j+1) * 0.5
		}
		y.Set(i, 0, sum+(rng.Float64()-0.5)*0.1)
	}
	return X, y
}

func BenchmarkRidgeFit(b *testing.B) {
	sizes := []struct {
		name string
		rows int
		cols int
	}{
		{"Small_100x7", 100, 7},
		{"Medium_10000x20", 10000, 20},
	}
	for _, size := range sizes {
		X, y := createBenchmarkData(size.rows, size.cols)
		b.Run(size.name, func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if err := NewRidge().Fit(X, y); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func TestRidge_FailedRefitLeavesModelUnfitted(t *testing.T) {
	r := NewRidge()
	if err := r.Fit(mat.NewDense(3, 1, []float64{1, 2, 3}), mat.NewDense(3, 1, []float64{2, 4, 6})); err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}

	// 定数列かつ alpha=0 では正定値にならない
	r.Alpha = 0
	if err := r.Fit(mat.NewDense(3, 1, []float64{5, 5, 5}), mat.NewDense(3, 1, []float64{1, 2, 3})); err == nil {
		t.Fatal("expected error for singular system")
	}
	if r.IsFitted() {
		t.Error("model should be unfitted after a failed refit")
	}
	if _, err := r.Predict(mat.NewDense(1, 1, []float64{1})); err == nil {
		t.Error("Predict should fail after a failed refit")
	}
}
