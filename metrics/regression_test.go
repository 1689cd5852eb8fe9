package metrics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/hpml/pkg/errors"
)

func vec(values ...float64) *mat.VecDense {
	return mat.NewVecDense(len(values), values)
}

func TestRegressionMetrics(t *testing.T) {
	tests := []struct {
		name    string
		metric  func(a, b *mat.VecDense) (float64, error)
		yTrue   *mat.VecDense
		yPred   *mat.VecDense
		want    float64
		wantErr bool
	}{
		{"MSE perfect", MSE, vec(1, 2, 3), vec(1, 2, 3), 0, false},
		{"MSE simple", MSE, vec(1, 2, 3, 4), vec(1.5, 2.5, 2.5, 3.5), 0.25, false},
		{"MSE mismatch", MSE, vec(1, 2, 3), vec(1, 2), 0, true},
		{"MSE empty", MSE, &mat.VecDense{}, &mat.VecDense{}, 0, true},
		{"RMSE", RMSE, vec(10, 20, 30), vec(12, 18, 33), math.Sqrt(17.0 / 3.0), false},
		{"MAE", MAE, vec(10, 20, 30), vec(12, 18, 33), 7.0 / 3.0, false},
		{"MAE mismatch", MAE, vec(1), vec(1, 2), 0, true},
		{"R2 perfect", R2Score, vec(1, 2, 3), vec(1, 2, 3), 1, false},
		// mean=2, tss=2, rss=0.5
		{"R2 partial", R2Score, vec(1, 2, 3), vec(1.5, 2, 2.5), 0.75, false},
		{"R2 constant target", R2Score, vec(5, 5, 5), vec(5, 5, 5), 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.metric(tt.yTrue, tt.yPred)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && math.Abs(got-tt.want) > 1e-10 {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestR2ScoreZeroVarianceIsDetectable(t *testing.T) {
	_, err := R2Score(vec(3, 3), vec(1, 2))
	if !errors.Is(err, ErrZeroVariance) {
		t.Errorf("expected ErrZeroVariance, got %v", err)
	}
}

func TestNaiveMAE(t *testing.T) {
	got, err := NaiveMAE(vec(100, 200, 300, 400))
	if err != nil {
		t.Fatal(err)
	}
	// mean=250 -> |150|+|50|+|50|+|150| / 4
	if got != 100 {
		t.Errorf("NaiveMAE = %v, want 100", got)
	}
	if _, err := NaiveMAE(&mat.VecDense{}); err == nil {
		t.Error("expected error for empty vector")
	}
}

func BenchmarkMAE(b *testing.B) {
	n := 10000
	yTrue := mat.NewVecDense(n, nil)
	yPred := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		yTrue.SetVec(i, float64(i))
		yPred.SetVec(i, float64(i)+0.5)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = MAE(yTrue, yPred)
	}
}
