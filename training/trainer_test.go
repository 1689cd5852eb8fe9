package training

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/hpml/core/frame"
	"github.com/YuminosukeSato/hpml/governance"
	"github.com/YuminosukeSato/hpml/pipeline"
	"github.com/YuminosukeSato/hpml/pkg/errors"
	"github.com/YuminosukeSato/hpml/pkg/log"
)

// twelveHouses は square_footage,bedrooms,price の12行データ
func twelveHouses(t *testing.T) *frame.Frame {
	t.Helper()
	rows := make([][]string, 0, 12)
	noise := []float64{3000, -2000, 1500, -4000, 2500, -1000, 500, -3500, 4000, -1500, 2000, -2500}
	for i := 0; i < 12; i++ {
		sqft := 800 + 150*i
		beds := 1 + i%4
		price := 150*float64(sqft) + 12000*float64(beds) + 20000 + noise[i]
		rows = append(rows, []string{fmt.Sprint(sqft), fmt.Sprint(beds), fmt.Sprintf("%.0f", price)})
	}
	f, err := frame.New([]string{"square_footage", "bedrooms", "price"}, rows)
	require.NoError(t, err)
	return f
}

func newTestTrainer(t *testing.T) (*Trainer, *log.TestLogger) {
	t.Helper()
	errors.SetWarningHandler(func(error) {})
	t.Cleanup(func() { errors.SetWarningHandler(func(error) {}) })
	logger, _ := log.NewTestLogger(log.LevelDebug)
	fixed := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	return New(governance.DefaultPolicy(), WithLogger(logger), WithClock(func() time.Time { return fixed })), logger
}

func TestTrainTwelveRows(t *testing.T) {
	tr, logger := newTestTrainer(t)
	data := twelveHouses(t)

	res, err := tr.Train(context.Background(), data, "")
	require.NoError(t, err)

	assert.Equal(t, "price", res.Target)
	assert.Equal(t, governance.TargetPrice, res.TargetRule)
	assert.Equal(t, []string{"square_footage", "bedrooms"}, res.FeaturesUsed)
	assert.Equal(t, 12, res.NSamples)

	prices, err := data.Float64Column("price")
	require.NoError(t, err)
	var sum float64
	for _, p := range prices {
		sum += p
	}
	assert.InDelta(t, sum/12, res.TrainMean, 1e-6)

	assert.Greater(t, res.Metrics.NaiveMAE, res.Metrics.MAE)
	assert.Greater(t, res.Metrics.Lift(), 0.0)
	assert.Greater(t, res.Metrics.R2, 0.9)
	assert.GreaterOrEqual(t, res.Metrics.RMSE, res.Metrics.MAE)

	require.True(t, res.Coefficients.OK())
	require.NotNil(t, res.Coefficients.Intercept)
	assert.Len(t, res.Coefficients.Coefficients, 2)
	assert.Contains(t, res.Coefficients.Coefficients, "num__square_footage")
	top := res.Coefficients.Top(10)
	require.Len(t, top, 2)
	assert.Equal(t, "num__square_footage", top[0].Feature)

	assert.NotEmpty(t, res.ModelVersion)
	assert.Equal(t, time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC), res.TrainedAt)
	assert.Len(t, res.Predicted, 12)
	assert.True(t, logger.ContainsMessage("Training completed"))
}

func TestTrainInsufficientData(t *testing.T) {
	tr, _ := newTestTrainer(t)
	f, err := frame.New([]string{"square_footage", "price"}, [][]string{
		{"1000", "1"}, {"1100", "2"}, {"1200", "3"}, {"1300", "4"}, {"1400", "5"},
	})
	require.NoError(t, err)

	res, err := tr.Train(context.Background(), f, "")
	require.Error(t, err)
	assert.Nil(t, res)

	var ins *errors.InsufficientDataError
	require.True(t, errors.As(err, &ins))
	assert.Equal(t, 5, ins.Rows)
	assert.Equal(t, MinRows, ins.Min)
}

func TestTrainNoUsableFeatures(t *testing.T) {
	tr, _ := newTestTrainer(t)
	rows := make([][]string, 10)
	for i := range rows {
		rows[i] = []string{fmt.Sprint(i), "x", fmt.Sprint(100 + i)}
	}
	f, err := frame.New([]string{"listing_id", "color", "price"}, rows)
	require.NoError(t, err)

	_, err = tr.Train(context.Background(), f, "")
	var nu *errors.NoUsableFeaturesError
	require.True(t, errors.As(err, &nu), "got %v", err)
	assert.Equal(t, []string{"listing_id"}, nu.Dropped)
}

func TestTrainNonNumericTarget(t *testing.T) {
	tr, _ := newTestTrainer(t)
	rows := make([][]string, 10)
	for i := range rows {
		rows[i] = []string{fmt.Sprint(1000 + i), "expensive"}
	}
	f, err := frame.New([]string{"square_footage", "price"}, rows)
	require.NoError(t, err)

	_, err = tr.Train(context.Background(), f, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `target column "price" must be numeric`)
}

func TestTrainRequestedTargetIsNotAFeature(t *testing.T) {
	tr, _ := newTestTrainer(t)
	data := twelveHouses(t)

	res, err := tr.Train(context.Background(), data, "bedrooms")
	require.NoError(t, err)
	assert.Equal(t, governance.TargetRequested, res.TargetRule)
	assert.Equal(t, []string{"square_footage"}, res.FeaturesUsed)
	assert.Equal(t, []string{"bedrooms"}, res.Governance.Excluded)
	assert.NotContains(t, res.Governance.MissingAllowed, "bedrooms")
	assert.Equal(t, []string{"bathrooms", "year_built", "lot_size", "distance_to_city_center", "school_rating"},
		res.Governance.MissingAllowed)
}

func TestTrainConstantTargetWarnsAndContinues(t *testing.T) {
	var warned []error
	tr, _ := newTestTrainer(t)
	errors.SetWarningHandler(func(w error) { warned = append(warned, w) })

	rows := make([][]string, 10)
	for i := range rows {
		rows[i] = []string{fmt.Sprint(1000 + i), "5"}
	}
	f, err := frame.New([]string{"square_footage", "price"}, rows)
	require.NoError(t, err)

	res, err := tr.Train(context.Background(), f, "")
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Metrics.R2)

	var undefined *errors.UndefinedMetricWarning
	found := false
	for _, w := range warned {
		if errors.As(w, &undefined) {
			found = true
		}
	}
	assert.True(t, found, "expected UndefinedMetricWarning")
}

func TestTrainCoefficientFailureIsRecovered(t *testing.T) {
	orig := extractCoefficients
	extractCoefficients = func(*pipeline.Pipeline) ([]Coefficient, float64, error) {
		panic("named_steps unavailable")
	}
	defer func() { extractCoefficients = orig }()

	tr, logger := newTestTrainer(t)
	res, err := tr.Train(context.Background(), twelveHouses(t), "")
	require.NoError(t, err, "training must succeed even when coefficients cannot be read")

	assert.False(t, res.Coefficients.OK())
	assert.Empty(t, res.Coefficients.Coefficients)
	assert.Nil(t, res.Coefficients.Intercept)
	assert.Contains(t, res.Coefficients.Err.Error(), "named_steps unavailable")
	assert.True(t, logger.ContainsMessage("Coefficient extraction failed"))
}

func TestTrainHonoursCancelledContext(t *testing.T) {
	tr, _ := newTestTrainer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := tr.Train(ctx, twelveHouses(t), "")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCoefficientReportTop(t *testing.T) {
	r := CoefficientReport{Ordered: []Coefficient{
		{"a", 1}, {"b", -5}, {"c", 3}, {"d", -1},
	}}
	top := r.Top(3)
	require.Len(t, top, 3)
	assert.Equal(t, []string{"b", "c", "a"}, []string{top[0].Feature, top[1].Feature, top[2].Feature})
}

func TestTrainExactLinearPrice(t *testing.T) {
	tr, _ := newTestTrainer(t)
	rows := make([][]string, 12)
	var sum float64
	for i := range rows {
		sqft := 700 + 95*i
		price := 100 + 2*float64(sqft)
		sum += price
		rows[i] = []string{fmt.Sprint(sqft), fmt.Sprint(1 + i%3), fmt.Sprint(price)}
	}
	data, err := frame.New([]string{"square_footage", "bedrooms", "price"}, rows)
	require.NoError(t, err)

	res, err := tr.Train(context.Background(), data, "")
	require.NoError(t, err)
	assert.Greater(t, res.Metrics.NaiveMAE, res.Metrics.MAE)
	assert.InDelta(t, sum/12, res.TrainMean, 1e-9)
	assert.Subset(t, governance.DefaultPolicy().AllowList(), res.FeaturesUsed)
}

func TestTrainAlphaIsRecordedInDescriptor(t *testing.T) {
	tr, _ := newTestTrainer(t)
	res, err := tr.Train(context.Background(), twelveHouses(t), "")
	require.NoError(t, err)
	assert.Equal(t, "Ridge(alpha=1.0)", res.Pipeline.Regressor.String())

	logger, _ := log.NewTestLogger(log.LevelError)
	tuned := New(governance.DefaultPolicy(), WithLogger(logger), WithAlpha(0.5))
	res, err = tuned.Train(context.Background(), twelveHouses(t), "")
	require.NoError(t, err)
	assert.Equal(t, "Ridge(alpha=0.5)", res.Pipeline.Regressor.String())
}
