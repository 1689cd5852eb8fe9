package pipeline

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/hpml/core/frame"
	"github.com/YuminosukeSato/hpml/core/model"
	"github.com/YuminosukeSato/hpml/pkg/errors"
	"github.com/YuminosukeSato/hpml/pkg/log"
	"github.com/YuminosukeSato/hpml/preprocessing"
)

func houses(t *testing.T) (*frame.Frame, *mat.VecDense) {
	t.Helper()
	f, err := frame.New([]string{"square_footage", "neighborhood", "price"}, [][]string{
		{"1000", "north", "200000"},
		{"1500", "south", "290000"},
		{"2000", "north", "410000"},
		{"2500", "south", "480000"},
		{"3000", "north", "610000"},
	})
	require.NoError(t, err)
	y, err := f.Float64Column("price")
	require.NoError(t, err)
	return f, mat.NewVecDense(len(y), y)
}

func TestBuildClassifiesAndFreezesKinds(t *testing.T) {
	f, _ := houses(t)
	logger, _ := log.NewTestLogger(log.LevelDebug)

	p, err := Build(f, []string{"square_footage", "neighborhood"}, WithLogger(logger))
	require.NoError(t, err)
	assert.Equal(t, []preprocessing.Kind{preprocessing.Numeric, preprocessing.Categorical}, p.Kinds)
	assert.Equal(t, []string{"square_footage"}, p.Preprocessor.NumericColumns)
	assert.Equal(t, []string{"neighborhood"}, p.Preprocessor.CategoricalColumns)
	assert.Equal(t, "Pipeline(preprocessor=ColumnTransformer(num=[square_footage], cat=[neighborhood]), regressor=Ridge(alpha=1.0))", p.String())
	assert.True(t, logger.ContainsMessage("Pipeline built"))
}

func TestBuildErrors(t *testing.T) {
	f, _ := houses(t)
	_, err := Build(f, nil)
	require.Error(t, err)

	_, err = Build(f, []string{"bedrooms"})
	var vErr *errors.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "column", vErr.ParamName)
	assert.Contains(t, err.Error(), "no such column in data (got: bedrooms)")
}

func TestFitPredict(t *testing.T) {
	f, y := houses(t)
	p, err := Build(f, []string{"square_footage", "neighborhood"}, WithLogger(nopLogger()))
	require.NoError(t, err)

	_, err = p.Predict(f)
	require.Error(t, err, "predict before fit should fail")

	require.NoError(t, p.Fit(f, y))
	pred, err := p.Predict(f)
	require.NoError(t, err)
	assert.Equal(t, 5, pred.Len())
	// 単調に増える価格に対して予測も増加する
	for i := 1; i < pred.Len(); i++ {
		assert.Greater(t, pred.AtVec(i), pred.AtVec(i-1)-50000)
	}

	assert.Equal(t,
		[]string{"num__square_footage", "cat__neighborhood_north", "cat__neighborhood_south"},
		p.FeatureNamesOut())

	require.Error(t, p.Fit(f, mat.NewVecDense(2, nil)))
}

func TestPipelineGobRoundTrip(t *testing.T) {
	f, y := houses(t)
	p, err := Build(f, []string{"square_footage", "neighborhood"}, WithLogger(nopLogger()))
	require.NoError(t, err)
	require.NoError(t, p.Fit(f, y))
	want, err := p.Predict(f)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "pipe.gob")
	require.NoError(t, model.SaveModel(p, path))

	var loaded Pipeline
	require.NoError(t, model.LoadModel(&loaded, path))
	loaded.SetLogger(nopLogger())
	require.True(t, loaded.IsFitted())

	got, err := loaded.Predict(f)
	require.NoError(t, err)
	assert.True(t, mat.Equal(want, got), "predictions must be identical after reload")
}

func TestNumericOnlyPipelineSurvivesGob(t *testing.T) {
	f, err := frame.New([]string{"x"}, [][]string{{"1"}, {"2"}, {"3"}})
	require.NoError(t, err)
	p, err := Build(f, []string{"x"}, WithLogger(nopLogger()))
	require.NoError(t, err)
	require.NoError(t, p.Fit(f, mat.NewVecDense(3, []float64{2, 4, 6})))

	path := filepath.Join(t.TempDir(), "pipe.gob")
	require.NoError(t, model.SaveModel(p, path))
	var loaded Pipeline
	require.NoError(t, model.LoadModel(&loaded, path))
	loaded.SetLogger(nopLogger())

	pred, err := loaded.Predict(f)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, pred.AtVec(1), 1e-9)
	assert.Equal(t, []string{"num__x"}, loaded.FeatureNamesOut())
}

func nopLogger() log.Logger {
	l, _ := log.NewTestLogger(log.LevelError)
	return l
}
