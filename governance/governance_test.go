package governance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/hpml/pkg/errors"
	"github.com/YuminosukeSato/hpml/pkg/log"
)

func quietGovernor(t *testing.T, p Policy) (*Governor, *log.TestLogger) {
	t.Helper()
	errors.SetWarningHandler(func(error) {})
	t.Cleanup(func() { errors.SetWarningHandler(func(error) {}) })
	logger, _ := log.NewTestLogger(log.LevelDebug)
	return NewGovernor(p, logger), logger
}

func TestGovern(t *testing.T) {
	tests := []struct {
		name        string
		columns     []string
		wantUsable  []string
		wantMissing []string
		wantDropped []string
	}{
		{
			name:        "declaration order wins over data order",
			columns:     []string{"price", "bedrooms", "square_footage"},
			wantUsable:  []string{"square_footage", "bedrooms"},
			wantMissing: []string{"bathrooms", "year_built", "lot_size", "distance_to_city_center", "school_rating"},
		},
		{
			name:        "forbidden columns are reported and never usable",
			columns:     []string{"Listing_ID", "row_index", "square_footage", "price"},
			wantUsable:  []string{"square_footage"},
			wantMissing: []string{"bedrooms", "bathrooms", "year_built", "lot_size", "distance_to_city_center", "school_rating"},
			wantDropped: []string{"Listing_ID", "row_index"},
		},
		{
			name: "all allowed present",
			columns: []string{"square_footage", "bedrooms", "bathrooms", "year_built",
				"lot_size", "distance_to_city_center", "school_rating", "price"},
			wantUsable: []string{"square_footage", "bedrooms", "bathrooms", "year_built",
				"lot_size", "distance_to_city_center", "school_rating"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _ := quietGovernor(t, DefaultPolicy())
			report, err := g.Govern(tt.columns)
			require.NoError(t, err)
			assert.Equal(t, tt.wantUsable, report.Usable)
			assert.Equal(t, tt.wantMissing, report.MissingAllowed)
			assert.Equal(t, tt.wantDropped, report.DroppedForbidden)

			// 使用列は許可リストの部分集合で、禁止パターンと交わらない
			allowed := map[string]bool{}
			for _, c := range DefaultPolicy().AllowList() {
				allowed[c] = true
			}
			for _, c := range report.Usable {
				assert.True(t, allowed[c], "%s must be allow-listed", c)
				assert.False(t, DefaultPolicy().IsForbidden(c), "%s must not match a forbidden pattern", c)
				assert.Contains(t, tt.columns, c)
			}
		})
	}
}

func TestGovernNoUsableFeatures(t *testing.T) {
	g, _ := quietGovernor(t, DefaultPolicy())
	_, err := g.Govern([]string{"id", "price"})
	require.Error(t, err)

	var nu *errors.NoUsableFeaturesError
	require.True(t, errors.As(err, &nu))
	assert.Equal(t, []string{"id"}, nu.Dropped)
	assert.Equal(t, DefaultPolicy().AllowList(), nu.AllowList)
}

func TestGovernWarningsAreNeverSwallowed(t *testing.T) {
	var warned []error
	errors.SetWarningHandler(func(w error) { warned = append(warned, w) })
	defer errors.SetWarningHandler(func(error) {})

	logger, _ := log.NewTestLogger(log.LevelDebug)
	g := NewGovernor(DefaultPolicy(), logger)
	_, err := g.Govern([]string{"listing_id", "bedrooms", "price"})
	require.NoError(t, err)

	require.Len(t, warned, 2)
	assert.Equal(t, 2, logger.CountLevel(log.LevelWarn))
	assert.True(t, logger.ContainsMessage("auto-dropped forbidden columns: [listing_id]"))
}

func TestInjectedPolicyOverlap(t *testing.T) {
	// 許可リストにあっても禁止パターンに一致すれば除外される
	p := NewPolicy([]string{"rowcount", "area", "area"}, []string{" ROW "})
	g, _ := quietGovernor(t, p)
	report, err := g.Govern([]string{"rowcount", "area"})
	require.NoError(t, err)
	assert.Equal(t, []string{"area"}, report.Usable)
	assert.Equal(t, []string{"rowcount"}, report.DroppedForbidden)
	assert.Equal(t, []string{"rowcount", "area"}, p.AllowList())
}

func TestResolveTarget(t *testing.T) {
	tests := []struct {
		name      string
		columns   []string
		requested string
		want      string
		wantRule  TargetRule
	}{
		{"requested present", []string{"a", "price", "value"}, "value", "value", TargetRequested},
		{"requested absent falls back to price", []string{"a", "price", "sale_price"}, "nope", "price", TargetPrice},
		{"price before sale_price", []string{"sale_price", "price"}, "", "price", TargetPrice},
		{"sale_price", []string{"a", "sale_price", "b"}, "", "sale_price", TargetSalePrice},
		{"last column", []string{"a", "b", "c"}, "", "c", TargetLastColumn},
		{"single column", []string{"only"}, "", "only", TargetLastColumn},
		{"empty", nil, "price", "", TargetNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, rule := ResolveTarget(tt.columns, tt.requested)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantRule, rule)
		})
	}
}

func TestGovernExcludedColumnIsPresentButNotUsable(t *testing.T) {
	g, logger := quietGovernor(t, DefaultPolicy())
	report, err := g.Govern([]string{"square_footage", "bedrooms", "listing_id"}, "bedrooms")
	require.NoError(t, err)
	assert.Equal(t, []string{"square_footage"}, report.Usable)
	assert.Equal(t, []string{"bedrooms"}, report.Excluded)
	assert.NotContains(t, report.MissingAllowed, "bedrooms")
	assert.Equal(t, []string{"listing_id"}, report.DroppedForbidden)
	assert.True(t, logger.ContainsMessage(
		"these requested features are missing in data: [bathrooms, year_built, lot_size, distance_to_city_center, school_rating]"))
}
