package model

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/movierec/core"
)

func TestQualityModel(t *testing.T) {
	tests := []struct {
		name     string
		features map[string]float64
		want     float64
	}{
		{"no reviews", map[string]float64{}, 0.5},
		{"zero count", map[string]float64{core.FeatureReviewCount: 0}, 0.5},
		{"count without avg", map[string]float64{core.FeatureReviewCount: 3}, 0.5},
		{
			"two reviews",
			map[string]float64{core.FeatureReviewCount: 2, core.FeatureAvgReviewScore: 8.75},
			0.875 * (1 + math.Log10(3)),
		},
		{
			"nine reviews",
			map[string]float64{core.FeatureReviewCount: 9, core.FeatureAvgReviewScore: 6},
			1.2,
		},
	}
	m := &QualityModel{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.Predict(tt.features)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestLRModel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lr.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"bias": 0, "weights": {"avg_review_score": 1}}`), 0o600))

	m, err := LoadLRModel(path)
	require.NoError(t, err)
	assert.Equal(t, "lr", m.Name())

	got, err := m.Predict(map[string]float64{core.FeatureAvgReviewScore: 0, "ignored": 5})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, got, 1e-9)

	_, err = LoadLRModel(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
