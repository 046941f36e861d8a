package conv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToFloat64(t *testing.T) {
	tests := []struct {
		name   string
		in     any
		want   float64
		wantOK bool
	}{
		{"float64", 1.5, 1.5, true},
		{"int", 3, 3, true},
		{"int64", int64(7), 7, true},
		{"bool", true, 1, true},
		{"numeric string", " 7.5 ", 7.5, true},
		{"bad string", "abc", 0, false},
		{"nil", nil, 0, false},
		{"slice", []int{1}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToFloat64(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfigGetters(t *testing.T) {
	cfg := map[string]any{
		"expr":       "item.score > 0.5",
		"workers":    4,
		"multiplier": 3.0,
		"factor":     1,
		"genres":     []any{"Drama", 42},
	}

	assert.Equal(t, "item.score > 0.5", ConfigGet(cfg, "expr", ""))
	assert.Equal(t, "fallback", ConfigGet(cfg, "missing", "fallback"))
	assert.Equal(t, "", ConfigGet[string](cfg, "workers", ""))

	assert.Equal(t, int64(4), ConfigGetInt64(cfg, "workers", 0))
	assert.Equal(t, int64(3), ConfigGetInt64(cfg, "multiplier", 0))
	assert.Equal(t, int64(9), ConfigGetInt64(nil, "workers", 9))

	assert.Equal(t, 1.0, ConfigGetFloat64(cfg, "factor", 0))
	assert.Equal(t, 0.2, ConfigGetFloat64(cfg, "expr", 0.2))

	assert.Equal(t, []string{"Drama", "42"}, SliceAnyToString(cfg["genres"]))
	assert.Nil(t, SliceAnyToString("not a slice"))
}

func TestMapToFloat64(t *testing.T) {
	got := MapToFloat64(map[string]any{"a": 1, "b": 0.5, "c": "2", "d": []any{}})
	assert.Equal(t, map[string]float64{"a": 1, "b": 0.5, "c": 2}, got)
	assert.Nil(t, MapToFloat64(nil))
}
