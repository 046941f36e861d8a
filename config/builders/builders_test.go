package builders_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/movierec/config"
	_ "github.com/rushteam/movierec/config/builders"
	"github.com/rushteam/movierec/filter"
	"github.com/rushteam/movierec/model"
	"github.com/rushteam/movierec/pipeline"
	"github.com/rushteam/movierec/rank"
	"github.com/rushteam/movierec/rerank"
)

const pipelineYAML = `
pipeline:
  name: movies
  nodes:
    - type: recall.catalog
    - type: filter
      config:
        workers: 4
        filters:
          - type: genre
          - type: director
          - type: expr
            expr: 'item.title != ""'
          - type: blacklist
            titles: [Jaws]
            key: movierec:blacklist
    - type: feature.review
    - type: feature.extra
      config:
        columns: [tomatometer_rating]
    - type: rank.score
      config:
        model: lr
        bias: 0.1
        weights:
          avg_review_score: 0.2
    - type: rerank.diversity
      config:
        pool_multiplier: 2
    - type: rerank.topn
`

func TestBuildPipelineFromYAML(t *testing.T) {
	cfg, err := pipeline.ParseYAML([]byte(pipelineYAML))
	require.NoError(t, err)
	require.NoError(t, config.ValidatePipelineConfig(cfg))

	p, err := cfg.BuildPipeline(config.DefaultFactory())
	require.NoError(t, err)
	require.Len(t, p.Nodes, 7)

	names := make([]string, 0, len(p.Nodes))
	for _, n := range p.Nodes {
		names = append(names, n.Name())
	}
	assert.Equal(t, []string{
		"recall.catalog", "filter.node", "feature.review", "feature.extra",
		"rank.score", "rerank.diversity", "rerank.topn",
	}, names)

	fn := p.Nodes[1].(*filter.FilterNode)
	assert.Equal(t, 4, fn.Workers)
	require.Len(t, fn.Filters, 4)
	bl, ok := fn.Filters[3].(*filter.BlacklistFilter)
	require.True(t, ok)
	assert.Equal(t, []string{"Jaws"}, bl.Titles)
	assert.Equal(t, "movierec:blacklist", bl.Key)
	assert.Nil(t, bl.Store)

	sn := p.Nodes[4].(*rank.ScoreNode)
	lr, ok := sn.Model.(*model.LRModel)
	require.True(t, ok)
	assert.Equal(t, 0.1, lr.Bias)
	assert.Equal(t, 0.2, lr.Weights["avg_review_score"])

	dn := p.Nodes[5].(*rerank.DiversityNode)
	assert.Equal(t, 2, dn.PoolMultiplier)
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown node", "pipeline:\n  nodes:\n    - type: rank.magic\n"},
		{"bad expr", "pipeline:\n  nodes:\n    - type: filter\n      config:\n        filters:\n          - type: expr\n            expr: 'item.title =='\n"},
		{"unknown filter", "pipeline:\n  nodes:\n    - type: filter\n      config:\n        filters:\n          - type: exposed\n"},
		{"unknown model", "pipeline:\n  nodes:\n    - type: rank.score\n      config:\n        model: dnn\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := pipeline.ParseYAML([]byte(tt.yaml))
			require.NoError(t, err)
			_, err = cfg.BuildPipeline(config.DefaultFactory())
			assert.Error(t, err)
		})
	}
}

func TestSupportedTypes(t *testing.T) {
	types := config.SupportedTypes()
	assert.Contains(t, types, "recall.catalog")
	assert.Contains(t, types, "rerank.topn")

	cfg, err := pipeline.ParseYAML([]byte("pipeline:\n  nodes:\n    - type: nope\n"))
	require.NoError(t, err)
	err = config.ValidatePipelineConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recall.catalog")
}
