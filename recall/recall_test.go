package recall

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/dataset"
)

func catalogData() *dataset.MemorySource {
	return &dataset.MemorySource{MovieRows: []core.Movie{
		{Title: "Heat", Genres: "Action, Crime", Director: "Michael Mann"},
		{Title: "Alien", Genres: "Horror, Science Fiction", Director: "Ridley Scott"},
		{Title: "Heat", Genres: "Drama", Director: "Someone Else"},
		{Title: "Collateral", Genres: "Crime, Drama", Director: "Michael Mann"},
	}}
}

func TestCatalogDedupByTitle(t *testing.T) {
	rctx := &core.RecommendContext{Dataset: catalogData()}
	items, err := (&Catalog{}).Process(context.Background(), rctx, nil)
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, "Heat", items[0].ID)
	assert.Equal(t, "Michael Mann", items[0].Director())
	assert.Equal(t, "Alien", items[1].ID)
	assert.Equal(t, "Collateral", items[2].ID)
	assert.Equal(t, "catalog", items[0].Labels["recall_source"].Value)
}

func TestCatalogPrefersOwnDataset(t *testing.T) {
	own := &dataset.MemorySource{MovieRows: []core.Movie{{Title: "Only"}}}
	rctx := &core.RecommendContext{Dataset: catalogData()}
	items, err := (&Catalog{Dataset: own, Label: "editorial"}).Recall(context.Background(), rctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Only", items[0].ID)
	assert.Equal(t, "editorial", items[0].Labels["recall_source"].Value)
}

func TestCatalogWithoutDataset(t *testing.T) {
	_, err := (&Catalog{}).Recall(context.Background(), &core.RecommendContext{})
	require.Error(t, err)
	assert.True(t, core.IsDataUnavailable(err))
}

type staticSource struct {
	name  string
	items []string
	err   error
}

func (s *staticSource) Name() string { return s.name }

func (s *staticSource) Recall(context.Context, *core.RecommendContext) ([]*core.Item, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]*core.Item, 0, len(s.items))
	for _, id := range s.items {
		out = append(out, core.NewItem(id))
	}
	return out, nil
}

func TestFanoutMergesInSourceOrder(t *testing.T) {
	n := &Fanout{
		Dedup: true,
		Sources: []Source{
			&staticSource{name: "a", items: []string{"x", "y"}},
			&staticSource{name: "b", items: []string{"y", "z"}},
			&staticSource{name: "broken", err: errors.New("boom")},
		},
	}

	for i := 0; i < 20; i++ {
		items, err := n.Process(context.Background(), &core.RecommendContext{}, nil)
		require.NoError(t, err)
		ids := make([]string, 0, len(items))
		for _, it := range items {
			ids = append(ids, it.ID)
		}
		assert.Equal(t, []string{"x", "y", "z"}, ids)
		assert.Equal(t, "0|1", items[1].Labels["recall_priority"].Value)
	}
}

func TestFanoutRequired(t *testing.T) {
	n := &Fanout{
		Required: true,
		Sources: []Source{
			&staticSource{name: "a", items: []string{"x"}},
			&staticSource{name: "broken", err: errors.New("boom")},
		},
	}
	_, err := n.Process(context.Background(), &core.RecommendContext{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recall broken")
}

func TestFanoutAllFailed(t *testing.T) {
	n := &Fanout{Sources: []Source{&staticSource{name: "broken", err: errors.New("boom")}}}
	_, err := n.Process(context.Background(), &core.RecommendContext{}, nil)
	require.Error(t, err)
}
