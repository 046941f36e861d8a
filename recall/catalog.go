package recall

import (
	"context"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/pipeline"
	"github.com/rushteam/movierec/pkg/utils"
)

// Catalog 是电影目录召回源：把整个目录按标题去重后作为候选集。
// - 如果 Dataset 非空，从 Dataset 读取
// - 否则从 rctx.Dataset 读取（由 recommend.Engine 注入的请求级快照）
// 同一标题只保留首次出现的电影。
// Catalog 同时实现了 Source 和 Node 接口，可以直接在 Pipeline 中使用。
type Catalog struct {
	Dataset core.Dataset
	Label   string // recall_source 的值，默认 "catalog"
}

func (r *Catalog) Name() string        { return "recall.catalog" }
func (r *Catalog) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口：忽略上游 items，直接召回
func (r *Catalog) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口
func (r *Catalog) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	ds := r.Dataset
	if ds == nil && rctx != nil {
		ds = rctx.Dataset
	}
	if ds == nil {
		return nil, core.NewDataUnavailable("no dataset configured for catalog recall", nil)
	}

	movies, err := ds.Movies(ctx)
	if err != nil {
		return nil, err
	}
	movies = core.DedupByTitle(movies)

	label := r.Label
	if label == "" {
		label = "catalog"
	}
	out := make([]*core.Item, 0, len(movies))
	for i := range movies {
		it := core.NewMovieItem(&movies[i])
		it.PutLabel("recall_source", utils.Label{Value: label, Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}

var _ Source = (*Catalog)(nil)
var _ pipeline.Node = (*Catalog)(nil)
