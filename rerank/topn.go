package rerank

import (
	"context"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/pipeline"
)

// TopNNode 是一个 Top-N 截断节点，用于在重排后截取前 N 部电影。
//
// 示例：
//
//	pipeline := &pipeline.Pipeline{
//	    Nodes: []pipeline.Node{
//	        &rank.ScoreNode{},                        // 综合打分
//	        &rerank.DiversityNode{PoolMultiplier: 3}, // 多样性重排
//	        &rerank.TopNNode{},                       // 截取 rctx.Count 个
//	    },
//	}
type TopNNode struct {
	// N 要保留的数量；N <= 0 时使用 rctx.Count
	// 两者都 <= 0 时返回所有物品（不截断），N > len(items) 时返回所有物品
	N int
}

func (n *TopNNode) Name() string {
	return "rerank.topn"
}

func (n *TopNNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopNNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	limit := n.N
	if limit <= 0 && rctx != nil {
		limit = rctx.Count
	}
	if limit <= 0 || len(items) <= limit {
		return items, nil
	}
	return items[:limit], nil
}
