package rerank

import (
	"context"
	"sort"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/pipeline"
	"github.com/rushteam/movierec/pkg/utils"
)

// DefaultPoolMultiplier 是候选池相对 N 的倍数。
const DefaultPoolMultiplier = 3

// DiversityNode 是多样性重排节点：
//  1. 按 combined_score 降序取前 PoolMultiplier×N 个作为候选池（不足则全部）
//  2. 在导演分组、类型分组内分别按分数排名（从 1 开始，分数相同保持池内顺序）
//  3. 按 (导演内排名, 类型内排名) 升序稳定排序
//
// 结果是重排后的候选池，截断到 N 由 TopNNode 完成。
// 类型分组使用原始类型字段（逗号拼接串）作为 key。
// 排名写入 features：rank_director、rank_genre。
type DiversityNode struct {
	// PoolMultiplier 候选池倍数，<= 0 时使用 DefaultPoolMultiplier
	PoolMultiplier int
	// N 目标条数，<= 0 时使用 rctx.Count；两者都 <= 0 时使用全部候选
	N int
}

func (n *DiversityNode) Name() string {
	return "rerank.diversity"
}

func (n *DiversityNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *DiversityNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	pool := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it != nil {
			pool = append(pool, it)
		}
	}
	if len(pool) == 0 {
		return pool, nil
	}

	sort.SliceStable(pool, func(i, j int) bool {
		return combinedScore(pool[i]) > combinedScore(pool[j])
	})

	if size := n.poolSize(rctx); size > 0 && len(pool) > size {
		pool = pool[:size]
	}

	directorRank := make(map[string]int, len(pool))
	genreRank := make(map[string]int, len(pool))
	for _, it := range pool {
		d := it.Director()
		directorRank[d]++
		it.SetFeature(core.FeatureRankDirector, float64(directorRank[d]))
		it.PutLabel(core.FeatureRankDirector, utils.IntLabel(directorRank[d], "rerank"))

		g := it.Genres()
		genreRank[g]++
		it.SetFeature(core.FeatureRankGenre, float64(genreRank[g]))
		it.PutLabel(core.FeatureRankGenre, utils.IntLabel(genreRank[g], "rerank"))
	}

	sort.SliceStable(pool, func(i, j int) bool {
		di, dj := pool[i].Features[core.FeatureRankDirector], pool[j].Features[core.FeatureRankDirector]
		if di != dj {
			return di < dj
		}
		return pool[i].Features[core.FeatureRankGenre] < pool[j].Features[core.FeatureRankGenre]
	})
	return pool, nil
}

func (n *DiversityNode) poolSize(rctx *core.RecommendContext) int {
	target := n.N
	if target <= 0 && rctx != nil {
		target = rctx.Count
	}
	if target <= 0 {
		return 0
	}
	mult := n.PoolMultiplier
	if mult <= 0 {
		mult = DefaultPoolMultiplier
	}
	return target * mult
}

// combinedScore 读取 combined_score 特征，缺失时退回 item.Score。
func combinedScore(it *core.Item) float64 {
	if v, ok := it.Feature(core.FeatureCombinedScore); ok {
		return v
	}
	return it.Score
}
