package rank

import (
	"context"
	"crypto/md5"
	"encoding/binary"
	"math/rand"
	"sort"
	"time"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/model"
	"github.com/rushteam/movierec/pipeline"
	"github.com/rushteam/movierec/pkg/utils"
)

// ScoreNode 是综合打分 Node：
//   - rating_score：Model 的预测分（默认 QualityModel）
//   - random_factor：[0,1) 随机因子；有 UserID 时按用户确定，同一用户同一候选集结果可复现
//   - combined_score = (1-d)*rating_score + d*random_factor，d 为 rctx.DiversityFactor（截断到 [0,1]）
//
// 写入 features 与 labels：rank_model，更新 item.Score 并按分数降序稳定排序。
type ScoreNode struct {
	Model model.RankModel

	// RandSource 非空时替代默认随机源（测试用，不能跨请求并发共享）
	RandSource rand.Source
}

func (n *ScoreNode) Name() string        { return "rank.score" }
func (n *ScoreNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *ScoreNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	m := n.Model
	if m == nil {
		m = &model.QualityModel{}
	}

	var (
		userID string
		d      float64
	)
	if rctx != nil {
		userID = rctx.UserID
		d = ClampUnit(rctx.DiversityFactor)
	}
	rng := n.rand(userID)

	// 随机因子按候选顺序抽取
	for _, it := range items {
		if it == nil {
			continue
		}
		rating, err := m.Predict(it.Features)
		if err != nil {
			return nil, err
		}
		random := rng.Float64()
		combined := (1-d)*rating + d*random

		it.SetFeature(core.FeatureRatingScore, rating)
		it.SetFeature(core.FeatureRandomFactor, random)
		it.SetFeature(core.FeatureCombinedScore, combined)
		it.Score = combined
		it.PutLabel("rank_model", utils.Label{Value: m.Name(), Source: "rank"})
	}

	SortByScore(items)
	return items, nil
}

func (n *ScoreNode) rand(userID string) *rand.Rand {
	if n.RandSource != nil {
		return rand.New(n.RandSource)
	}
	if userID != "" {
		return rand.New(rand.NewSource(int64(SeedFromUser(userID))))
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// SeedFromUser 把用户 ID 映射为随机种子：MD5 摘要按大端整数取模 2^32（即摘要的低 32 位）。
func SeedFromUser(userID string) uint32 {
	sum := md5.Sum([]byte(userID))
	return binary.BigEndian.Uint32(sum[12:16])
}

// ClampUnit 把 v 截断到 [0,1]。
func ClampUnit(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	case v != v: // NaN
		return 0
	}
	return v
}

// SortByScore 按 item.Score 降序稳定排序，nil 排在最后。
func SortByScore(items []*core.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i] == nil {
			return false
		}
		if items[j] == nil {
			return true
		}
		return items[i].Score > items[j].Score
	})
}
