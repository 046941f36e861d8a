package feature

import (
	"context"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/pipeline"
	"github.com/rushteam/movierec/pkg/utils"
	"github.com/rushteam/movierec/review"
)

// LabelReviewSource 是请求级 Label：影评表不可用时值为 "unavailable"。
const LabelReviewSource = "review_source"

// ReviewEnrichNode 把影评聚合结果注入候选电影的特征：
//   - avg_review_score：可解析分数的平均值（只在 review_count > 0 时写入）
//   - review_count：可解析分数的条数
//
// 关联键是 Movie.ReviewKey（rotten_tomatoes_link），空键或没有影评的电影不写入任何影评特征。
// 影评表读取失败不会让节点失败：所有电影都没有影评特征（排序时落到中性分），
// 并在 rctx 上记录 review_source=unavailable。
type ReviewEnrichNode struct {
	// Dataset 为空时使用 rctx.Dataset
	Dataset core.Dataset
}

func (n *ReviewEnrichNode) Name() string        { return "feature.review" }
func (n *ReviewEnrichNode) Kind() pipeline.Kind { return pipeline.KindFeature }

func (n *ReviewEnrichNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	ds := n.Dataset
	if ds == nil && rctx != nil {
		ds = rctx.Dataset
	}
	if ds == nil {
		markUnavailable(rctx, "no dataset")
		return items, nil
	}

	records, err := ds.Reviews(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		markUnavailable(rctx, err.Error())
		return items, nil
	}

	aggs := review.Aggregate(records)
	for _, it := range items {
		if it == nil || it.Movie == nil || it.Movie.ReviewKey == "" {
			continue
		}
		agg, ok := aggs[it.Movie.ReviewKey]
		if !ok {
			continue
		}
		it.SetFeature(core.FeatureReviewCount, float64(agg.Count))
		if agg.HasScore() {
			it.SetFeature(core.FeatureAvgReviewScore, agg.AvgScore)
		}
		it.PutLabel(core.FeatureReviewCount, utils.IntLabel(agg.Count, "feature.review"))
	}
	return items, nil
}

func markUnavailable(rctx *core.RecommendContext, reason string) {
	if rctx == nil {
		return
	}
	rctx.PutLabel(LabelReviewSource, utils.Label{Value: "unavailable", Source: "feature.review"})
	rctx.PutLabel("review_error", utils.Label{Value: reason, Source: "feature.review"})
}

// ReviewsUnavailable 表示本次请求是否因影评表不可用而使用了中性分。
func ReviewsUnavailable(rctx *core.RecommendContext) bool {
	if rctx == nil {
		return false
	}
	lbl, ok := rctx.GetLabel(LabelReviewSource)
	return ok && lbl.Value == "unavailable"
}
