package model

import (
	"math"

	"github.com/rushteam/movierec/core"
)

// NeutralScore 是没有可用影评时的中性质量分。
const NeutralScore = 0.5

// QualityModel 根据影评聚合特征计算质量分：
//
//	review_count > 0 且存在 avg_review_score 时：(avg/10) * (1 + log10(count + 1))
//	否则：0.5
//
// 影评越多，平均分的置信度越高，分数随条数按对数放大。
type QualityModel struct{}

func (m *QualityModel) Name() string { return "quality" }

func (m *QualityModel) Predict(features map[string]float64) (float64, error) {
	return QualityScore(features), nil
}

// QualityScore 是 QualityModel 的纯函数形式。
func QualityScore(features map[string]float64) float64 {
	count, ok := features[core.FeatureReviewCount]
	if !ok || count <= 0 {
		return NeutralScore
	}
	avg, ok := features[core.FeatureAvgReviewScore]
	if !ok {
		return NeutralScore
	}
	return (avg / 10) * (1 + math.Log10(count+1))
}

var _ RankModel = (*QualityModel)(nil)
