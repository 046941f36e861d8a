package core

import "github.com/rushteam/movierec/pkg/utils"

// 推荐链路中常用的特征 key。
const (
	FeatureRatingScore    = "rating_score"
	FeatureRandomFactor   = "random_factor"
	FeatureCombinedScore  = "combined_score"
	FeatureAvgReviewScore = "avg_review_score"
	FeatureReviewCount    = "review_count"
	FeatureRankDirector   = "rank_director"
	FeatureRankGenre      = "rank_genre"
)

// Item 是推荐链路中的统一承载结构：电影本体、特征、分数、元信息、标签。
// Labels 用于解释与策略驱动；Score 用于排序决策（排序后等于 combined_score）。
type Item struct {
	ID       string // 电影标题，去重后唯一
	Movie    *Movie
	Score    float64
	Features map[string]float64
	Meta     map[string]any
	Labels   map[string]utils.Label
}

func NewItem(id string) *Item {
	return &Item{
		ID:       id,
		Score:    0,
		Features: make(map[string]float64),
		Meta:     make(map[string]any),
		Labels:   make(map[string]utils.Label),
	}
}

// NewMovieItem 用一部电影构造 Item，ID 取标题。
func NewMovieItem(m *Movie) *Item {
	it := NewItem(m.Title)
	it.Movie = m
	return it
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}

// SetFeature 写入数值特征。
func (it *Item) SetFeature(key string, v float64) {
	if it.Features == nil {
		it.Features = make(map[string]float64)
	}
	it.Features[key] = v
}

// Feature 读取数值特征，不存在时返回 (0, false)。
func (it *Item) Feature(key string) (float64, bool) {
	if it.Features == nil {
		return 0, false
	}
	v, ok := it.Features[key]
	return v, ok
}

// Director 返回导演字段；没有 Movie 时为空串。
func (it *Item) Director() string {
	if it.Movie == nil {
		return ""
	}
	return it.Movie.Director
}

// Genres 返回原始类型字段（逗号拼接）。
func (it *Item) Genres() string {
	if it.Movie == nil {
		return ""
	}
	return it.Movie.Genres
}
