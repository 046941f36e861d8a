package recommend

import (
	"math"
	"strconv"

	"github.com/rushteam/movierec/core"
)

// Request 是一次推荐请求。
type Request struct {
	// UserID 可选；非空时随机因子按用户确定
	UserID string `json:"user_id,omitempty"`
	// Genres 偏好类型，最多取前 5 个非空项
	Genres []string `json:"genres,omitempty"`
	// Directors 偏好导演，最多取前 3 个非空项，精确匹配
	Directors []string `json:"directors,omitempty"`
	// Count 期望返回数量 N，必须为正
	Count int `json:"count"`
	// DiversityFactor 随机项权重，超出 [0,1] 时截断
	DiversityFactor float64 `json:"diversity_factor"`
	// Params 透传给 CEL 表达式（rctx.params）
	Params map[string]any `json:"params,omitempty"`
}

// Normalize 返回清洗后的请求：trim、去掉空项、截断数量。
// Count <= 0 或类型与导演都为空时返回 INVALID_REQUEST 错误。
func (r Request) Normalize() (Request, error) {
	out := r
	out.Genres = core.CleanPreferences(r.Genres, core.MaxGenres)
	out.Directors = core.CleanPreferences(r.Directors, core.MaxDirectors)
	if out.Count <= 0 {
		return out, core.NewInvalidRequest("count must be positive, got " + strconv.Itoa(out.Count))
	}
	if len(out.Genres) == 0 && len(out.Directors) == 0 {
		return out, core.ErrInvalidRequest
	}
	return out, nil
}

// Status 区分空结果的原因。
type Status string

const (
	StatusOK      Status = "ok"
	StatusNoData  Status = "no_data"  // 电影目录不可用
	StatusNoMatch Status = "no_match" // 没有电影满足偏好
	StatusError   Status = "error"    // Pipeline 执行失败（例如表达式求值错误、超时）
)

// Result 是推荐结果。Movies 永远非 nil，失败时为空列表。
type Result struct {
	Movies     []Recommendation `json:"movies"`
	Status     Status           `json:"status"`
	Diagnostic string           `json:"diagnostic,omitempty"`
}

// Recommendation 是一条推荐结果。
type Recommendation struct {
	Title          string   `json:"title"`
	Director       string   `json:"director"`
	Genres         string   `json:"genres"`
	RatingScore    float64  `json:"rating_score"`
	RandomFactor   float64  `json:"random_factor"`
	CombinedScore  float64  `json:"combined_score"`
	ReviewCount    int      `json:"review_count"`
	AvgReviewScore *float64 `json:"avg_review_score"`
	Tomatometer    *float64 `json:"tomatometer"`
}

// CriticScore 是展示用的影评分：rating_score × 10，保留两位小数。
func (r Recommendation) CriticScore() float64 {
	return math.Round(r.RatingScore*10*100) / 100
}

func emptyResult(status Status, diagnostic string) *Result {
	return &Result{Movies: []Recommendation{}, Status: status, Diagnostic: diagnostic}
}

// fromItem 把 Pipeline 输出的 Item 转为对外结果。
func fromItem(it *core.Item) Recommendation {
	rec := Recommendation{
		Title:         it.ID,
		Director:      it.Director(),
		Genres:        it.Genres(),
		RatingScore:   it.Features[core.FeatureRatingScore],
		RandomFactor:  it.Features[core.FeatureRandomFactor],
		CombinedScore: it.Features[core.FeatureCombinedScore],
		ReviewCount:   int(it.Features[core.FeatureReviewCount]),
	}
	if v, ok := it.Feature(core.FeatureAvgReviewScore); ok {
		rec.AvgReviewScore = &v
	}
	if it.Movie != nil {
		if raw, ok := it.Movie.Extra[core.ColumnTomatometer]; ok {
			if v, err := strconv.ParseFloat(raw, 64); err == nil && !math.IsNaN(v) {
				rec.Tomatometer = &v
			}
		}
	}
	return rec
}
