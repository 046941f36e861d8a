package core

import "context"

// 数据集中使用的列名。
const (
	ColumnTitle       = "movie_title"
	ColumnGenres      = "genres"
	ColumnDirectors   = "directors"
	ColumnReviewKey   = "rotten_tomatoes_link"
	ColumnReviewScore = "review_score"
	ColumnTomatometer = "tomatometer_rating"
)

// RequiredMovieColumns 是电影目录必须包含的列。
var RequiredMovieColumns = []string{ColumnTitle, ColumnGenres, ColumnDirectors}

// Movie 是电影目录中的一行。
// Genres 是逗号拼接的类型标签，语义上按集合处理。
type Movie struct {
	ReviewKey string            `json:"rotten_tomatoes_link,omitempty"`
	Title     string            `json:"movie_title"`
	Genres    string            `json:"genres"`
	Director  string            `json:"directors"`
	Extra     map[string]string `json:"extra,omitempty"` // 其余列，例如 tomatometer_rating
}

// ReviewRecord 是一条原始影评分数记录，只在聚合时使用。
type ReviewRecord struct {
	Key      string `json:"rotten_tomatoes_link"`
	RawScore string `json:"review_score"`
}

// ReviewAggregate 是某个影评 key 的聚合结果。
// Count 为有效分数条数；Count == 0 时 AvgScore 无意义。
type ReviewAggregate struct {
	Key      string  `json:"key"`
	AvgScore float64 `json:"avg_review_score"`
	Count    int     `json:"review_count"`
}

// HasScore 表示是否存在至少一条可解析的分数。
func (a ReviewAggregate) HasScore() bool {
	return a.Count > 0
}

// DedupByTitle 按标题去重，保留首次出现的电影，顺序不变。
func DedupByTitle(movies []Movie) []Movie {
	seen := make(map[string]struct{}, len(movies))
	out := make([]Movie, 0, len(movies))
	for _, m := range movies {
		if _, ok := seen[m.Title]; ok {
			continue
		}
		seen[m.Title] = struct{}{}
		out = append(out, m)
	}
	return out
}

// Dataset 是电影目录与影评表的领域接口，由 dataset 包实现。
// 读取失败时返回 DATA_UNAVAILABLE 错误。
type Dataset interface {
	// Movies 返回电影目录（未去重，保持数据源顺序）
	Movies(ctx context.Context) ([]Movie, error)

	// Reviews 返回原始影评分数记录
	Reviews(ctx context.Context) ([]ReviewRecord, error)
}
