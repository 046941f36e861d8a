package dataset

import (
	"context"
	"fmt"
	"sort"

	"github.com/goccy/go-json"

	"github.com/rushteam/movierec/core"
)

// 默认的存储 key。
const (
	DefaultMoviesKey  = "movierec:movies"
	DefaultReviewsKey = "movierec:reviews"
)

// StoreSource 从 core.Store 读取数据集。
//   - 如果 Store 实现了 KeyValueStore，电影目录存放在 hash 中（field 为标题，value 为电影 JSON），
//     读取后按标题排序，保证同一数据集的候选顺序稳定
//   - 否则电影目录是 MoviesKey 下的 JSON 数组
//   - 影评始终是 ReviewsKey 下的 JSON 数组
type StoreSource struct {
	Store      core.Store
	MoviesKey  string
	ReviewsKey string
}

var _ Source = (*StoreSource)(nil)

func (s *StoreSource) moviesKey() string {
	if s.MoviesKey == "" {
		return DefaultMoviesKey
	}
	return s.MoviesKey
}

func (s *StoreSource) reviewsKey() string {
	if s.ReviewsKey == "" {
		return DefaultReviewsKey
	}
	return s.ReviewsKey
}

func (s *StoreSource) Movies(ctx context.Context) ([]core.Movie, error) {
	if s.Store == nil {
		return nil, core.NewDataUnavailable("store is not configured", nil)
	}
	key := s.moviesKey()

	if kv, ok := s.Store.(core.KeyValueStore); ok {
		fields, err := kv.HGetAll(ctx, key)
		if err != nil {
			return nil, core.NewDataUnavailable(fmt.Sprintf("read %s from %s", key, s.Store.Name()), err)
		}
		if len(fields) == 0 {
			return nil, core.NewDataUnavailable(fmt.Sprintf("%s is empty in %s", key, s.Store.Name()), nil)
		}
		titles := make([]string, 0, len(fields))
		for title := range fields {
			titles = append(titles, title)
		}
		sort.Strings(titles)

		movies := make([]core.Movie, 0, len(titles))
		for _, title := range titles {
			var m core.Movie
			if err := json.Unmarshal(fields[title], &m); err != nil {
				return nil, core.NewDataUnavailable(fmt.Sprintf("decode movie %q", title), err)
			}
			movies = append(movies, m)
		}
		return movies, nil
	}

	var movies []core.Movie
	if err := s.getJSON(ctx, key, &movies); err != nil {
		return nil, err
	}
	return movies, nil
}

func (s *StoreSource) Reviews(ctx context.Context) ([]core.ReviewRecord, error) {
	if s.Store == nil {
		return nil, core.NewDataUnavailable("store is not configured", nil)
	}
	var records []core.ReviewRecord
	if err := s.getJSON(ctx, s.reviewsKey(), &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *StoreSource) getJSON(ctx context.Context, key string, v any) error {
	data, err := s.Store.Get(ctx, key)
	if err != nil {
		return core.NewDataUnavailable(fmt.Sprintf("read %s from %s", key, s.Store.Name()), err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return core.NewDataUnavailable(fmt.Sprintf("decode %s", key), err)
	}
	return nil
}

// Publish 按 StoreSource 的布局把数据集写入 Store，返回写入的电影数（按标题去重后）。
// 已存在的同名 key 会先被删除。
func Publish(ctx context.Context, st core.Store, moviesKey, reviewsKey string, movies []core.Movie, reviews []core.ReviewRecord) (int, error) {
	src := &StoreSource{Store: st, MoviesKey: moviesKey, ReviewsKey: reviewsKey}
	movies = core.DedupByTitle(movies)

	if err := st.Delete(ctx, src.moviesKey()); err != nil {
		return 0, fmt.Errorf("clear %s: %w", src.moviesKey(), err)
	}

	if kv, ok := st.(core.KeyValueStore); ok {
		for _, m := range movies {
			data, err := json.Marshal(m)
			if err != nil {
				return 0, fmt.Errorf("encode movie %q: %w", m.Title, err)
			}
			if err := kv.HSet(ctx, src.moviesKey(), m.Title, data); err != nil {
				return 0, fmt.Errorf("write movie %q: %w", m.Title, err)
			}
		}
	} else {
		data, err := json.Marshal(movies)
		if err != nil {
			return 0, fmt.Errorf("encode movies: %w", err)
		}
		if err := st.Set(ctx, src.moviesKey(), data); err != nil {
			return 0, fmt.Errorf("write movies: %w", err)
		}
	}

	if reviews == nil {
		reviews = []core.ReviewRecord{}
	}
	data, err := json.Marshal(reviews)
	if err != nil {
		return 0, fmt.Errorf("encode reviews: %w", err)
	}
	if err := st.Set(ctx, src.reviewsKey(), data); err != nil {
		return 0, fmt.Errorf("write reviews: %w", err)
	}
	return len(movies), nil
}
