package filter

import (
	"context"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/pkg/textnorm"
)

// GenreFilter 按偏好类型过滤：电影的任一类型（逗号拆分、归一化后）
// 等于任一偏好类型（归一化后）即保留。
// rctx.Genres 为空时不过滤；类型字段为空的电影永远不匹配。
type GenreFilter struct{}

func (f *GenreFilter) Name() string { return "filter.genre" }

func (f *GenreFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if rctx == nil || len(rctx.Genres) == 0 {
		return false, nil
	}
	if item == nil {
		return true, nil
	}
	return !MatchGenres(item.Genres(), rctx.Genres), nil
}

// MatchGenres 判断逗号拼接的类型标签是否命中任一偏好类型。
//
//	MatchGenres("Action, Drama", []string{"drama"}) == true
//	MatchGenres("Science Fiction", []string{"sci-fi"}) == false
func MatchGenres(labels string, wanted []string) bool {
	tokens := textnorm.SplitNormalized(labels)
	if len(tokens) == 0 {
		return false
	}
	for _, w := range wanted {
		nw := textnorm.Normalize(w)
		if nw == "" {
			continue
		}
		for _, t := range tokens {
			if t == nw {
				return true
			}
		}
	}
	return false
}

// DirectorFilter 按偏好导演过滤：导演字段与任一偏好导演完全相等才保留（大小写、格式敏感）。
// rctx.Directors 为空时不过滤。
type DirectorFilter struct{}

func (f *DirectorFilter) Name() string { return "filter.director" }

func (f *DirectorFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if rctx == nil || len(rctx.Directors) == 0 {
		return false, nil
	}
	if item == nil {
		return true, nil
	}
	director := item.Director()
	for _, d := range rctx.Directors {
		if director == d {
			return false, nil
		}
	}
	return true, nil
}

var (
	_ Filter = (*GenreFilter)(nil)
	_ Filter = (*DirectorFilter)(nil)
)
