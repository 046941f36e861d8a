// Package dataset 提供电影目录与影评表的数据源。
//
// 推荐链路只需要把两张表读成内存中的行集合；读取方式（CSV 文件、Redis、内存）由 Source 实现决定。
package dataset

import (
	"context"

	"github.com/rushteam/movierec/core"
)

// Source 是数据集的抽象（即 core.Dataset）。
// 读取失败（文件缺失、缺少必需列、内容不可读）时返回 DATA_UNAVAILABLE 错误。
type Source = core.Dataset

// MemorySource 是内存数据源，用于测试或嵌入式调用。
// ReviewsErr 非空时 Reviews 返回该错误，用于模拟影评表不可用。
type MemorySource struct {
	MovieRows  []core.Movie
	ReviewRows []core.ReviewRecord
	ReviewsErr error
}

func (s *MemorySource) Movies(_ context.Context) ([]core.Movie, error) {
	out := make([]core.Movie, len(s.MovieRows))
	copy(out, s.MovieRows)
	return out, nil
}

func (s *MemorySource) Reviews(_ context.Context) ([]core.ReviewRecord, error) {
	if s.ReviewsErr != nil {
		return nil, s.ReviewsErr
	}
	out := make([]core.ReviewRecord, len(s.ReviewRows))
	copy(out, s.ReviewRows)
	return out, nil
}

var _ Source = (*MemorySource)(nil)
