package dataset

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Prefetch 并发读取电影目录与影评表，返回内存快照。
//
// 电影目录读取失败时返回错误（推荐无法进行）；影评表读取失败不算失败，
// 错误记录在快照的 ReviewsErr 中，后续节点按无影评处理。
func Prefetch(ctx context.Context, src Source) (*MemorySource, error) {
	snap := &MemorySource{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		movies, err := src.Movies(gctx)
		if err != nil {
			return err
		}
		snap.MovieRows = movies
		return nil
	})
	g.Go(func() error {
		reviews, err := src.Reviews(gctx)
		if err != nil {
			snap.ReviewsErr = err
			return nil
		}
		snap.ReviewRows = reviews
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}
