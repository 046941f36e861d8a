package recommend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/rushteam/movierec/config"
	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/dataset"
	"github.com/rushteam/movierec/feature"
	"github.com/rushteam/movierec/filter"
	"github.com/rushteam/movierec/model"
	"github.com/rushteam/movierec/pipeline"
	"github.com/rushteam/movierec/rank"
	"github.com/rushteam/movierec/recall"
	"github.com/rushteam/movierec/rerank"
)

// Options 是 Engine 的可选配置。
type Options struct {
	// PoolMultiplier 多样性候选池倍数（默认 3）
	PoolMultiplier int
	// FilterWorkers 过滤阶段并发数（<= 1 表示串行）
	FilterWorkers int
	// FilterExpr 可选的 CEL 过滤表达式，追加在类型/导演过滤之后
	FilterExpr string
	// BlacklistKey 可选的黑名单 key，从 Store 中按请求读取
	BlacklistKey string
	// Store 可选的键值存储，作为 rctx.Store 供节点使用（例如自定义 Pipeline 中的 blacklist 过滤器）
	Store core.Store
	// Model 评分模型（默认 QualityModel）
	Model model.RankModel
	// Pipeline 自定义 Pipeline 配置；为空时使用默认 Pipeline
	Pipeline *pipeline.Config
	// Timeout 单次请求超时（0 表示不限制）
	Timeout time.Duration
}

// Engine 是推荐入口：清洗请求、预取数据集、执行 Pipeline 并组装结果。
// 每次请求都会重新读取数据集，请求之间不共享可变状态，可以并发使用。
type Engine struct {
	source dataset.Source
	logger zerolog.Logger
	opts   Options

	// custom 非空时所有请求共用该 Pipeline（节点必须无状态）
	custom *pipeline.Pipeline
}

// New 创建 Engine。自定义 Pipeline 配置在这里构建，构建失败（未知节点、表达式编译失败）直接返回错误。
// 使用自定义 Pipeline 时需要 import _ "github.com/rushteam/movierec/config/builders"。
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func New(source dataset.Source, logger zerolog.Logger, opts Options) (*Engine, error) {
	if source == nil {
		return nil, errors.New("recommend: nil dataset source")
	}
	if opts.PoolMultiplier <= 0 {
		opts.PoolMultiplier = rerank.DefaultPoolMultiplier
	}

	e := &Engine{
		source: source,
		logger: logger.With().Str("component", "recommend").Logger(),
		opts:   opts,
	}

	if opts.BlacklistKey != "" && opts.Store == nil {
		return nil, errors.New("recommend: blacklist key requires a store")
	}

	if opts.Pipeline != nil {
		// 自定义 Pipeline 的过滤器在配置中声明
		if opts.FilterExpr != "" || opts.BlacklistKey != "" {
			return nil, errors.New("recommend: filter expression and blacklist key cannot be combined with a custom pipeline, declare them in its filter node")
		}
		if err := config.ValidatePipelineConfig(opts.Pipeline); err != nil {
			return nil, fmt.Errorf("invalid pipeline config: %w", err)
		}
		p, err := opts.Pipeline.BuildPipeline(config.DefaultFactory())
		if err != nil {
			return nil, fmt.Errorf("build pipeline: %w", err)
		}
		e.custom = p
	} else if opts.FilterExpr != "" {
		// 提前编译，避免每个请求都失败
		if _, err := filter.NewExprFilter(opts.FilterExpr, false); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// DefaultPipeline 返回默认的推荐 Pipeline：
// recall.catalog -> filter(genre, director[, expr][, blacklist]) -> feature.review -> rank.score -> rerank.diversity -> rerank.topn
func (e *Engine) DefaultPipeline() (*pipeline.Pipeline, error) {
	filters := []filter.Filter{&filter.GenreFilter{}, &filter.DirectorFilter{}}
	if e.opts.FilterExpr != "" {
		f, err := filter.NewExprFilter(e.opts.FilterExpr, false)
		if err != nil {
			return nil, err
		}
		filters = append(filters, f)
	}
	if e.opts.BlacklistKey != "" {
		filters = append(filters, filter.NewBlacklistFilter(nil, nil, e.opts.BlacklistKey))
	}
	m := e.opts.Model
	if m == nil {
		m = &model.QualityModel{}
	}
	return &pipeline.Pipeline{Nodes: []pipeline.Node{
		&recall.Catalog{},
		&filter.FilterNode{Filters: filters, Workers: e.opts.FilterWorkers},
		&feature.ReviewEnrichNode{},
		&rank.ScoreNode{Model: m},
		&rerank.DiversityNode{PoolMultiplier: e.opts.PoolMultiplier},
		&rerank.TopNNode{},
	}}, nil
}

// Recommend 执行一次推荐。
//
// 唯一返回的错误是 INVALID_REQUEST（Count <= 0，或类型与导演都为空）。
// 其余失败都返回空列表，Result.Status 与 Diagnostic 说明原因：
//   - 电影目录不可用：no_data
//   - 没有电影满足偏好：no_match
//   - Pipeline 执行失败：error
//
// 影评表不可用只记录告警，所有候选使用中性质量分 0.5。
func (e *Engine) Recommend(ctx context.Context, req Request) (*Result, error) {
	req, err := req.Normalize()
	if err != nil {
		return nil, err
	}

	if e.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opts.Timeout)
		defer cancel()
	}

	logger := e.logger.With().
		Str("user_id", req.UserID).
		Strs("genres", req.Genres).
		Strs("directors", req.Directors).
		Int("count", req.Count).
		Logger()

	start := time.Now()
	snap, err := dataset.Prefetch(ctx, e.source)
	if err != nil {
		logger.Error().Err(err).Msg("movie catalog unavailable")
		return emptyResult(StatusNoData, err.Error()), nil
	}
	if snap.ReviewsErr != nil {
		logger.Warn().Err(snap.ReviewsErr).Msg("critic reviews unavailable, using neutral quality score")
	}

	rctx := &core.RecommendContext{
		UserID:          req.UserID,
		Genres:          req.Genres,
		Directors:       req.Directors,
		Count:           req.Count,
		DiversityFactor: rank.ClampUnit(req.DiversityFactor),
		Dataset:         snap,
		Store:           e.opts.Store,
		Params:          req.Params,
	}

	p := e.custom
	if p == nil {
		if p, err = e.DefaultPipeline(); err != nil {
			logger.Error().Err(err).Msg("build pipeline failed")
			return emptyResult(StatusError, err.Error()), nil
		}
	}

	items, err := p.Run(ctx, rctx, nil)
	if err != nil {
		status := StatusError
		if core.IsDataUnavailable(err) {
			status = StatusNoData
		}
		logger.Error().Err(err).Msg("recommend pipeline failed")
		return emptyResult(status, err.Error()), nil
	}

	if len(items) == 0 {
		_ = diagnose(logger, rctx) // 只记录告警
		logger.Info().Int("catalog_size", len(snap.MovieRows)).Msg("no movies matched preferences")
		return emptyResult(StatusNoMatch, "no movies matched the requested genres/directors"), nil
	}

	res := &Result{Movies: make([]Recommendation, 0, len(items)), Status: StatusOK}
	for _, it := range items {
		if it == nil {
			continue
		}
		res.Movies = append(res.Movies, fromItem(it))
	}
	res.Diagnostic = diagnose(logger, rctx)

	logger.Debug().
		Int("results", len(res.Movies)).
		Dur("elapsed", time.Since(start)).
		Msg("recommend done")
	return res, nil
}

// diagnose 汇总不影响返回但需要让调用方知道的降级情况，并记录告警日志。
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func diagnose(logger zerolog.Logger, rctx *core.RecommendContext) string {
	var notes []string
	if feature.ReviewsUnavailable(rctx) {
		notes = append(notes, "critic reviews unavailable, neutral quality score used")
	}
	if n := filter.ErrorCount(rctx); n > 0 {
		logger.Warn().
			Int("filter_errors", n).
			Str("first_error", filter.FirstError(rctx)).
			Msg("filter evaluation failed, affected movies were kept")
		notes = append(notes, fmt.Sprintf("%d filter evaluation errors, affected movies were kept: %s", n, filter.FirstError(rctx)))
	}
	return strings.Join(notes, "; ")
}
