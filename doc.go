// Package movierec 是一个按类型/导演偏好推荐电影的工具包。
//
// 设计要点：
// - Pipeline-first: 推荐逻辑通过 Node 串联（Recall → Filter → Feature → Rank → ReRank）
// - Labels-first: labels 全链路透传与标准化 merge，支持 explain / 观测
// - Fail-empty: 除非请求本身非法，推荐总是返回一个列表，Status 说明空结果的原因
package movierec

import (
	"github.com/rushteam/movierec/pipeline"
	"github.com/rushteam/movierec/recommend"
)

// 轻量 facade：便于用户直接 import "movierec" 使用核心抽象。
type (
	Pipeline       = pipeline.Pipeline
	Node           = pipeline.Node
	Kind           = pipeline.Kind
	Engine         = recommend.Engine
	Request        = recommend.Request
	Result         = recommend.Result
	Recommendation = recommend.Recommendation
)

const (
	KindRecall      = pipeline.KindRecall
	KindFilter      = pipeline.KindFilter
	KindFeature     = pipeline.KindFeature
	KindRank        = pipeline.KindRank
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)

// NewEngine 是 recommend.New 的别名。
var NewEngine = recommend.New
