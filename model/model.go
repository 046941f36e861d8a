// Package model 提供排序阶段的评分模型。
package model

// RankModel 是排序阶段的最小抽象：输入特征，输出一个可比较的分数。
// 默认实现是基于影评聚合的 QualityModel；也可以用 LRModel 对任意数值特征加权。
type RankModel interface {
	Name() string
	Predict(features map[string]float64) (float64, error)
}
