package model

import (
	"fmt"
	"math"
	"os"

	"github.com/goccy/go-json"
)

// LRModel 实现了逻辑回归 (Logistic Regression) 模型，可替代 QualityModel 作为评分模型。
//
// 预测原理：
// 1. 线性加权求和: z = Bias + sum(Weight_i * Feature_i)
// 2. Sigmoid 变换: P = 1 / (1 + exp(-z))
//
// 输出范围 (0, 1)。特征可以是 avg_review_score、review_count 或 feature.extra 抽取的列。
type LRModel struct {
	Bias    float64            `json:"bias"`    // 偏置项
	Weights map[string]float64 `json:"weights"` // 特征权重
}

// LoadLRModel 从 JSON 文件加载模型：{"bias": 0.1, "weights": {"avg_review_score": 0.3}}
func LoadLRModel(path string) (*LRModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lr model: %w", err)
	}
	var m LRModel
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode lr model %s: %w", path, err)
	}
	return &m, nil
}

func (m *LRModel) Name() string { return "lr" }

func (m *LRModel) Predict(features map[string]float64) (float64, error) {
	score := m.Bias
	for k, v := range features {
		if w, ok := m.Weights[k]; ok {
			score += w * v
		}
	}
	return 1 / (1 + math.Exp(-score)), nil
}

var _ RankModel = (*LRModel)(nil)
