// Package review 把异构的影评分数（分数、字母等级、数字字符串）统一到 0-10，并按影评 key 聚合。
package review

import (
	"math"
	"strconv"
	"strings"
)

// letterGrades 字母等级到 0-10 的映射（大小写敏感）。
var letterGrades = map[string]float64{
	"A":  9.5,
	"A-": 9.0,
	"B+": 8.5,
	"B":  8.0,
	"B-": 7.5,
	"C+": 7.0,
	"C":  6.5,
	"C-": 6.0,
	"D+": 5.5,
	"D":  5.0,
	"D-": 4.5,
	"F":  3.0,
}

// ParseScore 将原始分数字符串转为 0-10 的数值，无法解析时返回 (0, false)。
//
// 按顺序尝试：
//  1. 含 "/" 时按 分子/分母*10 计算，例如 "3/4" -> 7.5
//  2. 字母等级，例如 "B+" -> 8.5
//  3. 直接解析为数字，例如 "7.5" -> 7.5
func ParseScore(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}

	if strings.Contains(s, "/") {
		num, den, ok := strings.Cut(s, "/")
		if !ok || strings.Contains(den, "/") {
			return 0, false
		}
		n, err := parseFloat(num)
		if err != nil {
			return 0, false
		}
		d, err := parseFloat(den)
		if err != nil {
			return 0, false
		}
		return finite(n / d * 10)
	}

	if v, ok := letterGrades[s]; ok {
		return v, true
	}

	v, err := parseFloat(s)
	if err != nil {
		return 0, false
	}
	return finite(v)
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// finite 过滤 NaN / Inf（例如分母为 0 或输入 "NaN"）。
func finite(v float64) (float64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
