package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/rushteam/movierec/logging"
)

// App 是 movierec 的应用配置（YAML + 环境变量覆盖）。
//
//	dataset:
//	  movies: ./dataset/movies.csv
//	  reviews: ./dataset/critic_reviews.csv
//	redis:
//	  addr: localhost:6379
//	recommend:
//	  count: 10
//	  diversity_factor: 0.3
//	  pool_multiplier: 3
//	log:
//	  level: info
//
// 环境变量通过 `env` tag 指定，优先级高于 YAML。
type App struct {
	Dataset   DatasetConfig   `yaml:"dataset"`
	Redis     RedisConfig     `yaml:"redis"`
	Recommend RecommendConfig `yaml:"recommend"`
	Log       logging.Config  `yaml:"log"`
}

// DatasetConfig 是 CSV 数据集路径。
type DatasetConfig struct {
	MoviesPath  string `yaml:"movies" env:"MOVIEREC_MOVIES"`
	ReviewsPath string `yaml:"reviews" env:"MOVIEREC_REVIEWS"`
}

// RedisConfig 非空 Addr 时数据集从 Redis 读取（由 `movierec import` 写入）。
// BlacklistKey 非空时推荐结果排除该 key 下 JSON 数组中的标题。
type RedisConfig struct {
	Addr         string `yaml:"addr" env:"MOVIEREC_REDIS_ADDR"`
	Password     string `yaml:"password" env:"MOVIEREC_REDIS_PASSWORD"`
	DB           int    `yaml:"db" env:"MOVIEREC_REDIS_DB"`
	MoviesKey    string `yaml:"movies_key" env:"MOVIEREC_REDIS_MOVIES_KEY"`
	ReviewsKey   string `yaml:"reviews_key" env:"MOVIEREC_REDIS_REVIEWS_KEY"`
	BlacklistKey string `yaml:"blacklist_key" env:"MOVIEREC_REDIS_BLACKLIST_KEY"`
}

// RecommendConfig 是推荐请求的默认参数。Timeout 是单次请求的 context 截止时间，0 表示不设置。
type RecommendConfig struct {
	Count           int           `yaml:"count" env:"MOVIEREC_COUNT"`
	DiversityFactor float64       `yaml:"diversity_factor" env:"MOVIEREC_DIVERSITY"`
	PoolMultiplier  int           `yaml:"pool_multiplier" env:"MOVIEREC_POOL_MULTIPLIER"`
	FilterWorkers   int           `yaml:"filter_workers" env:"MOVIEREC_FILTER_WORKERS"`
	PipelinePath    string        `yaml:"pipeline" env:"MOVIEREC_PIPELINE"`
	Timeout         time.Duration `yaml:"timeout" env:"MOVIEREC_TIMEOUT"`
}

// DefaultApp 返回默认配置。
func DefaultApp() App {
	return App{
		Dataset: DatasetConfig{
			MoviesPath:  "./dataset/movies.csv",
			ReviewsPath: "./dataset/critic_reviews.csv",
		},
		Recommend: RecommendConfig{
			Count:           10,
			DiversityFactor: 0.3,
			PoolMultiplier:  3,
		},
		Log: logging.Config{Level: "info", Format: "json"},
	}
}

// LoadApp 加载应用配置：默认值 <- YAML 文件（path 为空或文件不存在时跳过）<- .env 文件 <- 环境变量。
//
// .env 文件的加载顺序：
//  1. 环境变量 ENV_FILE（设置时只加载该文件）
//  2. .env.local（存在时覆盖 .env）
//  3. .env
func LoadApp(path string) (*App, error) {
	if err := loadEnvFiles(); err != nil {
		return nil, fmt.Errorf("load environment files: %w", err)
	}

	cfg := DefaultApp()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	applyEnvOverrides(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 校验配置取值。
func (a *App) Validate() error {
	if a.Recommend.Count <= 0 {
		return fmt.Errorf("recommend.count must be positive, got %d", a.Recommend.Count)
	}
	if a.Recommend.DiversityFactor < 0 || a.Recommend.DiversityFactor > 1 {
		return fmt.Errorf("recommend.diversity_factor must be in [0,1], got %v", a.Recommend.DiversityFactor)
	}
	if a.Recommend.PoolMultiplier <= 0 {
		return fmt.Errorf("recommend.pool_multiplier must be positive, got %d", a.Recommend.PoolMultiplier)
	}
	return nil
}

func loadEnvFiles() error {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
		return nil
	}

	// .env.local 先加载；godotenv 不覆盖已存在的变量，因此它的优先级高于 .env
	if err := godotenv.Load(".env.local"); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load .env.local: %w", err)
	}
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// applyEnvOverrides 按 `env` tag 用环境变量覆盖字段（支持嵌套结构体）。
func applyEnvOverrides(cfg any) {
	v := reflect.ValueOf(cfg)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	applyEnvToStruct(v)
}

func applyEnvToStruct(v reflect.Value) {
	if v.Kind() != reflect.Struct {
		return
	}
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		if !field.CanSet() {
			continue
		}
		if field.Kind() == reflect.Struct {
			applyEnvToStruct(field)
			continue
		}
		tag := t.Field(i).Tag.Get("env")
		if tag == "" {
			continue
		}
		if val := os.Getenv(tag); val != "" {
			setFieldFromString(field, val)
		}
	}
}

var durationType = reflect.TypeOf(time.Duration(0))

func setFieldFromString(field reflect.Value, val string) {
	switch field.Kind() {
	case reflect.String:
		field.SetString(val)
	case reflect.Int, reflect.Int64:
		if field.Type() == durationType {
			if d, err := time.ParseDuration(val); err == nil {
				field.SetInt(int64(d))
			}
			return
		}
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			field.SetInt(i)
		}
	case reflect.Float64:
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			field.SetFloat(f)
		}
	case reflect.Bool:
		s := strings.ToLower(strings.TrimSpace(val))
		field.SetBool(s == "true" || s == "1" || s == "yes")
	}
}
