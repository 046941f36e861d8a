package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rushteam/movierec/config"
	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/dataset"
	"github.com/rushteam/movierec/logging"
	"github.com/rushteam/movierec/store"
)

// app 是各子命令共享的运行时状态，在 PersistentPreRunE 中初始化。
type app struct {
	configPath string
	logLevel   string

	cfg    *config.App
	logger zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zerolog.Nop()}

	root := &cobra.Command{
		Use:           "movierec",
		Short:         "Movie recommendations from genre and director preferences",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadApp(a.configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if a.logLevel != "" {
				cfg.Log.Level = a.logLevel
			}
			cfg.Log.Output = cmd.ErrOrStderr()
			a.cfg = cfg
			a.logger = logging.New(cfg.Log)
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "movierec.yaml", "config file (skipped when missing)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(newRecommendCmd(a))
	root.AddCommand(newImportCmd(a))
	return root
}

// openSource 根据配置选择数据源：配置了 Redis 时读 Redis，否则读 CSV。
// Redis 模式下同时返回该连接，供黑名单过滤器使用；CSV 模式下 store 为 nil。
// 返回的 closer 必须在使用结束后调用。
func (a *app) openSource(ctx context.Context) (dataset.Source, core.Store, func(), error) {
	if a.cfg.Redis.Addr == "" {
		return &dataset.CSVSource{
			MoviesPath:  a.cfg.Dataset.MoviesPath,
			ReviewsPath: a.cfg.Dataset.ReviewsPath,
		}, nil, func() {}, nil
	}

	st, err := a.openRedis(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	src := &dataset.StoreSource{
		Store:      st,
		MoviesKey:  a.cfg.Redis.MoviesKey,
		ReviewsKey: a.cfg.Redis.ReviewsKey,
	}
	return src, st, func() { _ = st.Close() }, nil
}

func (a *app) openRedis(ctx context.Context) (core.Store, error) {
	st, err := store.NewRedisStore(ctx, a.cfg.Redis.Addr, a.cfg.Redis.Password, a.cfg.Redis.DB)
	if err != nil {
		return nil, err
	}
	a.logger.Debug().Str("addr", a.cfg.Redis.Addr).Msg("connected to redis")
	return st, nil
}
