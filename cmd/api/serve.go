package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/xiebiao/locallibrary/pkg/metrics"
	"github.com/xiebiao/locallibrary/pkg/tracing"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "启动HTTP服务",
		Example: `  # 使用默认配置
  locallibrary serve

  # 指定配置文件,环境变量覆盖端口
  LIBRARY_SERVER_PORT=9090 locallibrary serve -c ./config/config.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, closer, err := bootstrap(cmd)
			if err != nil {
				return err
			}
			defer closer.Close()

			if cfg.Tracing.Enabled {
				shutdown, err := tracing.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.Endpoint)
				if err != nil {
					return err
				}
				defer func() {
					if err := shutdown(context.Background()); err != nil {
						logger.Error("关闭TracerProvider失败", "error", err)
					}
				}()
				logger.Info("链路追踪已启用", "endpoint", cfg.Tracing.Endpoint)
			}

			metrics.InitMetrics()

			engine, cleanup, err := buildServer(cfg, logger)
			if err != nil {
				return err
			}
			defer cleanup()

			server := &http.Server{
				Addr:         cfg.Server.Addr(),
				Handler:      engine,
				ReadTimeout:  cfg.Server.ReadTimeout,
				WriteTimeout: cfg.Server.WriteTimeout,
			}

			serverErr := make(chan error, 1)
			go func() {
				logger.Info("服务启动", "addr", server.Addr, "mode", cfg.Server.Mode)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			select {
			case <-cmd.Context().Done():
				logger.Info("正在关闭服务...")
				ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
				defer cancel()
				if err := server.Shutdown(ctx); err != nil {
					logger.Error("服务关闭失败", "error", err)
					return err
				}
				logger.Info("服务已停止")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}
}
