package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/xiebiao/locallibrary/internal/infrastructure/config"
	"github.com/xiebiao/locallibrary/pkg/logger"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "locallibrary",
		Short: "Local Library catalog service",
		Long: `Local Library 图书馆目录服务。

管理图书、作者、分类和馆藏副本,提供图书的新建、更新、详情和列表接口。`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// .env不存在时忽略
			_ = godotenv.Load()
		},
	}

	cmd.PersistentFlags().StringP("config", "c", "", "配置文件路径(默认查找./config/config.yaml)")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newMigrateCmd())
	cmd.AddCommand(newSeedCmd())

	return cmd
}

// bootstrap 加载配置并安装全局logger
// 返回的closer关闭日志文件
func bootstrap(cmd *cobra.Command) (*config.Config, *slog.Logger, io.Closer, error) {
	path, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, nil, err
	}

	log, closer, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("初始化日志失败: %w", err)
	}
	slog.SetDefault(log)

	return cfg, log, closer, nil
}
