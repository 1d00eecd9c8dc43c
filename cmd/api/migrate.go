package main

import (
	"github.com/spf13/cobra"

	"github.com/xiebiao/locallibrary/internal/infrastructure/persistence/mysql"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "创建或更新表结构(authors、genres、books、book_genres、book_instances)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, closer, err := bootstrap(cmd)
			if err != nil {
				return err
			}
			defer closer.Close()

			db, err := mysql.NewDB(cfg)
			if err != nil {
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}

			if err := mysql.AutoMigrate(db); err != nil {
				return err
			}
			logger.Info("表结构迁移完成", "dbname", cfg.Database.DBName)
			return nil
		},
	}
}
