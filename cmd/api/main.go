package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// main 程序入口
// 子命令:
//
//	locallibrary serve    启动HTTP服务
//	locallibrary migrate  建表
//	locallibrary seed     写入示例数据
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
