// Package join 并发读取协调
//
// 设计说明:
// 1. 多个互相独立的读取同时启动,全部完成后按名字取结果(与完成顺序无关)
// 2. 任一成员失败:共享ctx被取消,Wait返回第一个错误,不返回部分结果
// 3. 基于errgroup实现,所有聚合(首页计数、详情、表单引用数据)都走这一个原语
package join

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Results 按名字索引的读取结果
type Results map[string]any

// Group 一次join
type Group struct {
	g   *errgroup.Group
	ctx context.Context

	mu      sync.Mutex
	results Results
}

// New 创建join,返回的Group在第一个成员失败后取消ctx
func New(ctx context.Context) *Group {
	g, gctx := errgroup.WithContext(ctx)
	return &Group{
		g:       g,
		ctx:     gctx,
		results: make(Results),
	}
}

// Go 启动一个命名成员
// fn收到的是共享ctx,兄弟成员失败时会被取消;同名成员重复注册会panic(编程错误)
func (j *Group) Go(key string, fn func(ctx context.Context) (any, error)) {
	j.mu.Lock()
	if _, dup := j.results[key]; dup {
		j.mu.Unlock()
		panic(fmt.Sprintf("join: duplicate key %q", key))
	}
	j.results[key] = nil // 占位
	j.mu.Unlock()

	j.g.Go(func() error {
		v, err := fn(j.ctx)
		if err != nil {
			return err
		}
		j.mu.Lock()
		j.results[key] = v
		j.mu.Unlock()
		return nil
	})
}

// Wait 等待全部成员结束
// 成功时返回全部结果;失败时返回第一个错误和nil结果
func (j *Group) Wait() (Results, error) {
	if err := j.g.Wait(); err != nil {
		return nil, err
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.results, nil
}

// Value 按名字取出结果并断言类型
// 名字不存在或类型不符时返回零值
func Value[T any](r Results, key string) T {
	v, _ := r[key].(T)
	return v
}
