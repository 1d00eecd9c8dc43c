package book

import (
	"context"

	"github.com/xiebiao/locallibrary/pkg/tracing"
)

// DashboardUseCase 首页统计用例
type DashboardUseCase struct {
	agg *Aggregator
}

// NewDashboardUseCase 创建首页统计用例
func NewDashboardUseCase(agg *Aggregator) *DashboardUseCase {
	return &DashboardUseCase{agg: agg}
}

// Execute 统计图书、副本、可借副本、作者、分类数量
// 任一统计失败整个请求失败
func (uc *DashboardUseCase) Execute(ctx context.Context) (_ *Outcome, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "book.Dashboard")
	defer func() { tracing.EndSpan(span, err) }()

	counts, err := uc.agg.Dashboard(ctx)
	if err != nil {
		return nil, err
	}

	return Render(ViewIndex, IndexPayload{
		Title:                      "Local Library Home",
		BookCount:                  counts.Books,
		BookInstanceCount:          counts.Instances,
		BookInstanceAvailableCount: counts.AvailableInstances,
		AuthorCount:                counts.Authors,
		GenreCount:                 counts.Genres,
	}), nil
}
