package book

import (
	"context"
	"log/slog"
	"time"

	"github.com/xiebiao/locallibrary/internal/domain/book"
)

// 图书事件路由键
const (
	RoutingKeyBookCreated = "book.created"
	RoutingKeyBookUpdated = "book.updated"
)

// EventPublisher 事件发布接口(由pkg/mq.Publisher实现)
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// BookEvent 图书写入事件
type BookEvent struct {
	BookID     string    `json:"book_id"`
	Title      string    `json:"title"`
	AuthorID   string    `json:"author_id"`
	ISBN       string    `json:"isbn"`
	GenreIDs   []string  `json:"genre_ids"`
	OccurredAt time.Time `json:"occurred_at"`
}

// publishBookEvent 尽力发布:publisher为nil时跳过,失败只记警告
func publishBookEvent(ctx context.Context, p EventPublisher, routingKey string, b *book.Book) {
	if p == nil {
		return
	}
	event := BookEvent{
		BookID:     b.ID,
		Title:      b.Title,
		AuthorID:   b.AuthorID,
		ISBN:       b.ISBN,
		GenreIDs:   b.GenreIDs,
		OccurredAt: time.Now(),
	}
	if err := p.Publish(ctx, routingKey, event); err != nil {
		slog.WarnContext(ctx, "发布图书事件失败", "routing_key", routingKey, "book_id", b.ID, "error", err)
	}
}
