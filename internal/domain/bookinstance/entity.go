package bookinstance

import (
	"time"
)

// Status 馆藏副本状态
type Status string

const (
	StatusAvailable   Status = "Available"   // 可借
	StatusMaintenance Status = "Maintenance" // 维护中
	StatusLoaned      Status = "Loaned"      // 已借出
	StatusReserved    Status = "Reserved"    // 已预约
)

// IsValid 是否为已知状态
func (s Status) IsValid() bool {
	switch s {
	case StatusAvailable, StatusMaintenance, StatusLoaned, StatusReserved:
		return true
	default:
		return false
	}
}

// BookInstance 馆藏副本(一本书的一个实体拷贝)
// 设计说明:
// 1. 多个副本指向同一本Book(多对一)
// 2. 图书流程只读取副本用于详情展示,不会修改
type BookInstance struct {
	ID        string
	BookID    string
	Imprint   string // 版本说明(出版社、年份)
	Status    Status
	DueBack   *time.Time // 预计归还时间
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBookInstance 创建副本,状态为空时默认"维护中"
func NewBookInstance(bookID, imprint string, status Status, dueBack *time.Time) *BookInstance {
	if status == "" {
		status = StatusMaintenance
	}
	now := time.Now()
	return &BookInstance{
		BookID:    bookID,
		Imprint:   imprint,
		Status:    status,
		DueBack:   dueBack,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// URL 副本详情页地址
func (bi *BookInstance) URL() string {
	return "/catalog/bookinstance/" + bi.ID
}
