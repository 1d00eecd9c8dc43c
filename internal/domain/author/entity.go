package author

import (
	"time"
)

// Author 作者实体
// 设计说明:
// 1. Author独立于Book存在,Book只持有作者ID(非拥有引用)
// 2. 图书流程只用到作者的展示信息(姓名、生卒年)
type Author struct {
	ID          string
	FirstName   string
	FamilyName  string
	DateOfBirth *time.Time
	DateOfDeath *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewAuthor 创建新作者(工厂方法)
func NewAuthor(firstName, familyName string, dateOfBirth, dateOfDeath *time.Time) *Author {
	now := time.Now()
	return &Author{
		FirstName:   firstName,
		FamilyName:  familyName,
		DateOfBirth: dateOfBirth,
		DateOfDeath: dateOfDeath,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Name 展示用全名,格式:"姓, 名"
// 任一部分缺失时返回空字符串
func (a *Author) Name() string {
	if a.FirstName == "" || a.FamilyName == "" {
		return ""
	}
	return a.FamilyName + ", " + a.FirstName
}

// Lifespan 生卒年,如"1920 - 1992";未知部分留空
func (a *Author) Lifespan() string {
	var birth, death string
	if a.DateOfBirth != nil {
		birth = a.DateOfBirth.Format("2006")
	}
	if a.DateOfDeath != nil {
		death = a.DateOfDeath.Format("2006")
	}
	if birth == "" && death == "" {
		return ""
	}
	return birth + " - " + death
}

// URL 作者详情页地址
func (a *Author) URL() string {
	return "/catalog/author/" + a.ID
}
