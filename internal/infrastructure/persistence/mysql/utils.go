package mysql

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// isDuplicateError 判断是否为MySQL唯一索引冲突错误
// MySQL错误码:
// - 1062: Duplicate entry 'xxx' for key 'yyy'
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// 兼容检查:错误信息包含"Duplicate entry"
	return strings.Contains(err.Error(), "Duplicate entry")
}

// ensureID 新实体(ID为空)分配UUID,返回是否为新建
func ensureID(id *string) bool {
	if *id != "" {
		return false
	}
	*id = uuid.NewString()
	return true
}

// persist 新建时INSERT,否则按主键整体覆盖
func persist(db *gorm.DB, created bool, value any) error {
	if created {
		return db.Create(value).Error
	}
	return db.Save(value).Error
}
