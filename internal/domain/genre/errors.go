package genre

import (
	apperrors "github.com/xiebiao/locallibrary/pkg/errors"
)

// 分类领域错误定义
var (
	// ErrGenreNotFound 分类不存在
	ErrGenreNotFound = apperrors.New(apperrors.ErrCodeGenreNotFound, "分类不存在")

	// ErrGenreDuplicate 分类名称已存在
	ErrGenreDuplicate = apperrors.New(apperrors.ErrCodeGenreDuplicate, "分类名称已存在")
)
