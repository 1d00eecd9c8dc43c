package bookinstance

import (
	apperrors "github.com/xiebiao/locallibrary/pkg/errors"
)

var (
	// ErrBookInstanceNotFound 副本不存在
	ErrBookInstanceNotFound = apperrors.New(apperrors.ErrCodeBookInstanceNotFound, "馆藏副本不存在")

	// ErrInvalidStatus 未知的副本状态
	ErrInvalidStatus = apperrors.New(apperrors.ErrCodeInvalidParams, "馆藏副本状态不合法")
)
