package services

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	// ErrNotFound 按ID或slug查询不到记录
	ErrNotFound = errors.New("记录不存在")
	// ErrConflict 违反唯一约束
	ErrConflict = errors.New("记录已存在")
)

// ValidationError 参数校验失败，Message 可以直接返回给调用方
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError 创建校验错误
func NewValidationError(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// DependencyError 外部协作服务不可用（只在本层内部使用，调用方必须降级）
type DependencyError struct {
	Service string
	Err     error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s 不可用: %v", e.Service, e.Err)
}

func (e *DependencyError) Unwrap() error {
	return e.Err
}

// IsNotFound 是否为记录不存在
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict 是否为唯一约束冲突
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// AsValidation 取出校验错误
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// translateDBError 把数据库错误转换为业务错误
func translateDBError(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errors.Wrap(ErrNotFound, what)
	}
	if isDuplicateKey(err) {
		return errors.Wrap(ErrConflict, what)
	}
	return errors.Wrap(err, what)
}

// isDuplicateKey 兼容未开启 TranslateError 的驱动
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint failed") || strings.Contains(msg, "duplicate entry")
}
