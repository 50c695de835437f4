/*
Package shared holds the building blocks every domain package uses: criteria and specifications,
the generic repository contract, the pagination envelope and the domain error model.

Domain errors wrap a sentinel so callers can use errors.Is. The stack is captured when the error
is created and formatted only when it is logged.
*/
package shared

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

var (
	// ErrNotFound 资源未找到
	ErrNotFound = errors.New("not found")

	// ErrConflict 资源冲突（如唯一约束冲突）
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput 无效输入（参数校验失败）
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized 未授权
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden 禁止访问（已授权但无权限）
	ErrForbidden = errors.New("forbidden")

	// ErrMultipleResults a single-result query matched more than one row.
	ErrMultipleResults = errors.New("multiple results")

	// ErrCommitFailed a unit of work commit persisted nothing.
	ErrCommitFailed = errors.New("commit failed")

	// ErrUnsupportedCriterion the storage backend cannot evaluate a criterion.
	ErrUnsupportedCriterion = errors.New("unsupported criterion")
)

// DomainError 领域错误 - 携带业务上下文和堆栈的结构化错误
type DomainError struct {
	// Err 底层哨兵错误，用于 errors.Is() 判断
	Err error

	// Entity 发生错误的实体名称（如 "product", "user"）
	Entity string

	// Message 人类可读的错误描述
	Message string

	// Field 可选：发生错误的字段名（用于校验错误）
	Field string

	stack []uintptr
}

func (e *DomainError) Error() string {
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Stack 按需格式化堆栈（只在打印日志时调用）
func (e *DomainError) Stack() []string {
	return FormatStack(e.stack)
}

// CaptureStack 捕获当前调用栈
// skip: 跳过的帧数（通常为 3：Callers, CaptureStack, NewXxxError）
func CaptureStack(skip int) []uintptr {
	var pcs [32]uintptr
	n := runtime.Callers(skip, pcs[:])
	return pcs[:n]
}

// FormatStack 格式化堆栈帧为字符串切片，过滤 runtime 内部帧，最多返回 10 帧
func FormatStack(stack []uintptr) []string {
	if len(stack) == 0 {
		return nil
	}

	frames := runtime.CallersFrames(stack)
	var result []string
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "runtime/") {
			result = append(result, fmt.Sprintf("%s:%d %s", frame.File, frame.Line, frame.Function))
		}
		if !more || len(result) > 10 {
			break
		}
	}
	return result
}

func newDomainError(sentinel error, entity, field, message string) *DomainError {
	return &DomainError{
		Err:     sentinel,
		Entity:  entity,
		Field:   field,
		Message: message,
		stack:   CaptureStack(4),
	}
}

// NewNotFoundError 创建"未找到"领域错误
func NewNotFoundError(entity string) error {
	return newDomainError(ErrNotFound, entity, "", entity+" not found")
}

// NewConflictError 创建"冲突"领域错误
func NewConflictError(entity, message string) error {
	return newDomainError(ErrConflict, entity, "", message)
}

// NewValidationError 创建"校验失败"领域错误
func NewValidationError(entity, field, reason string) error {
	return newDomainError(ErrInvalidInput, entity, field, reason)
}

// NewUnauthorizedError 创建"未授权"领域错误
func NewUnauthorizedError(entity, reason string) error {
	return newDomainError(ErrUnauthorized, entity, "", reason)
}

// NewForbiddenError 创建"禁止访问"领域错误
func NewForbiddenError(entity, reason string) error {
	return newDomainError(ErrForbidden, entity, "", reason)
}

// NewMultipleResultsError reports a single-entity query that matched n rows.
func NewMultipleResultsError(entity string, n int) error {
	return newDomainError(ErrMultipleResults, entity, "",
		fmt.Sprintf("%s: expected at most one result, got %d", entity, n))
}

// NewCommitFailureError reports a commit that affected no rows.
func NewCommitFailureError(entity, action string) error {
	return newDomainError(ErrCommitFailed, entity, "", "problem "+action+" "+entity)
}

// NewUnsupportedCriterionError reports a criterion the backend has no rendering for.
func NewUnsupportedCriterionError(criterion any) error {
	return newDomainError(ErrUnsupportedCriterion, "specification", "",
		fmt.Sprintf("unsupported criterion %T", criterion))
}

// Stacker 可提供堆栈的错误接口
type Stacker interface {
	Stack() []string
}
