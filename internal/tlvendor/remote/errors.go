package remote

import (
	"fmt"

	"github.com/pkg/errors"
)

// 错误种类字符串是对外契约的一部分，必须保持稳定。
const (
	KindTransportError   = "transport-error"
	KindVerifyFailed400  = "verify-failed-400"
	KindVerifyFailed403  = "verify-failed-403"
	KindVerifyFailed404  = "verify-failed-404"
	KindGone             = "gone"
	KindVerifyFailed424  = "verify-failed-424"
	KindAPIErrors        = "api-errors"
	KindEmptyBody        = "empty-body"
	KindMethodNotAllowed = "method-not-allowed"
	KindAccountInactive  = "account-inactive"
)

// APIError 远端调用的类型化失败结果
// Kind 供调用方选择具体的补救提示；Details 为远端返回的 errors 字段内容。
type APIError struct {
	Kind       string
	StatusCode int
	Details    []string
	cause      error
}

func (e *APIError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("remote api error (%s): %v", e.Kind, e.cause)
	}
	if len(e.Details) > 0 {
		return fmt.Sprintf("remote api error (%s): %v", e.Kind, e.Details)
	}

	return fmt.Sprintf("remote api error (%s)", e.Kind)
}

func (e *APIError) Unwrap() error {
	return e.cause
}

// NewAPIError 构造类型化错误
func NewAPIError(kind string, statusCode int) *APIError {
	return &APIError{Kind: kind, StatusCode: statusCode}
}

// WrapAPIError 构造携带底层原因的类型化错误
func WrapAPIError(kind string, cause error) *APIError {
	return &APIError{Kind: kind, cause: cause}
}

// IsKind 判断错误链上是否存在指定种类的 APIError
func IsKind(err error, kind string) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind == kind
	}

	return false
}

// KindOf 返回错误链上 APIError 的种类，非 APIError 返回 ""
func KindOf(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}

	return ""
}
