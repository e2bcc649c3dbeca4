package error

import (
	"errors"
	"net/http"
)

type Error struct {
	httpCode  int
	errorCode int
	errorMsg  string
	errorDesc string
	cause     error
}

func New(httpCode, errorCode int, errorMsg string, errorDesc string) *Error {
	return &Error{
		httpCode:  httpCode,
		errorCode: errorCode,
		errorMsg:  errorMsg,
		errorDesc: errorDesc,
	}

}
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return InternalServer(err.Error())
}

// Wrap 保留底層錯誤（只記錄在 log，不回給呼叫端）
func (e *Error) Wrap(cause error) *Error {
	cp := *e
	cp.cause = cause
	return &cp
}

// ✅ 用戶端錯誤 (400 系列) - ValidationError
func ValidateErr(errorDesc string) *Error {
	return New(http.StatusBadRequest, BAD_REQUEST_BODY, MsgBadRequest, errorDesc)
}

func BadRequest(errorDesc string) *Error {
	return New(http.StatusBadRequest, BAD_REQUEST_PARAMS, MsgBadRequest, errorDesc)
}

func EmailRequired(errorDesc string) *Error {
	return New(http.StatusBadRequest, EMAIL_REQUIRED, MsgEmailRequired, errorDesc)
}

// ✅ 額度 (402) - QuotaExceeded
func FreeLimitReached(errorDesc string) *Error {
	return New(http.StatusPaymentRequired, FREE_LIMIT_REACHED, MsgFreeLimitReached, errorDesc)
}

// ✅ 資源找不到 (404)
func NotFound(errorDesc string) *Error {
	return New(http.StatusNotFound, NOT_FOUND, MsgNotFound, errorDesc)
}

// ✅ 請求體過大 (413)
func PayloadTooLarge(errorDesc string) *Error {
	return New(http.StatusRequestEntityTooLarge, PAYLOAD_TOO_LARGE, MsgPayloadTooLarge, errorDesc)
}

// ✅ 伺服器內部錯誤 (500 系列)
func InternalServer(errorDesc string) *Error {
	return New(http.StatusInternalServerError, INTERNAL_ERROR, MsgServerError, errorDesc)
}

// StoreFailure - StoreError，不可當作未計量繼續執行
func StoreFailure(errorDesc string) *Error {
	return New(http.StatusInternalServerError, DATABASE_ERROR, MsgServerError, errorDesc)
}

func ServiceUnavailable(errorDesc string) *Error {
	return New(http.StatusServiceUnavailable, SERVICE_UNAVAILABLE, MsgUnavailable, errorDesc)
}

// ✅ 外部服務錯誤 - ProviderError / RenderError
func GenerationFailed(errorDesc string) *Error {
	return New(http.StatusInternalServerError, GENERATION_FAILED, MsgGenerationFailed, errorDesc)
}

func RenderFailed(errorDesc string) *Error {
	return New(http.StatusInternalServerError, RENDER_FAILED, MsgRenderFailed, errorDesc)
}

func (e *Error) HttpCode() int {
	return e.httpCode
}

func (e *Error) ErrorCode() int {
	return e.errorCode
}
func (e *Error) ErrorDesc() string {
	return e.errorDesc
}
func (e *Error) Error() string {
	return e.errorMsg
}
func (e *Error) Unwrap() error {
	return e.cause
}

// Is 以 errorCode 比對，方便 errors.Is(err, cErr.FreeLimitReached(""))
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.errorCode == t.errorCode
}

// HasCode 判斷錯誤鏈中是否帶有指定 errorCode
func HasCode(err error, code int) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.errorCode == code
}

func MapHttpStatusToError(status int, desc string) *Error {
	switch status {
	case http.StatusBadRequest:
		return BadRequest(desc)
	case http.StatusPaymentRequired:
		return FreeLimitReached(desc)
	case http.StatusNotFound:
		return NotFound(desc)
	case http.StatusRequestEntityTooLarge:
		return PayloadTooLarge(desc)
	case http.StatusServiceUnavailable:
		return ServiceUnavailable(desc)
	default:
		return InternalServer(desc)
	}
}
