package response

import (
	"errors"
	"net/http"
	cErr "resourcegen/internal/pkg/error"

	"github.com/gin-gonic/gin"
)

// ErrorResponse 錯誤回應格式，error 欄位為對外穩定字串（例如 FREE_LIMIT_REACHED）
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message,omitempty"`
	Code      int    `json:"code"`
	RequestID string `json:"requestID,omitempty"`
}

// Success 由 Response middleware 統一輸出，data 會原樣序列化為 body
func Success(c *gin.Context, data any) {
	c.Set("data", data)
	c.Set("status", http.StatusOK)
	c.Abort()
}

func AbortWithError(c *gin.Context, err error) {
	c.Error(err)
	c.Abort()
}

func Fail(c *gin.Context, requestID string, httpCode int, errorCode int, msg string, desc string) {
	c.JSON(httpCode, ErrorResponse{
		Error:     msg,
		Message:   desc,
		Code:      errorCode,
		RequestID: requestID,
	})
	c.Abort()
}

func FailByErr(c *gin.Context, requestID string, err error) {
	var v *cErr.Error
	if errors.As(err, &v) {
		Fail(c, requestID, v.HttpCode(), v.ErrorCode(), v.Error(), v.ErrorDesc())
	} else {
		Fail(c, requestID, http.StatusInternalServerError, cErr.INTERNAL_ERROR, cErr.MsgServerError, err.Error())
	}
}
