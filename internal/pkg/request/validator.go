package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	cErr "resourcegen/internal/pkg/error"

	"github.com/go-playground/validator/v10"
)

type Validator interface {
	GetMessages() ValidatorMessages
}

type ValidatorMessages map[string]string

var reg = regexp.MustCompile(`\[\d\]`)

// GetError 把綁定錯誤轉成 ValidationError；欄位若有自訂訊息就優先使用
func GetError(request interface{}, err error) *cErr.Error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		v, isValidator := request.(Validator)

		var errorMessages []string
		for _, fe := range validationErrors {
			if isValidator {
				field := reg.ReplaceAllString(fe.Field(), ".*")
				if message, exist := v.GetMessages()[field+"."+fe.Tag()]; exist {
					errorMessages = append(errorMessages, message)
					continue
				}
			}
			errorMessages = append(errorMessages, fe.Error())
		}
		if len(errorMessages) > 0 {
			return cErr.ValidateErr(errorMessages[0])
		}
	}

	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return cErr.PayloadTooLarge(fmt.Sprintf("request body exceeds %d bytes", maxBytesErr.Limit))
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr):
		return cErr.ValidateErr("malformed JSON body")
	case errors.As(err, &typeErr):
		return cErr.ValidateErr("field " + typeErr.Field + " must be " + typeErr.Type.String())
	}
	return cErr.ValidateErr("Parameter error")
}
