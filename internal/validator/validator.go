package validator

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// NotBlank 是一个自定义的校验函数，拒绝只包含空白字符的字符串
func NotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
