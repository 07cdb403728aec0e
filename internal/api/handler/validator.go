package handler

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"kabaddi-od/backend/internal/service"
)

// RegisterValidators 在 gin 的校验引擎上注册自定义标签
//   - regno: 规范化后符合学号格式，如 23BAI10056
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("regno", func(fl validator.FieldLevel) bool {
		return service.ValidRegNo(service.NormalizeRegNo(fl.Field().String()))
	})
}
