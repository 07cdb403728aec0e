package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"kabaddi-od/backend/internal/service"
	"kabaddi-od/backend/pkg/response"
)

// 请求体/查询参数无法绑定
const codeBadRequest = 10001

// handleServiceError 将 Service 层错误映射为统一响应
// 未识别的错误已在 Service 层记录，这里只返回 500
func handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		response.BadRequest(c, 20001, err.Error())
	case errors.Is(err, service.ErrInvalidSlotSelection):
		response.BadRequest(c, 20002, err.Error())
	case errors.Is(err, service.ErrEmailMismatch):
		response.BadRequest(c, 20003, err.Error())
	case errors.Is(err, service.ErrDuplicateSubmission):
		response.Conflict(c, 20004, err.Error())
	case errors.Is(err, service.ErrEditLimitReached):
		response.Forbidden(c, 20005, err.Error())
	case errors.Is(err, service.ErrSubmissionNotFound):
		response.NotFound(c, 20006, err.Error())
	case errors.Is(err, service.ErrConcurrentUpdate):
		response.Conflict(c, 20007, err.Error())
	case errors.Is(err, service.ErrSlotAlreadyExists):
		response.Conflict(c, 21001, err.Error())
	case errors.Is(err, service.ErrSlotNotFound):
		response.NotFound(c, 21002, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, 11001, err.Error())
	case errors.Is(err, service.ErrUsernameTaken):
		response.Conflict(c, 11002, err.Error())
	default:
		_ = c.Error(err)
		response.InternalError(c)
	}
}

// bindFailed 请求格式错误
func bindFailed(c *gin.Context, err error) {
	response.ErrorWithDetails(c, http.StatusBadRequest, codeBadRequest, "Invalid request", err.Error())
}
