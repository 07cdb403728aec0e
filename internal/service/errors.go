package service

import (
	"errors"
	"fmt"
)

// 报名流程错误（面向用户，消息直接返回前端）
var (
	ErrValidation           = errors.New("invalid input")
	ErrInvalidSlotSelection = errors.New("Invalid slots selected. Please refresh and try again.")
	ErrEmailMismatch        = errors.New("Email does not match the registration number")
	ErrDuplicateSubmission  = errors.New("This registration number has submitted a response for today. Contact admin for new response.")
	ErrEditLimitReached     = errors.New("You have reached the maximum number of edits (3). Please contact admin for further changes.")
	ErrSubmissionNotFound   = errors.New("Submission not found. It may have been deleted.")
	ErrConcurrentUpdate     = errors.New("Submission was changed by another request. Please reload and try again.")
)

// 时间段错误
var (
	ErrSlotAlreadyExists = errors.New("Slot already exists")
	ErrSlotNotFound      = errors.New("Slot not found")
)

// ValidationError 携带具体提示的校验错误，errors.Is(err, ErrValidation) 为真
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Is 使 ValidationError 可与 ErrValidation 比较
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func validationErrorf(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}
