package core

import (
	"errors"
	"maps"
	"strconv"
)

type ErrorCode int

const (
	ErrorCodeInternal ErrorCode = iota
	ErrorCodeValidation
	ErrorCodeNotFound
	// ErrorCodeStorage marks a durable write that failed after the
	// operation itself succeeded. Callers treat it as a warning.
	ErrorCodeStorage
)

var errorCodeNames = [...]string{
	ErrorCodeInternal:   "internal",
	ErrorCodeValidation: "validation",
	ErrorCodeNotFound:   "not_found",
	ErrorCodeStorage:    "storage",
}

func (c ErrorCode) String() string {
	if c < 0 || int(c) >= len(errorCodeNames) {
		return "code(" + strconv.Itoa(int(c)) + ")"
	}
	return errorCodeNames[c]
}

// ExitCode is the process exit status for a command failing with c.
func (c ErrorCode) ExitCode() int {
	switch c {
	case ErrorCodeValidation:
		return 2
	case ErrorCodeNotFound:
		return 3
	case ErrorCodeStorage:
		return 4
	default:
		return 1
	}
}

// AppError is the error type crossing package borders. Lower layers wrap
// plain errors into it; the cli decides what to print from Code and
// SafeToShow.
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error

	Operation string
	Meta      map[string]string
	// SafeToShow means Message can be printed to the user as is.
	SafeToShow bool
}

func (e *AppError) Error() string {
	switch {
	case e == nil:
		return "<nil>"
	case e.Message == "" && e.Err != nil:
		return e.Code.String() + ": " + e.Err.Error()
	case e.Message == "":
		return e.Code.String()
	case e.Err != nil:
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches any AppError with the same code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && e.Code == t.Code
}

func (e *AppError) ExitCode() int {
	if e == nil {
		return 1
	}
	return e.Code.ExitCode()
}

func (e *AppError) PublicMessage() string {
	if e == nil || !e.SafeToShow || e.Message == "" {
		return "internal error"
	}
	return e.Message
}

// Clone copies the error, Meta included.
func (e *AppError) Clone() *AppError {
	if e == nil {
		return nil
	}
	c := *e
	c.Meta = maps.Clone(e.Meta)
	return &c
}

// WithOper returns a copy with Operation set.
func (e *AppError) WithOper(o string) *AppError {
	c := e.Clone()
	if c != nil {
		c.Operation = o
	}
	return c
}

// WithMeta returns a copy with k=v added to Meta.
func (e *AppError) WithMeta(k, v string) *AppError {
	c := e.Clone()
	if c == nil {
		return nil
	}
	if c.Meta == nil {
		c.Meta = make(map[string]string, 1)
	}
	c.Meta[k] = v
	return c
}

func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if err != nil && errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err is an AppError with the given code.
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

type AppErrorBuilder struct {
	e AppError
}

func NewAppErrorBuilder(code ErrorCode) *AppErrorBuilder {
	return &AppErrorBuilder{e: AppError{Code: code}}
}

func (b *AppErrorBuilder) Message(m string) *AppErrorBuilder {
	b.e.Message = m
	return b
}

func (b *AppErrorBuilder) Err(err error) *AppErrorBuilder {
	b.e.Err = err
	return b
}

func (b *AppErrorBuilder) Oper(o string) *AppErrorBuilder {
	b.e.Operation = o
	return b
}

func (b *AppErrorBuilder) Meta(k, v string) *AppErrorBuilder {
	if b.e.Meta == nil {
		b.e.Meta = make(map[string]string, 1)
	}
	b.e.Meta[k] = v
	return b
}

func (b *AppErrorBuilder) SafeToShow(safe bool) *AppErrorBuilder {
	b.e.SafeToShow = safe
	return b
}

// Build returns the error. The builder can be reused; errors already built
// do not share Meta with later ones.
func (b *AppErrorBuilder) Build() *AppError {
	e := b.e
	b.e.Meta = maps.Clone(b.e.Meta)
	return &e
}

func NewTaskInternalError(message string, err error, op string) *AppError {
	return NewAppErrorBuilder(ErrorCodeInternal).
		Message(message).
		Err(err).
		Oper(op).
		Build()
}

func NewTaskValidationError(message string, err error, op string) *AppError {
	return NewAppErrorBuilder(ErrorCodeValidation).
		Message(message).
		Err(err).
		Oper(op).
		SafeToShow(true).
		Build()
}

func NewTaskNotFoundError(taskID int, op string) *AppError {
	id := strconv.Itoa(taskID)
	return NewAppErrorBuilder(ErrorCodeNotFound).
		Message("task with ID " + id + " not found").
		Oper(op).
		Meta("task_id", id).
		SafeToShow(true).
		Build()
}

// NewTaskStorageError reports a save that failed after the change was
// applied. The message is shown to the user as a warning.
func NewTaskStorageError(message string, err error, op string) *AppError {
	return NewAppErrorBuilder(ErrorCodeStorage).
		Message(message).
		Err(err).
		Oper(op).
		SafeToShow(true).
		Build()
}
