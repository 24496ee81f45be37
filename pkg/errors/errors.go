package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrMissingParameter means the gateway itself is misconfigured
	// (missing identifier, secret key, action URL or algorithm). It is
	// raised at construction time, before any message is processed.
	ErrMissingParameter = NewError("MISSING_PARAMETER", "gateway configuration parameter missing", http.StatusInternalServerError)

	// ErrMissingField means a required protocol field is absent or
	// empty in an inbound or outbound field set.
	ErrMissingField = NewError("MISSING_FIELD", "required field missing", http.StatusBadRequest)

	// ErrUnexpectedField means a field outside the message whitelist
	// was present. It protects against protocol drift and injection of
	// unvalidated data.
	ErrUnexpectedField = NewError("UNEXPECTED_FIELD", "unexpected field present", http.StatusBadRequest)

	// ErrInvalidTransaction means signature verification failed on a
	// payment redirect. This is the tamper boundary and must never be
	// downgraded to a soft failure.
	ErrInvalidTransaction = NewError("INVALID_TRANSACTION", "the transaction is invalid, possible tampering", http.StatusForbidden)

	ErrNotFound = NewError("NOT_FOUND", "resource not found", http.StatusNotFound)
	ErrConflict = NewError("CONFLICT", "resource conflict", http.StatusConflict)
	ErrInternal = NewError("INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
)

type Error struct {
	Code    string
	Message string
	Status  int
	Details map[string]interface{}
	Cause   error
}

func NewError(code, message string, status int) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Status:  status,
		Details: make(map[string]interface{}),
	}
}

func (e *Error) Error() string {
	msg := e.Message

	if len(e.Details) > 0 {
		if detailMsg, ok := e.Details["message"].(string); ok && detailMsg != "" {
			msg = detailMsg
		}
	}

	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) WithCause(cause error) *Error {
	err := *e
	err.Cause = cause
	return &err
}

func (e *Error) WithDetail(key string, value interface{}) *Error {
	err := *e
	// The receiver is usually a package-level sentinel shared across
	// goroutines, so the details map must not be written in place.
	details := make(map[string]interface{}, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	err.Details = details
	return &err
}

func (e *Error) WithMessage(format string, args ...interface{}) *Error {
	return e.WithDetail("message", fmt.Sprintf(format, args...))
}

func Wrap(err error, appErr *Error) *Error {
	if err == nil {
		return nil
	}
	return appErr.WithCause(err)
}

func is(err error, code string) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

func IsMissingParameter(err error) bool   { return is(err, ErrMissingParameter.Code) }
func IsMissingField(err error) bool       { return is(err, ErrMissingField.Code) }
func IsUnexpectedField(err error) bool    { return is(err, ErrUnexpectedField.Code) }
func IsInvalidTransaction(err error) bool { return is(err, ErrInvalidTransaction.Code) }
func IsNotFound(err error) bool           { return is(err, ErrNotFound.Code) }
func IsConflict(err error) bool           { return is(err, ErrConflict.Code) }

func ToHTTPStatus(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return http.StatusInternalServerError
}

func ToErrorResponse(err error) map[string]interface{} {
	var appErr *Error
	if !errors.As(err, &appErr) {
		// If it's not our error type, wrap it
		appErr = ErrInternal.WithCause(err)
	}

	response := map[string]interface{}{
		"error":      appErr.Message,
		"error_code": appErr.Code,
	}

	if len(appErr.Details) > 0 {
		response["details"] = appErr.Details
	}

	return response
}
