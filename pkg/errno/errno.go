package errno

import (
	"errors"
	"fmt"
)

// Errno defines the error code logic
type Errno struct {
	Code    int
	Message string
}

func (e *Errno) Error() string {
	return e.Message
}

// WithDetailf returns a copy of the error with extra context appended to the
// message (entity id, attempted transition, ...). The code is preserved so
// callers can still match on it.
func (e *Errno) WithDetailf(format string, args ...interface{}) *Errno {
	return &Errno{
		Code:    e.Code,
		Message: e.Message + ": " + fmt.Sprintf(format, args...),
	}
}

// IsCode reports whether err carries the same code as target.
func IsCode(err error, target *Errno) bool {
	var typed *Errno
	if errors.As(err, &typed) {
		return typed.Code == target.Code
	}
	return false
}

// Decode tries to convert an error to Errno
func Decode(err error) (int, string) {
	if err == nil {
		return OK.Code, OK.Message
	}

	var typed *Errno
	if errors.As(err, &typed) {
		return typed.Code, typed.Message
	}
	return InternalServerError.Code, err.Error()
}

// Common Errors
var (
	OK                  = &Errno{Code: 0, Message: "Success"}
	InternalServerError = &Errno{Code: 10001, Message: "Internal server error"}
	ErrBind             = &Errno{Code: 10002, Message: "Error occurred while binding the request body to the struct"}
	ErrValidation       = &Errno{Code: 10003, Message: "Validation failed"}
	ErrDatabase         = &Errno{Code: 10004, Message: "Database error"}
	ErrPermissionDenied = &Errno{Code: 10005, Message: "Operation not allowed for this caller"}
	ErrExternalService  = &Errno{Code: 10006, Message: "External service failure"}
)

// Business Errors (20000+)
var (
	ErrUserNotFound  = &Errno{Code: 20101, Message: "User not found"}
	ErrUsernameTaken = &Errno{Code: 20102, Message: "Username already claimed by another account"}

	ErrTransactionNotFound  = &Errno{Code: 20201, Message: "Transaction not found"}
	ErrTransactionFinalized = &Errno{Code: 20202, Message: "Transaction already in a terminal state"}

	ErrRequestNotFound = &Errno{Code: 20301, Message: "Payment request not found"}
	ErrRequestClosed   = &Errno{Code: 20302, Message: "Payment request already in a terminal state"}
)
