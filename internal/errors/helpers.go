package errors

import (
	"errors"
)

// As is a wrapper around errors.As that works with our Error type
func As(err error, target **Error) bool {
	return errors.As(err, target)
}

// Is checks if an error is of a specific type
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// GetCode extracts the error code from an error
func GetCode(err error) Code {
	if err == nil {
		return CodeOK
	}

	var customErr *Error
	if errors.As(err, &customErr) {
		return customErr.Code
	}

	return CodeInternal
}

// GetMeta extracts metadata from an error
func GetMeta(err error) map[string]any {
	if err == nil {
		return nil
	}

	var customErr *Error
	if errors.As(err, &customErr) {
		return customErr.Meta
	}

	return nil
}

// GetMessage extracts the human-readable message from an error
func GetMessage(err error) string {
	if err == nil {
		return ""
	}

	var customErr *Error
	if errors.As(err, &customErr) {
		return customErr.Message
	}

	return err.Error()
}

// IsMalformedLevel checks if an error is a malformed level error
func IsMalformedLevel(err error) bool {
	return GetCode(err) == CodeMalformedLevel
}

// IsInvalidAction checks if an error is an invalid action error
func IsInvalidAction(err error) bool {
	return GetCode(err) == CodeInvalidAction
}

// IsProtocol checks if an error is a protocol error
func IsProtocol(err error) bool {
	return GetCode(err) == CodeProtocol
}

// IsRegistration checks if an error is a registration error
func IsRegistration(err error) bool {
	return GetCode(err) == CodeRegistration
}

// IsDisconnect checks if an error is a disconnect error
func IsDisconnect(err error) bool {
	return GetCode(err) == CodeDisconnect
}
