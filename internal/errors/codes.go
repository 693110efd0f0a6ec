package errors

// Code represents an error code
type Code string

// Error codes
const (
	CodeOK             Code = "OK"
	CodeMalformedLevel Code = "MALFORMED_LEVEL"
	CodeInvalidAction  Code = "INVALID_ACTION"
	CodeProtocol       Code = "PROTOCOL"
	CodeRegistration   Code = "REGISTRATION"
	CodeDisconnect     Code = "DISCONNECT"
	CodeInternal       Code = "INTERNAL"
)

// String returns the string representation of the code
func (c Code) String() string {
	return string(c)
}

// Fatal reports whether an error with this code must stop the game from
// starting or continuing.
func (c Code) Fatal() bool {
	switch c {
	case CodeMalformedLevel, CodeInternal:
		return true
	default:
		return false
	}
}
