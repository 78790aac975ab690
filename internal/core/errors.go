package core

import "errors"

// Error codes carried by SessionError on the error event surface.
const (
	ErrCodeDecodeFailed = "decode_failed"
	ErrCodeWriteFailed  = "write_failed"
	ErrCodeStream       = "stream_error"
)

var (
	// ErrIdentityNotEstablished is returned by operations that need the
	// authenticated identity before the server has announced it.
	ErrIdentityNotEstablished = errors.New("identity not established")
	// ErrNotConnected is returned by send operations before Connect.
	ErrNotConnected = errors.New("not connected")
)

// SessionError wraps a code and the underlying cause for errors
// surfaced through the event surface rather than as return values.
type SessionError struct {
	Code string
	Err  error
}

func (e *SessionError) Error() string {
	return e.Code + ": " + e.Err.Error()
}

func (e *SessionError) Unwrap() error {
	return e.Err
}

func sessionError(code string, err error) *SessionError {
	return &SessionError{Code: code, Err: err}
}
