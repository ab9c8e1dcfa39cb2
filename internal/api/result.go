package api

import "fmt"

// StatusTransport marks failures that happen before any response is
// obtained (DNS, connection, timeout). A real server can never produce it.
const StatusTransport = 0

// Result is the single value every client operation resolves to. Exactly
// one side is populated: OK carries Data, !OK carries Status and Err.
// Callers branch on OK alone; status codes are informational.
type Result[T any] struct {
	OK     bool
	Data   T
	Status int
	Err    string
}

// Ok wraps a successful payload.
func Ok[T any](data T) Result[T] {
	return Result[T]{OK: true, Data: data}
}

// Fail wraps a normalized failure.
func Fail[T any](status int, message string) Result[T] {
	return Result[T]{OK: false, Status: status, Err: message}
}

// FailStatus synthesizes the fallback message for a failure response whose
// body carried no usable error field.
func FailStatus[T any](status int) Result[T] {
	return Fail[T](status, fmt.Sprintf("Request failed with status %d", status))
}

// Retryable reports whether the failure happened before the server ever
// answered. Presentation-only: commit/revert/no-cache behavior never
// depends on it.
func (r Result[T]) Retryable() bool {
	return !r.OK && r.Status == StatusTransport
}
