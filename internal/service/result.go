package service

// Result is the uniform outcome of every use case. Expected business failures
// are carried as unsuccessful results; infrastructure problems are returned as errors.
type Result[T any] struct {
	IsSuccess bool     `json:"isSuccess"`
	Data      T        `json:"data"`
	Message   string   `json:"message"`
	Errors    []string `json:"errors"`
}

// Success builds a successful result. A zero data value is allowed.
func Success[T any](data T, message string) Result[T] {
	return Result[T]{
		IsSuccess: true,
		Data:      data,
		Message:   message,
		Errors:    []string{},
	}
}

// Failure builds a failed result with optional detail messages.
func Failure[T any](message string, errs ...string) Result[T] {
	if errs == nil {
		errs = []string{}
	}
	return Result[T]{
		Message: message,
		Errors:  errs,
	}
}
