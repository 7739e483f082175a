package source

import "fmt"

// Error represents a failure to list or read documents
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("source error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("source error: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// TooLargeError represents a document over the configured size limit
type TooLargeError struct {
	Name  string
	Limit int64
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("document %s exceeds the %d byte limit", e.Name, e.Limit)
}
