package textract

import "fmt"

// UnreadableError represents a document that could not be converted to text
type UnreadableError struct {
	Name    string
	Format  Format
	Message string
	Cause   error
}

func (e *UnreadableError) Error() string {
	prefix := fmt.Sprintf("unreadable document %s", e.Name)
	if e.Format != "" {
		prefix = fmt.Sprintf("unreadable %s document %s", e.Format, e.Name)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *UnreadableError) Unwrap() error {
	return e.Cause
}

// UnsupportedFormatError represents a document whose format could not be determined
type UnsupportedFormatError struct {
	Name        string
	ContentType string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported document format for %q (detected %s)", e.Name, e.ContentType)
}

// InvalidEncodingError represents plain text that is not valid UTF-8
type InvalidEncodingError struct{}

func (e *InvalidEncodingError) Error() string {
	return "text is not valid UTF-8"
}
