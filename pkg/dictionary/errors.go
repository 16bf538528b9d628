package dictionary

import "fmt"

// ParseError is returned for any dictionary file syntax or semantic error.
// It always carries the offending file and line so a caller can report a
// precise location, per the error taxonomy in the package design.
type ParseError struct {
	File    string
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Message)
}

func newParseError(file string, line int, format string, args ...interface{}) *ParseError {
	return &ParseError{File: file, Line: line, Message: fmt.Sprintf(format, args...)}
}
