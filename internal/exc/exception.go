// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package exc

import (
	"errors"
	"fmt"
)

type Exception interface {
	error
	Code() string
	Message() string
	Location() Location
}

// Location points at the logical statement that caused an exception. File
// and Line come from the preprocessor line markers. Statement is the
// normalized statement text and may be empty.
type Location struct {
	File      string
	Line      int
	Statement string
}

func (l Location) String() string {
	if l.File == "" {
		return "<unknown>"
	}
	if l.Line < 1 {
		return l.File
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

type exc struct {
	code     string
	message  string
	location Location
}

func (e *exc) Error() string {
	if e.location.Statement != "" {
		return fmt.Sprintf("%s -- %s: %s: %q", e.location, e.code, e.message, e.location.Statement)
	}
	return fmt.Sprintf("%s -- %s: %s", e.location, e.code, e.message)
}

func (e *exc) Code() string {
	return e.code
}

func (e *exc) Message() string {
	return e.message
}

func (e *exc) Location() Location {
	return e.location
}

type excUnwrap struct {
	Exception
	cause error
}

func (e *excUnwrap) Unwrap() error {
	return e.cause
}

func New(location Location, code string, message string) Exception {
	return &exc{
		location: location,
		message:  message,
		code:     code,
	}
}

func Newf(location Location, code string, format string, args ...interface{}) Exception {
	return New(location, code, fmt.Sprintf(format, args...))
}

func Wrap(location Location, code string, err error) Exception {
	if err == nil {
		return nil
	}
	if e, ok := err.(Exception); ok {
		return &excUnwrap{
			Exception: New(location, code, e.Message()),
			cause:     e,
		}
	}
	return &excUnwrap{
		cause:     err,
		Exception: New(location, code, err.Error()),
	}
}

func WrapUnknown(location Location, err error) Exception {
	return Wrap(location, CodeUnknownFatal, err)
}

// Relocate attaches a location to err while keeping its code. Exceptions
// that already carry a file are returned unchanged.
func Relocate(location Location, err error) Exception {
	if err == nil {
		return nil
	}
	var e Exception
	if errors.As(err, &e) {
		if e.Location().File != "" {
			return e
		}
		return Wrap(location, e.Code(), err)
	}
	return WrapUnknown(location, err)
}

// CodeOf returns the code of the first Exception in err's chain.
func CodeOf(err error) string {
	var e Exception
	if errors.As(err, &e) {
		return e.Code()
	}
	return CodeUnknownFatal
}
