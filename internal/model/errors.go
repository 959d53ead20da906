package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrorKind classifies failures raised by the value model and the engine on top of it.
type ErrorKind int

const (
	// InvalidArgument is a missing or empty required input.
	InvalidArgument ErrorKind = iota + 1
	// OutOfRange is an input outside its accepted domain (non-UTC time, bad interval, bad VAT...).
	OutOfRange
	// DataMisalignment is a semantic failure while combining values (units, devices, register wrap).
	DataMisalignment
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidArgument:
		return "invalid argument"
	case OutOfRange:
		return "out of range"
	case DataMisalignment:
		return "data misalignment"
	default:
		return "unknown"
	}
}

// Error carries a kind and a message. Use errors.Is against the Err* sentinels.
type Error struct {
	Kind ErrorKind
	Msg  string
}

var (
	ErrInvalidArgument  = &Error{Kind: InvalidArgument}
	ErrOutOfRange       = &Error{Kind: OutOfRange}
	ErrDataMisalignment = &Error{Kind: DataMisalignment}
)

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Msg
}

// Is matches any *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func invalidArgument(format string, args ...any) error {
	return &Error{Kind: InvalidArgument, Msg: fmt.Sprintf(format, args...)}
}

func outOfRange(format string, args ...any) error {
	return &Error{Kind: OutOfRange, Msg: fmt.Sprintf(format, args...)}
}

func dataMisalignment(format string, args ...any) error {
	return &Error{Kind: DataMisalignment, Msg: fmt.Sprintf(format, args...)}
}

// NewError builds an *Error for packages layered on top of the model.
func NewError(kind ErrorKind, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// IsDataMisalignment reports whether err (or anything it wraps) is a DataMisalignment error.
func IsDataMisalignment(err error) bool {
	return errors.Is(err, ErrDataMisalignment)
}

// RequireUTC fails with OutOfRange when t is not in UTC.
func RequireUTC(name string, t time.Time) error {
	if t.Location() != time.UTC {
		return outOfRange("%s must be UTC", name)
	}
	return nil
}
