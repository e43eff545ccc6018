package command

import "fmt"

// ErrNotFound reports a name that resolved to no command. Session
// LookPath implementations return it to signal that external dispatch is
// disabled or found nothing.
var ErrNotFound = fmt.Errorf("command not found")

// ArgumentCountError reports too few tokens for the declared positional
// parameters, or a valued option missing its values.
type ArgumentCountError struct {
	Command string
	Param   string
	Want    int
	Got     int
}

func (e *ArgumentCountError) Error() string {
	return fmt.Sprintf("%s: expected %d value(s) for %q, got %d",
		e.Command, e.Want, e.Param, e.Got)
}

// UnknownOptionError reports a token in option position that matches no
// registered flag spelling.
type UnknownOptionError struct {
	Command string
	Option  string
}

func (e *UnknownOptionError) Error() string {
	return fmt.Sprintf("%s: unexpected optional argument %q", e.Command, e.Option)
}

// TypeConversionError wraps a dtype conversion failure for one value.
type TypeConversionError struct {
	Command string
	Param   string
	Value   string
	Cause   error
}

func (e *TypeConversionError) Error() string {
	return fmt.Sprintf("%s: bad value %q for %q: %v", e.Command, e.Param, e.Value, e.Cause)
}

func (e *TypeConversionError) Unwrap() error { return e.Cause }

// ArgumentError wraps a failure raised by the invoked callable itself.
type ArgumentError struct {
	Command string
	Cause   error
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%s: %v", e.Command, e.Cause)
}

func (e *ArgumentError) Unwrap() error { return e.Cause }
