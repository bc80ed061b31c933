package calc

import (
	"errors"
	"fmt"
	"strings"
)

// ErrQuit is returned through Execute when the session should end. It is
// not an error condition; the front end checks for it with errors.Is.
var ErrQuit = errors.New("quit")

// CalculatorError is the general "this command could not run" error:
// unknown commands, bad counts, and failures raised by an invoked callable.
type CalculatorError struct {
	msg string
}

func (e *CalculatorError) Error() string {
	return e.msg
}

// calcErrorf builds a CalculatorError from a format string.
func calcErrorf(format string, args ...interface{}) *CalculatorError {
	return &CalculatorError{msg: fmt.Sprintf(format, args...)}
}

// StackError indicates that the stack did not hold the operands a command
// needed: too few items, or no item of the required kind.
type StackError struct {
	msg string
}

func (e *StackError) Error() string {
	return e.msg
}

func stackErrorf(format string, args ...interface{}) *StackError {
	return &StackError{msg: fmt.Sprintf(format, args...)}
}

// SyntaxError indicates a token that could not be parsed: a malformed
// literal expression or a malformed modifier section.
type SyntaxError struct {
	msg string
}

func (e *SyntaxError) Error() string {
	return e.msg
}

func syntaxErrorf(format string, args ...interface{}) *SyntaxError {
	return &SyntaxError{msg: fmt.Sprintf(format, args...)}
}

// UnknownModifiersError reports unrecognized modifier letters in a token's
// modifier section.
type UnknownModifiersError struct {
	Letters []string
}

func (e *UnknownModifiersError) Error() string {
	return "Unknown modifiers: " + strings.Join(e.Letters, ", ")
}

// IncompatibleModifiersError reports a modifier combination that makes no
// sense (e.g. push together with preserve-stack).
type IncompatibleModifiersError struct {
	Reason string
}

func (e *IncompatibleModifiersError) Error() string {
	return "Incompatible modifiers: " + e.Reason
}
