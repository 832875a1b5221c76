// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import (
	"errors"
	"fmt"
)

// Kinds of errors reported by the kernel. Every error recorded or returned by
// a Kernel wraps exactly one of these values, so that callers can test for a
// specific condition with errors.Is.
var (
	// ErrRunning is returned when calling a method on a kernel after Done.
	ErrRunning = errors.New("bdd: kernel not running")
	// ErrVar is returned when a variable is outside of [0..Varnum).
	ErrVar = errors.New("bdd: unknown variable")
	// ErrRange is returned when a value is outside of its legal range.
	ErrRange = errors.New("bdd: value out of range")
	// ErrVarnum is returned when the number of variables is wrong.
	ErrVarnum = errors.New("bdd: bad number of variables")
	// ErrVarblock is returned when a variable block is illegal or overlaps
	// partially with an existing block.
	ErrVarblock = errors.New("bdd: bad variable block")
	// ErrMemory is returned when there are no free nodes left and the node
	// table cannot be resized.
	ErrMemory = errors.New("bdd: out of memory")
	// ErrOp is returned for an operator that cannot be used in this context.
	ErrOp = errors.New("bdd: unsupported operator")
	// ErrNode is returned for a nil handle, or a handle on an unused node.
	ErrNode = errors.New("bdd: illegal node")
	// ErrOrder is returned when a variable order is not a permutation of the
	// variables, or when it breaks a variable block.
	ErrOrder = errors.New("bdd: bad variable order")
)

// Err returns the error status of the kernel, or nil if no error occurred
// since the last call to ClearError.
func (b *Kernel) Err() error {
	return b.err
}

// Error returns the error status of the kernel as a string. We return an empty
// string if there are no errors.
func (b *Kernel) Error() string {
	if b.err == nil {
		return ""
	}
	return b.err.Error()
}

// Errored returns true if there was an error during a computation.
func (b *Kernel) Errored() bool {
	return b.err != nil
}

// ClearError resets the error status of the kernel.
func (b *Kernel) ClearError() {
	b.err = nil
}

// fail records a new error of the given kind and returns it. The error status
// keeps track of previous errors.
func (b *Kernel) fail(kind error, format string, a ...interface{}) error {
	err := fmt.Errorf(format+": %w", append(a, kind)...)
	b.adderror(err)
	return err
}

// seterror is the version of fail used in operations returning a Node. It
// always returns the constant False.
func (b *Kernel) seterror(kind error, format string, a ...interface{}) Node {
	b.fail(kind, format, a...)
	return bddzero
}

func (b *Kernel) adderror(err error) {
	if b.err == nil {
		b.err = err
		return
	}
	b.err = fmt.Errorf("%w; %w", err, b.err)
}
