// Package errors provides comprehensive error handling utilities for ebmcore.
//
// This file defines the error kinds required by the engine's external
// interface: every call into bitpack, tensor, dataset, boosting,
// interaction, or ebm returns one of these kinds (or nil), never a bare
// fmt.Errorf, so callers can branch with errors.Is.

package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// InvalidArgumentError reports a negative count, a misaligned bit-pack
// width, a feature combination wider than the engine's dimension cap, or
// a zero bin count.
type InvalidArgumentError struct {
	Op     string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("ebmcore: %s: invalid argument: %s", e.Op, e.Reason)
}

// NewInvalidArgumentError creates a new InvalidArgumentError and attaches a stack trace.
func NewInvalidArgumentError(op, reason string) error {
	return errors.WithStack(&InvalidArgumentError{Op: op, Reason: reason})
}

// CapacityExceededError reports arithmetic overflow in a size product,
// e.g. the linearized bin count of a feature combination overflowing a
// machine word.
type CapacityExceededError struct {
	Op     string
	Detail string
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("ebmcore: %s: capacity exceeded: %s", e.Op, e.Detail)
}

// NewCapacityExceededError creates a new CapacityExceededError and attaches a stack trace.
func NewCapacityExceededError(op, detail string) error {
	return errors.WithStack(&CapacityExceededError{Op: op, Detail: detail})
}

// ResourceExhaustedError reports an allocation failure, e.g. a histogram
// too large to allocate in InteractionScorer.
type ResourceExhaustedError struct {
	Op     string
	Detail string
}

func (e *ResourceExhaustedError) Error() string {
	return fmt.Sprintf("ebmcore: %s: resource exhausted: %s", e.Op, e.Detail)
}

// NewResourceExhaustedError creates a new ResourceExhaustedError and attaches a stack trace.
func NewResourceExhaustedError(op, detail string) error {
	return errors.WithStack(&ResourceExhaustedError{Op: op, Detail: detail})
}

// CombinationTooLargeError reports a feature combination whose dimension
// count exceeds the engine's configured maximum.
type CombinationTooLargeError struct {
	Op       string
	Got      int
	MaxDims  int
}

func (e *CombinationTooLargeError) Error() string {
	return fmt.Sprintf("ebmcore: %s: combination has %d features, exceeds max dimensions %d", e.Op, e.Got, e.MaxDims)
}

// NewCombinationTooLargeError creates a new CombinationTooLargeError and attaches a stack trace.
func NewCombinationTooLargeError(op string, got, maxDims int) error {
	return errors.WithStack(&CombinationTooLargeError{Op: op, Got: got, MaxDims: maxDims})
}

// InvalidLayoutError reports a bit-pack layout whose items-per-word and
// bits-per-item cannot fit inside the storage word.
type InvalidLayoutError struct {
	Op               string
	ItemsPerWord     int
	BitsPerItem      int
	WordBits         int
}

func (e *InvalidLayoutError) Error() string {
	return fmt.Sprintf("ebmcore: %s: layout %d items * %d bits/item exceeds %d-bit word",
		e.Op, e.ItemsPerWord, e.BitsPerItem, e.WordBits)
}

// NewInvalidLayoutError creates a new InvalidLayoutError and attaches a stack trace.
func NewInvalidLayoutError(op string, itemsPerWord, bitsPerItem, wordBits int) error {
	return errors.WithStack(&InvalidLayoutError{
		Op:           op,
		ItemsPerWord: itemsPerWord,
		BitsPerItem:  bitsPerItem,
		WordBits:     wordBits,
	})
}

// NumericNonFiniteError marks a round whose accumulated metric went
// non-finite. Per spec, callers observe this only through a returned
// +Inf metric, never as a hard error from apply — it exists so tests and
// internal plumbing can still use errors.Is against a stable sentinel
// when they need to distinguish "rejected round" from "ordinary metric".
type NumericNonFiniteError struct {
	Op        string
	Operation string
}

func (e *NumericNonFiniteError) Error() string {
	return fmt.Sprintf("ebmcore: %s: non-finite value produced during %s", e.Op, e.Operation)
}

// NewNumericNonFiniteError creates a new NumericNonFiniteError.
func NewNumericNonFiniteError(op, operation string) error {
	return errors.WithStack(&NumericNonFiniteError{Op: op, Operation: operation})
}

// ErrDegenerateCombination is returned by nothing directly — per spec a
// degenerate combination (a feature with bin count <= 1) is reported
// silently as score 0, not as an error. It is kept as a sentinel so
// internal code and tests can still recognize the condition by identity
// when short-circuiting before allocation.
var ErrDegenerateCombination = errors.New("ebmcore: degenerate combination short-circuited to score 0")
