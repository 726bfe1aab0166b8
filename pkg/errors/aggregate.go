package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Errors is an ordered batch of independent staging failures.
//
// A batch is only ever surfaced as an error when it holds at least one
// failure: build it up with Push/Extend and hand it back through Err, which
// returns nil for an empty batch.
type Errors struct {
	errs []*StagingError
}

// Single returns a batch holding exactly one failure
func Single(err *StagingError) *Errors {
	b := &Errors{}
	b.Push(err)
	return b
}

// Push appends one failure. A nil failure is ignored.
func (b *Errors) Push(err *StagingError) {
	if err == nil {
		return
	}
	b.errs = append(b.errs, err)
}

// Extend appends every failure carried by err. Batches are flattened,
// staging errors are appended as-is and foreign errors are wrapped with
// ErrUnknown.
func (b *Errors) Extend(err error) {
	if err == nil {
		return
	}

	var batch *Errors
	if errors.As(err, &batch) {
		b.errs = append(b.errs, batch.errs...)
		return
	}

	var stagingErr *StagingError
	if errors.As(err, &stagingErr) {
		b.errs = append(b.errs, stagingErr)
		return
	}

	b.errs = append(b.errs, Wrap(err, ErrUnknown, "unexpected failure"))
}

// Len returns the number of collected failures
func (b *Errors) Len() int {
	if b == nil {
		return 0
	}
	return len(b.errs)
}

// Errors returns a copy of the collected failures in insertion order
func (b *Errors) Errors() []*StagingError {
	if b == nil {
		return nil
	}
	out := make([]*StagingError, len(b.errs))
	copy(out, b.errs)
	return out
}

// Err returns nil when the batch is empty and the batch itself otherwise
func (b *Errors) Err() error {
	if b.Len() == 0 {
		return nil
	}
	return &Errors{errs: b.Errors()}
}

// Error renders one failure per line
func (b *Errors) Error() string {
	switch b.Len() {
	case 0:
		return "no errors"
	case 1:
		return b.errs[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d errors occurred:", len(b.errs))
	for _, err := range b.errs {
		sb.WriteString("\n  * ")
		sb.WriteString(err.Error())
	}
	return sb.String()
}

// Unwrap exposes every member to errors.Is and errors.As
func (b *Errors) Unwrap() []error {
	out := make([]error, 0, b.Len())
	for _, err := range b.errs {
		out = append(out, err)
	}
	return out
}

// Partition applies fn to every item, returning the successful values in
// order and routing every failure into errs. It never stops at the first
// failure.
func Partition[T, R any](items []T, errs *Errors, fn func(T) (R, error)) []R {
	out := make([]R, 0, len(items))
	for _, item := range items {
		v, err := fn(item)
		if err != nil {
			errs.Extend(err)
			continue
		}
		out = append(out, v)
	}
	return out
}

// Collect runs every fn and returns the aggregate of their failures, or nil
func Collect(fns ...func() error) error {
	var errs Errors
	for _, fn := range fns {
		errs.Extend(fn())
	}
	return errs.Err()
}
