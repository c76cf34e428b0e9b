package domain

import (
	"errors"
	"fmt"
)

// Validation errors, caused by client input.
var (
	ErrInvalidSection          = errors.New("invalid website section")
	ErrLinkHasTransferProtocol = errors.New("website link includes transfer protocol")
	ErrMalformedForm           = errors.New("malformed website form")
)

// ErrNotFound is returned when deleting a website that does not exist.
var ErrNotFound = errors.New("website does not exist")

// ErrStorage matches every StoreError via errors.Is.
var ErrStorage = errors.New("website storage failure")

// Op names the store operation that failed.
type Op string

const (
	OpRetrieve Op = "retrieve"
	OpInsert   Op = "insert"
	OpDelete   Op = "delete"
)

// StoreError wraps a failure surfaced by the backing store.
type StoreError struct {
	Op      Op
	Section *Section // set for retrievals only
	Err     error
}

func (e *StoreError) Error() string {
	switch {
	case e.Op == OpRetrieve && e.Section != nil:
		return fmt.Sprintf("cannot retrieve %s websites: %v", e.Section, e.Err)
	case e.Op == OpRetrieve:
		return fmt.Sprintf("cannot retrieve websites: %v", e.Err)
	case e.Op == OpInsert:
		return fmt.Sprintf("cannot insert website: %v", e.Err)
	case e.Op == OpDelete:
		return fmt.Sprintf("cannot delete website: %v", e.Err)
	}
	return fmt.Sprintf("website store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func (e *StoreError) Is(target error) bool { return target == ErrStorage }

// RetrievalFailed wraps err as a failed read of section.
func RetrievalFailed(section Section, err error) error {
	return &StoreError{Op: OpRetrieve, Section: &section, Err: err}
}

// InsertFailed wraps err as a failed upsert.
func InsertFailed(err error) error {
	return &StoreError{Op: OpInsert, Err: err}
}

// DeleteFailed wraps err as a failed delete.
func DeleteFailed(err error) error {
	return &StoreError{Op: OpDelete, Err: err}
}

// IsValidation reports whether err was caused by invalid client input.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidSection) ||
		errors.Is(err, ErrLinkHasTransferProtocol) ||
		errors.Is(err, ErrMalformedForm)
}
