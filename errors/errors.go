/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	// ErrNotFound is returned when a host or record is not found
	ErrNotFound = errors.New("entity not found")

	// ErrAlreadyExists is returned when attempting to register something that already exists
	ErrAlreadyExists = errors.New("entity already exists")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrConditionFailed is returned when a conditional update fails
	ErrConditionFailed = errors.New("condition check failed")

	// ErrNoIndexMap is returned when no index map is found for a type
	ErrNoIndexMap = errors.New("no index map found for type")

	// ErrUnknownVariantType is returned when a type id does not resolve in the catalog
	ErrUnknownVariantType = errors.New("unknown variant type")

	// ErrStaleEntryReference is returned when an entry reference no longer belongs to a loadout
	ErrStaleEntryReference = errors.New("stale entry reference")

	// ErrCorruptSerializedBlob is returned when a serialized loadout cannot be decoded
	ErrCorruptSerializedBlob = errors.New("corrupt serialized blob")

	// ErrIndexOutOfRange is returned when a position falls outside a loadout
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrCatalogSealed is returned when registering into a sealed catalog
	ErrCatalogSealed = errors.New("catalog is sealed")

	// ErrLoadoutClosed is returned when adding to or loading a closed loadout
	ErrLoadoutClosed = errors.New("loadout is closed")
)

// NotFoundError represents an error when an entity is not found
type NotFoundError struct {
	Type string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with key %q not found", e.Type, e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// AlreadyExistsError represents an error when an entity already exists
type AlreadyExistsError struct {
	Type string
	Key  string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("%s with key %q already exists", e.Type, e.Key)
}

func (e *AlreadyExistsError) Is(target error) bool {
	return target == ErrAlreadyExists
}

// ValidationError represents an input validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// ConditionFailedError represents a failed conditional operation
type ConditionFailedError struct {
	Operation string
	Condition string
}

func (e *ConditionFailedError) Error() string {
	return fmt.Sprintf("condition check failed for %s operation: %s", e.Operation, e.Condition)
}

func (e *ConditionFailedError) Is(target error) bool {
	return target == ErrConditionFailed
}

// UnknownVariantTypeError is returned when a type id is not registered,
// or is registered under a different kind than the one requested.
type UnknownVariantTypeError struct {
	TypeID string
	Kind   string
}

func (e *UnknownVariantTypeError) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("unknown %s variant type %q", e.Kind, e.TypeID)
	}
	return fmt.Sprintf("unknown variant type %q", e.TypeID)
}

func (e *UnknownVariantTypeError) Is(target error) bool {
	return target == ErrUnknownVariantType
}

// StaleEntryReferenceError is returned when an operation names an entry that
// is no longer part of the loadout.
type StaleEntryReferenceError struct {
	Ref string
	Op  string
}

func (e *StaleEntryReferenceError) Error() string {
	return fmt.Sprintf("%s: entry %s is not in the loadout", e.Op, e.Ref)
}

func (e *StaleEntryReferenceError) Is(target error) bool {
	return target == ErrStaleEntryReference
}

// CorruptBlobError describes a decoding failure. Entry is the frame index of
// the damaged entry, or -1 when the stream framing itself is unreadable.
type CorruptBlobError struct {
	Entry  int
	Offset int
	Reason string
	Err    error
}

func (e *CorruptBlobError) Error() string {
	msg := e.Reason
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	if e.Entry < 0 {
		return fmt.Sprintf("corrupt blob at offset %d: %s", e.Offset, msg)
	}
	return fmt.Sprintf("corrupt entry %d at offset %d: %s", e.Entry, e.Offset, msg)
}

func (e *CorruptBlobError) Is(target error) bool {
	return target == ErrCorruptSerializedBlob
}

func (e *CorruptBlobError) Unwrap() error {
	return e.Err
}

// Framing reports whether the error makes the whole stream unreadable.
func (e *CorruptBlobError) Framing() bool {
	return e.Entry < 0
}

// IndexOutOfRangeError is returned when a position falls outside [0, Len)
// (or [0, Len] for inserts).
type IndexOutOfRangeError struct {
	Op    string
	Index int
	Len   int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("%s: index %d out of range for length %d", e.Op, e.Index, e.Len)
}

func (e *IndexOutOfRangeError) Is(target error) bool {
	return target == ErrIndexOutOfRange
}

// Helper functions for creating errors

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(entityType, key string) error {
	return &NotFoundError{Type: entityType, Key: key}
}

// NewAlreadyExistsError creates a new AlreadyExistsError
func NewAlreadyExistsError(entityType, key string) error {
	return &AlreadyExistsError{Type: entityType, Key: key}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewConditionFailedError creates a new ConditionFailedError
func NewConditionFailedError(operation, condition string) error {
	return &ConditionFailedError{Operation: operation, Condition: condition}
}

// NewUnknownVariantTypeError creates a new UnknownVariantTypeError
func NewUnknownVariantTypeError(typeID, kind string) error {
	return &UnknownVariantTypeError{TypeID: typeID, Kind: kind}
}

// NewStaleEntryReferenceError creates a new StaleEntryReferenceError
func NewStaleEntryReferenceError(op, ref string) error {
	return &StaleEntryReferenceError{Op: op, Ref: ref}
}

// NewIndexOutOfRangeError creates a new IndexOutOfRangeError
func NewIndexOutOfRangeError(op string, index, length int) error {
	return &IndexOutOfRangeError{Op: op, Index: index, Len: length}
}

// NewFramingError creates a CorruptBlobError for an unreadable stream
func NewFramingError(offset int, reason string, err error) error {
	return &CorruptBlobError{Entry: -1, Offset: offset, Reason: reason, Err: err}
}

// NewCorruptEntryError creates a CorruptBlobError for a single damaged entry
func NewCorruptEntryError(entry, offset int, reason string, err error) error {
	return &CorruptBlobError{Entry: entry, Offset: offset, Reason: reason, Err: err}
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsConditionFailed checks if an error is a condition failed error
func IsConditionFailed(err error) bool {
	return errors.Is(err, ErrConditionFailed)
}

// IsUnknownVariantType checks if an error is an unknown variant type error
func IsUnknownVariantType(err error) bool {
	return errors.Is(err, ErrUnknownVariantType)
}

// IsStaleEntryReference checks if an error is a stale entry reference error
func IsStaleEntryReference(err error) bool {
	return errors.Is(err, ErrStaleEntryReference)
}

// IsCorruptBlob checks if an error is a corrupt blob error
func IsCorruptBlob(err error) bool {
	return errors.Is(err, ErrCorruptSerializedBlob)
}

// IsIndexOutOfRange checks if an error is an index out of range error
func IsIndexOutOfRange(err error) bool {
	return errors.Is(err, ErrIndexOutOfRange)
}
