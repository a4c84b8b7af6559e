/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNotFoundError(t *testing.T) {
	err := NewNotFoundError("Host", "hero-1")

	expected := `Host with key "hero-1" not found`
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}

	if !IsNotFound(err) {
		t.Error("IsNotFound should return true for NotFoundError")
	}
}

func TestUnknownVariantTypeError(t *testing.T) {
	tests := []struct {
		name     string
		typeID   string
		kind     string
		expected string
	}{
		{
			name:     "with kind",
			typeID:   "Glide",
			kind:     "ability",
			expected: `unknown ability variant type "Glide"`,
		},
		{
			name:     "without kind",
			typeID:   "Glide",
			expected: `unknown variant type "Glide"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewUnknownVariantTypeError(tt.typeID, tt.kind)

			if err.Error() != tt.expected {
				t.Errorf("Expected error message %q, got %q", tt.expected, err.Error())
			}

			if !errors.Is(err, ErrUnknownVariantType) {
				t.Error("UnknownVariantTypeError should match ErrUnknownVariantType")
			}

			if !IsUnknownVariantType(err) {
				t.Error("IsUnknownVariantType should return true")
			}
		})
	}
}

func TestStaleEntryReferenceError(t *testing.T) {
	err := NewStaleEntryReferenceError("move", "1b4e28ba")

	expected := "move: entry 1b4e28ba is not in the loadout"
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}

	if !IsStaleEntryReference(err) {
		t.Error("IsStaleEntryReference should return true for StaleEntryReferenceError")
	}
}

func TestCorruptBlobError(t *testing.T) {
	cause := fmt.Errorf("unexpected EOF")

	framing := NewFramingError(0, "bad magic", nil)
	if framing.Error() != "corrupt blob at offset 0: bad magic" {
		t.Errorf("Unexpected framing message %q", framing.Error())
	}

	var cbe *CorruptBlobError
	if !errors.As(framing, &cbe) || !cbe.Framing() {
		t.Error("Framing error should report Framing() == true")
	}

	entry := NewCorruptEntryError(2, 17, "bad payload", cause)
	if entry.Error() != "corrupt entry 2 at offset 17: bad payload: unexpected EOF" {
		t.Errorf("Unexpected entry message %q", entry.Error())
	}
	if !errors.As(entry, &cbe) || cbe.Framing() {
		t.Error("Entry error should report Framing() == false")
	}
	if !errors.Is(entry, cause) {
		t.Error("CorruptBlobError should unwrap to its cause")
	}
	if !IsCorruptBlob(entry) || !IsCorruptBlob(framing) {
		t.Error("IsCorruptBlob should return true for both forms")
	}
}

func TestIndexOutOfRangeError(t *testing.T) {
	err := NewIndexOutOfRangeError("move", 5, 3)

	expected := "move: index 5 out of range for length 3"
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}

	if !IsIndexOutOfRange(err) {
		t.Error("IsIndexOutOfRange should return true for IndexOutOfRangeError")
	}
}

func TestValidationError(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		message  string
		expected string
	}{
		{
			name:     "with field",
			field:    "kind",
			message:  "unsupported kind",
			expected: `validation failed for field "kind": unsupported kind`,
		},
		{
			name:     "without field",
			field:    "",
			message:  "missing type id",
			expected: "validation failed: missing type id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewValidationError(tt.field, tt.message)

			if err.Error() != tt.expected {
				t.Errorf("Expected error message %q, got %q", tt.expected, err.Error())
			}

			if !IsValidationError(err) {
				t.Error("IsValidationError should return true for ValidationError")
			}
		})
	}
}

func TestConditionFailedError(t *testing.T) {
	err := NewConditionFailedError("save", "Version = :expectedVersion")

	expected := "condition check failed for save operation: Version = :expectedVersion"
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}

	if !IsConditionFailed(err) {
		t.Error("IsConditionFailed should return true for ConditionFailedError")
	}
}

func TestErrorWrapping(t *testing.T) {
	original := NewUnknownVariantTypeError("Glide", "ability")
	wrapped := fmt.Errorf("add variant: %w", original)

	if !IsUnknownVariantType(wrapped) {
		t.Error("IsUnknownVariantType should work with wrapped errors")
	}

	var uvt *UnknownVariantTypeError
	if !errors.As(wrapped, &uvt) || uvt.TypeID != "Glide" {
		t.Errorf("errors.As should recover the typed error, got %+v", uvt)
	}
}

func TestSentinelErrors(t *testing.T) {
	sentinels := []error{
		ErrNotFound,
		ErrAlreadyExists,
		ErrInvalidInput,
		ErrConditionFailed,
		ErrNoIndexMap,
		ErrUnknownVariantType,
		ErrStaleEntryReference,
		ErrCorruptSerializedBlob,
		ErrIndexOutOfRange,
		ErrCatalogSealed,
		ErrLoadoutClosed,
	}

	for i, err1 := range sentinels {
		for j, err2 := range sentinels {
			if i != j && errors.Is(err1, err2) {
				t.Errorf("Sentinel errors should be distinct: %v matches %v", err1, err2)
			}
		}
	}
}
