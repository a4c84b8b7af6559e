/*
Package errors provides semantic error types for variantstore.

The package defines common error scenarios with specific types that can be
checked using the standard errors.Is() function or the provided helper functions.

Loadout Errors:

	var (
	    ErrUnknownVariantType    = errors.New("unknown variant type")
	    ErrStaleEntryReference   = errors.New("stale entry reference")
	    ErrCorruptSerializedBlob = errors.New("corrupt serialized blob")
	    ErrIndexOutOfRange       = errors.New("index out of range")
	)

All of them are recoverable. A CorruptBlobError with Framing() == true means the
stream could not be read at all; otherwise it names a single entry that was
skipped while the rest of the loadout decoded normally.

Usage:

	entry, err := abilities.Add("Glide")
	if err != nil {
	    if errors.IsUnknownVariantType(err) {
	        // report to the caller and skip the operation
	        return nil, fmt.Errorf("cannot add %q: %w", "Glide", err)
	    }
	    return nil, err
	}

Storage errors (NotFound, AlreadyExists, Validation, ConditionFailed) are shared
by the host set and the datastore implementations.
*/
package errors
