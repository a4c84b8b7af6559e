/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package codec

import (
	"sort"

	"github.com/suparena/variantstore/storagemodels"
)

// Codec converts loadout snapshots to and from bytes.
//
// Decode must return a *errors.CorruptBlobError with Framing() == true when the
// stream cannot be read at all. Entries that fail individually are reported in
// Decoded.Skipped and the remaining entries keep their relative order.
type Codec interface {
	Encode(s storagemodels.Snapshot) ([]byte, error)
	Decode(b []byte) (*storagemodels.Decoded, error)
}

func sortedPointerNames(pointers map[string]int) []string {
	names := make([]string, 0, len(pointers))
	for name := range pointers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
