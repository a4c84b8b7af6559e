/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

// EntryRecord is the serialized form of one loadout entry.
type EntryRecord struct {
	// TypeID is the variant type identifier, written explicitly so the
	// concrete variant can be reconstructed on decode.
	TypeID string
	// Fields holds the entry's field values.
	Fields Fields
	// Ordinal is the entry's position in the stream it was decoded from.
	// Encoders ignore it and write entries in slice order.
	Ordinal int
}

// Snapshot is the portable form of a loadout: the ordered entries plus the
// named pointers into them.
type Snapshot struct {
	Entries  []EntryRecord
	Pointers map[string]int
}

// SkippedEntry describes an entry frame that could not be decoded.
type SkippedEntry struct {
	Ordinal int
	TypeID  string
	Err     error
}

// Decoded is the result of decoding a blob. Skipped lists the entry frames
// that were dropped; Snapshot holds everything else in original order.
type Decoded struct {
	Snapshot Snapshot
	Skipped  []SkippedEntry
}
