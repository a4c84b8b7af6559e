/*
Package codec serializes loadout snapshots.

Binary is the persistence format. Every entry is a length-prefixed frame that
names its variant type id explicitly, so a decoder can rebuild the concrete
variant, and can step over an entry it cannot read without losing the rest of
the stream:

	blob, err := codec.Binary{}.Encode(snapshot)
	decoded, err := codec.Binary{}.Decode(blob)
	for _, s := range decoded.Skipped {
	    log.Printf("dropped entry %d: %v", s.Ordinal, s.Err)
	}

YAML renders the same snapshot for people, e.g. in the variantctl inspect command.

Type ids are strings, never catalog indices; resolving them against a catalog
is left to the loadout package.
*/
package codec
