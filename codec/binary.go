/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package codec

import (
	"fmt"

	"github.com/suparena/variantstore/errors"
	"github.com/suparena/variantstore/storagemodels"
	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// Magic prefixes every binary blob; the last byte is the format version.
const Magic = "VLD1"

const (
	entryTypeField   protowire.Number = 1
	entryFieldsField protowire.Number = 2

	pointerNameField     protowire.Number = 1
	pointerPositionField protowire.Number = 2
)

var marshalOpts = proto.MarshalOptions{Deterministic: true}

// Binary is the length-prefixed wire format used for persistence.
//
//	"VLD1"
//	uvarint N, then N entry frames    (uvarint len, payload)
//	uvarint M, then M pointer frames  (uvarint len, payload), sorted by name
//
// Entry payloads carry the type id (field 1) and a deterministic
// structpb.Struct of the field values (field 2). Pointer payloads carry the
// name (field 1) and the position (field 2). Unknown payload fields are ignored.
type Binary struct{}

// Encode writes s. Equal snapshots always produce identical bytes.
func (Binary) Encode(s storagemodels.Snapshot) ([]byte, error) {
	buf := make([]byte, 0, 64*len(s.Entries)+len(Magic)+2)
	buf = append(buf, Magic...)

	buf = protowire.AppendVarint(buf, uint64(len(s.Entries)))
	for i, e := range s.Entries {
		payload, err := encodeEntry(e)
		if err != nil {
			return nil, fmt.Errorf("encode entry %d (%s): %w", i, e.TypeID, err)
		}
		buf = protowire.AppendBytes(buf, payload)
	}

	names := sortedPointerNames(s.Pointers)
	buf = protowire.AppendVarint(buf, uint64(len(names)))
	for _, name := range names {
		pos := s.Pointers[name]
		if pos < 0 {
			return nil, fmt.Errorf("encode pointer %q: negative position %d", name, pos)
		}
		var p []byte
		p = protowire.AppendTag(p, pointerNameField, protowire.BytesType)
		p = protowire.AppendString(p, name)
		p = protowire.AppendTag(p, pointerPositionField, protowire.VarintType)
		p = protowire.AppendVarint(p, uint64(pos))
		buf = protowire.AppendBytes(buf, p)
	}
	return buf, nil
}

// Decode reads a blob written by Encode. Pointer frames that cannot be parsed
// are dropped; pointer positions refer to entry ordinals in the stream,
// skipped entries included.
func (Binary) Decode(b []byte) (*storagemodels.Decoded, error) {
	if len(b) < len(Magic) || string(b[:len(Magic)]) != Magic {
		return nil, errors.NewFramingError(0, "bad magic", nil)
	}
	off := len(Magic)

	count, n := protowire.ConsumeVarint(b[off:])
	if n < 0 {
		return nil, errors.NewFramingError(off, "entry count", protowire.ParseError(n))
	}
	if count > uint64(len(b)-off-n) {
		return nil, errors.NewFramingError(off, fmt.Sprintf("entry count %d exceeds blob size", count), nil)
	}
	off += n

	out := &storagemodels.Decoded{}
	for i := 0; i < int(count); i++ {
		payload, n := protowire.ConsumeBytes(b[off:])
		if n < 0 {
			return nil, errors.NewFramingError(off, fmt.Sprintf("entry frame %d", i), protowire.ParseError(n))
		}
		rec, err := decodeEntry(payload)
		if err != nil {
			out.Skipped = append(out.Skipped, storagemodels.SkippedEntry{
				Ordinal: i,
				TypeID:  rec.TypeID,
				Err:     errors.NewCorruptEntryError(i, off, "undecodable entry", err),
			})
		} else {
			rec.Ordinal = i
			out.Snapshot.Entries = append(out.Snapshot.Entries, rec)
		}
		off += n
	}

	// Blobs without a pointer section are accepted.
	if off == len(b) {
		return out, nil
	}

	pcount, n := protowire.ConsumeVarint(b[off:])
	if n < 0 {
		return nil, errors.NewFramingError(off, "pointer count", protowire.ParseError(n))
	}
	off += n
	for i := 0; i < int(pcount); i++ {
		payload, n := protowire.ConsumeBytes(b[off:])
		if n < 0 {
			return nil, errors.NewFramingError(off, fmt.Sprintf("pointer frame %d", i), protowire.ParseError(n))
		}
		off += n
		name, pos, ok := decodePointer(payload)
		if !ok {
			continue
		}
		if out.Snapshot.Pointers == nil {
			out.Snapshot.Pointers = make(map[string]int)
		}
		out.Snapshot.Pointers[name] = pos
	}
	return out, nil
}

func encodeEntry(e storagemodels.EntryRecord) ([]byte, error) {
	if e.TypeID == "" {
		return nil, fmt.Errorf("missing type id")
	}
	st, err := structpb.NewStruct(e.Fields)
	if err != nil {
		return nil, err
	}
	fields, err := marshalOpts.Marshal(st)
	if err != nil {
		return nil, err
	}

	var p []byte
	p = protowire.AppendTag(p, entryTypeField, protowire.BytesType)
	p = protowire.AppendString(p, e.TypeID)
	p = protowire.AppendTag(p, entryFieldsField, protowire.BytesType)
	p = protowire.AppendBytes(p, fields)
	return p, nil
}

func decodeEntry(b []byte) (storagemodels.EntryRecord, error) {
	var rec storagemodels.EntryRecord
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return rec, protowire.ParseError(n)
		}
		b = b[n:]

		switch {
		case num == entryTypeField && typ == protowire.BytesType:
			var v string
			v, n = protowire.ConsumeString(b)
			if n >= 0 {
				rec.TypeID = v
			}
		case num == entryFieldsField && typ == protowire.BytesType:
			var v []byte
			v, n = protowire.ConsumeBytes(b)
			if n >= 0 {
				st := &structpb.Struct{}
				if err := proto.Unmarshal(v, st); err != nil {
					return rec, fmt.Errorf("fields: %w", err)
				}
				rec.Fields = storagemodels.Fields(st.AsMap())
			}
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return rec, protowire.ParseError(n)
		}
		b = b[n:]
	}

	if rec.TypeID == "" {
		return rec, fmt.Errorf("missing type id")
	}
	if rec.Fields == nil {
		rec.Fields = storagemodels.Fields{}
	}
	return rec, nil
}

func decodePointer(b []byte) (string, int, bool) {
	var (
		name   string
		pos    uint64
		hasPos bool
	)
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return "", 0, false
		}
		b = b[n:]

		switch {
		case num == pointerNameField && typ == protowire.BytesType:
			name, n = protowire.ConsumeString(b)
		case num == pointerPositionField && typ == protowire.VarintType:
			pos, n = protowire.ConsumeVarint(b)
			hasPos = true
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return "", 0, false
		}
		b = b[n:]
	}
	if name == "" || !hasPos {
		return "", 0, false
	}
	return name, int(pos), true
}
