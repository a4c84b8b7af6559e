/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package codec

import (
	"fmt"

	"github.com/suparena/variantstore/errors"
	"github.com/suparena/variantstore/storagemodels"
	"gopkg.in/yaml.v3"
)

const yamlVersion = 1

// YAML is a human-readable rendering of a snapshot:
//
//	version: 1
//	entries:
//	  - type: Jump
//	    fields: {force: 5}
//	pointers: {default: 0}
//
// Entries are decoded one node at a time so a malformed entry is skipped
// like a corrupt binary frame.
type YAML struct{}

type yamlEntry struct {
	Type   string         `yaml:"type"`
	Fields map[string]any `yaml:"fields,omitempty"`
}

type yamlDoc struct {
	Version  int            `yaml:"version"`
	Entries  []yamlEntry    `yaml:"entries"`
	Pointers map[string]int `yaml:"pointers,omitempty"`
}

type yamlRawDoc struct {
	Version  int            `yaml:"version"`
	Entries  []yaml.Node    `yaml:"entries"`
	Pointers map[string]int `yaml:"pointers"`
}

// Encode renders s as a YAML document.
func (YAML) Encode(s storagemodels.Snapshot) ([]byte, error) {
	doc := yamlDoc{
		Version:  yamlVersion,
		Entries:  make([]yamlEntry, 0, len(s.Entries)),
		Pointers: s.Pointers,
	}
	for i, e := range s.Entries {
		if e.TypeID == "" {
			return nil, fmt.Errorf("encode entry %d: missing type id", i)
		}
		doc.Entries = append(doc.Entries, yamlEntry{Type: e.TypeID, Fields: e.Fields})
	}
	return yaml.Marshal(&doc)
}

// Decode parses a document written by Encode.
func (YAML) Decode(b []byte) (*storagemodels.Decoded, error) {
	var raw yamlRawDoc
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return nil, errors.NewFramingError(0, "unreadable yaml document", err)
	}
	if raw.Version != yamlVersion {
		return nil, errors.NewFramingError(0, fmt.Sprintf("unsupported version %d", raw.Version), nil)
	}

	out := &storagemodels.Decoded{}
	for i := range raw.Entries {
		node := &raw.Entries[i]
		rec, err := decodeYAMLEntry(node)
		if err != nil {
			out.Skipped = append(out.Skipped, storagemodels.SkippedEntry{
				Ordinal: i,
				TypeID:  rec.TypeID,
				Err:     errors.NewCorruptEntryError(i, node.Line, "undecodable entry", err),
			})
			continue
		}
		rec.Ordinal = i
		out.Snapshot.Entries = append(out.Snapshot.Entries, rec)
	}
	if len(raw.Pointers) > 0 {
		out.Snapshot.Pointers = raw.Pointers
	}
	return out, nil
}

func decodeYAMLEntry(node *yaml.Node) (storagemodels.EntryRecord, error) {
	var e yamlEntry
	if err := node.Decode(&e); err != nil {
		return storagemodels.EntryRecord{}, err
	}
	rec := storagemodels.EntryRecord{TypeID: e.Type}
	if e.Type == "" {
		return rec, fmt.Errorf("missing type id")
	}
	fields, err := storagemodels.Normalize(e.Fields)
	if err != nil {
		return rec, err
	}
	rec.Fields = fields
	return rec, nil
}
