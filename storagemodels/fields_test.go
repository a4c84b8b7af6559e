/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	f, err := Normalize(map[string]any{
		"force":  5,
		"ratio":  float32(0.5),
		"name":   "jump",
		"on":     true,
		"none":   nil,
		"tags":   []string{"air", "ground"},
		"labels": map[string]string{"en": "Jump"},
		"nested": Fields{"depth": int64(2)},
		"raw":    []byte("hi"),
	})
	require.NoError(t, err)

	assert.Equal(t, 5.0, f["force"])
	assert.Equal(t, 0.5, f["ratio"])
	assert.Equal(t, "jump", f["name"])
	assert.Equal(t, true, f["on"])
	assert.Nil(t, f["none"])
	assert.Equal(t, []any{"air", "ground"}, f["tags"])
	assert.Equal(t, map[string]any{"en": "Jump"}, f["labels"])
	assert.Equal(t, map[string]any{"depth": 2.0}, f["nested"])
	assert.Equal(t, "aGk=", f["raw"])

	_, err = Normalize(map[string]any{"bad": struct{}{}})
	assert.Error(t, err)
}

func TestFieldsCloneIsDeep(t *testing.T) {
	f := Fields{"list": []any{1.0}, "map": map[string]any{"k": "v"}}
	c := f.Clone()
	c["list"].([]any)[0] = 2.0
	c["map"].(map[string]any)["k"] = "changed"

	assert.Equal(t, 1.0, f["list"].([]any)[0])
	assert.Equal(t, "v", f["map"].(map[string]any)["k"])
	assert.NotNil(t, Fields(nil).Clone())
}

func TestFieldsEqual(t *testing.T) {
	assert.True(t, Fields(nil).Equal(Fields{}))
	assert.True(t, Fields{"a": 1.0}.Equal(Fields{"a": 1.0}))
	assert.False(t, Fields{"a": 1.0}.Equal(Fields{"a": 2.0}))
	assert.False(t, Fields{"a": 1.0}.Equal(Fields{"b": 1.0}))
	assert.Equal(t, []string{"a", "b"}, Fields{"b": 1.0, "a": 1.0}.Keys())
}

func TestLoadoutRecordTimestamps(t *testing.T) {
	var rec LoadoutRecord
	got, err := rec.UpdatedTime()
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	now := time.Date(2025, 6, 1, 8, 30, 0, 0, time.FixedZone("x", 3600))
	rec.Touch(now)
	got, err = rec.UpdatedTime()
	require.NoError(t, err)
	assert.True(t, now.Equal(got))

	rec.UpdatedAt = "yesterday"
	_, err = rec.UpdatedTime()
	assert.Error(t, err)

	rec = LoadoutRecord{HostID: "h", Kind: "ability"}
	assert.Equal(t, LoadoutKey{HostID: "h", Kind: "ability"}, rec.Key())
}
