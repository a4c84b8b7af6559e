/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package loadout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suparena/variantstore/codec"
	"github.com/suparena/variantstore/errors"
	"github.com/suparena/variantstore/registry"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSerializeRoundTrip(t *testing.T) {
	c := testCatalog(t)
	r := build(t, c, "A", "Jump", "C", "A")
	second, _ := r.At(1)
	require.NoError(t, r.SetField(second.ID(), "force", 7.5))
	require.NoError(t, r.SetPointer("default", 2))

	blob := mustBlob(t, r)
	restored, rep, err := Deserialize(blob, registry.KindAbility, c)
	require.NoError(t, err)
	assert.True(t, rep.Clean())

	assert.Equal(t, r.TypeIDs(), restored.TypeIDs())
	for i, e := range restored.Entries() {
		orig, _ := r.At(i)
		assert.True(t, orig.Fields().Equal(e.Fields()), "entry %d", i)
		assert.NotEqual(t, orig.ID(), e.ID(), "entry ids are not persisted")
	}
	assert.Equal(t, r.Pointers(), restored.Pointers())
	assert.Equal(t, blob, mustBlob(t, restored))
}

func TestLoadDropsUnknownType(t *testing.T) {
	full := testCatalog(t)
	r := build(t, full, "A", "B", "Jump", "C", "D")
	require.NoError(t, r.SetPointer("default", 2))
	require.NoError(t, r.SetPointer("active", 3))
	blob := mustBlob(t, r)

	// Jump has since been deleted from the codebase.
	trimmed := registry.NewCatalog()
	for _, id := range []string{"A", "B", "C", "D"} {
		m, _ := full.Lookup(id)
		trimmed.MustRegister(m)
	}

	core, logs := observer.New(zapcore.WarnLevel)
	restored, rep, err := Deserialize(blob, registry.KindAbility, trimmed, WithLogger(zap.New(core)))
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B", "C", "D"}, restored.TypeIDs())
	assertContiguous(t, restored)

	require.Len(t, rep.Dropped, 1)
	assert.Equal(t, 2, rep.Dropped[0].Ordinal)
	assert.Equal(t, "Jump", rep.Dropped[0].TypeID)
	assert.True(t, errors.IsUnknownVariantType(rep.Dropped[0].Err))
	assert.Equal(t, []string{"default"}, rep.ClearedPointers)

	active, ok := restored.Pointer("active")
	require.True(t, ok)
	assert.Equal(t, 2, active, "pointer remapped to C's new position")

	assert.Equal(t, 1, logs.FilterMessage("dropped entry while loading").Len())
}

func TestLoadResolvesRenamedType(t *testing.T) {
	old := registry.NewCatalog()
	old.MustRegister(registry.Metadata{TypeID: "JumpAbility", Kind: registry.KindAbility, Defaults: map[string]any{"force": 5}})
	blob := mustBlob(t, build(t, old, "JumpAbility"))

	restored, rep, err := Deserialize(blob, registry.KindAbility, testCatalog(t))
	require.NoError(t, err)
	assert.True(t, rep.Clean())
	assert.Equal(t, []string{"Jump"}, restored.TypeIDs())
}

func TestLoadBackfillsNewDefaults(t *testing.T) {
	old := registry.NewCatalog()
	old.MustRegister(registry.Metadata{TypeID: "Jump", Kind: registry.KindAbility, Defaults: map[string]any{"force": 8}})
	blob := mustBlob(t, build(t, old, "Jump"))

	restored, _, err := Deserialize(blob, registry.KindAbility, testCatalog(t))
	require.NoError(t, err)
	e, _ := restored.At(0)
	force, _ := e.Field("force")
	airborne, ok := e.Field("airborne")
	assert.Equal(t, 8.0, force, "stored values win over defaults")
	assert.True(t, ok)
	assert.Equal(t, false, airborne)
}

func TestLoadFramingErrorLeavesLoadoutUnchanged(t *testing.T) {
	r := build(t, testCatalog(t), "A", "B")
	before := mustBlob(t, r)

	var changes int
	r.Subscribe(func(Change) { changes++ })

	_, err := r.Load([]byte("not a loadout"))
	require.Error(t, err)
	var cbe *errors.CorruptBlobError
	require.ErrorAs(t, err, &cbe)
	assert.True(t, cbe.Framing())

	assert.Equal(t, []string{"A", "B"}, r.TypeIDs())
	assert.Equal(t, before, mustBlob(t, r))
	assert.Zero(t, changes)

	_, _, err = Deserialize(nil, registry.KindAbility, testCatalog(t))
	assert.True(t, errors.IsCorruptBlob(err))
}

func TestLoadReplacesContents(t *testing.T) {
	c := testCatalog(t)
	src := build(t, c, "C", "D")
	r := build(t, c, "A", "B", "E")
	old, _ := r.At(0)

	var got []Change
	r.Subscribe(func(ch Change) { got = append(got, ch) })

	rep, err := r.Load(mustBlob(t, src))
	require.NoError(t, err)
	assert.True(t, rep.Clean())
	assert.Equal(t, []string{"C", "D"}, r.TypeIDs())
	assert.Equal(t, -1, old.Ordinal())
	require.Len(t, got, 1)
	assert.Equal(t, OpLoad, got[0].Op)
}

func TestLoadWithYAMLCodec(t *testing.T) {
	c := testCatalog(t)
	r := New(registry.KindAbility, c, WithCodec(codec.YAML{}))
	_, err := r.Add("Jump")
	require.NoError(t, err)

	doc := mustBlob(t, r)
	assert.Contains(t, string(doc), "type: Jump")

	restored, _, err := Deserialize(doc, registry.KindAbility, c, WithCodec(codec.YAML{}))
	require.NoError(t, err)
	assert.Equal(t, []string{"Jump"}, restored.TypeIDs())
}

func TestLoadSkipsEntriesOfOtherKind(t *testing.T) {
	c := testCatalog(t)
	movement := New(registry.KindMovementType, c)
	_, err := movement.Add("Combat")
	require.NoError(t, err)

	restored, rep, err := Deserialize(mustBlob(t, movement), registry.KindAbility, c)
	require.NoError(t, err)
	assert.Zero(t, restored.Len())
	require.Len(t, rep.Dropped, 1)
	assert.Equal(t, "Combat", rep.Dropped[0].TypeID)
}
