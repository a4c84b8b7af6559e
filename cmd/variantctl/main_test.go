/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suparena/variantstore/loadout"
	"github.com/suparena/variantstore/registry"
)

const testCatalogYAML = `
variants:
  - id: Jump
    kind: ability
    name: Jump
    order: 10
    aliases: [JumpAbility]
    companions: [Rigidbody]
    defaults: {force: 5}
  - id: Dash
    kind: ability
    order: 20
`

func run(t *testing.T, stdin []byte, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(bytes.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestVersionCommand(t *testing.T) {
	out, _, err := run(t, nil, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "variantctl version:")
	assert.Contains(t, out, "Blob format: VLD1")
}

func TestCatalogValidate(t *testing.T) {
	path := writeFile(t, "variants.yaml", []byte(testCatalogYAML))

	out, _, err := run(t, nil, "catalog", "validate", "--list", path)
	require.NoError(t, err)
	assert.Contains(t, out, "2 variants OK")
	assert.Contains(t, out, "Rigidbody")

	bad := writeFile(t, "bad.yaml", []byte("variants:\n  - id: X\n    kind: emote\n"))
	_, _, err = run(t, nil, "catalog", "validate", bad)
	assert.Error(t, err)
}

func TestInspect(t *testing.T) {
	full := registry.NewCatalog()
	full.MustRegister(registry.Metadata{TypeID: "Jump", Kind: registry.KindAbility, Defaults: map[string]any{"force": 5}})
	full.MustRegister(registry.Metadata{TypeID: "Teleport", Kind: registry.KindAbility})
	r := loadout.New(registry.KindAbility, full)
	_, err := r.Add("Teleport")
	require.NoError(t, err)
	_, err = r.Add("Jump")
	require.NoError(t, err)
	blob, err := r.Serialize()
	require.NoError(t, err)

	catalogPath := writeFile(t, "variants.yaml", []byte(testCatalogYAML))

	out, errOut, err := run(t, blob, "inspect", "--catalog", catalogPath, "--kind", "ability", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "type: Jump")
	assert.NotContains(t, out, "Teleport")
	assert.Contains(t, errOut, "dropped entry 0 (Teleport)")

	raw, _, err := run(t, blob, "inspect", "-")
	require.NoError(t, err)
	assert.Contains(t, raw, "type: Teleport")

	_, _, err = run(t, []byte("junk"), "inspect", "-")
	assert.Error(t, err)
}
