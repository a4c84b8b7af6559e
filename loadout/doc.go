/*
Package loadout implements the ordered variant list a host owns: its
abilities, item actions, view types or movement types.

Each entry is an instance of a variant type from a registry.Catalog, stored as
its type id plus a map of field values. Entries keep contiguous positions, can
be inserted, removed and moved, and carry named pointers ("default", "active")
that follow the entry they reference:

	abilities := loadout.New(registry.KindAbility, catalog, loadout.WithHost(host))
	jump, err := abilities.Add("Jump")
	_ = abilities.SetPointer("default", jump.Ordinal())
	_ = abilities.Move(0, 2)

	blob, _ := abilities.Serialize()
	restored, report, err := loadout.Deserialize(blob, registry.KindAbility, catalog)

Loading tolerates entries whose type was removed from the catalog: they are
dropped and listed in the Report instead of failing the whole loadout.

Index errors are returned as errors.IndexOutOfRangeError; positions are never
clamped.
*/
package loadout
