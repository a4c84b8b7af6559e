/*
Package registry holds the variant catalog and the key patterns for persisted records.

Variant Catalog:
A Catalog maps a string type id to the metadata of one variant type: its kind,
default field values, required companion capabilities, display hints, and any
former ids (aliases) it was known by. Loadouts resolve every type id through it,
both when a variant is added and when a serialized loadout is decoded.

	catalog := registry.NewCatalog()
	catalog.MustRegister(registry.Metadata{
	    TypeID:     "Jump",
	    Kind:       registry.KindAbility,
	    Aliases:    []string{"JumpAbility"},
	    Companions: []string{"Rigidbody"},
	    Defaults:   registry.MustDefaultsFrom(Jump{Force: 5}),
	})
	catalog.Seal()

Catalogs can also be loaded from YAML with LoadYAML or LoadCatalogFile.

Index Map Registry:
Associates record types with DynamoDB key patterns:

	registry.RegisterIndexMap[storagemodels.LoadoutRecord](map[string]string{
	    "PK": "HOST#{HostID}",
	    "SK": "LOADOUT#{Kind}",
	})

Catalog lookups are safe for concurrent use. A catalog should be fully
populated and sealed during initialization.
*/
package registry
