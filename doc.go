/*
Package variantstore keeps ordered, polymorphic lists of behavior variants
(abilities, item actions, view types, movement types) attached to hosts, and
persists them as compact binary blobs.

The building blocks live in sub-packages:
  - registry: the variant Catalog (type metadata, aliases, defaults, companions)
  - loadout: the ordered Registry of entries with pointers and change callbacks
  - codec: the binary blob format and a YAML rendering of the same snapshot
  - datastore: persistence of blobs as LoadoutRecord items (DynamoDB or in-memory)

This package ties them together. A Host owns one loadout per kind, provides
the companion capabilities variants require, and saves or loads its loadouts
through a datastore. Hosts is a set of hosts keyed by id.

Basic Usage:

	catalog, _ := registry.LoadCatalogFile("variants.yaml")
	store, _ := ddb.NewDynamodbDataStore[storagemodels.LoadoutRecord](ctx, key, secret, region, table)

	host, _ := variantstore.NewHost("player-1", "character", catalog, variantstore.WithStore(store))
	abilities, _ := host.Loadout(registry.KindAbility)
	jump, _ := abilities.Add("Jump")
	_ = abilities.SetField(jump.ID(), "force", 7)
	_ = abilities.SetPointer("default", jump.Ordinal())

	err := host.Save(ctx)
*/
package variantstore
