/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package variantstore

import (
	"github.com/suparena/variantstore/codec"
	"github.com/suparena/variantstore/registry"
	"github.com/suparena/variantstore/storagemodels"
)

const blobFormat = codec.Magic

// LoadoutIndexMap is the single-table key layout of LoadoutRecord.
// Every loadout of a host shares the host's partition; GSI1 groups hosts by kind.
var LoadoutIndexMap = map[string]string{
	"PK":     "HOST#{HostID}",
	"SK":     "LOADOUT#{Kind}",
	"GSI1PK": "HOSTKIND#{HostKind}",
	"GSI1SK": "HOST#{HostID}",
}

func init() {
	registry.RegisterIndexMap[storagemodels.LoadoutRecord](LoadoutIndexMap)
}
