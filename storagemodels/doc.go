/*
Package storagemodels defines the data structures shared by the codecs, the
loadout registry and the datastores.

Key Types:

Fields:
The field values of one variant entry. Only canonical values are stored
(nil, bool, float64, string, []any, map[string]any), so an entry and its
decoded copy compare equal:

	f, err := storagemodels.Normalize(map[string]any{"force": 5, "tags": []string{"air"}})
	// f["force"] == 5.0, f["tags"] == []any{"air"}

Snapshot and Decoded:
The portable form of a loadout that codecs encode, and the result of decoding
one, listing the entries that had to be skipped.

LoadoutRecord:
The persisted form of one host loadout, stored by the datastores:

	rec := storagemodels.LoadoutRecord{HostID: "player-1", HostKind: "character", Kind: "ability", Blob: blob, Version: 1}
	rec.Touch(time.Now())

QueryParams:
Parameters for querying the datastore:

	params := &QueryParams{
	    KeyConditionExpression: "PK = :pk",
	    ExpressionAttributeValues: map[string]types.AttributeValue{
	        ":pk": &types.AttributeValueMemberS{Value: "HOST#player-1"},
	    },
	    IndexName: aws.String("GSI1"),
	    Limit:     aws.Int32(100),
	}
*/
package storagemodels
