/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/suparena/variantstore/errors"
	"github.com/suparena/variantstore/registry"
	"github.com/suparena/variantstore/storagemodels"
)

var macroPattern = regexp.MustCompile(`{([^}]+)}`)

// ExpandKeys fills the templates of indexMap from the fields of input.
// A template whose macros cannot all be filled with non-empty values is
// left out of the result.
func ExpandKeys(indexMap map[string]string, input any) (map[string]string, error) {
	av, err := attributevalue.MarshalMap(input)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal key input: %w", err)
	}

	res := make(map[string]string, len(indexMap))
	for name, template := range indexMap {
		complete := true
		expanded := macroPattern.ReplaceAllStringFunc(template, func(macro string) string {
			s := attributeString(av[strings.Trim(macro, "{}")])
			if s == "" {
				complete = false
			}
			return s
		})
		if complete {
			res[name] = expanded
		}
	}
	return res, nil
}

// PrimaryKey expands the PK and SK templates of indexMap from input.
func PrimaryKey(indexMap map[string]string, input any) (pk, sk string, err error) {
	expanded, err := ExpandKeys(indexMap, input)
	if err != nil {
		return "", "", err
	}
	pk, sk = expanded["PK"], expanded["SK"]
	if pk == "" || sk == "" {
		return "", "", errors.NewValidationError("key", fmt.Sprintf("cannot build PK and SK from %T", input))
	}
	return pk, sk, nil
}

// PartitionQuery builds query parameters that select every record of type T
// sharing the partition key derived from input.
func PartitionQuery[T any](input any) (*storagemodels.QueryParams, error) {
	indexMap, ok := registry.GetIndexMap[T]()
	if !ok {
		return nil, errors.ErrNoIndexMap
	}
	expanded, err := ExpandKeys(indexMap, input)
	if err != nil {
		return nil, err
	}
	pk, ok := expanded["PK"]
	if !ok {
		return nil, errors.NewValidationError("PK", fmt.Sprintf("cannot build partition key from %T", input))
	}
	return &storagemodels.QueryParams{
		KeyConditionExpression: "PK = :pk",
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: pk},
		},
	}, nil
}

// attributeString renders scalar attribute values for key templates.
func attributeString(val types.AttributeValue) string {
	switch tv := val.(type) {
	case *types.AttributeValueMemberS:
		return tv.Value
	case *types.AttributeValueMemberN:
		return tv.Value
	case *types.AttributeValueMemberBOOL:
		return fmt.Sprintf("%v", tv.Value)
	default:
		// NULL, binary and set values cannot be part of a key.
		return ""
	}
}
