package catalog

import (
	"encoding/json"
	"math"

	"mit.edu/dsg/planopt/common"
)

// EncodeValue returns the JSON form of v: nil for NULL, an int64 or a string otherwise.
func EncodeValue(v common.Value) any {
	if v.IsNull() {
		return nil
	}
	switch v.Type() {
	case common.IntType:
		return v.IntValue()
	case common.StringType:
		return v.StringValue()
	}
	return nil
}

// DecodeValue converts a decoded JSON (or YAML) scalar into a value of type t. Numbers may arrive as
// json.Number, float64 or any Go integer type depending on the decoder.
func DecodeValue(t common.Type, raw any) (common.Value, error) {
	if raw == nil {
		return common.NewNull(t), nil
	}
	switch t {
	case common.IntType:
		switch n := raw.(type) {
		case json.Number:
			i, err := n.Int64()
			if err != nil {
				return common.Value{}, common.NewPlanError(common.InvalidPlanError, "%s is not an int", n)
			}
			return common.NewIntValue(i), nil
		case float64:
			if n != math.Trunc(n) || math.IsInf(n, 0) {
				return common.Value{}, common.NewPlanError(common.InvalidPlanError, "%v is not an int", n)
			}
			return common.NewIntValue(int64(n)), nil
		case int:
			return common.NewIntValue(int64(n)), nil
		case int64:
			return common.NewIntValue(n), nil
		}
	case common.StringType:
		if s, ok := raw.(string); ok {
			return common.NewStringValue(s), nil
		}
	}
	return common.Value{}, common.NewPlanError(common.InvalidPlanError, "%v (%T) is not a valid %s", raw, raw, t)
}
