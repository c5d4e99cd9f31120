package models

import (
	"fmt"
	"math"
	"time"
)

// paramValue converts a field value into a type the store's query API accepts
// as a parameter. Unsupported values are an error, never dropped silently.
func paramValue(value any) (any, error) {
	switch v := value.(type) {
	case string, bool, int64, float64, time.Time:
		return v, nil
	case int:
		return int64(v), nil
	case uint64:
		if v > math.MaxInt64 {
			return nil, fmt.Errorf("value %d overflows the store's integer type", v)
		}
		return int64(v), nil
	default:
		return nil, fmt.Errorf("unsupported parameter type %T", value)
	}
}
