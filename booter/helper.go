package booter

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/zclconf/go-cty/cty"
)

func Int64FromCty(value cty.Value) (int64, error) {
	switch value.Type() {
	case cty.Number:
		l, acc := value.AsBigFloat().Int64()
		if acc != big.Exact {
			return 0, fmt.Errorf("%s is not an integer", value.AsBigFloat().String())
		}
		return l, nil
	case cty.String:
		l, err := strconv.ParseInt(strings.TrimSpace(value.AsString()), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("value is not a number-compatible, %q", value.AsString())
		}
		return l, nil
	default:
		return 0, fmt.Errorf("value is not a number, %s", value.Type().FriendlyName())
	}
}

func IntFromCty(value cty.Value) (int, error) {
	l, err := Int64FromCty(value)
	return int(l), err
}

func Float64FromCty(value cty.Value) (float64, error) {
	switch value.Type() {
	case cty.Number:
		f, _ := value.AsBigFloat().Float64()
		return f, nil
	case cty.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(value.AsString()), 64)
		if err != nil {
			return 0, fmt.Errorf("value is not a number-compatible, %q", value.AsString())
		}
		return f, nil
	default:
		return 0, fmt.Errorf("value is not a number, %s", value.Type().FriendlyName())
	}
}

// DurationFromCty accepts a number of nanoseconds or a duration string
// like "500ms", "10s", "2h".
func DurationFromCty(value cty.Value) (time.Duration, error) {
	switch value.Type() {
	case cty.Number:
		l, err := Int64FromCty(value)
		return time.Duration(l), err
	case cty.String:
		d, err := time.ParseDuration(strings.TrimSpace(value.AsString()))
		if err != nil {
			return 0, fmt.Errorf("value is not a duration, %q", value.AsString())
		}
		return d, nil
	default:
		return 0, fmt.Errorf("value is not a duration, %s", value.Type().FriendlyName())
	}
}

func PriorityFromCty(value cty.Value) int {
	if value.Type() == cty.Number {
		l, _ := value.AsBigFloat().Int64()
		return int(l)
	}
	return 999
}

func BoolFromCty(value cty.Value) (bool, error) {
	switch value.Type() {
	case cty.Bool:
		return value.True(), nil
	case cty.String:
		s := value.AsString()
		switch strings.ToLower(s) {
		case "true", "t", "yes", "y", "on":
			return true, nil
		case "false", "f", "no", "n", "off":
			return false, nil
		default:
			return false, fmt.Errorf("%s is not bool compatible", s)
		}
	default:
		return false, fmt.Errorf("value is not a bool, %s", value.Type().FriendlyName())
	}
}

func StringFromCty(value cty.Value) string {
	if value.Type() != cty.String || value.IsNull() {
		return value.GoString()
	}
	return value.AsString()
}
