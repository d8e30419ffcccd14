// Package operator provides the core operator domain entities
// following Clean Architecture principles with zero external dependencies.
package operator

import (
	"fmt"
	"math"
)

// ParamKind enumerates the value kinds a parameter may hold.
type ParamKind string

const (
	// ParamInteger is a whole-number parameter.
	ParamInteger ParamKind = "integer"
	// ParamFloat is a floating-point parameter.
	ParamFloat ParamKind = "float"
	// ParamBoolean is a true/false parameter.
	ParamBoolean ParamKind = "boolean"
	// ParamText is a string parameter, optionally restricted to choices.
	ParamText ParamKind = "text"
)

// ParameterSpec declares one typed parameter on an operator descriptor.
// PRINCIPLES:
// - KISS: Plain value schema, no widget or UI concerns
// - SRP: Only responsible for declaring and checking one parameter
type ParameterSpec struct {
	Name        string    `json:"name"`
	Kind        ParamKind `json:"kind"`
	Default     any       `json:"default"`
	Min         *float64  `json:"min,omitempty"`
	Max         *float64  `json:"max,omitempty"`
	Choices     []string  `json:"choices,omitempty"`
	Description string    `json:"description,omitempty"`
}

// Validate ensures the spec itself is well formed.
func (p *ParameterSpec) Validate() error {
	if p.Name == "" {
		return ErrInvalidParameterName
	}
	switch p.Kind {
	case ParamInteger, ParamFloat, ParamBoolean, ParamText:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidParameterKind, p.Kind)
	}
	if p.Min != nil && p.Max != nil && *p.Min > *p.Max {
		return fmt.Errorf("%w: parameter %q has min %v > max %v", ErrInvalidBounds, p.Name, *p.Min, *p.Max)
	}
	if len(p.Choices) > 0 && p.Kind != ParamText {
		return fmt.Errorf("%w: parameter %q declares choices but is not text", ErrInvalidParameterKind, p.Name)
	}
	if p.Default != nil {
		if _, err := p.CheckValue(p.Default); err != nil {
			return fmt.Errorf("default for parameter %q: %w", p.Name, err)
		}
	}
	return nil
}

// CheckValue verifies a candidate value against the spec's kind and bounds
// and returns the normalized value. The stored representation is int for
// integer specs, float64 for float specs, bool and string otherwise.
func (p *ParameterSpec) CheckValue(value any) (any, error) {
	switch p.Kind {
	case ParamInteger:
		n, ok := asInt(value)
		if !ok {
			return nil, fmt.Errorf("%w: parameter %q expects integer, got %T", ErrTypeMismatch, p.Name, value)
		}
		if err := p.checkBounds(float64(n)); err != nil {
			return nil, err
		}
		return n, nil
	case ParamFloat:
		f, ok := asFloat(value)
		if !ok {
			return nil, fmt.Errorf("%w: parameter %q expects float, got %T", ErrTypeMismatch, p.Name, value)
		}
		if err := p.checkBounds(f); err != nil {
			return nil, err
		}
		return f, nil
	case ParamBoolean:
		b, ok := value.(bool)
		if !ok {
			return nil, fmt.Errorf("%w: parameter %q expects boolean, got %T", ErrTypeMismatch, p.Name, value)
		}
		return b, nil
	case ParamText:
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("%w: parameter %q expects text, got %T", ErrTypeMismatch, p.Name, value)
		}
		if len(p.Choices) > 0 && !contains(p.Choices, s) {
			return nil, fmt.Errorf("%w: parameter %q value %q not in choices %v", ErrOutOfRange, p.Name, s, p.Choices)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidParameterKind, p.Kind)
	}
}

func (p *ParameterSpec) checkBounds(v float64) error {
	if p.Min != nil && v < *p.Min {
		return fmt.Errorf("%w: parameter %q value %v below min %v", ErrOutOfRange, p.Name, v, *p.Min)
	}
	if p.Max != nil && v > *p.Max {
		return fmt.Errorf("%w: parameter %q value %v above max %v", ErrOutOfRange, p.Name, v, *p.Max)
	}
	return nil
}

// asInt accepts the integer representations that survive JSON and msgpack
// round trips. Floats are accepted only when they carry a whole value.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int8:
		return int(n), true
	case int16:
		return int(n), true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case uint8:
		return int(n), true
	case uint16:
		return int(n), true
	case uint32:
		return int(n), true
	case float64:
		if n == math.Trunc(n) {
			return int(n), true
		}
		return 0, false
	case float32:
		if float64(n) == math.Trunc(float64(n)) {
			return int(n), true
		}
		return 0, false
	default:
		return 0, false
	}
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func contains(list []string, s string) bool {
	for _, c := range list {
		if c == s {
			return true
		}
	}
	return false
}

// Bound is a convenience for building *float64 min/max values inline.
func Bound(v float64) *float64 {
	return &v
}
