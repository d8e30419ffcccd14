// Package operator provides live operator instances
package operator

import (
	"context"
	"fmt"
	"sort"
)

// Instance is a graph-resident operator: a descriptor binding plus concrete
// parameter values. Owned exclusively by its pipeline graph; it carries no
// graph knowledge of its own.
type Instance struct {
	ID         string         `json:"id"`
	Descriptor *Descriptor    `json:"-"`
	KindID     string         `json:"kind_id"`
	Params     map[string]any `json:"params"`
}

// NewInstance creates an instance with every parameter initialized to its
// declared default.
func NewInstance(id string, d *Descriptor) *Instance {
	params := make(map[string]any, len(d.Parameters))
	for i := range d.Parameters {
		params[d.Parameters[i].Name] = d.Parameters[i].Default
	}
	return &Instance{ID: id, Descriptor: d, KindID: d.KindID, Params: params}
}

// SetParameter assigns a parameter value after kind and bounds checks.
// On failure the previous value is left intact.
func (n *Instance) SetParameter(name string, value any) error {
	spec, ok := n.Descriptor.ParameterSpec(name)
	if !ok {
		return fmt.Errorf("%w: %q on node %s (kind %s)", ErrUnknownParameter, name, n.ID, n.KindID)
	}
	v, err := spec.CheckValue(value)
	if err != nil {
		return err
	}
	n.Params[name] = v
	return nil
}

// Parameter returns the current value for a declared parameter.
func (n *Instance) Parameter(name string) (any, error) {
	if _, ok := n.Descriptor.ParameterSpec(name); !ok {
		return nil, fmt.Errorf("%w: %q on node %s", ErrUnknownParameter, name, n.ID)
	}
	return n.Params[name], nil
}

// IntParam and friends are conveniences for process functions, which read
// their own declared parameters and can rely on SetParameter's normalization.

func (n *Instance) IntParam(name string) int {
	v, _ := n.Params[name].(int)
	return v
}

func (n *Instance) FloatParam(name string) float64 {
	v, _ := n.Params[name].(float64)
	return v
}

func (n *Instance) BoolParam(name string) bool {
	v, _ := n.Params[name].(bool)
	return v
}

func (n *Instance) TextParam(name string) string {
	v, _ := n.Params[name].(string)
	return v
}

// SortedParams returns parameter name/value pairs in ascending name order,
// the canonical form fingerprinting depends on.
func (n *Instance) SortedParams() []ParamValue {
	out := make([]ParamValue, 0, len(n.Params))
	for name, value := range n.Params {
		out = append(out, ParamValue{Name: name, Value: value})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ParamValue is one parameter assignment in canonical order.
type ParamValue struct {
	Name  string `json:"name" msgpack:"name"`
	Value any    `json:"value" msgpack:"value"`
}

// Process resolves the instance's processing function against supplied
// inputs. Every declared input port must have a value; operator-specific
// failures propagate unwrapped beyond node attribution.
func (n *Instance) Process(ctx context.Context, inputs map[string]any) (map[string]any, error) {
	for i := range n.Descriptor.Inputs {
		port := n.Descriptor.Inputs[i].Name
		if v, ok := inputs[port]; !ok || v == nil {
			return nil, fmt.Errorf("%w: port %q on node %s (kind %s)", ErrMissingInput, port, n.ID, n.KindID)
		}
	}
	out, err := n.Descriptor.Process(ctx, n, inputs)
	if err != nil {
		return nil, fmt.Errorf("operator %s (node %s): %w", n.KindID, n.ID, err)
	}
	return out, nil
}
