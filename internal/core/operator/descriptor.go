// Package operator provides descriptor definitions
package operator

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// ProcessFunc is the opaque processing function an operator kind registers.
// It receives resolved input values keyed by input port name and returns
// output values keyed by output port name. Parameter values are read from
// the instance.
type ProcessFunc func(ctx context.Context, inst *Instance, inputs map[string]any) (map[string]any, error)

// Descriptor declares the parameter and port schema for one operator kind.
// Immutable once registered; instances hold a shared reference.
// PRINCIPLES:
// - KISS: Stateless template, no graph knowledge
// - SRP: Only responsible for declaring shape and delegating processing
type Descriptor struct {
	KindID      string          `json:"kind_id"`
	Name        string          `json:"name"`
	Parameters  []ParameterSpec `json:"parameters,omitempty"`
	Inputs      []PortSpec      `json:"inputs,omitempty"`
	Outputs     []PortSpec      `json:"outputs,omitempty"`
	Description string          `json:"description,omitempty"`
	Process     ProcessFunc     `json:"-"`
}

// Validate ensures descriptor integrity: unique parameter names, unique port
// names per direction, correct port directions, and a processing function.
func (d *Descriptor) Validate() error {
	if d.KindID == "" {
		return ErrInvalidKindID
	}
	if d.Process == nil {
		return fmt.Errorf("%w: kind %q", ErrNilProcessFunc, d.KindID)
	}
	seen := make(map[string]struct{}, len(d.Parameters))
	for i := range d.Parameters {
		p := &d.Parameters[i]
		if err := p.Validate(); err != nil {
			return err
		}
		if _, dup := seen[p.Name]; dup {
			return fmt.Errorf("%w: parameter %q on kind %q", ErrDuplicateParameter, p.Name, d.KindID)
		}
		seen[p.Name] = struct{}{}
	}
	if err := validatePorts(d.Inputs, PortInput, d.KindID); err != nil {
		return err
	}
	return validatePorts(d.Outputs, PortOutput, d.KindID)
}

func validatePorts(specs []PortSpec, dir PortDirection, kind string) error {
	seen := make(map[string]struct{}, len(specs))
	for i := range specs {
		p := &specs[i]
		if err := p.Validate(); err != nil {
			return err
		}
		if p.Direction != dir {
			return fmt.Errorf("%w: port %q on kind %q", ErrInvalidPortDirection, p.Name, kind)
		}
		if _, dup := seen[p.Name]; dup {
			return fmt.Errorf("%w: port %q on kind %q", ErrDuplicatePort, p.Name, kind)
		}
		seen[p.Name] = struct{}{}
	}
	return nil
}

// ParameterSpec returns the declared spec for a parameter name.
func (d *Descriptor) ParameterSpec(name string) (*ParameterSpec, bool) {
	for i := range d.Parameters {
		if d.Parameters[i].Name == name {
			return &d.Parameters[i], true
		}
	}
	return nil, false
}

// InputPort reports whether an input port with the given name is declared.
func (d *Descriptor) InputPort(name string) bool {
	return hasPort(d.Inputs, name)
}

// OutputPort reports whether an output port with the given name is declared.
func (d *Descriptor) OutputPort(name string) bool {
	return hasPort(d.Outputs, name)
}

func hasPort(specs []PortSpec, name string) bool {
	for i := range specs {
		if specs[i].Name == name {
			return true
		}
	}
	return false
}

// Shape returns a canonical description of the descriptor's externally
// visible schema. Two descriptors with equal shapes are interchangeable for
// graphs built against either, which is what registry reloads compare.
func (d *Descriptor) Shape() string {
	var b strings.Builder
	b.WriteString(d.KindID)
	params := make([]string, 0, len(d.Parameters))
	for i := range d.Parameters {
		p := &d.Parameters[i]
		params = append(params, fmt.Sprintf("%s:%s:%v:%v:%v:%v", p.Name, p.Kind, p.Default, ptrStr(p.Min), ptrStr(p.Max), p.Choices))
	}
	sort.Strings(params)
	b.WriteString("|params=")
	b.WriteString(strings.Join(params, ";"))
	b.WriteString("|in=")
	for i := range d.Inputs {
		b.WriteString(d.Inputs[i].Name)
		b.WriteByte(',')
	}
	b.WriteString("|out=")
	for i := range d.Outputs {
		b.WriteString(d.Outputs[i].Name)
		b.WriteByte(',')
	}
	return b.String()
}

func ptrStr(f *float64) string {
	if f == nil {
		return "nil"
	}
	return fmt.Sprintf("%v", *f)
}
