// Package operator provides port definitions
package operator

// PortDirection distinguishes consuming from producing ports.
type PortDirection string

const (
	// PortInput consumes a value from an upstream connection.
	PortInput PortDirection = "input"
	// PortOutput produces a value for downstream connections.
	PortOutput PortDirection = "output"
)

// PortSpec declares a named attachment point on an operator descriptor.
// Port names are the addressing unit for connections; payload typing is the
// caller's responsibility.
type PortSpec struct {
	Name      string        `json:"name"`
	Direction PortDirection `json:"direction"`
}

// Validate ensures port integrity.
func (p *PortSpec) Validate() error {
	if p.Name == "" {
		return ErrInvalidPortName
	}
	if p.Direction != PortInput && p.Direction != PortOutput {
		return ErrInvalidPortDirection
	}
	return nil
}

// InputPorts is a helper to declare an ordered input port list by name.
func InputPorts(names ...string) []PortSpec {
	return ports(PortInput, names)
}

// OutputPorts is a helper to declare an ordered output port list by name.
func OutputPorts(names ...string) []PortSpec {
	return ports(PortOutput, names)
}

func ports(dir PortDirection, names []string) []PortSpec {
	out := make([]PortSpec, 0, len(names))
	for _, n := range names {
		out = append(out, PortSpec{Name: n, Direction: dir})
	}
	return out
}
