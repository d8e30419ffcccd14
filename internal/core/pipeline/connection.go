// Package pipeline provides connection definitions
package pipeline

import "fmt"

// Connection is a directed link from one node's output port to another
// node's input port. A given (target node, target port) pair appears in at
// most one connection.
type Connection struct {
	SourceID   string `json:"source_id"`
	SourcePort string `json:"source_port"`
	TargetID   string `json:"target_id"`
	TargetPort string `json:"target_port"`
}

// Validate ensures connection integrity independent of any graph.
func (c *Connection) Validate() error {
	if c.SourceID == "" || c.TargetID == "" {
		return ErrInvalidConnection
	}
	if c.SourcePort == "" || c.TargetPort == "" {
		return ErrInvalidConnection
	}
	if c.SourceID == c.TargetID {
		return ErrSelfLoop
	}
	return nil
}

func (c *Connection) String() string {
	return fmt.Sprintf("%s[%s] -> %s[%s]", c.SourceID, c.SourcePort, c.TargetID, c.TargetPort)
}

func (c *Connection) equal(o *Connection) bool {
	return c.SourceID == o.SourceID && c.SourcePort == o.SourcePort &&
		c.TargetID == o.TargetID && c.TargetPort == o.TargetPort
}
