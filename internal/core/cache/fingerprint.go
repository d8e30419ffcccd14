// Package cache provides per-node result memoization keyed by dependency
// fingerprints.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/venjye/LocalCVTools/internal/core/operator"
)

// Fingerprint is an opaque digest of a node's effective configuration: its
// kind, its parameter values, and the fingerprints of everything it
// transitively depends on. Upstream changes therefore propagate forward at
// the cost of one digest per node per pass, without re-hashing payloads.
type Fingerprint string

// fingerprintPayload is the canonical form that gets digested. Parameters
// are sorted by name; upstream references follow declared input port order.
type fingerprintPayload struct {
	KindID   string                `msgpack:"kind_id"`
	Params   []operator.ParamValue `msgpack:"params"`
	Upstream []upstreamRef         `msgpack:"upstream"`
}

type upstreamRef struct {
	Port        string `msgpack:"port"`
	SourcePort  string `msgpack:"source_port"`
	Fingerprint string `msgpack:"fingerprint"`
}

// Upstream describes the producing side of one input connection: which
// output port on the source node feeds it, and that node's fingerprint.
// Both participate in the digest, so rewiring an input to a different
// output of the same source changes the downstream fingerprint.
type Upstream struct {
	SourcePort  string
	Fingerprint Fingerprint
}

// Compute digests a node given its connected inputs, keyed by input port
// name. Unconnected ports contribute an empty reference so that connecting
// one later changes the digest.
func Compute(n *operator.Instance, upstream map[string]Upstream) (Fingerprint, error) {
	payload := fingerprintPayload{
		KindID: n.KindID,
		Params: n.SortedParams(),
	}
	for i := range n.Descriptor.Inputs {
		port := n.Descriptor.Inputs[i].Name
		up := upstream[port]
		payload.Upstream = append(payload.Upstream, upstreamRef{
			Port:        port,
			SourcePort:  up.SourcePort,
			Fingerprint: string(up.Fingerprint),
		})
	}
	raw, err := msgpack.Marshal(&payload)
	if err != nil {
		return "", fmt.Errorf("fingerprint encoding failed for node %s: %w", n.ID, err)
	}
	sum := sha256.Sum256(raw)
	return Fingerprint(hex.EncodeToString(sum[:])), nil
}
